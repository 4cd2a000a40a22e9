package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
	"yatube/config"
	"yatube/db"
	"yatube/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func setupServicesDB(t *testing.T) {
	t.Helper()
	config.AppConfig = config.Defaults()
	db.ORM = nil
	require.NoError(t, db.ConnectSQLite(db.MemoryDSN(t.Name())))
	t.Cleanup(func() {
		_ = db.Close()
		config.AppConfig = nil
	})
}

func fakeUsername() string {
	return strings.ToLower(gofakeit.FirstName()) + "_" + gofakeit.Numerify("######")
}

func createUser(t *testing.T, username string) *models.User {
	t.Helper()
	if username == "" {
		username = fakeUsername()
	}
	user := &models.User{Username: username, FirstName: gofakeit.FirstName(), LastName: gofakeit.LastName()}
	require.NoError(t, db.ORM.Create(user).Error)
	return user
}

func createGroup(t *testing.T, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: gofakeit.Company(), Slug: slug, Description: gofakeit.Sentence(8)}
	require.NoError(t, db.ORM.Create(group).Error)
	return group
}

// createPosts создает n постов автора; i-й пост на i минут позже baseTime
func createPosts(t *testing.T, author *models.User, group *models.Group, n int) []models.Post {
	t.Helper()
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		post := models.Post{
			Text:     gofakeit.Sentence(6),
			AuthorID: &author.ID,
			PubDate:  baseTime.Add(time.Duration(i) * time.Minute),
		}
		if group != nil {
			post.GroupID = &group.ID
		}
		require.NoError(t, db.ORM.Omit("Author", "Group").Create(&post).Error)
		posts = append(posts, post)
	}
	return posts
}

func postIDs(posts []models.Post) []int64 {
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingPublisher) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

func recordEvents(t *testing.T) *recordingPublisher {
	rec := &recordingPublisher{}
	Events = rec
	t.Cleanup(func() { Events = NoopPublisher{} })
	return rec
}
