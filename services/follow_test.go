package services

import (
	"context"
	"testing"
	"yatube/db"
	"yatube/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func followCount(t *testing.T) int64 {
	var count int64
	require.NoError(t, db.ORM.Model(&models.Follow{}).Count(&count).Error)
	return count
}

func TestFollowIsIdempotent(t *testing.T) {
	setupServicesDB(t)
	rec := recordEvents(t)
	reader := createUser(t, "")
	author := createUser(t, "")
	fs := NewFollowService()

	require.NoError(t, fs.Follow(context.Background(), reader.ID, author.ID))
	require.NoError(t, fs.Follow(context.Background(), reader.ID, author.ID))

	assert.Equal(t, int64(1), followCount(t))
	followers, _, err := fs.Counts(context.Background(), author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)
	assert.Equal(t, []string{EventFollowed}, rec.types())
}

func TestFollowSelfRejected(t *testing.T) {
	setupServicesDB(t)
	user := createUser(t, "")

	err := NewFollowService().Follow(context.Background(), user.ID, user.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)
	assert.Zero(t, followCount(t))
}

func TestUnfollow(t *testing.T) {
	setupServicesDB(t)
	reader := createUser(t, "")
	author := createUser(t, "")
	fs := NewFollowService()

	// Отписка без подписки ничего не делает
	require.NoError(t, fs.Unfollow(context.Background(), reader.ID, author.ID))
	assert.Zero(t, followCount(t))

	require.NoError(t, fs.Follow(context.Background(), reader.ID, author.ID))
	require.NoError(t, fs.Unfollow(context.Background(), reader.ID, author.ID))
	assert.Zero(t, followCount(t))
}

func TestFollowCounts(t *testing.T) {
	setupServicesDB(t)
	author := createUser(t, "")
	fs := NewFollowService()
	for i := 0; i < 3; i++ {
		reader := createUser(t, "")
		require.NoError(t, fs.Follow(context.Background(), reader.ID, author.ID))
	}
	other := createUser(t, "")
	require.NoError(t, fs.Follow(context.Background(), author.ID, other.ID))

	followers, following, err := fs.Counts(context.Background(), author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), followers)
	assert.Equal(t, int64(1), following)
}

func TestFollowFeedVisibility(t *testing.T) {
	setupServicesDB(t)
	author := createUser(t, "")
	follower := createUser(t, "")
	stranger := createUser(t, "")
	posts := createPosts(t, author, nil, 2)
	createPosts(t, stranger, nil, 2)

	ps := NewPostService()
	fs := NewFollowService()
	require.NoError(t, fs.Follow(context.Background(), follower.ID, author.ID))

	page, err := ps.FollowFeed(context.Background(), follower.ID, "")
	require.NoError(t, err)
	assert.Equal(t, postIDs(posts), postIDs(page.ObjectList))

	// У неподписанного лента пуста
	page, err = ps.FollowFeed(context.Background(), stranger.ID, "")
	require.NoError(t, err)
	assert.Empty(t, page.ObjectList)

	// Новый пост автора появляется у подписчика
	fresh, err := ps.CreatePost(context.Background(), author.ID, PostInput{Text: "свежий"})
	require.NoError(t, err)
	page, err = ps.FollowFeed(context.Background(), follower.ID, "")
	require.NoError(t, err)
	assert.Contains(t, postIDs(page.ObjectList), fresh.ID)

	require.NoError(t, fs.Unfollow(context.Background(), follower.ID, author.ID))
	page, err = ps.FollowFeed(context.Background(), follower.ID, "")
	require.NoError(t, err)
	assert.Empty(t, page.ObjectList)
}

func TestFollowCountsQuery(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	dialector := postgres.New(postgres.Config{
		Conn:                 mockDB,
		DriverName:           "postgres",
		PreferSimpleProtocol: true,
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	originalDB := db.ORM
	db.ORM = gormDB
	defer func() { db.ORM = originalDB }()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "follows" WHERE author_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "follows" WHERE user_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	followers, following, err := NewFollowService().Counts(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(4), followers)
	assert.Equal(t, int64(2), following)
	assert.NoError(t, mock.ExpectationsWereMet())
}
