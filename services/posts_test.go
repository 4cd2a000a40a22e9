package services

import (
	"context"
	"testing"
	"yatube/config"
	"yatube/db"
	"yatube/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reversed(ids []int64) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

func TestGlobalFeedOldestFirst(t *testing.T) {
	setupServicesDB(t)
	author := createUser(t, "")
	posts := createPosts(t, author, nil, 13)

	ps := NewPostService()
	first, err := ps.GlobalFeed(context.Background(), "")
	require.NoError(t, err)
	second, err := ps.GlobalFeed(context.Background(), "2")
	require.NoError(t, err)

	assert.Len(t, first.ObjectList, 10)
	assert.Len(t, second.ObjectList, 3)
	got := append(postIDs(first.ObjectList), postIDs(second.ObjectList)...)
	assert.Equal(t, postIDs(posts), got)
}

func TestGlobalFeedNewestFirst(t *testing.T) {
	setupServicesDB(t)
	config.AppConfig.Feed.Order = config.OrderNewestFirst
	author := createUser(t, "")
	posts := createPosts(t, author, nil, 3)

	page, err := NewPostService().GlobalFeed(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, reversed(postIDs(posts)), postIDs(page.ObjectList))
}

func TestGroupFeed(t *testing.T) {
	setupServicesDB(t)
	author := createUser(t, "")
	cats := createGroup(t, "cats")
	dogs := createGroup(t, "dogs")
	catPosts := createPosts(t, author, cats, 2)
	createPosts(t, author, dogs, 3)
	createPosts(t, author, nil, 1)

	group, page, err := NewPostService().GroupFeed(context.Background(), "cats", "")
	require.NoError(t, err)
	assert.Equal(t, cats.ID, group.ID)
	assert.Equal(t, postIDs(catPosts), postIDs(page.ObjectList))
	for _, p := range page.ObjectList {
		require.NotNil(t, p.Group)
		assert.Equal(t, "cats", p.Group.Slug)
	}

	_, _, err = NewPostService().GroupFeed(context.Background(), "unknown", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileFeed(t *testing.T) {
	setupServicesDB(t)
	author := createUser(t, "author")
	other := createUser(t, "")
	createPosts(t, author, nil, 12)
	createPosts(t, other, nil, 4)

	user, page, err := NewPostService().ProfileFeed(context.Background(), "author", "")
	require.NoError(t, err)
	assert.Equal(t, author.ID, user.ID)
	assert.Equal(t, int64(12), page.Count)
	assert.Len(t, page.ObjectList, 10)
	for _, p := range page.ObjectList {
		assert.True(t, p.IsAuthoredBy(author.ID))
	}

	_, _, err = NewPostService().ProfileFeed(context.Background(), "nobody", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreatePost(t *testing.T) {
	setupServicesDB(t)
	rec := recordEvents(t)
	author := createUser(t, "")
	group := createGroup(t, "news")

	post, err := NewPostService().CreatePost(context.Background(), author.ID, PostInput{Text: "Тестовый пост", GroupID: &group.ID})
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
	assert.False(t, post.PubDate.IsZero())

	stored, err := NewPostService().GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Тестовый пост", stored.Text)
	require.NotNil(t, stored.Author)
	assert.Equal(t, author.Username, stored.Author.Username)
	require.NotNil(t, stored.Group)
	assert.Equal(t, "news", stored.Group.Slug)

	assert.Equal(t, []string{EventPostCreated}, rec.types())
}

func TestUpdatePostByAuthor(t *testing.T) {
	setupServicesDB(t)
	author := createUser(t, "")
	post := createPosts(t, author, nil, 1)[0]

	updated, err := NewPostService().UpdatePost(context.Background(), post.ID, author.ID, PostInput{Text: "Новый текст"})
	require.NoError(t, err)
	assert.Equal(t, "Новый текст", updated.Text)
	assert.True(t, post.PubDate.Equal(updated.PubDate))
}

func TestUpdatePostByOtherUserLeavesPostUnchanged(t *testing.T) {
	setupServicesDB(t)
	author := createUser(t, "")
	intruder := createUser(t, "")
	post := createPosts(t, author, nil, 1)[0]

	_, err := NewPostService().UpdatePost(context.Background(), post.ID, intruder.ID, PostInput{Text: "Взлом"})
	assert.ErrorIs(t, err, ErrNotAuthor)

	stored, err := NewPostService().GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Text, stored.Text)
}

func TestUpdateMissingPost(t *testing.T) {
	setupServicesDB(t)
	author := createUser(t, "")
	_, err := NewPostService().UpdatePost(context.Background(), 999, author.ID, PostInput{Text: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddCommentAndComments(t *testing.T) {
	setupServicesDB(t)
	rec := recordEvents(t)
	author := createUser(t, "")
	reader := createUser(t, "")
	post := createPosts(t, author, nil, 1)[0]

	ps := NewPostService()
	_, err := ps.AddComment(context.Background(), post.ID, reader.ID, "первый")
	require.NoError(t, err)
	_, err = ps.AddComment(context.Background(), post.ID, author.ID, "второй")
	require.NoError(t, err)

	comments, err := ps.Comments(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "первый", comments[0].Text)
	assert.Equal(t, reader.Username, comments[0].Author.Username)
	assert.Equal(t, "второй", comments[1].Text)

	_, err = ps.AddComment(context.Background(), 999, reader.ID, "в пустоту")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{EventCommentCreated, EventCommentCreated}, rec.types())
}

func TestDeletePostCascadesComments(t *testing.T) {
	setupServicesDB(t)
	author := createUser(t, "")
	reader := createUser(t, "")
	post := createPosts(t, author, nil, 1)[0]
	ps := NewPostService()
	_, err := ps.AddComment(context.Background(), post.ID, reader.ID, "комментарий")
	require.NoError(t, err)

	assert.ErrorIs(t, ps.DeletePost(context.Background(), reader.ID, post.ID), ErrNotAuthor)
	require.NoError(t, ps.DeletePost(context.Background(), author.ID, post.ID))

	var count int64
	db.ORM.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)
	_, err = ps.GetPost(context.Background(), post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreatePostWithImage(t *testing.T) {
	setupServicesDB(t)
	dir := t.TempDir()
	Images = NewLocalImageStore(dir, "/media/")
	t.Cleanup(func() { Images = nil })

	upload, err := NewImageUpload("small.png", pngBytes(t))
	require.NoError(t, err)

	author := createUser(t, "")
	post, err := NewPostService().CreatePost(context.Background(), author.ID, PostInput{Text: "с картинкой", Image: upload})
	require.NoError(t, err)
	assert.Regexp(t, `^/media/posts/[0-9a-f-]{36}\.png$`, post.Image)
}
