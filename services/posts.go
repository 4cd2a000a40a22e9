package services

import (
	"context"
	"errors"
	"fmt"
	"yatube/config"
	"yatube/db"
	"yatube/logs"
	"yatube/models"

	"gorm.io/gorm"
)

var postPreloads = []string{"Author", "Group"}

// PostInput - проверенные данные формы поста
type PostInput struct {
	Text    string
	GroupID *int64
	Image   *ImageUpload
}

type PostService struct{}

func NewPostService() *PostService {
	return &PostService{}
}

func settings() *config.ConfigSchema {
	if config.AppConfig != nil {
		return config.AppConfig
	}
	return config.Defaults()
}

// feedOrder - порядок ленты; id разрешает одинаковые pub_date
func feedOrder() string {
	if settings().Feed.Order == config.OrderNewestFirst {
		return "posts.pub_date DESC, posts.id DESC"
	}
	return "posts.pub_date ASC, posts.id ASC"
}

func (ps *PostService) feed(ctx context.Context, scope func(*gorm.DB) *gorm.DB, page string) (*Page[models.Post], error) {
	query := db.GetReadOnlyDB(ctx).Model(&models.Post{})
	if scope != nil {
		query = scope(query)
	}
	query = query.Order(feedOrder())
	return Paginate[models.Post](ctx, query, settings().Pagination.PostsPerPage, page, postPreloads...)
}

// GlobalFeed - все посты
func (ps *PostService) GlobalFeed(ctx context.Context, page string) (*Page[models.Post], error) {
	return ps.feed(ctx, nil, page)
}

// GroupFeed - посты группы по slug
func (ps *PostService) GroupFeed(ctx context.Context, slug string, page string) (*models.Group, *Page[models.Post], error) {
	group, err := NewGroupService().GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	posts, err := ps.feed(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("posts.group_id = ?", group.ID)
	}, page)
	if err != nil {
		return nil, nil, err
	}
	return group, posts, nil
}

// ProfileFeed - посты автора по username; Count страницы - общее число его постов
func (ps *PostService) ProfileFeed(ctx context.Context, username string, page string) (*models.User, *Page[models.Post], error) {
	author, err := NewUserService().GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	posts, err := ps.feed(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("posts.author_id = ?", author.ID)
	}, page)
	if err != nil {
		return nil, nil, err
	}
	return author, posts, nil
}

// FollowFeed - посты авторов, на которых подписан userID
func (ps *PostService) FollowFeed(ctx context.Context, userID int64, page string) (*Page[models.Post], error) {
	return ps.feed(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Joins("JOIN follows ON follows.author_id = posts.author_id").
			Where("follows.user_id = ?", userID)
	}, page)
}

// GetPost возвращает пост с автором и группой
func (ps *PostService) GetPost(ctx context.Context, postID int64) (*models.Post, error) {
	var post models.Post
	query := db.GetReadOnlyDB(ctx)
	for _, name := range postPreloads {
		query = query.Preload(name)
	}
	if err := query.First(&post, postID).Error; err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

// Comments - комментарии поста в порядке создания
func (ps *PostService) Comments(ctx context.Context, postID int64) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := db.GetReadOnlyDB(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	return comments, nil
}

// CreatePost создает пост от имени authorID. Картинка сохраняется до вставки
// и удаляется, если вставка не удалась.
func (ps *PostService) CreatePost(ctx context.Context, authorID int64, input PostInput) (*models.Post, error) {
	post := &models.Post{
		Text:     input.Text,
		AuthorID: &authorID,
		GroupID:  input.GroupID,
	}

	if input.Image != nil {
		ref, err := saveImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		post.Image = ref
	}

	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Author", "Group").Create(post).Error
	})
	if err != nil {
		discardImage(ctx, post.Image)
		logs.Error("Failed to create post", map[string]interface{}{"userID": authorID, "error": err})
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	publishEvent(ctx, Event{Type: EventPostCreated, UserID: authorID, PostID: post.ID, Text: post.Text, CreatedAt: post.PubDate})
	return post, nil
}

// UpdatePost меняет текст, группу и (если передана) картинку поста.
// Не-автор получает ErrNotAuthor, пост при этом не меняется.
func (ps *PostService) UpdatePost(ctx context.Context, postID, actorID int64, input PostInput) (*models.Post, error) {
	var post models.Post
	if err := db.GetReadOnlyDB(ctx).First(&post, postID).Error; err != nil {
		return nil, notFound(err)
	}
	if !post.IsAuthoredBy(actorID) {
		return nil, ErrNotAuthor
	}

	oldImage := post.Image
	newImage := ""
	if input.Image != nil {
		ref, err := saveImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		newImage = ref
	}

	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"text":     input.Text,
			"group_id": input.GroupID,
		}
		if newImage != "" {
			updates["image"] = newImage
		}
		// Автор в условии: пост мог сменить владельца между чтением и записью
		res := tx.Model(&models.Post{}).
			Where("id = ? AND author_id = ?", postID, actorID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotAuthor
		}
		return nil
	})
	if err != nil {
		discardImage(ctx, newImage)
		if errors.Is(err, ErrNotAuthor) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if newImage != "" {
		discardImage(ctx, oldImage)
	}

	publishEvent(ctx, Event{Type: EventPostUpdated, UserID: actorID, PostID: postID, Text: input.Text})
	return ps.GetPost(ctx, postID)
}

// DeletePost удаляет пост автора вместе с комментариями
func (ps *PostService) DeletePost(ctx context.Context, actorID, postID int64) error {
	var post models.Post
	if err := db.GetReadOnlyDB(ctx).First(&post, postID).Error; err != nil {
		return notFound(err)
	}
	if !post.IsAuthoredBy(actorID) {
		return ErrNotAuthor
	}

	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		return db.DeleteWithPolicies(tx, "posts", []int64{postID})
	})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	discardImage(ctx, post.Image)
	publishEvent(ctx, Event{Type: EventPostDeleted, UserID: actorID, PostID: postID})
	return nil
}

// AddComment добавляет комментарий authorID к существующему посту
func (ps *PostService) AddComment(ctx context.Context, postID, authorID int64, text string) (*models.Comment, error) {
	comment := &models.Comment{PostID: postID, AuthorID: authorID, Text: text}
	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		return tx.Omit("Post", "Author").Create(comment).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	publishEvent(ctx, Event{Type: EventCommentCreated, UserID: authorID, PostID: postID, Text: text, CreatedAt: comment.Created})
	return comment, nil
}
