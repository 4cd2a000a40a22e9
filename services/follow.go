package services

import (
	"context"
	"fmt"
	"yatube/db"
	"yatube/logs"
	"yatube/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowService - подписки читателей на авторов
type FollowService struct{}

func NewFollowService() *FollowService {
	return &FollowService{}
}

// Follow подписывает userID на автора. Повторная подписка ничего не меняет.
func (fs *FollowService) Follow(ctx context.Context, userID, authorID int64) error {
	if userID <= 0 || authorID <= 0 {
		return fmt.Errorf("invalid user ID")
	}
	if userID == authorID {
		return ErrSelfFollow
	}

	var created int64
	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Omit("User", "Author").
			Create(&models.Follow{UserID: userID, AuthorID: authorID})
		created = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}

	if created > 0 {
		logs.Info("Followed user", map[string]interface{}{"userID": userID, "authorID": authorID})
		publishEvent(ctx, Event{Type: EventFollowed, UserID: userID, AuthorID: authorID})
	}
	return nil
}

// Unfollow удаляет подписку; если ее не было - ничего не делает
func (fs *FollowService) Unfollow(ctx context.Context, userID, authorID int64) error {
	var deleted int64
	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&models.Follow{})
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}

	if deleted > 0 {
		logs.Info("User unfollow", map[string]interface{}{"userID": userID, "authorID": authorID})
		publishEvent(ctx, Event{Type: EventUnfollowed, UserID: userID, AuthorID: authorID})
	}
	return nil
}

// Counts - число подписчиков и подписок пользователя
func (fs *FollowService) Counts(ctx context.Context, userID int64) (followers, following int64, err error) {
	err = db.GetReadOnlyDB(ctx).Model(&models.Follow{}).Where("author_id = ?", userID).Count(&followers).Error
	if err != nil {
		return 0, 0, err
	}
	err = db.GetReadOnlyDB(ctx).Model(&models.Follow{}).Where("user_id = ?", userID).Count(&following).Error
	return followers, following, err
}
