package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"yatube/db"
	"yatube/models"

	"gorm.io/gorm"
)

// GroupService - группы заводятся администраторами
type GroupService struct{}

func NewGroupService() *GroupService {
	return &GroupService{}
}

func (gs *GroupService) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := db.GetReadOnlyDB(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, notFound(err)
	}
	return &group, nil
}

// Exists - есть ли группа с таким id (для проверки формы поста)
func (gs *GroupService) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := db.GetReadOnlyDB(ctx).Model(&models.Group{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (gs *GroupService) List(ctx context.Context) ([]models.Group, error) {
	groups := []models.Group{}
	err := db.GetReadOnlyDB(ctx).Order("title ASC").Find(&groups).Error
	return groups, err
}

func (gs *GroupService) Create(ctx context.Context, group *models.Group) error {
	group.Title = strings.TrimSpace(group.Title)
	group.Slug = strings.TrimSpace(group.Slug)
	if group.Title == "" || group.Slug == "" {
		return errors.New("title and slug are required")
	}
	if err := db.GetWriteDB(ctx).Create(group).Error; err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// DeleteGroup удаляет группу; посты остаются без группы
func (gs *GroupService) DeleteGroup(ctx context.Context, id int64) error {
	return db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		return db.DeleteWithPolicies(tx, "groups", []int64{id})
	})
}
