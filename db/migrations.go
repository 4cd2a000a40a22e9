package db

import (
	"fmt"
	"yatube/models"

	"gorm.io/gorm"
)

const (
	FollowSelfCheck   = "self_subscription_not_allowed"
	FollowUniqueIndex = "unique_users"
)

type migrationStep struct {
	Name  string
	Apply func(tx *gorm.DB) error
}

// Именованные шаги поверх AutoMigrate. Каждый применяется один раз
// и записывается в таблицу migration.
var migrationSteps = []migrationStep{
	{Name: "0001_follow_self_subscription_check", Apply: ensureFollowSelfCheck},
	{Name: "0002_follow_unique_users", Apply: ensureFollowUniqueIndex},
}

func RunMigrations(db *gorm.DB) error {
	for _, step := range migrationSteps {
		var applied []models.Migration
		res := db.Where("name = ?", step.Name).Limit(1).Find(&applied)
		if res.Error != nil {
			return fmt.Errorf("failed to check migration %s: %w", step.Name, res.Error)
		}
		if res.RowsAffected > 0 {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := step.Apply(tx); err != nil {
				return err
			}
			return tx.Create(&models.Migration{Name: step.Name}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", step.Name, err)
		}
	}
	return nil
}

// ensureFollowSelfCheck создает CHECK (user_id <> author_id), если AutoMigrate его не создал
func ensureFollowSelfCheck(tx *gorm.DB) error {
	m := tx.Migrator()
	if m.HasConstraint(&models.Follow{}, FollowSelfCheck) {
		return nil
	}
	return m.CreateConstraint(&models.Follow{}, FollowSelfCheck)
}

// ensureFollowUniqueIndex создает уникальный индекс (user_id, author_id)
func ensureFollowUniqueIndex(tx *gorm.DB) error {
	m := tx.Migrator()
	if m.HasIndex(&models.Follow{}, FollowUniqueIndex) {
		return nil
	}
	return m.CreateIndex(&models.Follow{}, FollowUniqueIndex)
}
