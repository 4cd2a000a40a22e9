package db

import (
	"fmt"
	"yatube/models"

	"gorm.io/gorm"
)

// DeleteWithPolicies удаляет строки table с указанными id, предварительно
// применив политики models.Relations ко всем зависимым строкам.
// Вызывать внутри транзакции.
func DeleteWithPolicies(tx *gorm.DB, table string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	for _, rel := range models.RelationsTo(table) {
		if err := applyPolicy(tx, rel, ids); err != nil {
			return err
		}
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE id IN ?", tx.Statement.Quote(table))
	if err := tx.Exec(query, ids).Error; err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return nil
}

func applyPolicy(tx *gorm.DB, rel models.Relation, ids []int64) error {
	column := tx.Statement.Quote(rel.Column)
	switch rel.Policy {
	case models.SetNull:
		query := fmt.Sprintf("UPDATE %s SET %s = NULL WHERE %s IN ?", tx.Statement.Quote(rel.Table), column, column)
		if err := tx.Exec(query, ids).Error; err != nil {
			return fmt.Errorf("failed to nullify %s.%s: %w", rel.Table, rel.Column, err)
		}
		return nil
	case models.Cascade:
		var dependent []int64
		if err := tx.Table(rel.Table).Where(column+" IN ?", ids).Pluck("id", &dependent).Error; err != nil {
			return fmt.Errorf("failed to collect %s: %w", rel.Table, err)
		}
		return DeleteWithPolicies(tx, rel.Table, dependent)
	default:
		return fmt.Errorf("unknown delete policy %q for %s.%s", rel.Policy, rel.Table, rel.Column)
	}
}
