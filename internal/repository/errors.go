package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNoRowsAffected is returned when an update that must touch exactly one row touched none.
var ErrNoRowsAffected = errors.New("no rows affected")

func affectedOne(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("expected 1 row, got %d: %w", result.RowsAffected, ErrNoRowsAffected)
	}
	return nil
}
