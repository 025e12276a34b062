package images

import (
	"fmt"

	"gorm.io/gorm"
)

func Init(db *gorm.DB) error {
	if err := db.AutoMigrate(&Image{}); err != nil {
		return fmt.Errorf("failed to auto-migrate images table: %w", err)
	}
	return nil
}
