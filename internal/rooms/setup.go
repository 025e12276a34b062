package rooms

import (
	"fmt"

	"gorm.io/gorm"
)

func Init(db *gorm.DB) error {
	if err := db.AutoMigrate(&Room{}); err != nil {
		return fmt.Errorf("failed to auto-migrate rooms table: %w", err)
	}
	return nil
}
