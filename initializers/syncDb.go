package initializers

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kariqs/amexan-storefront/models"
)

func SyncDatabase(db *gorm.DB, log *zap.Logger) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(&models.CheckoutJournalEntry{}); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	log.Info("database synced successfully")
	return nil
}
