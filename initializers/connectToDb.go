package initializers

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectToDB opens the journal database. With an empty DSN DB stays nil and
// the storefront runs without a checkout journal.
func ConnectToDB(dsn string, log *zap.Logger) error {
	if dsn == "" {
		log.Info("DB_URL not set, checkout journal disabled")
		return nil
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	DB = db
	log.Info("connected to database")
	return nil
}
