package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kariqs/amexan-storefront/errs"
	"github.com/Kariqs/amexan-storefront/models"
)

// Store persists checkout journal entries: orders that were placed while
// the cart behind them could not be cleared.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewStore(db *gorm.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log.Named("journal")}
}

func (s *Store) Record(ctx context.Context, entry *models.CheckoutJournalEntry) error {
	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("recording journal entry for order %s: %w", entry.OrderID, err)
	}
	s.log.Info("checkout journal entry recorded",
		zap.String("entry", entry.EntryID),
		zap.String("order", entry.OrderID),
		zap.String("user", entry.UserID))
	return nil
}

// Unresolved lists open entries, oldest first. An empty userID lists all users.
func (s *Store) Unresolved(ctx context.Context, userID string) ([]models.CheckoutJournalEntry, error) {
	query := s.db.WithContext(ctx).Where("resolved = ?", false)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var entries []models.CheckoutJournalEntry
	if err := query.Order("created_at asc").Order("id asc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("listing journal entries: %w", err)
	}
	return entries, nil
}

// Resolve marks an entry as handled. Resolving twice is harmless.
func (s *Store) Resolve(ctx context.Context, entryID string) (models.CheckoutJournalEntry, error) {
	var entry models.CheckoutJournalEntry
	err := s.db.WithContext(ctx).Where("entry_id = ?", entryID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CheckoutJournalEntry{}, errs.NotFound(fmt.Sprintf("journal entry %s not found", entryID))
		}
		return models.CheckoutJournalEntry{}, fmt.Errorf("loading journal entry %s: %w", entryID, err)
	}
	if entry.Resolved {
		return entry, nil
	}

	if err := s.db.WithContext(ctx).Model(&entry).Update("resolved", true).Error; err != nil {
		return models.CheckoutJournalEntry{}, fmt.Errorf("resolving journal entry %s: %w", entryID, err)
	}
	entry.Resolved = true
	s.log.Info("checkout journal entry resolved", zap.String("entry", entryID), zap.String("order", entry.OrderID))
	return entry, nil
}
