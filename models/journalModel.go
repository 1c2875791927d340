package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CheckoutJournalEntry records an order that was placed while its cart
// could not be cleared afterwards.
type CheckoutJournalEntry struct {
	gorm.Model
	EntryID      string         `json:"entryId" gorm:"uniqueIndex;size:36"`
	UserID       string         `json:"userId" gorm:"index"`
	OrderID      string         `json:"orderId"`
	Reason       string         `json:"reason"`
	CartSnapshot datatypes.JSON `json:"cartSnapshot"`
	Resolved     bool           `json:"resolved" gorm:"index"`
}
