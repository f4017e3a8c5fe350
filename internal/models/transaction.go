package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction mirrors the ticket type's amount and currency at the time
// the ticket was created.
type Transaction struct {
	ID              uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	TicketID        uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex" json:"ticket_id"`
	Ticket          *Ticket           `gorm:"foreignKey:TicketID" json:"-"`
	Amount          int64             `gorm:"not null" json:"amount"`
	Currency        string            `gorm:"not null" json:"currency"`
	Status          TransactionStatus `gorm:"not null;default:'pending'" json:"status"`
	PaymentIntentID string            `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (txn *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	return
}
