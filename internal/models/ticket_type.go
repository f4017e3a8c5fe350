package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TicketType struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	EventID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"event_id"`
	Event        *Event          `gorm:"foreignKey:EventID" json:"-"`
	Name         string          `gorm:"not null" json:"name"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Currency     string          `gorm:"not null;default:'USD'" json:"currency"`
	IsPaid       bool            `gorm:"not null;default:false" json:"is_paid"`
	Quantity     *int            `json:"quantity"`
	QuantitySold int             `gorm:"not null;default:0" json:"quantity_sold"`
	Tickets      []Ticket        `json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (tt *TicketType) BeforeCreate(tx *gorm.DB) (err error) {
	if tt.ID == uuid.Nil {
		tt.ID = uuid.New()
	}
	return
}

// SoldOut reports whether the capacity is exhausted. A nil Quantity
// means unlimited.
func (tt *TicketType) SoldOut() bool {
	return tt.Quantity != nil && tt.QuantitySold >= *tt.Quantity
}

// Remaining returns the number of unsold tickets, or nil when unlimited.
func (tt *TicketType) Remaining() *int {
	if tt.Quantity == nil {
		return nil
	}
	left := *tt.Quantity - tt.QuantitySold
	if left < 0 {
		left = 0
	}
	return &left
}
