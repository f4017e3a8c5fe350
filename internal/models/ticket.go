package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketStatus string

const (
	TicketPending   TicketStatus = "pending"
	TicketIssued    TicketStatus = "issued"
	TicketFailed    TicketStatus = "failed"
	TicketCheckedIn TicketStatus = "checked_in"
)

type Ticket struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	Token        string       `gorm:"not null;uniqueIndex" json:"token"`
	EventID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"event_id"`
	Event        *Event       `gorm:"foreignKey:EventID" json:"event,omitempty"`
	TicketTypeID uuid.UUID    `gorm:"type:uuid;not null;index" json:"ticket_type_id"`
	TicketType   *TicketType  `gorm:"foreignKey:TicketTypeID" json:"ticket_type,omitempty"`
	AttendeeID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"attendee_id"`
	Attendee     *Attendee    `gorm:"foreignKey:AttendeeID" json:"attendee,omitempty"`
	Status       TicketStatus `gorm:"not null;default:'pending'" json:"status"`
	QRData       string       `json:"qr_data,omitempty"`
	Referral     string       `json:"referral,omitempty"`
	CheckedInAt  *time.Time   `json:"checked_in_at,omitempty"`
	Transaction  *Transaction `gorm:"foreignKey:TicketID" json:"transaction,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}

// CanTransition enforces the one-directional ticket lifecycle:
// pending -> issued, pending -> failed, issued -> checked_in.
func (ticket *Ticket) CanTransition(next TicketStatus) bool {
	switch ticket.Status {
	case TicketPending:
		return next == TicketIssued || next == TicketFailed
	case TicketIssued:
		return next == TicketCheckedIn
	default:
		return false
	}
}
