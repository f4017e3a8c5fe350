package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_tenant_slug" json:"tenant_id"`
	Tenant      *Tenant   `gorm:"foreignKey:TenantID" json:"-"`
	Slug        string    `gorm:"not null;uniqueIndex:idx_event_tenant_slug" json:"slug"`
	Title       string    `gorm:"not null" json:"title"`
	Type        string    `gorm:"not null;default:'general'" json:"type"`
	Description string    `json:"description"`
	StartTime   time.Time `gorm:"not null" json:"start_time"`
	EndTime     time.Time `gorm:"not null" json:"end_time"`
	Location    string    `json:"location"`
	TicketTypes []TicketType `json:"ticket_types,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}
