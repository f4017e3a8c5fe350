package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tenant struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Slug       string    `gorm:"unique;not null" json:"slug"`
	Name       string    `gorm:"not null" json:"name"`
	Theme      string    `gorm:"type:jsonb;default:'{}'" json:"theme"`
	Events     []Event     `json:"events,omitempty"`
	AdminUsers []AdminUser `json:"-"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (tenant *Tenant) BeforeCreate(tx *gorm.DB) (err error) {
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	return
}
