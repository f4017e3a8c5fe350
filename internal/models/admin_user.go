package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminUser struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TenantID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_admin_tenant_email" json:"tenant_id"`
	Tenant       *Tenant    `gorm:"foreignKey:TenantID" json:"-"`
	Email        string     `gorm:"not null;uniqueIndex:idx_admin_tenant_email" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"not null;default:'admin'" json:"role"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (user *AdminUser) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}
