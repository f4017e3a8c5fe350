package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tickethub/internal/models"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	AppEnv     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "tickethub"),
		AppEnv:     getEnv("APP_ENV", "development"),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

type PaymentConfig struct {
	APIURL    string
	ClientID  string
	SecretKey string
	PublicKey string
}

func LoadPaymentConfig() *PaymentConfig {
	return &PaymentConfig{
		APIURL:    os.Getenv("PAYMENT_API_URL"),
		ClientID:  os.Getenv("PAYMENT_CLIENT_ID"),
		SecretKey: os.Getenv("PAYMENT_SECRET_KEY"),
		PublicKey: os.Getenv("PAYMENT_PUBLIC_KEY"),
	}
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func LoadMailConfig() *MailConfig {
	port, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		port = 587
	}
	return &MailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     getEnv("MAIL_FROM", "tickets@localhost"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if !cfg.IsProduction() {
		seedDemoTenant(db)
	}

	return db, nil
}

// Migrate applies the schema for all entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Tenant{},
		&models.AdminUser{},
		&models.Event{},
		&models.TicketType{},
		&models.Attendee{},
		&models.Ticket{},
		&models.Transaction{},
	)
}

// seedDemoTenant creates a demo tenant with one admin so a fresh
// development database is immediately usable.
func seedDemoTenant(db *gorm.DB) {
	var existing models.Tenant
	if result := db.Where("slug = ?", "demo").First(&existing); result.Error == nil {
		return
	}

	tenant := models.Tenant{
		Slug: "demo",
		Name: "Demo Tenant",
	}
	if err := db.Create(&tenant).Error; err != nil {
		return
	}

	password := getEnv("SEED_ADMIN_PASSWORD", "changeme")
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return
	}

	admin := models.AdminUser{
		TenantID:     tenant.ID,
		Email:        "admin@demo.test",
		PasswordHash: string(hash),
		Role:         "owner",
		IsActive:     true,
	}
	db.Create(&admin)
}
