package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tickethub/internal/mailer"
	"tickethub/internal/middleware"
	"tickethub/internal/models"
	"tickethub/internal/payments"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Tenant{},
		&models.AdminUser{},
		&models.Event{},
		&models.TicketType{},
		&models.Attendee{},
		&models.Ticket{},
		&models.Transaction{},
	))
	return db
}

type fakeSender struct {
	sent []*mailer.TicketEmail
}

func (s *fakeSender) SendTicketConfirmation(email *mailer.TicketEmail) error {
	s.sent = append(s.sent, email)
	return nil
}

type fakeProvider struct {
	fail bool
}

func (p *fakeProvider) CreateIntent(ctx context.Context, req *payments.IntentRequest) (*payments.Intent, error) {
	if p.fail {
		return nil, errors.New("processor unavailable")
	}
	return &payments.Intent{
		ID:           "pi_test_123",
		ClientSecret: "pi_test_123_secret",
		Amount:       req.Amount,
		Currency:     req.Currency,
	}, nil
}

func newTestRouter(db *gorm.DB, sender *fakeSender) *gin.Engine {
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.PaymentMiddleware(&fakeProvider{}))
	r.Use(middleware.MailerMiddleware(sender))

	api := r.Group("/api/v1")
	api.POST("/auth", Login)
	api.GET("/auth", middleware.JWTAuthMiddleware(), VerifySession)
	api.DELETE("/auth", Logout)
	api.POST("/register", RegisterAttendee)
	api.GET("/ticket/:token", GetTicketByToken)
	api.GET("/ticket/:token/qr", GetTicketQR)
	api.POST("/ticket/:token/checkin", CheckInTicket)
	api.POST("/payment/webhook", PaymentWebhook)

	tenant := api.Group("/:tenant", middleware.TenantMiddleware())
	tenant.GET("/events", ListPublicEvents)
	tenant.GET("/events/:slug", GetPublicEvent)

	admin := tenant.Group("/admin", middleware.JWTAuthMiddleware(), middleware.RequireTenantAdmin())
	admin.GET("/events", ListEvents)
	admin.POST("/events", CreateEvent)
	admin.GET("/events/:id", GetEvent)
	admin.PUT("/events/:id", UpdateEvent)
	admin.DELETE("/events/:id", DeleteEvent)
	admin.GET("/events/:id/ticket-types", ListTicketTypes)
	admin.POST("/events/:id/ticket-types", CreateTicketType)
	admin.PUT("/events/:id/ticket-types/:ttid", UpdateTicketType)
	admin.DELETE("/events/:id/ticket-types/:ttid", DeleteTicketType)

	r.POST("/dev/simulate-payment", SimulatePayment)
	return r
}

func seedTenant(t *testing.T, db *gorm.DB) models.Tenant {
	t.Helper()
	tenant := models.Tenant{Slug: "acme", Name: "Acme Conferences"}
	require.NoError(t, db.Create(&tenant).Error)
	return tenant
}

func seedAdmin(t *testing.T, db *gorm.DB, tenant models.Tenant, email, password string, active bool) models.AdminUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	admin := models.AdminUser{
		TenantID:     tenant.ID,
		Email:        email,
		PasswordHash: string(hash),
		Role:         "admin",
		IsActive:     active,
	}
	require.NoError(t, db.Create(&admin).Error)
	return admin
}

func seedEventWithFreeType(t *testing.T, db *gorm.DB, tenant models.Tenant, quantity int) (models.Event, models.TicketType) {
	t.Helper()
	event := models.Event{
		TenantID:  tenant.ID,
		Slug:      "gophercon",
		Title:     "GopherCon",
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(32 * time.Hour),
	}
	require.NoError(t, db.Create(&event).Error)

	tt := models.TicketType{
		EventID:  event.ID,
		Name:     "General Admission",
		Price:    decimal.Zero,
		Currency: "USD",
		Quantity: &quantity,
	}
	require.NoError(t, db.Create(&tt).Error)
	return event, tt
}
