package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tickethub/internal/mailer"
	"tickethub/internal/models"
	"tickethub/internal/payments"
)

const testSecret = "test-secret"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// The in-memory database is per-connection.
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

type fixture struct {
	tenant   models.Tenant
	event    models.Event
	freeType models.TicketType
	paidType models.TicketType
}

func seedFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()

	f := &fixture{}
	f.tenant = models.Tenant{Slug: "acme", Name: "Acme Conferences"}
	require.NoError(t, db.Create(&f.tenant).Error)

	f.event = models.Event{
		TenantID:  f.tenant.ID,
		Slug:      "gophercon",
		Title:     "GopherCon",
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(32 * time.Hour),
		Location:  "Convention Center",
	}
	require.NoError(t, db.Create(&f.event).Error)

	freeQty := 1
	f.freeType = models.TicketType{
		EventID:  f.event.ID,
		Name:     "General Admission",
		Price:    decimal.Zero,
		Currency: "USD",
		Quantity: &freeQty,
	}
	require.NoError(t, db.Create(&f.freeType).Error)

	paidQty := 2
	f.paidType = models.TicketType{
		EventID:  f.event.ID,
		Name:     "VIP",
		Price:    decimal.NewFromFloat(49.50),
		Currency: "USD",
		IsPaid:   true,
		Quantity: &paidQty,
	}
	require.NoError(t, db.Create(&f.paidType).Error)

	return f
}

type fakeSender struct {
	sent []*mailer.TicketEmail
	fail bool
}

func (s *fakeSender) SendTicketConfirmation(email *mailer.TicketEmail) error {
	if s.fail {
		return errors.New("smtp unreachable")
	}
	s.sent = append(s.sent, email)
	return nil
}

type fakeProvider struct {
	requests []*payments.IntentRequest
	fail     bool
}

func (p *fakeProvider) CreateIntent(ctx context.Context, req *payments.IntentRequest) (*payments.Intent, error) {
	if p.fail {
		return nil, errors.New("processor unavailable")
	}
	p.requests = append(p.requests, req)
	return &payments.Intent{
		ID:           "pi_test_123",
		ClientSecret: "pi_test_123_secret",
		Amount:       req.Amount,
		Currency:     req.Currency,
		Status:       "requires_payment",
	}, nil
}

func soldCount(t *testing.T, db *gorm.DB, id interface{}) int {
	t.Helper()
	var tt models.TicketType
	require.NoError(t, db.First(&tt, "id = ?", id).Error)
	return tt.QuantitySold
}
