package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tickethub/internal/helpers"
	"tickethub/internal/mailer"
	"tickethub/internal/models"
	"tickethub/internal/payments"
)

type RegistrationRequest struct {
	TenantSlug   string
	EventSlug    string
	TicketTypeID uuid.UUID
	Name         string
	Email        string
	Phone        string
	Company      string
	Referral     string
}

type RegistrationResult struct {
	Ticket       *models.Ticket
	ClientSecret string
	Amount       int64
	Currency     string
}

// RegistrationService runs the registration/issuance flow: capacity
// check, attendee upsert, ticket creation, then either a payment intent
// (paid) or immediate issuance (free).
type RegistrationService struct {
	db       *gorm.DB
	provider payments.Provider
	sender   mailer.Sender
	secret   string
}

func NewRegistrationService(db *gorm.DB, provider payments.Provider, sender mailer.Sender, secret string) *RegistrationService {
	return &RegistrationService{db: db, provider: provider, sender: sender, secret: secret}
}

func (s *RegistrationService) Register(ctx context.Context, req *RegistrationRequest) (*RegistrationResult, error) {
	db := s.db.WithContext(ctx)

	var tenant models.Tenant
	if err := db.Where("slug = ?", req.TenantSlug).First(&tenant).Error; err != nil {
		return nil, ErrNotFound
	}

	var event models.Event
	if err := db.Where("tenant_id = ? AND slug = ?", tenant.ID, req.EventSlug).First(&event).Error; err != nil {
		return nil, ErrNotFound
	}

	var ticketType models.TicketType
	if err := db.Where("id = ? AND event_id = ?", req.TicketTypeID, event.ID).First(&ticketType).Error; err != nil {
		return nil, ErrNotFound
	}

	// Early rejection only; the authoritative capacity check is the
	// conditional sold-count increment at issue time.
	if ticketType.SoldOut() {
		return nil, ErrSoldOut
	}

	token, err := helpers.GenerateTicketToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ticket token: %w", err)
	}

	ticket := models.Ticket{
		Token:        token,
		EventID:      event.ID,
		TicketTypeID: ticketType.ID,
		Status:       models.TicketPending,
		Referral:     req.Referral,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var attendee models.Attendee
		if err := tx.Where("email = ?", req.Email).
			Attrs(models.Attendee{Email: req.Email, Name: req.Name, Phone: req.Phone, Company: req.Company}).
			FirstOrCreate(&attendee).Error; err != nil {
			return err
		}
		ticket.AttendeeID = attendee.ID
		ticket.Attendee = &attendee

		if err := tx.Create(&ticket).Error; err != nil {
			return err
		}

		if !ticketType.IsPaid {
			if err := claimCapacity(tx, ticketType.ID); err != nil {
				return err
			}
			payload := helpers.QRPayload(ticket.Token, s.secret)
			if err := tx.Model(&ticket).Updates(map[string]interface{}{
				"status":  models.TicketIssued,
				"qr_data": payload,
			}).Error; err != nil {
				return err
			}
			ticket.Status = models.TicketIssued
			ticket.QRData = payload
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ticket.Event = &event
	ticket.TicketType = &ticketType

	if !ticketType.IsPaid {
		if err := s.sendConfirmation(&ticket, &tenant); err != nil {
			log.Printf("registration: confirmation email for %s failed: %v", ticket.Token, err)
			return nil, fmt.Errorf("failed to send confirmation email: %w", err)
		}
		return &RegistrationResult{Ticket: &ticket}, nil
	}

	amount := payments.MinorUnits(ticketType.Price)
	intent, err := s.provider.CreateIntent(ctx, &payments.IntentRequest{
		TicketID:      ticket.ID,
		Amount:        amount,
		Currency:      ticketType.Currency,
		Description:   fmt.Sprintf("%s - %s", event.Title, ticketType.Name),
		CustomerName:  req.Name,
		CustomerEmail: req.Email,
	})
	if err != nil {
		// The pending ticket stays behind; there is no retry.
		log.Printf("registration: payment intent for %s failed: %v", ticket.Token, err)
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	transaction := models.Transaction{
		TicketID:        ticket.ID,
		Amount:          amount,
		Currency:        ticketType.Currency,
		Status:          models.TransactionPending,
		PaymentIntentID: intent.ID,
	}
	if err := db.Create(&transaction).Error; err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	ticket.Transaction = &transaction

	return &RegistrationResult{
		Ticket:       &ticket,
		ClientSecret: intent.ClientSecret,
		Amount:       amount,
		Currency:     ticketType.Currency,
	}, nil
}

// claimCapacity increments the sold count only while capacity remains.
// Zero rows affected means the last ticket went to somebody else.
func claimCapacity(tx *gorm.DB, ticketTypeID uuid.UUID) error {
	res := tx.Model(&models.TicketType{}).
		Where("id = ? AND (quantity IS NULL OR quantity_sold < quantity)", ticketTypeID).
		UpdateColumn("quantity_sold", gorm.Expr("quantity_sold + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSoldOut
	}
	return nil
}

func (s *RegistrationService) sendConfirmation(ticket *models.Ticket, tenant *models.Tenant) error {
	return sendTicketConfirmation(s.sender, ticket, tenant)
}

func sendTicketConfirmation(sender mailer.Sender, ticket *models.Ticket, tenant *models.Tenant) error {
	qrImage, err := helpers.GenerateQRImage(ticket.QRData)
	if err != nil {
		return fmt.Errorf("failed to generate QR image: %w", err)
	}

	email := &mailer.TicketEmail{
		Token:   ticket.Token,
		QRImage: qrImage,
	}
	if ticket.Attendee != nil {
		email.To = ticket.Attendee.Email
		email.Name = ticket.Attendee.Name
	}
	if ticket.Event != nil {
		email.EventTitle = ticket.Event.Title
		email.EventStart = ticket.Event.StartTime
		email.Location = ticket.Event.Location
	}
	if ticket.TicketType != nil {
		email.TicketTypeName = ticket.TicketType.Name
	}
	if tenant != nil {
		email.TenantName = tenant.Name
	}
	return sender.SendTicketConfirmation(email)
}
