package services

import (
	"context"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tickethub/internal/helpers"
	"tickethub/internal/mailer"
	"tickethub/internal/models"
)

// IssuanceService is the shared payment-completion path. The real
// webhook and the development simulator both converge here.
type IssuanceService struct {
	db     *gorm.DB
	sender mailer.Sender
	secret string
}

func NewIssuanceService(db *gorm.DB, sender mailer.Sender, secret string) *IssuanceService {
	return &IssuanceService{db: db, sender: sender, secret: secret}
}

// CompletePayment applies a payment outcome to a pending ticket.
// Success issues the ticket (QR payload, sold-count increment,
// confirmation email); failure marks the transaction failed and leaves
// the ticket pending.
func (s *IssuanceService) CompletePayment(ctx context.Context, ticketID uuid.UUID, success bool, intentID string) (*models.Ticket, error) {
	db := s.db.WithContext(ctx)

	var ticket models.Ticket
	if err := db.
		Preload("Event.Tenant").
		Preload("TicketType").
		Preload("Attendee").
		Preload("Transaction").
		First(&ticket, "id = ?", ticketID).Error; err != nil {
		return nil, ErrNotFound
	}

	if !success {
		// A failure callback only applies while the ticket is still
		// pending; a late or replayed failure must not regress an
		// already-completed payment.
		if ticket.Status != models.TicketPending {
			return &ticket, ErrTicketStatus
		}
		if ticket.Transaction != nil {
			if err := db.Model(ticket.Transaction).Updates(map[string]interface{}{
				"status": models.TransactionFailed,
			}).Error; err != nil {
				return nil, err
			}
			ticket.Transaction.Status = models.TransactionFailed
		}
		return &ticket, nil
	}

	if !ticket.CanTransition(models.TicketIssued) {
		return &ticket, ErrTicketStatus
	}

	payload := helpers.QRPayload(ticket.Token, s.secret)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := claimCapacity(tx, ticket.TicketTypeID); err != nil {
			return err
		}
		if err := tx.Model(&ticket).Updates(map[string]interface{}{
			"status":  models.TicketIssued,
			"qr_data": payload,
		}).Error; err != nil {
			return err
		}
		if ticket.Transaction != nil {
			updates := map[string]interface{}{"status": models.TransactionCompleted}
			if intentID != "" {
				updates["payment_intent_id"] = intentID
			}
			if err := tx.Model(ticket.Transaction).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &ticket, err
	}

	ticket.Status = models.TicketIssued
	ticket.QRData = payload
	if ticket.Transaction != nil {
		ticket.Transaction.Status = models.TransactionCompleted
		if intentID != "" {
			ticket.Transaction.PaymentIntentID = intentID
		}
	}

	// The payment is captured at this point; an email failure is logged
	// for out-of-band resolution, not bounced back to the processor.
	var tenant *models.Tenant
	if ticket.Event != nil {
		tenant = ticket.Event.Tenant
	}
	if err := sendTicketConfirmation(s.sender, &ticket, tenant); err != nil {
		log.Printf("issuance: confirmation email for %s failed: %v", ticket.Token, err)
	}

	return &ticket, nil
}
