package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tickethub/internal/helpers"
	"tickethub/internal/middleware"
	"tickethub/internal/models"
	"tickethub/internal/payments"
	"tickethub/internal/services"
)

type SimulatePaymentRequest struct {
	TicketID string `json:"ticket_id" binding:"required"`
	Simulate string `json:"simulate" binding:"required,oneof=success failure"`
	Delay    int    `json:"delay"`
}

func completionService(c *gin.Context) (*services.IssuanceService, bool) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return nil, false
	}
	return services.NewIssuanceService(db.(*gorm.DB), middleware.GetMailer(c), os.Getenv("JWT_SECRET")), true
}

func respondCompletion(c *gin.Context, svc *services.IssuanceService, ticketID uuid.UUID, success bool, intentID string) {
	ticket, err := svc.CompletePayment(c.Request.Context(), ticketID, success, intentID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			helpers.RespondWithCode(c, http.StatusNotFound, helpers.CodeNotFound, "Ticket not found.")
		case errors.Is(err, services.ErrTicketStatus):
			c.JSON(http.StatusConflict, gin.H{
				"error":   http.StatusText(http.StatusConflict),
				"code":    helpers.CodeStatusConflict,
				"message": "Ticket is not pending payment.",
				"status":  ticket.Status,
			})
		case errors.Is(err, services.ErrSoldOut):
			helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeSoldOut, "This ticket type is sold out.")
		default:
			log.Printf("payment completion failed: %v", err)
			helpers.RespondWithCode(c, http.StatusInternalServerError, helpers.CodeInternal, "Payment completion failed.")
		}
		return
	}

	resp := gin.H{
		"ticket_id": ticket.ID,
		"status":    ticket.Status,
	}
	if ticket.Status == models.TicketIssued {
		resp["token"] = ticket.Token
		resp["qr_data"] = ticket.QRData
	}
	if ticket.Transaction != nil {
		resp["transaction_status"] = ticket.Transaction.Status
	}
	c.JSON(http.StatusOK, resp)
}

// SimulatePayment is the development-only payment bypass. It fabricates
// a synthetic payment-intent id and drives the shared completion path.
func SimulatePayment(c *gin.Context) {
	var req SimulatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeValidation, "Invalid input. Please check your fields.")
		return
	}

	ticketID, err := uuid.Parse(req.TicketID)
	if err != nil {
		helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeValidation, "Invalid ticket ID.")
		return
	}

	if req.Delay > 0 {
		time.Sleep(time.Duration(req.Delay) * time.Millisecond)
	}

	svc, ok := completionService(c)
	if !ok {
		return
	}
	respondCompletion(c, svc, ticketID, req.Simulate == "success", payments.SimulatedIntentID())
}

type webhookPayload struct {
	TicketID        string `json:"ticket_id"`
	PaymentIntentID string `json:"payment_intent_id"`
	Status          string `json:"status"`
}

// PaymentWebhook receives completion callbacks from the real processor.
// The body is HMAC-signed with the payment secret key.
func PaymentWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeValidation, "Unable to read request body.")
		return
	}

	signature := c.GetHeader("Signature")
	if !helpers.VerifyWebhookSignature(os.Getenv("PAYMENT_SECRET_KEY"), string(body), signature) {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid webhook signature.")
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeValidation, "Invalid webhook payload.")
		return
	}

	ticketID, err := uuid.Parse(payload.TicketID)
	if err != nil {
		helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeValidation, "Invalid ticket ID.")
		return
	}

	svc, ok := completionService(c)
	if !ok {
		return
	}
	success := payload.Status == "succeeded" || payload.Status == "completed"
	respondCompletion(c, svc, ticketID, success, payload.PaymentIntentID)
}
