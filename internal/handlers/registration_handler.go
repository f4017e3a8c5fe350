package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tickethub/internal/helpers"
	"tickethub/internal/middleware"
	"tickethub/internal/services"
)

type RegistrationRequest struct {
	TenantSlug   string `json:"tenant_slug" binding:"required"`
	EventSlug    string `json:"event_slug" binding:"required"`
	TicketTypeID string `json:"ticket_type_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Company      string `json:"company"`
	Ref          string `json:"ref"`
}

// RegisterAttendee handles POST /api/v1/register. Free tickets come
// back issued with their QR payload; paid tickets come back pending
// with a payment client secret.
func RegisterAttendee(c *gin.Context) {
	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeValidation, "Invalid input. Please check your fields.")
		return
	}

	ticketTypeID, err := uuid.Parse(req.TicketTypeID)
	if err != nil {
		helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeValidation, "Invalid ticket type ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	svc := services.NewRegistrationService(gormDB, middleware.GetPaymentProvider(c), middleware.GetMailer(c), os.Getenv("JWT_SECRET"))
	result, err := svc.Register(c.Request.Context(), &services.RegistrationRequest{
		TenantSlug:   req.TenantSlug,
		EventSlug:    req.EventSlug,
		TicketTypeID: ticketTypeID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Company:      req.Company,
		Referral:     req.Ref,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			helpers.RespondWithCode(c, http.StatusNotFound, helpers.CodeNotFound, "Event or ticket type not found.")
		case errors.Is(err, services.ErrSoldOut):
			helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeSoldOut, "This ticket type is sold out.")
		default:
			log.Printf("registration failed: %v", err)
			helpers.RespondWithCode(c, http.StatusInternalServerError, helpers.CodeInternal, "Registration failed.")
		}
		return
	}

	if result.ClientSecret != "" {
		c.JSON(http.StatusOK, gin.H{
			"ticket_id":     result.Ticket.ID,
			"status":        result.Ticket.Status,
			"client_secret": result.ClientSecret,
			"amount":        result.Amount,
			"currency":      result.Currency,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"ticket": gin.H{
			"id":      result.Ticket.ID,
			"token":   result.Ticket.Token,
			"status":  result.Ticket.Status,
			"qr_data": result.Ticket.QRData,
		},
	})
}
