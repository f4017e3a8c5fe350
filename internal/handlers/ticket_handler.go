package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tickethub/internal/helpers"
	"tickethub/internal/models"
)

func loadTicketByToken(c *gin.Context) (*models.Ticket, bool) {
	token := c.Param("token")
	if !helpers.ValidateTokenFormat(token) {
		helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeValidation, "Invalid ticket token.")
		return nil, false
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return nil, false
	}
	gormDB := db.(*gorm.DB)

	var ticket models.Ticket
	if err := gormDB.
		Preload("Event").
		Preload("TicketType").
		Preload("Attendee").
		Where("token = ?", token).
		First(&ticket).Error; err != nil {
		helpers.RespondWithCode(c, http.StatusNotFound, helpers.CodeNotFound, "Ticket not found.")
		return nil, false
	}
	return &ticket, true
}

func respondStatusConflict(c *gin.Context, ticket *models.Ticket, message string) {
	c.JSON(http.StatusConflict, gin.H{
		"error":   http.StatusText(http.StatusConflict),
		"code":    helpers.CodeStatusConflict,
		"message": message,
		"status":  ticket.Status,
	})
}

func ticketView(ticket *models.Ticket) gin.H {
	view := gin.H{
		"ticket": gin.H{
			"token":         ticket.Token,
			"status":        ticket.Status,
			"checked_in_at": ticket.CheckedInAt,
		},
	}
	if ticket.Attendee != nil {
		view["attendee"] = gin.H{
			"name":    ticket.Attendee.Name,
			"email":   ticket.Attendee.Email,
			"company": ticket.Attendee.Company,
		}
	}
	if ticket.Event != nil {
		view["event"] = gin.H{
			"slug":       ticket.Event.Slug,
			"title":      ticket.Event.Title,
			"start_time": ticket.Event.StartTime,
			"end_time":   ticket.Event.EndTime,
			"location":   ticket.Event.Location,
		}
	}
	if ticket.TicketType != nil {
		view["ticket_type"] = gin.H{
			"name":     ticket.TicketType.Name,
			"price":    ticket.TicketType.Price,
			"currency": ticket.TicketType.Currency,
		}
	}
	return view
}

// GetTicketByToken is the check-in readout: a consolidated view of the
// ticket, its attendee, event and ticket type. Only issued tickets are
// valid for check-in; every other status is a conflict carrying the
// current status so a scanning device can render it.
func GetTicketByToken(c *gin.Context) {
	ticket, ok := loadTicketByToken(c)
	if !ok {
		return
	}

	if ticket.Status != models.TicketIssued {
		respondStatusConflict(c, ticket, "Ticket is not valid for check-in.")
		return
	}

	c.JSON(http.StatusOK, ticketView(ticket))
}

// CheckInTicket transitions an issued ticket to checked_in and stamps
// the check-in time.
func CheckInTicket(c *gin.Context) {
	ticket, ok := loadTicketByToken(c)
	if !ok {
		return
	}

	if !ticket.CanTransition(models.TicketCheckedIn) {
		respondStatusConflict(c, ticket, "Ticket cannot be checked in.")
		return
	}

	db := c.MustGet("db").(*gorm.DB)
	now := time.Now()
	if err := db.Model(ticket).Updates(map[string]interface{}{
		"status":        models.TicketCheckedIn,
		"checked_in_at": now,
	}).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to check in ticket.")
		return
	}
	ticket.Status = models.TicketCheckedIn
	ticket.CheckedInAt = &now

	c.JSON(http.StatusOK, ticketView(ticket))
}

// GetTicketQR serves the QR code image for an issued ticket.
func GetTicketQR(c *gin.Context) {
	ticket, ok := loadTicketByToken(c)
	if !ok {
		return
	}

	if ticket.QRData == "" {
		respondStatusConflict(c, ticket, "Ticket has no QR code yet.")
		return
	}

	qrImage, err := helpers.GenerateQRImage(ticket.QRData)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}
