package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tickethub/internal/helpers"
	"tickethub/internal/models"
)

type TicketTypeRequest struct {
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	IsPaid   bool            `json:"is_paid"`
	Quantity *int            `json:"quantity"`
}

func (req *TicketTypeRequest) validate(c *gin.Context) bool {
	if req.IsPaid && !req.Price.IsPositive() {
		helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeValidation, "Paid ticket types need a positive price.")
		return false
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeValidation, "Quantity cannot be negative.")
		return false
	}
	return true
}

// eventForTenant loads the event addressed by the :id param, scoped to
// the resolved tenant.
func eventForTenant(c *gin.Context, gormDB *gorm.DB) (*models.Event, bool) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		return nil, false
	}

	var event models.Event
	if err := gormDB.Where("id = ? AND tenant_id = ?", c.Param("id"), tenant.ID).First(&event).Error; err != nil {
		helpers.RespondWithCode(c, http.StatusNotFound, helpers.CodeNotFound, "Event not found.")
		return nil, false
	}
	return &event, true
}

func CreateTicketType(c *gin.Context) {
	var req TicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeValidation, "Invalid input. Please check your fields.")
		return
	}
	if !req.validate(c) {
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	event, ok := eventForTenant(c, gormDB)
	if !ok {
		return
	}

	ticketType := models.TicketType{
		EventID:  event.ID,
		Name:     req.Name,
		Price:    req.Price,
		Currency: req.Currency,
		IsPaid:   req.IsPaid,
		Quantity: req.Quantity,
	}
	if ticketType.Currency == "" {
		ticketType.Currency = "USD"
	}

	if err := gormDB.Create(&ticketType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create ticket type.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Ticket type created successfully.",
		"ticket_type": ticketType,
	})
}

func ListTicketTypes(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	event, ok := eventForTenant(c, gormDB)
	if !ok {
		return
	}

	var ticketTypes []models.TicketType
	if err := gormDB.Where("event_id = ?", event.ID).Find(&ticketTypes).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving ticket types.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket_types": ticketTypes})
}

func UpdateTicketType(c *gin.Context) {
	var req TicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeValidation, "Invalid input. Please check your fields.")
		return
	}
	if !req.validate(c) {
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	event, ok := eventForTenant(c, gormDB)
	if !ok {
		return
	}

	var ticketType models.TicketType
	if err := gormDB.Where("id = ? AND event_id = ?", c.Param("ttid"), event.ID).First(&ticketType).Error; err != nil {
		helpers.RespondWithCode(c, http.StatusNotFound, helpers.CodeNotFound, "Ticket type not found.")
		return
	}

	if req.Quantity != nil && *req.Quantity < ticketType.QuantitySold {
		helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeValidation, "Quantity cannot drop below the number of tickets already sold.")
		return
	}

	ticketType.Name = req.Name
	ticketType.Price = req.Price
	ticketType.IsPaid = req.IsPaid
	ticketType.Quantity = req.Quantity
	if req.Currency != "" {
		ticketType.Currency = req.Currency
	}

	if err := gormDB.Save(&ticketType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update ticket type.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Ticket type updated successfully.",
		"ticket_type": ticketType,
	})
}

func DeleteTicketType(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	event, ok := eventForTenant(c, gormDB)
	if !ok {
		return
	}

	var ticketType models.TicketType
	if err := gormDB.Where("id = ? AND event_id = ?", c.Param("ttid"), event.ID).First(&ticketType).Error; err != nil {
		helpers.RespondWithCode(c, http.StatusNotFound, helpers.CodeNotFound, "Ticket type not found.")
		return
	}

	if ticketType.QuantitySold > 0 {
		helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeStatusConflict, "Ticket types with sold tickets cannot be deleted.")
		return
	}

	if err := gormDB.Delete(&ticketType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete ticket type.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket type deleted successfully."})
}
