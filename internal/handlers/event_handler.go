package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tickethub/internal/helpers"
	"tickethub/internal/models"
)

type EventRequest struct {
	Slug        string    `json:"slug" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Location    string    `json:"location"`
}

func tenantFromContext(c *gin.Context) (models.Tenant, bool) {
	tenant, exists := c.Get("tenant")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Tenant not resolved.")
		return models.Tenant{}, false
	}
	return tenant.(models.Tenant), true
}

func CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeValidation, "Invalid input. Please check your fields.")
		return
	}

	tenant, ok := tenantFromContext(c)
	if !ok {
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var existing models.Event
	if result := gormDB.Where("tenant_id = ? AND slug = ?", tenant.ID, req.Slug).First(&existing); result.Error == nil {
		helpers.RespondWithError(c, http.StatusConflict, "An event with this slug already exists.")
		return
	}

	event := models.Event{
		TenantID:    tenant.ID,
		Slug:        req.Slug,
		Title:       req.Title,
		Type:        req.Type,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
	}
	if event.Type == "" {
		event.Type = "general"
	}

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Event created successfully.",
		"event":   event,
	})
}

func ListEvents(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var events []models.Event
	if err := gormDB.Preload("TicketTypes").Where("tenant_id = ?", tenant.ID).Order("start_time").Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

func GetEvent(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Preload("TicketTypes").Where("id = ? AND tenant_id = ?", c.Param("id"), tenant.ID).First(&event).Error; err != nil {
		helpers.RespondWithCode(c, http.StatusNotFound, helpers.CodeNotFound, "Event not found.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func UpdateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeValidation, "Invalid input. Please check your fields.")
		return
	}

	tenant, ok := tenantFromContext(c)
	if !ok {
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ? AND tenant_id = ?", c.Param("id"), tenant.ID).First(&event).Error; err != nil {
		helpers.RespondWithCode(c, http.StatusNotFound, helpers.CodeNotFound, "Event not found.")
		return
	}

	if req.Slug != event.Slug {
		var existing models.Event
		if result := gormDB.Where("tenant_id = ? AND slug = ?", tenant.ID, req.Slug).First(&existing); result.Error == nil {
			helpers.RespondWithError(c, http.StatusConflict, "An event with this slug already exists.")
			return
		}
	}

	event.Slug = req.Slug
	event.Title = req.Title
	event.Description = req.Description
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	event.Location = req.Location
	if req.Type != "" {
		event.Type = req.Type
	}

	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

func DeleteEvent(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ? AND tenant_id = ?", c.Param("id"), tenant.ID).First(&event).Error; err != nil {
		helpers.RespondWithCode(c, http.StatusNotFound, helpers.CodeNotFound, "Event not found.")
		return
	}

	if err := gormDB.Delete(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully."})
}

// ListPublicEvents is the unauthenticated tenant event listing.
func ListPublicEvents(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var events []models.Event
	if err := gormDB.Where("tenant_id = ?", tenant.ID).Order("start_time").Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tenant": gin.H{
			"slug":  tenant.Slug,
			"name":  tenant.Name,
			"theme": tenant.Theme,
		},
		"events": events,
	})
}

// GetPublicEvent returns one event with its ticket types and remaining
// capacity, keyed by slug.
func GetPublicEvent(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Preload("TicketTypes").Where("tenant_id = ? AND slug = ?", tenant.ID, c.Param("slug")).First(&event).Error; err != nil {
		helpers.RespondWithCode(c, http.StatusNotFound, helpers.CodeNotFound, "Event not found.")
		return
	}

	ticketTypes := make([]gin.H, 0, len(event.TicketTypes))
	for i := range event.TicketTypes {
		tt := &event.TicketTypes[i]
		ticketTypes = append(ticketTypes, gin.H{
			"id":        tt.ID,
			"name":      tt.Name,
			"price":     tt.Price,
			"currency":  tt.Currency,
			"is_paid":   tt.IsPaid,
			"remaining": tt.Remaining(),
			"sold_out":  tt.SoldOut(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"event":        event,
		"ticket_types": ticketTypes,
	})
}
