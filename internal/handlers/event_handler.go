package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rendrapra/planora/internal/helpers"
	"github.com/rendrapra/planora/internal/models"
)

type EventRequest struct {
	Name         string    `json:"name" binding:"required"`
	StartTime    time.Time `json:"start_time" binding:"required"`
	EndTime      time.Time `json:"end_time" binding:"required"`
	Budget       float64   `json:"budget" binding:"required"`
	GuestCount   int       `json:"guest_count" binding:"required"`
	Needs        []string  `json:"needs"`
	VenueDetails string    `json:"venue_details"`
}

func validateEventRequest(c *gin.Context, req *EventRequest) (needs string, ok bool) {
	if !req.StartTime.After(time.Now()) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Start date must be in the future.")
		return "", false
	}
	if !req.EndTime.After(req.StartTime) {
		helpers.RespondWithError(c, http.StatusBadRequest, "End date must be after start date.")
		return "", false
	}
	if req.Budget <= 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Budget must be greater than 0.")
		return "", false
	}
	if req.GuestCount <= 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Guest count must be greater than 0.")
		return "", false
	}
	for _, need := range req.Needs {
		if !models.ValidNeed(need) {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid need: "+need)
			return "", false
		}
	}
	return strings.Join(req.Needs, ","), true
}

func CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	needs, ok := validateEventRequest(c, &req)
	if !ok {
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var host models.User
	if err := gormDB.Where("id = ?", userID).First(&host).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	event := models.Event{
		Name:         req.Name,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Budget:       req.Budget,
		GuestCount:   req.GuestCount,
		Needs:        needs,
		VenueDetails: req.VenueDetails,
		HostID:       host.ID,
	}

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	// Admins review every new event from their panel.
	var admins []models.User
	if err := gormDB.Where("role = ?", models.RoleAdmin).Find(&admins).Error; err == nil {
		for _, admin := range admins {
			gormDB.Create(&models.Notification{
				RecipientID: admin.ID,
				Type:        models.NotificationEventCreated,
				Message:     "New event created: \"" + event.Name + "\" by " + host.FullName + ".",
				RelatedID:   &event.ID,
			})
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully.",
		"event_id": event.ID,
	})
}

func GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Preload("Host").Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func UpdateEvent(c *gin.Context) {
	eventID := c.Param("id")

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	needs, ok := validateEventRequest(c, &req)
	if !ok {
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ? AND host_id = ?", eventID, userID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to update it.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	event.Name = req.Name
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	event.Budget = req.Budget
	event.GuestCount = req.GuestCount
	event.Needs = needs
	event.VenueDetails = req.VenueDetails

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
	eventID := c.Param("id")

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ? AND host_id = ?", eventID, userID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to delete it.")
		return
	}

	if err := gormDB.Delete(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event deleted successfully.",
	})
}

func ListMyEvents(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	pageNum, limitNum, ok := paginationParams(c)
	if !ok {
		return
	}

	query := gormDB.Model(&models.Event{}).Where("host_id = ?", userID)

	var totalCount int64
	query.Count(&totalCount)

	var events []models.Event
	offset := (pageNum - 1) * limitNum
	if err := query.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":      events,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

// EventSummary reports the host's booking stats for one event: confirmed
// registrations, tickets sold, revenue and remaining capacity.
func EventSummary(c *gin.Context) {
	eventID := c.Param("id")

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ? AND host_id = ?", eventID, userID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to view it.")
		return
	}

	var totalRegistered int64
	gormDB.Model(&models.Booking{}).
		Where("event_id = ? AND status = ?", event.ID, models.BookingConfirmed).
		Count(&totalRegistered)

	var ticketsSold int64
	gormDB.Model(&models.Booking{}).
		Where("event_id = ? AND status = ?", event.ID, models.BookingConfirmed).
		Select("COALESCE(SUM(ticket_quantity), 0)").
		Scan(&ticketsSold)

	var totalRevenue float64
	gormDB.Model(&models.Booking{}).
		Where("event_id = ? AND status = ?", event.ID, models.BookingConfirmed).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalRevenue)

	remaining := event.GuestCount - int(ticketsSold)
	if remaining < 0 {
		remaining = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"event_id":           event.ID,
		"total_registered":   totalRegistered,
		"tickets_sold":       ticketsSold,
		"total_revenue":      totalRevenue,
		"remaining_capacity": remaining,
	})
}

// ListUpcomingEvents is the guest-facing catalogue: future events that
// already have an accepted planner proposal.
func ListUpcomingEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	pageNum, limitNum, ok := paginationParams(c)
	if !ok {
		return
	}

	query := gormDB.Model(&models.Event{}).
		Joins("JOIN proposals ON proposals.event_id = events.id AND proposals.status = ? AND proposals.deleted_at IS NULL", models.ProposalAccepted).
		Where("events.start_time > ?", time.Now())

	var totalCount int64
	query.Count(&totalCount)

	var events []models.Event
	offset := (pageNum - 1) * limitNum
	if err := query.Preload("Host").Offset(offset).Limit(limitNum).Order("events.start_time ASC").Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":      events,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

// ListOpenEvents is the planner-facing catalogue: future events that do not
// have an accepted proposal yet.
func ListOpenEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	pageNum, limitNum, ok := paginationParams(c)
	if !ok {
		return
	}

	accepted := gormDB.Model(&models.Proposal{}).Select("event_id").Where("status = ?", models.ProposalAccepted)
	query := gormDB.Model(&models.Event{}).
		Where("start_time > ?", time.Now()).
		Where("id NOT IN (?)", accepted)

	var totalCount int64
	query.Count(&totalCount)

	var events []models.Event
	offset := (pageNum - 1) * limitNum
	if err := query.Preload("Host").Offset(offset).Limit(limitNum).Order("start_time ASC").Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":      events,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func paginationParams(c *gin.Context) (page, limit int, ok bool) {
	pageNum, err := helpers.StringToInt(c.DefaultQuery("page", "1"))
	if err != nil || pageNum < 1 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return 0, 0, false
	}

	limitNum, err := helpers.StringToInt(c.DefaultQuery("limit", "10"))
	if err != nil || limitNum < 1 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return 0, 0, false
	}

	return pageNum, limitNum, true
}
