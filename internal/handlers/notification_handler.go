package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rendrapra/planora/internal/helpers"
	"github.com/rendrapra/planora/internal/models"
)

func ListNotifications(c *gin.Context) {
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

	query := gormDB.Model(&models.Notification{}).Where("recipient_id = ?", userID)
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var totalCount int64
	query.Count(&totalCount)

	var notifications []models.Notification
	offset := (pageNum - 1) * limitNum
	if err := query.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&notifications).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving notifications.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         totalCount,
		"page":          pageNum,
		"limit":         limitNum,
	})
}

func MarkNotificationRead(c *gin.Context) {
	notificationID := c.Param("id")

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

	result := gormDB.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update notification.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Notification not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notification marked as read.",
	})
}

func UnreadNotificationCount(c *gin.Context) {
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

	var count int64
	if err := gormDB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error counting notifications.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}
