package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rendrapra/planora/internal/helpers"
	"github.com/rendrapra/planora/internal/models"
)

func AdminDashboard(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var totalUsers, totalHosts, totalGuests, totalPlanners, pendingApprovals, totalEvents int64
	gormDB.Model(&models.User{}).Count(&totalUsers)
	gormDB.Model(&models.User{}).Where("role = ?", models.RoleHost).Count(&totalHosts)
	gormDB.Model(&models.User{}).Where("role = ?", models.RoleGuest).Count(&totalGuests)
	gormDB.Model(&models.User{}).Where("role = ?", models.RolePlanner).Count(&totalPlanners)
	gormDB.Model(&models.User{}).
		Where("role IN ? AND is_approved = ?", []models.Role{models.RoleGuest, models.RolePlanner}, false).
		Count(&pendingApprovals)
	gormDB.Model(&models.Event{}).Count(&totalEvents)

	c.JSON(http.StatusOK, gin.H{
		"total_users":       totalUsers,
		"total_hosts":       totalHosts,
		"total_guests":      totalGuests,
		"total_planners":    totalPlanners,
		"pending_approvals": pendingApprovals,
		"total_events":      totalEvents,
	})
}

func ListPendingUsers(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var users []models.User
	err := gormDB.
		Where("role IN ? AND is_approved = ?", []models.Role{models.RoleGuest, models.RolePlanner}, false).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving users.")
		return
	}

	c.JSON(http.StatusOK, users)
}

func ApproveUser(c *gin.Context) {
	targetID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	err := gormDB.
		Where("id = ? AND role IN ? AND is_approved = ?", targetID, []models.Role{models.RoleGuest, models.RolePlanner}, false).
		First(&user).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Pending user not found.")
		return
	}

	if err := gormDB.Model(&user).Update("is_approved", true).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to approve user.")
		return
	}

	gormDB.Create(&models.Notification{
		RecipientID: user.ID,
		Type:        models.NotificationGeneral,
		Message:     "Your registration has been approved. You can now log in to the platform.",
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "User approved successfully.",
	})
}

// RejectUser removes a pending registration entirely, mirroring the admin
// panel's reject-and-delete flow.
func RejectUser(c *gin.Context) {
	targetID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	err := gormDB.
		Where("id = ? AND role IN ? AND is_approved = ?", targetID, []models.Role{models.RoleGuest, models.RolePlanner}, false).
		First(&user).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Pending user not found.")
		return
	}

	if err := gormDB.Delete(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to reject user.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User rejected and removed.",
	})
}
