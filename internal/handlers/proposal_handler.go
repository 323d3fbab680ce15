package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rendrapra/planora/internal/helpers"
	"github.com/rendrapra/planora/internal/models"
	"github.com/rendrapra/planora/internal/service"
)

type ProposalRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Services string  `json:"services" binding:"required"`
	Timeline string  `json:"timeline"`
}

type ProposalHandler struct {
	svc service.ProposalService
}

func NewProposalHandler(svc service.ProposalService) *ProposalHandler {
	return &ProposalHandler{svc: svc}
}

// Submit files a planner's bid against an event.
func (h *ProposalHandler) Submit(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	var req ProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	proposal, err := h.svc.Submit(c.Request.Context(), userID.(uuid.UUID), eventID, req.Amount, req.Services, req.Timeline)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to submit proposal.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Proposal submitted successfully! Await host review.",
		"proposal": proposal,
	})
}

// ListMine returns the authenticated planner's proposals.
func (h *ProposalHandler) ListMine(c *gin.Context) {
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

	var proposals []models.Proposal
	if err := gormDB.Preload("Event").Where("planner_id = ?", userID).Order("created_at DESC").Find(&proposals).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving proposals.")
		return
	}

	c.JSON(http.StatusOK, proposals)
}

// ListForHost returns every proposal filed against the host's events.
func (h *ProposalHandler) ListForHost(c *gin.Context) {
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

	var proposals []models.Proposal
	err := gormDB.Preload("Event").Preload("Planner").
		Joins("JOIN events ON events.id = proposals.event_id AND events.deleted_at IS NULL").
		Where("events.host_id = ?", userID).
		Order("proposals.created_at DESC").
		Find(&proposals).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving proposals.")
		return
	}

	c.JSON(http.StatusOK, proposals)
}

func (h *ProposalHandler) Accept(c *gin.Context) {
	h.decide(c, true)
}

func (h *ProposalHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *ProposalHandler) decide(c *gin.Context, accept bool) {
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid proposal ID.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	proposal, err := h.svc.Decide(c.Request.Context(), userID.(uuid.UUID), proposalID, accept)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProposalNotFound):
			helpers.RespondWithError(c, http.StatusNotFound, "Proposal not found.")
		case errors.Is(err, service.ErrNotAuthorized):
			helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to process this proposal.")
		case errors.Is(err, service.ErrProposalProcessed):
			helpers.RespondWithError(c, http.StatusConflict, "This proposal has already been processed.")
		case errors.Is(err, service.ErrProposalConflict):
			helpers.RespondWithError(c, http.StatusConflict, "This event already has an accepted proposal.")
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to process proposal.")
		}
		return
	}

	message := "Proposal rejected."
	if accept {
		message = "Proposal accepted."
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  message,
		"proposal": proposal,
	})
}

// Update lets a planner revise a proposal that is still pending.
func (h *ProposalHandler) Update(c *gin.Context) {
	proposalID := c.Param("id")

	var req ProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
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

	var proposal models.Proposal
	if err := gormDB.Where("id = ? AND planner_id = ? AND status = ?", proposalID, userID, models.ProposalPending).First(&proposal).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Pending proposal not found.")
		return
	}

	proposal.Amount = req.Amount
	proposal.Services = req.Services
	proposal.Timeline = req.Timeline

	if err := gormDB.Save(&proposal).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update proposal.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Proposal updated successfully.",
		"proposal": proposal,
	})
}

// Delete withdraws a pending proposal.
func (h *ProposalHandler) Delete(c *gin.Context) {
	proposalID := c.Param("id")

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

	var proposal models.Proposal
	if err := gormDB.Where("id = ? AND planner_id = ? AND status = ?", proposalID, userID, models.ProposalPending).First(&proposal).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Pending proposal not found.")
		return
	}

	if err := gormDB.Delete(&proposal).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete proposal.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Proposal deleted successfully.",
	})
}
