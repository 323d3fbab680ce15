package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rendrapra/planora/internal/helpers"
	"github.com/rendrapra/planora/internal/service"
)

type VerificationRequest struct {
	QRData string `json:"qr_data" binding:"required"`
}

type VerificationHandler struct {
	svc service.VerificationService
}

func NewVerificationHandler(svc service.VerificationService) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

// Verify redeems a scanned ticket for the authenticated host. Business
// outcomes (unknown code, wrong event, already used, entry confirmed) all
// come back as 200 with a structured result; only storage failures are 500s.
func (h *VerificationHandler) Verify(c *gin.Context) {
	var req VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "No QR data received.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	result, err := h.svc.Verify(c.Request.Context(), req.QRData, userID.(uuid.UUID))
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to verify ticket.")
		return
	}

	c.JSON(http.StatusOK, result)
}
