package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/rendrapra/planora/internal/helpers"
	"github.com/rendrapra/planora/internal/models"
	"github.com/rendrapra/planora/internal/service"
)

type BookingRequest struct {
	TicketQuantity int `json:"ticket_quantity" binding:"required,min=1"`
}

type PaymentRequest struct {
	CardNumber string `json:"card_number" binding:"required"`
	ExpiryDate string `json:"expiry_date" binding:"required"`
	CVV        string `json:"cvv" binding:"required,len=3"`
	NameOnCard string `json:"name_on_card" binding:"required"`
}

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// Create books tickets for the authenticated guest against an event. A
// capacity shortfall reports the exact remaining count and creates nothing.
func (h *BookingHandler) Create(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	booking, err := h.svc.CreateBooking(c.Request.Context(), userID.(uuid.UUID), eventID, req.TicketQuantity)
	if err != nil {
		var capErr *service.CapacityError
		switch {
		case errors.As(err, &capErr):
			c.JSON(http.StatusConflict, gin.H{
				"error":     http.StatusText(http.StatusConflict),
				"message":   fmt.Sprintf("Only %d tickets left. Please adjust your quantity.", capErr.Remaining),
				"remaining": capErr.Remaining,
			})
		case errors.Is(err, service.ErrEventNotFound):
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create booking.")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking confirmed! Proceed to payment.",
		"booking": booking,
	})
}

// ListMine returns the authenticated guest's bookings.
func (h *BookingHandler) ListMine(c *gin.Context) {
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

	var bookings []models.Booking
	if err := gormDB.Preload("Event").Where("guest_id = ?", userID).Order("created_at DESC").Find(&bookings).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving bookings.")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	booking, err := h.svc.CancelBooking(c.Request.Context(), userID.(uuid.UUID), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
		case errors.Is(err, service.ErrNotAuthorized):
			helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to cancel this booking.")
		case errors.Is(err, service.ErrBookingCancelled):
			helpers.RespondWithError(c, http.StatusConflict, "Booking is already cancelled.")
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel booking.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking cancelled. Refund processed (simulated).",
		"booking": booking,
	})
}

// Pay runs the simulated payment step. No gateway is involved; a well-formed
// card simply marks the booking paid.
func (h *BookingHandler) Pay(c *gin.Context) {
	bookingID := c.Param("id")

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	card := strings.ReplaceAll(req.CardNumber, " ", "")
	if len(card) != 16 || !isDigits(card) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid card number.")
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

	var booking models.Booking
	if err := gormDB.Where("id = ? AND guest_id = ?", bookingID, userID).First(&booking).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
		return
	}

	if booking.Status != models.BookingConfirmed {
		helpers.RespondWithError(c, http.StatusConflict, "Cannot pay for a cancelled booking.")
		return
	}

	if !booking.Paid {
		if err := gormDB.Model(&booking).Update("paid", true).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment.")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment successful! E-ticket generated.",
		"amount":  booking.TotalAmount,
	})
}

// TicketQR renders the booking's e-ticket as a PNG QR code. The encoded
// payload is exactly the ticket token string.
func (h *BookingHandler) TicketQR(c *gin.Context) {
	bookingID := c.Param("id")

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

	var booking models.Booking
	if err := gormDB.Where("id = ? AND guest_id = ?", bookingID, userID).First(&booking).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
		return
	}

	qrImage, err := qrcode.Encode(booking.TicketToken.String(), qrcode.Low, 300)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
