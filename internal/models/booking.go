package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking reserves a ticket quantity against an event. TicketToken is the
// opaque identifier encoded into the QR e-ticket and redeemed once at the
// gate; IsUsed/ScannedAt record that redemption.
type Booking struct {
	gorm.Model
	ID             uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	TicketToken    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex" json:"ticket_token"`
	TicketQuantity int           `gorm:"not null;default:1" json:"ticket_quantity"`
	TotalAmount    float64       `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	Status         BookingStatus `gorm:"type:varchar(10);not null;default:'confirmed'" json:"status"`
	IsUsed         bool          `gorm:"not null;default:false" json:"is_used"`
	ScannedAt      *time.Time    `json:"scanned_at,omitempty"`
	Paid           bool          `gorm:"not null;default:false" json:"paid"`
	EventID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"event_id"`
	Event          Event         `json:"event,omitempty"`
	GuestID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"guest_id"`
	Guest          User          `json:"guest,omitempty"`
}

func (booking *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	if booking.TicketToken == uuid.Nil {
		booking.TicketToken = uuid.New()
	}
	return
}
