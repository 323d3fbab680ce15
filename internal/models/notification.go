package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationProposalSubmitted NotificationType = "proposal_submitted"
	NotificationProposalAccepted  NotificationType = "proposal_accepted"
	NotificationBookingCreated    NotificationType = "booking_created"
	NotificationEventCreated      NotificationType = "event_created"
	NotificationGeneral           NotificationType = "general"
)

type Notification struct {
	gorm.Model
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	RecipientID uuid.UUID        `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Recipient   User             `json:"-"`
	Type        NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Message     string           `gorm:"not null" json:"message"`
	RelatedID   *uuid.UUID       `gorm:"type:uuid" json:"related_id,omitempty"`
	IsRead      bool             `gorm:"not null;default:false" json:"is_read"`
}

func (notification *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	return
}
