package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventNeeds is the closed set of service tags a host can request for an
// event. Stored comma-joined on the Event record.
var EventNeeds = []string{"catering", "decorations", "photography", "music", "venue", "other"}

func ValidNeed(need string) bool {
	for _, n := range EventNeeds {
		if n == need {
			return true
		}
	}
	return false
}

type Event struct {
	gorm.Model
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	StartTime    time.Time `gorm:"not null" json:"start_time"`
	EndTime      time.Time `gorm:"not null" json:"end_time"`
	Budget       float64   `gorm:"type:numeric(10,2);not null" json:"budget"`
	GuestCount   int       `gorm:"not null" json:"guest_count"`
	Needs        string    `json:"needs"`
	VenueDetails string    `json:"venue_details"`
	HostID       uuid.UUID `gorm:"type:uuid;not null;index" json:"host_id"`
	Host         User      `json:"host,omitempty"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}
