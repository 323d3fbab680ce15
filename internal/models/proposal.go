package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalRejected ProposalStatus = "rejected"
)

// Proposal is a planner's bid to service an event. At most one proposal per
// event may hold the accepted status.
type Proposal struct {
	gorm.Model
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	EventID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"event_id"`
	Event     Event          `json:"event,omitempty"`
	PlannerID uuid.UUID      `gorm:"type:uuid;not null;index" json:"planner_id"`
	Planner   User           `json:"planner,omitempty"`
	Amount    float64        `gorm:"type:numeric(10,2);not null" json:"amount"`
	Services  string         `gorm:"not null" json:"services"`
	Timeline  string         `json:"timeline"`
	Status    ProposalStatus `gorm:"type:varchar(10);not null;default:'pending'" json:"status"`
}

func (proposal *Proposal) BeforeCreate(tx *gorm.DB) (err error) {
	if proposal.ID == uuid.Nil {
		proposal.ID = uuid.New()
	}
	return
}
