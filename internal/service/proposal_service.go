package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rendrapra/planora/internal/messaging"
	"github.com/rendrapra/planora/internal/models"
	"github.com/rendrapra/planora/internal/repository"
)

var (
	ErrProposalNotFound  = errors.New("proposal not found")
	ErrProposalProcessed = errors.New("proposal has already been processed")
	ErrProposalConflict  = errors.New("event already has an accepted proposal")
)

type ProposalService interface {
	Submit(ctx context.Context, plannerID, eventID uuid.UUID, amount float64, services, timeline string) (*models.Proposal, error)
	Decide(ctx context.Context, hostID, proposalID uuid.UUID, accept bool) (*models.Proposal, error)
}

type proposalService struct {
	proposalRepo repository.ProposalRepository
	eventRepo    repository.EventRepository
	notifRepo    repository.NotificationRepository
	publisher    *messaging.Publisher
}

func NewProposalService(
	proposalRepo repository.ProposalRepository,
	eventRepo repository.EventRepository,
	notifRepo repository.NotificationRepository,
	publisher *messaging.Publisher,
) ProposalService {
	return &proposalService{
		proposalRepo: proposalRepo,
		eventRepo:    eventRepo,
		notifRepo:    notifRepo,
		publisher:    publisher,
	}
}

func (s *proposalService) Submit(ctx context.Context, plannerID, eventID uuid.UUID, amount float64, services, timeline string) (*models.Proposal, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	var result *models.Proposal
	err = s.proposalRepo.Transaction(ctx, func(tx *gorm.DB) error {
		proposal := &models.Proposal{
			EventID:   eventID,
			PlannerID: plannerID,
			Amount:    amount,
			Services:  services,
			Timeline:  timeline,
			Status:    models.ProposalPending,
		}
		if err := s.proposalRepo.Create(ctx, tx, proposal); err != nil {
			return err
		}

		note := &models.Notification{
			RecipientID: event.HostID,
			Type:        models.NotificationProposalSubmitted,
			Message:     fmt.Sprintf("New proposal received for %q. Amount: %.2f.", event.Name, amount),
			RelatedID:   &proposal.ID,
		}
		if err := s.notifRepo.Create(ctx, tx, note); err != nil {
			return err
		}

		result = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("proposal.submitted", result)
	}

	return result, nil
}

// Decide accepts or rejects a pending proposal. Acceptance holds the event
// row lock while checking that no other proposal for the event is accepted,
// keeping at most one accepted proposal per event.
func (s *proposalService) Decide(ctx context.Context, hostID, proposalID uuid.UUID, accept bool) (*models.Proposal, error) {
	proposal, err := s.proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}

	if proposal.Event.HostID != hostID {
		return nil, ErrNotAuthorized
	}
	if proposal.Status != models.ProposalPending {
		return nil, ErrProposalProcessed
	}

	status := models.ProposalRejected
	if accept {
		status = models.ProposalAccepted
	}

	err = s.proposalRepo.Transaction(ctx, func(tx *gorm.DB) error {
		if accept {
			if _, err := s.eventRepo.FindByIDForUpdate(ctx, tx, proposal.EventID); err != nil {
				return err
			}
			taken, err := s.proposalRepo.HasAccepted(ctx, tx, proposal.EventID)
			if err != nil {
				return err
			}
			if taken {
				return ErrProposalConflict
			}
		}

		if err := s.proposalRepo.UpdateStatus(ctx, tx, proposalID, status); err != nil {
			return err
		}

		if accept {
			note := &models.Notification{
				RecipientID: proposal.PlannerID,
				Type:        models.NotificationProposalAccepted,
				Message:     fmt.Sprintf("Your proposal for %q has been accepted!", proposal.Event.Name),
				RelatedID:   &proposal.ID,
			}
			if err := s.notifRepo.Create(ctx, tx, note); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	proposal.Status = status
	if accept && s.publisher != nil {
		_ = s.publisher.Publish("proposal.accepted", proposal)
	}

	return proposal, nil
}
