package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rendrapra/planora/internal/models"
)

func pendingProposal(hostID uuid.UUID) *models.Proposal {
	eventID := uuid.New()
	return &models.Proposal{
		ID:        uuid.New(),
		EventID:   eventID,
		PlannerID: uuid.New(),
		Amount:    750,
		Status:    models.ProposalPending,
		Event: models.Event{
			ID:     eventID,
			Name:   "Corporate Retreat",
			HostID: hostID,
		},
	}
}

func TestSubmitProposal(t *testing.T) {
	hostID := uuid.New()
	event := &models.Event{ID: uuid.New(), Name: "Corporate Retreat", HostID: hostID}

	eventRepo := &mockEventRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Event, error) {
			if id != event.ID {
				return nil, gorm.ErrRecordNotFound
			}
			return event, nil
		},
	}
	proposalRepo := &mockProposalRepo{
		createFn: func(ctx context.Context, tx *gorm.DB, proposal *models.Proposal) error {
			proposal.ID = uuid.New()
			return nil
		},
	}
	notifRepo := &mockNotificationRepo{}
	svc := NewProposalService(proposalRepo, eventRepo, notifRepo, nil)

	plannerID := uuid.New()
	proposal, err := svc.Submit(context.Background(), plannerID, event.ID, 750, "catering, music", "6 weeks")

	require.NoError(t, err)
	assert.Equal(t, models.ProposalPending, proposal.Status)
	assert.Equal(t, plannerID, proposal.PlannerID)

	require.Len(t, notifRepo.created, 1)
	assert.Equal(t, hostID, notifRepo.created[0].RecipientID)
	assert.Equal(t, models.NotificationProposalSubmitted, notifRepo.created[0].Type)
}

func TestSubmitProposal_EventNotFound(t *testing.T) {
	eventRepo := &mockEventRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Event, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewProposalService(&mockProposalRepo{}, eventRepo, &mockNotificationRepo{}, nil)

	_, err := svc.Submit(context.Background(), uuid.New(), uuid.New(), 100, "venue", "")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestDecide_AcceptNotifiesPlanner(t *testing.T) {
	hostID := uuid.New()
	proposal := pendingProposal(hostID)

	var updatedTo models.ProposalStatus
	proposalRepo := &mockProposalRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
			p := *proposal
			return &p, nil
		},
		hasAcceptedFn: func(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (bool, error) {
			return false, nil
		},
		updateStatusFn: func(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.ProposalStatus) error {
			updatedTo = status
			return nil
		},
	}
	eventRepo := &mockEventRepo{
		findByIDForUpdateFn: func(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Event, error) {
			return &proposal.Event, nil
		},
	}
	notifRepo := &mockNotificationRepo{}
	svc := NewProposalService(proposalRepo, eventRepo, notifRepo, nil)

	decided, err := svc.Decide(context.Background(), hostID, proposal.ID, true)

	require.NoError(t, err)
	assert.Equal(t, models.ProposalAccepted, decided.Status)
	assert.Equal(t, models.ProposalAccepted, updatedTo)

	require.Len(t, notifRepo.created, 1)
	assert.Equal(t, proposal.PlannerID, notifRepo.created[0].RecipientID)
	assert.Equal(t, models.NotificationProposalAccepted, notifRepo.created[0].Type)
}

func TestDecide_AcceptConflictsWhenEventTaken(t *testing.T) {
	hostID := uuid.New()
	proposal := pendingProposal(hostID)

	updateCalled := false
	proposalRepo := &mockProposalRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
			p := *proposal
			return &p, nil
		},
		hasAcceptedFn: func(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (bool, error) {
			return true, nil
		},
		updateStatusFn: func(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.ProposalStatus) error {
			updateCalled = true
			return nil
		},
	}
	eventRepo := &mockEventRepo{
		findByIDForUpdateFn: func(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Event, error) {
			return &proposal.Event, nil
		},
	}
	svc := NewProposalService(proposalRepo, eventRepo, &mockNotificationRepo{}, nil)

	_, err := svc.Decide(context.Background(), hostID, proposal.ID, true)

	assert.ErrorIs(t, err, ErrProposalConflict)
	assert.False(t, updateCalled)
}

func TestDecide_RejectSkipsConflictCheck(t *testing.T) {
	hostID := uuid.New()
	proposal := pendingProposal(hostID)

	proposalRepo := &mockProposalRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
			p := *proposal
			return &p, nil
		},
		hasAcceptedFn: func(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (bool, error) {
			t.Fatal("reject must not check for an accepted proposal")
			return false, nil
		},
		updateStatusFn: func(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.ProposalStatus) error {
			assert.Equal(t, models.ProposalRejected, status)
			return nil
		},
	}
	notifRepo := &mockNotificationRepo{}
	svc := NewProposalService(proposalRepo, &mockEventRepo{}, notifRepo, nil)

	decided, err := svc.Decide(context.Background(), hostID, proposal.ID, false)

	require.NoError(t, err)
	assert.Equal(t, models.ProposalRejected, decided.Status)
	assert.Empty(t, notifRepo.created, "rejection sends no notification")
}

func TestDecide_ForeignHost(t *testing.T) {
	proposal := pendingProposal(uuid.New())
	proposalRepo := &mockProposalRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
			p := *proposal
			return &p, nil
		},
	}
	svc := NewProposalService(proposalRepo, &mockEventRepo{}, &mockNotificationRepo{}, nil)

	_, err := svc.Decide(context.Background(), uuid.New(), proposal.ID, true)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestDecide_AlreadyProcessed(t *testing.T) {
	hostID := uuid.New()
	proposal := pendingProposal(hostID)
	proposal.Status = models.ProposalRejected

	proposalRepo := &mockProposalRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
			p := *proposal
			return &p, nil
		},
	}
	svc := NewProposalService(proposalRepo, &mockEventRepo{}, &mockNotificationRepo{}, nil)

	_, err := svc.Decide(context.Background(), hostID, proposal.ID, true)
	assert.ErrorIs(t, err, ErrProposalProcessed)
}

func TestDecide_NotFound(t *testing.T) {
	proposalRepo := &mockProposalRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewProposalService(proposalRepo, &mockEventRepo{}, &mockNotificationRepo{}, nil)

	_, err := svc.Decide(context.Background(), uuid.New(), uuid.New(), true)
	assert.ErrorIs(t, err, ErrProposalNotFound)
}
