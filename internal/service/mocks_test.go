package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rendrapra/planora/internal/models"
)

type mockBookingRepo struct {
	transactionFn          func(ctx context.Context, fn func(tx *gorm.DB) error) error
	createFn               func(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	findByIDFn             func(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	findByTokenFn          func(ctx context.Context, token uuid.UUID) (*models.Booking, error)
	sumConfirmedQuantityFn func(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (int, error)
	cancelFn               func(ctx context.Context, id uuid.UUID) (bool, error)
	markUsedFn             func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

func (m *mockBookingRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if m.transactionFn != nil {
		return m.transactionFn(ctx, fn)
	}
	return fn(nil)
}

func (m *mockBookingRepo) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return m.createFn(ctx, tx, booking)
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockBookingRepo) FindByToken(ctx context.Context, token uuid.UUID) (*models.Booking, error) {
	return m.findByTokenFn(ctx, token)
}

func (m *mockBookingRepo) SumConfirmedQuantity(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (int, error) {
	return m.sumConfirmedQuantityFn(ctx, tx, eventID)
}

func (m *mockBookingRepo) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.cancelFn(ctx, id)
}

func (m *mockBookingRepo) MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return m.markUsedFn(ctx, id, at)
}

type mockEventRepo struct {
	findByIDFn          func(ctx context.Context, id uuid.UUID) (*models.Event, error)
	findByIDForUpdateFn func(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Event, error)
}

func (m *mockEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockEventRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Event, error) {
	return m.findByIDForUpdateFn(ctx, tx, id)
}

type mockProposalRepo struct {
	transactionFn  func(ctx context.Context, fn func(tx *gorm.DB) error) error
	createFn       func(ctx context.Context, tx *gorm.DB, proposal *models.Proposal) error
	findByIDFn     func(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	hasAcceptedFn  func(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (bool, error)
	updateStatusFn func(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.ProposalStatus) error
}

func (m *mockProposalRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if m.transactionFn != nil {
		return m.transactionFn(ctx, fn)
	}
	return fn(nil)
}

func (m *mockProposalRepo) Create(ctx context.Context, tx *gorm.DB, proposal *models.Proposal) error {
	return m.createFn(ctx, tx, proposal)
}

func (m *mockProposalRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockProposalRepo) HasAccepted(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (bool, error) {
	return m.hasAcceptedFn(ctx, tx, eventID)
}

func (m *mockProposalRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.ProposalStatus) error {
	return m.updateStatusFn(ctx, tx, id, status)
}

type mockNotificationRepo struct {
	created []*models.Notification
}

func (m *mockNotificationRepo) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	m.created = append(m.created, notification)
	return nil
}
