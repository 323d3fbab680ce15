package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rendrapra/planora/internal/models"
)

type ProposalRepository interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, tx *gorm.DB, proposal *models.Proposal) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	HasAccepted(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.ProposalStatus) error
}

type proposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &proposalRepository{db: db}
}

func (r *proposalRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *proposalRepository) Create(ctx context.Context, tx *gorm.DB, proposal *models.Proposal) error {
	return tx.WithContext(ctx).Create(proposal).Error
}

func (r *proposalRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Planner").
		Where("id = ?", id).
		First(&proposal).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *proposalRepository) HasAccepted(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (bool, error) {
	db := r.db
	if tx != nil {
		db = tx
	}

	var count int64
	err := db.WithContext(ctx).
		Model(&models.Proposal{}).
		Where("event_id = ? AND status = ?", eventID, models.ProposalAccepted).
		Count(&count).Error
	return count > 0, err
}

func (r *proposalRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.ProposalStatus) error {
	return tx.WithContext(ctx).
		Model(&models.Proposal{}).
		Where("id = ?", id).
		Update("status", status).Error
}
