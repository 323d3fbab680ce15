package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rendrapra/planora/internal/models"
)

type BookingRepository interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	FindByToken(ctx context.Context, token uuid.UUID) (*models.Booking, error)
	SumConfirmedQuantity(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (int, error)
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)
	MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByToken(ctx context.Context, token uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Guest").
		Preload("Event").
		Where("ticket_token = ?", token).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// SumConfirmedQuantity returns the number of tickets sold across confirmed
// bookings for the event. Callers holding the event row lock see a stable sum.
func (r *bookingRepository) SumConfirmedQuantity(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (int, error) {
	db := r.db
	if tx != nil {
		db = tx
	}

	var total int64
	err := db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("event_id = ? AND status = ?", eventID, models.BookingConfirmed).
		Select("COALESCE(SUM(ticket_quantity), 0)").
		Scan(&total).Error
	return int(total), err
}

// Cancel flips a confirmed booking to cancelled. Returns false when the
// booking was not confirmed anymore, so a double cancel cannot run twice.
func (r *bookingRepository) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, models.BookingConfirmed).
		Update("status", models.BookingCancelled)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkUsed is the single-row compare-and-swap behind gate verification: only
// one caller can move the booking from unused to used. Returns false when a
// concurrent scan already won.
func (r *bookingRepository) MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND is_used = ?", id, false).
		Updates(map[string]interface{}{"is_used": true, "scanned_at": at})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
