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
	ErrEventNotFound    = errors.New("event not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrBookingCancelled = errors.New("booking is already cancelled")
)

// CapacityError reports a booking request that exceeds the event's remaining
// seats. Remaining is the exact count still available (never negative).
type CapacityError struct {
	Remaining int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("only %d tickets remaining", e.Remaining)
}

type BookingService interface {
	CreateBooking(ctx context.Context, guestID, eventID uuid.UUID, quantity int) (*models.Booking, error)
	CancelBooking(ctx context.Context, guestID, bookingID uuid.UUID) (*models.Booking, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	eventRepo   repository.EventRepository
	notifRepo   repository.NotificationRepository
	publisher   *messaging.Publisher
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	eventRepo repository.EventRepository,
	notifRepo repository.NotificationRepository,
	publisher *messaging.Publisher,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		eventRepo:   eventRepo,
		notifRepo:   notifRepo,
		publisher:   publisher,
	}
}

// CreateBooking issues a confirmed booking with a fresh ticket token. The
// capacity check and the insert run in one transaction holding a row lock on
// the event, so the sum of confirmed ticket quantities can never exceed the
// event's guest count even under concurrent requests.
func (s *bookingService) CreateBooking(ctx context.Context, guestID, eventID uuid.UUID, quantity int) (*models.Booking, error) {
	var result *models.Booking

	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		booked, err := s.bookingRepo.SumConfirmedQuantity(ctx, tx, eventID)
		if err != nil {
			return err
		}

		remaining := event.GuestCount - booked
		if remaining < 0 {
			remaining = 0
		}
		if remaining == 0 || quantity > remaining {
			return &CapacityError{Remaining: remaining}
		}

		// Per-seat price is derived from the event's own budget. There is no
		// independent ticket price on this platform.
		booking := &models.Booking{
			EventID:        eventID,
			GuestID:        guestID,
			TicketQuantity: quantity,
			TotalAmount:    event.Budget / float64(event.GuestCount) * float64(quantity),
			Status:         models.BookingConfirmed,
		}
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return err
		}

		guestNote := &models.Notification{
			RecipientID: guestID,
			Type:        models.NotificationBookingCreated,
			Message:     fmt.Sprintf("Booking confirmed for %q. Ticket %s. Check your e-ticket.", event.Name, booking.TicketToken),
			RelatedID:   &booking.ID,
		}
		if err := s.notifRepo.Create(ctx, tx, guestNote); err != nil {
			return err
		}

		hostNote := &models.Notification{
			RecipientID: event.HostID,
			Type:        models.NotificationBookingCreated,
			Message:     fmt.Sprintf("New booking of %d ticket(s) for %q. Total: %.2f.", quantity, event.Name, booking.TotalAmount),
			RelatedID:   &booking.ID,
		}
		if err := s.notifRepo.Create(ctx, tx, hostNote); err != nil {
			return err
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("booking.created", result)
	}

	return result, nil
}

// CancelBooking moves a confirmed booking to cancelled, freeing its tickets
// for the event's capacity.
func (s *bookingService) CancelBooking(ctx context.Context, guestID, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if booking.GuestID != guestID {
		return nil, ErrNotAuthorized
	}

	cancelled, err := s.bookingRepo.Cancel(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !cancelled {
		return nil, ErrBookingCancelled
	}

	booking.Status = models.BookingCancelled
	if s.publisher != nil {
		_ = s.publisher.Publish("booking.cancelled", booking)
	}

	return booking, nil
}
