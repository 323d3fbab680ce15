package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rendrapra/planora/internal/models"
	"github.com/rendrapra/planora/internal/repository"
)

const scannedAtLayout = "2006-01-02 15:04:05"

// VerificationResult is the gate scanner's answer for one ticket scan.
type VerificationResult struct {
	OK          bool   `json:"ok"`
	AlreadyUsed bool   `json:"already_used"`
	GuestName   string `json:"guest,omitempty"`
	EventName   string `json:"event,omitempty"`
	TicketCount int    `json:"tickets,omitempty"`
	ScannedAt   string `json:"scanned_at,omitempty"`
	BookingID   string `json:"booking_id,omitempty"`
	Message     string `json:"message"`
}

type VerificationService interface {
	Verify(ctx context.Context, token string, hostID uuid.UUID) (*VerificationResult, error)
}

type verificationService struct {
	bookingRepo repository.BookingRepository
}

func NewVerificationService(bookingRepo repository.BookingRepository) VerificationService {
	return &verificationService{bookingRepo: bookingRepo}
}

// Verify redeems a ticket token exactly once. Ownership is checked before the
// used flag so a foreign host learns nothing about the ticket's state. The
// unused->used transition is a conditional single-row update; when two gates
// scan the same ticket at once only one wins, the other gets the already-used
// answer with the winner's timestamp.
func (s *verificationService) Verify(ctx context.Context, token string, hostID uuid.UUID) (*VerificationResult, error) {
	parsed, err := uuid.Parse(token)
	if err != nil {
		return &VerificationResult{Message: "Invalid or unknown QR code"}, nil
	}

	booking, err := s.bookingRepo.FindByToken(ctx, parsed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &VerificationResult{Message: "Invalid or unknown QR code"}, nil
		}
		return nil, err
	}

	if booking.Event.HostID != hostID {
		return &VerificationResult{Message: "You are not authorized for this event"}, nil
	}

	if booking.IsUsed {
		return alreadyUsedResult(booking), nil
	}

	now := time.Now()
	won, err := s.bookingRepo.MarkUsed(ctx, booking.ID, now)
	if err != nil {
		return nil, err
	}
	if !won {
		// Lost the race against a concurrent scan; report that scan's outcome.
		fresh, err := s.bookingRepo.FindByToken(ctx, parsed)
		if err != nil {
			return nil, err
		}
		return alreadyUsedResult(fresh), nil
	}

	return &VerificationResult{
		OK:          true,
		GuestName:   booking.Guest.FullName,
		EventName:   booking.Event.Name,
		TicketCount: booking.TicketQuantity,
		ScannedAt:   now.Local().Format(scannedAtLayout),
		Message:     "Entry confirmed. Ticket marked as used.",
	}, nil
}

func alreadyUsedResult(booking *models.Booking) *VerificationResult {
	result := &VerificationResult{
		AlreadyUsed: true,
		GuestName:   booking.Guest.FullName,
		EventName:   booking.Event.Name,
		TicketCount: booking.TicketQuantity,
		BookingID:   booking.TicketToken.String(),
		Message:     "Ticket already used",
	}
	if booking.ScannedAt != nil {
		result.ScannedAt = booking.ScannedAt.Local().Format(scannedAtLayout)
	}
	return result
}
