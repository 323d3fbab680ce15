package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rendrapra/planora/internal/models"
)

func ticketFixture(hostID uuid.UUID) *models.Booking {
	return &models.Booking{
		ID:             uuid.New(),
		TicketToken:    uuid.New(),
		TicketQuantity: 3,
		Status:         models.BookingConfirmed,
		Event: models.Event{
			ID:     uuid.New(),
			Name:   "Charity Gala",
			HostID: hostID,
		},
		Guest: models.User{
			ID:       uuid.New(),
			FullName: "Ayu Lestari",
		},
	}
}

func TestVerify_MalformedToken(t *testing.T) {
	svc := NewVerificationService(&mockBookingRepo{})

	result, err := svc.Verify(context.Background(), "not-a-uuid", uuid.New())

	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.False(t, result.AlreadyUsed)
	assert.Equal(t, "Invalid or unknown QR code", result.Message)
}

func TestVerify_UnknownToken(t *testing.T) {
	repo := &mockBookingRepo{
		findByTokenFn: func(ctx context.Context, token uuid.UUID) (*models.Booking, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewVerificationService(repo)

	result, err := svc.Verify(context.Background(), uuid.New().String(), uuid.New())

	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, "Invalid or unknown QR code", result.Message)
}

func TestVerify_ForeignHostSeesNoTicketState(t *testing.T) {
	hostID := uuid.New()
	booking := ticketFixture(hostID)
	booking.IsUsed = true

	markUsedCalled := false
	repo := &mockBookingRepo{
		findByTokenFn: func(ctx context.Context, token uuid.UUID) (*models.Booking, error) {
			return booking, nil
		},
		markUsedFn: func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
			markUsedCalled = true
			return true, nil
		},
	}
	svc := NewVerificationService(repo)

	result, err := svc.Verify(context.Background(), booking.TicketToken.String(), uuid.New())

	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.False(t, result.AlreadyUsed, "foreign host must not learn the ticket was used")
	assert.Empty(t, result.GuestName)
	assert.Equal(t, "You are not authorized for this event", result.Message)
	assert.False(t, markUsedCalled)
}

func TestVerify_Success(t *testing.T) {
	hostID := uuid.New()
	booking := ticketFixture(hostID)

	repo := &mockBookingRepo{
		findByTokenFn: func(ctx context.Context, token uuid.UUID) (*models.Booking, error) {
			return booking, nil
		},
		markUsedFn: func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
			assert.Equal(t, booking.ID, id)
			return true, nil
		},
	}
	svc := NewVerificationService(repo)

	result, err := svc.Verify(context.Background(), booking.TicketToken.String(), hostID)

	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.False(t, result.AlreadyUsed)
	assert.Equal(t, "Ayu Lestari", result.GuestName)
	assert.Equal(t, "Charity Gala", result.EventName)
	assert.Equal(t, 3, result.TicketCount)
	assert.NotEmpty(t, result.ScannedAt)
	assert.Equal(t, "Entry confirmed. Ticket marked as used.", result.Message)
}

func TestVerify_AlreadyUsedEchoesStoredTimestamp(t *testing.T) {
	hostID := uuid.New()
	booking := ticketFixture(hostID)
	scanned := time.Date(2026, 8, 14, 19, 30, 0, 0, time.Local)
	booking.IsUsed = true
	booking.ScannedAt = &scanned

	repo := &mockBookingRepo{
		findByTokenFn: func(ctx context.Context, token uuid.UUID) (*models.Booking, error) {
			return booking, nil
		},
	}
	svc := NewVerificationService(repo)

	result, err := svc.Verify(context.Background(), booking.TicketToken.String(), hostID)

	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.True(t, result.AlreadyUsed)
	assert.Equal(t, "2026-08-14 19:30:00", result.ScannedAt)
	assert.Equal(t, booking.TicketToken.String(), result.BookingID)
	assert.Equal(t, "Ticket already used", result.Message)
}

func TestVerify_LostRaceReportsWinnersScan(t *testing.T) {
	hostID := uuid.New()
	booking := ticketFixture(hostID)
	winnerScan := time.Date(2026, 8, 14, 20, 0, 0, 0, time.Local)

	fetches := 0
	repo := &mockBookingRepo{
		findByTokenFn: func(ctx context.Context, token uuid.UUID) (*models.Booking, error) {
			fetches++
			if fetches == 1 {
				b := *booking
				return &b, nil
			}
			b := *booking
			b.IsUsed = true
			b.ScannedAt = &winnerScan
			return &b, nil
		},
		markUsedFn: func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
			return false, nil
		},
	}
	svc := NewVerificationService(repo)

	result, err := svc.Verify(context.Background(), booking.TicketToken.String(), hostID)

	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.True(t, result.AlreadyUsed)
	assert.Equal(t, "2026-08-14 20:00:00", result.ScannedAt)
	assert.Equal(t, 2, fetches)
}

// Two gates scanning the same ticket at once: exactly one confirmation,
// exactly one already-used answer, regardless of interleaving.
func TestVerify_ConcurrentScansExactlyOneWinner(t *testing.T) {
	hostID := uuid.New()
	booking := ticketFixture(hostID)

	var mu sync.Mutex
	used := false
	var scannedAt *time.Time

	repo := &mockBookingRepo{
		findByTokenFn: func(ctx context.Context, token uuid.UUID) (*models.Booking, error) {
			mu.Lock()
			defer mu.Unlock()
			b := *booking
			b.IsUsed = used
			b.ScannedAt = scannedAt
			return &b, nil
		},
		markUsedFn: func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
			mu.Lock()
			defer mu.Unlock()
			if used {
				return false, nil
			}
			used = true
			scannedAt = &at
			return true, nil
		},
	}
	svc := NewVerificationService(repo)

	const scanners = 2
	results := make([]*VerificationResult, scanners)
	var wg sync.WaitGroup
	for i := 0; i < scanners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := svc.Verify(context.Background(), booking.TicketToken.String(), hostID)
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	var wins, dupes int
	for _, result := range results {
		require.NotNil(t, result)
		if result.OK {
			wins++
		}
		if result.AlreadyUsed {
			dupes++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, dupes)
}
