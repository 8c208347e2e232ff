package service

import (
	"context"
	"time"

	"homestay/internal/database"
	"homestay/internal/domain"
	"homestay/internal/events"
	"homestay/internal/metrics"
	"homestay/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type BookingService struct {
	repo            domain.Repository
	state           domain.StateRepository
	eventBus        domain.EventPublisher
	ledgerWorker    domain.SyncWorker
	maxAdvanceDays  int
	rateLimitCount  int
	rateLimitWindow time.Duration
	logger          *zerolog.Logger
}

func NewBookingService(
	repo domain.Repository,
	state domain.StateRepository,
	eventBus domain.EventPublisher,
	ledgerWorker domain.SyncWorker,
	maxAdvanceDays, rateLimitCount, rateLimitWindowSec int,
	logger *zerolog.Logger,
) *BookingService {
	if maxAdvanceDays <= 0 {
		maxAdvanceDays = models.DefaultMaxBookingAdvanceDays
	}
	if rateLimitCount <= 0 {
		rateLimitCount = models.DefaultBookingRateLimit
	}
	if rateLimitWindowSec <= 0 {
		rateLimitWindowSec = models.DefaultBookingRateWindow
	}
	return &BookingService{
		repo:            repo,
		state:           state,
		eventBus:        eventBus,
		ledgerWorker:    ledgerWorker,
		maxAdvanceDays:  maxAdvanceDays,
		rateLimitCount:  rateLimitCount,
		rateLimitWindow: time.Duration(rateLimitWindowSec) * time.Second,
		logger:          logger,
	}
}

// ValidateDateRange checks ordering and the booking horizon. Today counts
// as a valid check-in; anything earlier does not.
func (s *BookingService) ValidateDateRange(checkIn, checkOut time.Time) error {
	in := normalizeDate(checkIn)
	out := normalizeDate(checkOut)

	if !out.After(in) {
		return database.ErrInvalidDateRange
	}

	today := normalizeDate(time.Now())
	if in.Before(today) {
		return database.ErrPastDate
	}

	maxDate := today.AddDate(0, 0, s.maxAdvanceDays)
	if in.After(maxDate) {
		return database.ErrDateTooFar
	}

	return nil
}

// CreateBooking runs the full validation ladder and then inserts under a
// transaction-level availability re-check. The pre-check outside the
// transaction exists only to fail fast; the check inside
// CreateBookingWithLock is the one that counts.
func (s *BookingService) CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error) {
	listing, err := s.repo.GetListing(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsActive {
		return nil, database.ErrListingNotFound
	}

	if err := s.ValidateDateRange(req.CheckIn, req.CheckOut); err != nil {
		return nil, err
	}

	if req.Guests < 1 || req.Guests > listing.MaxGuests {
		return nil, database.ErrGuestCountExceeded
	}

	if s.state != nil {
		allowed, err := s.state.CheckRateLimit(ctx, req.GuestID, s.rateLimitCount, s.rateLimitWindow)
		if err != nil {
			s.logger.Error().Err(err).Int64("guest_id", req.GuestID).Msg("rate limit check failed")
		} else if !allowed {
			return nil, database.ErrRateLimited
		}
	}

	checkIn := normalizeDate(req.CheckIn)
	checkOut := normalizeDate(req.CheckOut)

	available, err := s.repo.CheckAvailability(ctx, req.ListingID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if !available {
		metrics.IncBookingConflict()
		return nil, database.ErrNotAvailable
	}

	total, err := ComputeTotal(listing.NightlyPrice, checkIn, checkOut, req.Guests)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		Reference:    uuid.NewString(),
		ListingID:    req.ListingID,
		GuestID:      req.GuestID,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Guests:       req.Guests,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		TotalPrice:   total,
		Status:       models.StatusConfirmed,
	}

	if err := s.repo.CreateBookingWithLock(ctx, booking); err != nil {
		if err == database.ErrNotAvailable {
			metrics.IncBookingConflict()
		}
		return nil, err
	}

	metrics.IncBookingCreated()
	s.publishEvent(events.EventBookingCreated, booking, listing)
	s.enqueueSync(ctx, models.TaskTypeLedgerAppend, booking, listing)

	return booking, nil
}

// CancelBooking is allowed for the guest who made the booking and for the
// owner of the listing it was made against. Completed bookings stay final.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, actorID int64) error {
	booking, listing, err := s.loadBookingWithListing(ctx, bookingID)
	if err != nil {
		return err
	}

	if actorID != booking.GuestID && actorID != listing.OwnerID {
		return database.ErrForbidden
	}
	if booking.Status != models.StatusConfirmed {
		return database.ErrInvalidStatus
	}

	if err := s.repo.UpdateBookingStatusWithVersion(ctx, bookingID, booking.Version, models.StatusCancelled); err != nil {
		return err
	}

	booking.Status = models.StatusCancelled
	s.publishEvent(events.EventBookingCancelled, booking, listing)
	s.enqueueSync(ctx, models.TaskTypeLedgerUpdate, booking, listing)

	return nil
}

// CompleteBooking marks a past stay as completed. Only the listing owner
// can do this, and only once the check-out date has passed.
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID, actorID int64) error {
	booking, listing, err := s.loadBookingWithListing(ctx, bookingID)
	if err != nil {
		return err
	}

	if actorID != listing.OwnerID {
		return database.ErrForbidden
	}
	if booking.Status != models.StatusConfirmed {
		return database.ErrInvalidStatus
	}
	if normalizeDate(time.Now()).Before(booking.CheckOut) {
		return database.ErrInvalidStatus
	}

	if err := s.repo.UpdateBookingStatusWithVersion(ctx, bookingID, booking.Version, models.StatusCompleted); err != nil {
		return err
	}

	booking.Status = models.StatusCompleted
	s.publishEvent(events.EventBookingCompleted, booking, listing)
	s.enqueueSync(ctx, models.TaskTypeLedgerUpdate, booking, listing)

	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID, actorID int64) (*models.Booking, error) {
	booking, listing, err := s.loadBookingWithListing(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actorID != booking.GuestID && actorID != listing.OwnerID {
		return nil, database.ErrForbidden
	}
	return booking, nil
}

func (s *BookingService) ListGuestBookings(ctx context.Context, guestID int64) ([]*models.BookingDetails, error) {
	return s.repo.GetGuestBookings(ctx, guestID)
}

func (s *BookingService) ListHostBookings(ctx context.Context, ownerID int64) ([]*models.BookingDetails, error) {
	return s.repo.GetHostBookings(ctx, ownerID)
}

func (s *BookingService) ListHostBookingsInRange(ctx context.Context, ownerID int64, start, end time.Time) ([]*models.BookingDetails, error) {
	return s.repo.GetHostBookingsInRange(ctx, ownerID, normalizeDate(start), normalizeDate(end))
}

func (s *BookingService) GetAvailability(ctx context.Context, listingID int64, startDate time.Time, days int) ([]*models.Availability, error) {
	if _, err := s.repo.GetListing(ctx, listingID); err != nil {
		return nil, err
	}
	return s.repo.GetAvailabilityForPeriod(ctx, listingID, normalizeDate(startDate), days)
}

// Quote prices a stay without creating anything. Availability is not part
// of a quote.
func (s *BookingService) Quote(ctx context.Context, listingID int64, checkIn, checkOut time.Time, guests int64) (int64, error) {
	listing, err := s.repo.GetListing(ctx, listingID)
	if err != nil {
		return 0, err
	}
	if guests < 1 || guests > listing.MaxGuests {
		return 0, database.ErrGuestCountExceeded
	}
	return ComputeTotal(listing.NightlyPrice, checkIn, checkOut, guests)
}

func (s *BookingService) loadBookingWithListing(ctx context.Context, bookingID int64) (*models.Booking, *models.Listing, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	listing, err := s.repo.GetListing(ctx, booking.ListingID)
	if err != nil {
		return nil, nil, err
	}
	return booking, listing, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, listing *models.Listing) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:    booking.ID,
		Reference:    booking.Reference,
		ListingID:    listing.ID,
		ListingTitle: listing.Title,
		GuestID:      booking.GuestID,
		GuestName:    booking.ContactName,
		OwnerID:      listing.OwnerID,
		CheckIn:      booking.CheckIn,
		CheckOut:     booking.CheckOut,
		Guests:       booking.Guests,
		TotalPrice:   booking.TotalPrice,
		Status:       booking.Status,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueSync(ctx context.Context, taskType string, booking *models.Booking, listing *models.Listing) {
	if s.ledgerWorker == nil {
		return
	}

	details := &models.BookingDetails{
		Booking:        *booking,
		ListingTitle:   listing.Title,
		ListingAddress: listing.Address,
		OwnerID:        listing.OwnerID,
	}

	if err := s.ledgerWorker.EnqueueTask(ctx, taskType, booking.ID, details); err != nil {
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).Str("task", taskType).Msg("ledger enqueue error")
	}
}
