package domain

import (
	"context"
	"time"

	"homestay/internal/models"
)

type Repository interface {
	CreateListing(ctx context.Context, listing *models.Listing) error
	GetListing(ctx context.Context, id int64) (*models.Listing, error)
	GetActiveListings(ctx context.Context) ([]*models.Listing, error)
	GetListingsByOwner(ctx context.Context, ownerID int64) ([]*models.Listing, error)
	UpdateListing(ctx context.Context, listing *models.Listing) error
	DeleteListing(ctx context.Context, id int64) error

	CreateBooking(ctx context.Context, booking *models.Booking) error
	CreateBookingWithLock(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatusWithVersion(ctx context.Context, id, version int64, status string) error
	CountOverlapping(ctx context.Context, listingID int64, checkIn, checkOut time.Time) (int, error)
	CheckAvailability(ctx context.Context, listingID int64, checkIn, checkOut time.Time) (bool, error)
	GetAvailabilityForPeriod(ctx context.Context, listingID int64, startDate time.Time, days int) ([]*models.Availability, error)
	GetGuestBookings(ctx context.Context, guestID int64) ([]*models.BookingDetails, error)
	GetHostBookings(ctx context.Context, ownerID int64) ([]*models.BookingDetails, error)
	GetHostBookingsInRange(ctx context.Context, ownerID int64, start, end time.Time) ([]*models.BookingDetails, error)

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// StateRepository keeps short-lived per-user state out of sqlite: booking
// rate-limit counters and the like. Backed by Redis with a memory fallback.
type StateRepository interface {
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type SyncWorker interface {
	EnqueueTask(ctx context.Context, taskType string, bookingID int64, booking *models.BookingDetails) error
}

type SheetsWriter interface {
	AppendBooking(ctx context.Context, booking *models.BookingDetails) error
	UpdateBookingStatus(ctx context.Context, bookingID int64, status string) error
}

type ListingService interface {
	Create(ctx context.Context, ownerID int64, listing *models.Listing) error
	Get(ctx context.Context, id int64) (*models.Listing, error)
	ListActive(ctx context.Context, perk string) ([]*models.Listing, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Listing, error)
	Patch(ctx context.Context, id, actorID int64, patch *models.ListingPatch) (*models.Listing, error)
	Delete(ctx context.Context, id, actorID int64) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, actorID int64) error
	CompleteBooking(ctx context.Context, bookingID, actorID int64) error
	GetBooking(ctx context.Context, bookingID, actorID int64) (*models.Booking, error)
	ListGuestBookings(ctx context.Context, guestID int64) ([]*models.BookingDetails, error)
	ListHostBookings(ctx context.Context, ownerID int64) ([]*models.BookingDetails, error)
	ListHostBookingsInRange(ctx context.Context, ownerID int64, start, end time.Time) ([]*models.BookingDetails, error)
	GetAvailability(ctx context.Context, listingID int64, startDate time.Time, days int) ([]*models.Availability, error)
	Quote(ctx context.Context, listingID int64, checkIn, checkOut time.Time, guests int64) (int64, error)
}

type UserService interface {
	Register(ctx context.Context, name, email, password, role string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
}
