package database

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email is already registered")

	// ErrNotAvailable is the date-conflict error: the requested range
	// overlaps a non-cancelled booking for the same listing.
	ErrNotAvailable = errors.New("dates are not available")

	ErrConcurrentModification = errors.New("record was modified concurrently")

	// ErrListingHasBookings blocks deletion of a listing while future
	// non-cancelled bookings reference it.
	ErrListingHasBookings = errors.New("listing has upcoming bookings")

	ErrInvalidDateRange   = errors.New("check-out must be after check-in")
	ErrPastDate           = errors.New("check-in date is in the past")
	ErrDateTooFar         = errors.New("check-in date is too far in the future")
	ErrGuestCountExceeded = errors.New("guest count is out of bounds for this listing")

	ErrForbidden          = errors.New("operation not permitted for this user")
	ErrRateLimited        = errors.New("too many booking attempts, try again later")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidStatus      = errors.New("booking status does not allow this transition")
)
