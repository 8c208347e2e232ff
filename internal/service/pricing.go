package service

import (
	"time"

	"homestay/internal/database"
)

const day = 24 * time.Hour

// normalizeDate drops the time-of-day component. Bookings are priced and
// compared at whole-day granularity.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ComputeTotal prices a stay over the half-open range [checkIn, checkOut):
// nights x nightly price x guests. The check-out day itself is not charged.
func ComputeTotal(nightlyPrice int64, checkIn, checkOut time.Time, guests int64) (int64, error) {
	in := normalizeDate(checkIn)
	out := normalizeDate(checkOut)
	if !out.After(in) {
		return 0, database.ErrInvalidDateRange
	}

	nights := int64(out.Sub(in) / day)
	return nights * nightlyPrice * guests, nil
}
