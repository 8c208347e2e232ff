package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"homestay/internal/models"
)

// CountOverlapping returns the number of non-cancelled bookings for the
// listing whose half-open [check_in, check_out) range overlaps the given
// one. Adjacent ranges (one's check-out equals the other's check-in) do
// not overlap.
func (db *DB) CountOverlapping(ctx context.Context, listingID int64, checkIn, checkOut time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM bookings
	          WHERE listing_id = ? AND status <> ?
	          AND check_in < ? AND ? < check_out`
	var count int
	err := db.QueryRowContext(ctx, query, listingID, models.StatusCancelled,
		checkOut.Format(dateLayout), checkIn.Format(dateLayout)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}
	return count, nil
}

func (db *DB) CheckAvailability(ctx context.Context, listingID int64, checkIn, checkOut time.Time) (bool, error) {
	count, err := db.CountOverlapping(ctx, listingID, checkIn, checkOut)
	if err != nil {
		return false, fmt.Errorf("failed to check availability: %w", err)
	}
	return count == 0, nil
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (
				reference, listing_id, guest_id, check_in, check_out, guests,
				contact_name, contact_email, total_price, status, created_at, updated_at, version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		booking.Reference,
		booking.ListingID,
		booking.GuestID,
		booking.CheckIn.Format(dateLayout),
		booking.CheckOut.Format(dateLayout),
		booking.Guests,
		booking.ContactName,
		booking.ContactEmail,
		booking.TotalPrice,
		booking.Status,
		now,
		now,
		1,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	return nil
}

// CreateBookingWithLock re-checks the overlap inside a transaction before
// inserting. Two concurrent requests for overlapping ranges serialize on
// the write transaction, so at most one of them commits.
func (db *DB) CreateBookingWithLock(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 1. Check for overlap inside the transaction
	var count int
	queryCount := `SELECT COUNT(*) FROM bookings
	               WHERE listing_id = ? AND status <> ?
	               AND check_in < ? AND ? < check_out`
	err = tx.QueryRowContext(ctx, queryCount, booking.ListingID, models.StatusCancelled,
		booking.CheckOut.Format(dateLayout), booking.CheckIn.Format(dateLayout)).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check availability in tx: %w", err)
	}
	if count > 0 {
		return ErrNotAvailable
	}

	// 2. Create booking
	queryInsert := `INSERT INTO bookings (
				reference, listing_id, guest_id, check_in, check_out, guests,
				contact_name, contact_email, total_price, status, created_at, updated_at, version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := tx.ExecContext(ctx, queryInsert,
		booking.Reference,
		booking.ListingID,
		booking.GuestID,
		booking.CheckIn.Format(dateLayout),
		booking.CheckOut.Format(dateLayout),
		booking.Guests,
		booking.ContactName,
		booking.ContactEmail,
		booking.TotalPrice,
		booking.Status,
		now,
		now,
		1,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	return tx.Commit()
}

const bookingColumns = `id, reference, listing_id, guest_id, check_in, check_out, guests,
	                 contact_name, contact_email, total_price, status, created_at, updated_at, version`

// Dates are written as "2006-01-02" strings but scanned back as time.Time:
// the driver converts DATE-declared columns itself, so string destinations
// would receive an RFC3339 rendering instead of the stored text.
func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.Reference, &b.ListingID, &b.GuestID, &b.CheckIn, &b.CheckOut,
		&b.Guests, &b.ContactName, &b.ContactEmail, &b.TotalPrice, &b.Status,
		&b.CreatedAt, &b.UpdatedAt, &b.Version,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (db *DB) UpdateBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status string) error {
	query := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

const bookingDetailsQuery = `SELECT b.id, b.reference, b.listing_id, b.guest_id, b.check_in, b.check_out,
	       b.guests, b.contact_name, b.contact_email, b.total_price, b.status,
	       b.created_at, b.updated_at, b.version,
	       l.title, l.address, u.id, u.name, u.email
	FROM bookings b
	JOIN listings l ON l.id = b.listing_id
	JOIN users u ON u.id = l.owner_id`

func (db *DB) queryBookingDetails(ctx context.Context, query string, args ...any) ([]*models.BookingDetails, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.BookingDetails
	for rows.Next() {
		var d models.BookingDetails
		err := rows.Scan(
			&d.ID, &d.Reference, &d.ListingID, &d.GuestID, &d.CheckIn, &d.CheckOut,
			&d.Guests, &d.ContactName, &d.ContactEmail, &d.TotalPrice, &d.Status,
			&d.CreatedAt, &d.UpdatedAt, &d.Version,
			&d.ListingTitle, &d.ListingAddress, &d.OwnerID, &d.OwnerName, &d.OwnerEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetGuestBookings returns the guest's bookings joined with listing and
// owner summaries, newest first.
func (db *DB) GetGuestBookings(ctx context.Context, guestID int64) ([]*models.BookingDetails, error) {
	query := bookingDetailsQuery + ` WHERE b.guest_id = ? ORDER BY b.created_at DESC`
	return db.queryBookingDetails(ctx, query, guestID)
}

// GetHostBookings returns the bookings made against any listing the host owns.
func (db *DB) GetHostBookings(ctx context.Context, ownerID int64) ([]*models.BookingDetails, error) {
	query := bookingDetailsQuery + ` WHERE l.owner_id = ? ORDER BY b.check_in ASC, b.created_at ASC`
	return db.queryBookingDetails(ctx, query, ownerID)
}

// GetHostBookingsInRange limits host bookings to stays overlapping the window.
func (db *DB) GetHostBookingsInRange(ctx context.Context, ownerID int64, start, end time.Time) ([]*models.BookingDetails, error) {
	query := bookingDetailsQuery + ` WHERE l.owner_id = ? AND b.check_in < ? AND ? < b.check_out
	         ORDER BY b.check_in ASC, b.created_at ASC`
	return db.queryBookingDetails(ctx, query, ownerID, end.Format(dateLayout), start.Format(dateLayout))
}

// GetAvailabilityForPeriod marks each day of the window as booked or free.
func (db *DB) GetAvailabilityForPeriod(ctx context.Context, listingID int64, startDate time.Time, days int) ([]*models.Availability, error) {
	endDate := startDate.AddDate(0, 0, days)

	query := `SELECT check_in, check_out FROM bookings
	          WHERE listing_id = ? AND status <> ?
	          AND check_in < ? AND ? < check_out`
	rows, err := db.QueryContext(ctx, query, listingID, models.StatusCancelled,
		endDate.Format(dateLayout), startDate.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings for period: %w", err)
	}
	defer rows.Close()

	type span struct{ in, out time.Time }
	var spans []span
	for rows.Next() {
		var s span
		if err := rows.Scan(&s.in, &s.out); err != nil {
			return nil, fmt.Errorf("failed to scan booking range: %w", err)
		}
		spans = append(spans, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	availability := make([]*models.Availability, 0, days)
	for i := 0; i < days; i++ {
		date := startDate.AddDate(0, 0, i)
		booked := false
		for _, s := range spans {
			if !date.Before(s.in) && date.Before(s.out) {
				booked = true
				break
			}
		}
		availability = append(availability, &models.Availability{
			Date:      date,
			ListingID: listingID,
			Booked:    booked,
		})
	}
	return availability, nil
}
