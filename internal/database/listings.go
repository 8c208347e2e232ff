package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"homestay/internal/models"
)

const dateLayout = "2006-01-02"

const listingColumns = `id, owner_id, title, address, description, extra_info, photos, perks,
                 check_in_hour, check_out_hour, max_guests, nightly_price, is_active,
                 created_at, updated_at`

func scanListing(row interface{ Scan(...any) error }) (*models.Listing, error) {
	var l models.Listing
	var extraInfo sql.NullString
	var photosJSON, perksJSON string
	err := row.Scan(
		&l.ID, &l.OwnerID, &l.Title, &l.Address, &l.Description, &extraInfo,
		&photosJSON, &perksJSON, &l.CheckInHour, &l.CheckOutHour,
		&l.MaxGuests, &l.NightlyPrice, &l.IsActive, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.ExtraInfo = extraInfo.String

	if err := json.Unmarshal([]byte(photosJSON), &l.Photos); err != nil {
		return nil, fmt.Errorf("failed to decode listing photos: %w", err)
	}
	if err := json.Unmarshal([]byte(perksJSON), &l.Perks); err != nil {
		return nil, fmt.Errorf("failed to decode listing perks: %w", err)
	}
	return &l, nil
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (db *DB) CreateListing(ctx context.Context, listing *models.Listing) error {
	photosJSON, err := encodeStrings(listing.Photos)
	if err != nil {
		return fmt.Errorf("failed to encode photos: %w", err)
	}
	perksJSON, err := encodeStrings(listing.Perks)
	if err != nil {
		return fmt.Errorf("failed to encode perks: %w", err)
	}

	query := `INSERT INTO listings (
				owner_id, title, address, description, extra_info, photos, perks,
				check_in_hour, check_out_hour, max_guests, nightly_price, is_active,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		listing.OwnerID,
		listing.Title,
		listing.Address,
		listing.Description,
		listing.ExtraInfo,
		photosJSON,
		perksJSON,
		listing.CheckInHour,
		listing.CheckOutHour,
		listing.MaxGuests,
		listing.NightlyPrice,
		listing.IsActive,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	listing.ID = id
	listing.CreatedAt = now
	listing.UpdatedAt = now

	return nil
}

func (db *DB) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = ?`
	listing, err := scanListing(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return listing, nil
}

func (db *DB) GetActiveListings(ctx context.Context) ([]*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE is_active = 1 ORDER BY created_at DESC`
	return db.queryListings(ctx, query)
}

func (db *DB) GetListingsByOwner(ctx context.Context, ownerID int64) ([]*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE owner_id = ? ORDER BY created_at DESC`
	return db.queryListings(ctx, query, ownerID)
}

func (db *DB) queryListings(ctx context.Context, query string, args ...any) ([]*models.Listing, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}

func (db *DB) UpdateListing(ctx context.Context, listing *models.Listing) error {
	photosJSON, err := encodeStrings(listing.Photos)
	if err != nil {
		return fmt.Errorf("failed to encode photos: %w", err)
	}
	perksJSON, err := encodeStrings(listing.Perks)
	if err != nil {
		return fmt.Errorf("failed to encode perks: %w", err)
	}

	query := `UPDATE listings SET title = ?, address = ?, description = ?, extra_info = ?,
				photos = ?, perks = ?, check_in_hour = ?, check_out_hour = ?,
				max_guests = ?, nightly_price = ?, updated_at = ?
			  WHERE id = ?`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		listing.Title,
		listing.Address,
		listing.Description,
		listing.ExtraInfo,
		photosJSON,
		perksJSON,
		listing.CheckInHour,
		listing.CheckOutHour,
		listing.MaxGuests,
		listing.NightlyPrice,
		now,
		listing.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrListingNotFound
	}
	listing.UpdatedAt = now
	return nil
}

// DeleteListing removes a listing unless non-cancelled bookings with a
// future check-out still reference it. The check and the delete run in one
// transaction so a booking created in between cannot be orphaned.
func (db *DB) DeleteListing(ctx context.Context, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var upcoming int
	queryCount := `SELECT COUNT(*) FROM bookings
	               WHERE listing_id = ? AND status <> ? AND check_out > ?`
	today := time.Now().Format(dateLayout)
	err = tx.QueryRowContext(ctx, queryCount, id, models.StatusCancelled, today).Scan(&upcoming)
	if err != nil {
		return fmt.Errorf("failed to count upcoming bookings: %w", err)
	}
	if upcoming > 0 {
		return ErrListingHasBookings
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrListingNotFound
	}

	return tx.Commit()
}
