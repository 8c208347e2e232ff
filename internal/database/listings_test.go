package database

import (
	"context"
	"testing"
	"time"

	"homestay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetListing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := createTestUser(t, db, "host@example.com", models.RoleHost)
	listing := createTestListing(t, db, owner.ID)

	assert.NotZero(t, listing.ID)

	got, err := db.GetListing(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Seaside flat", got.Title)
	assert.Equal(t, owner.ID, got.OwnerID)
	assert.Equal(t, []string{"photo1.jpg"}, got.Photos)
	assert.Equal(t, []string{models.PerkWifi}, got.Perks)
	assert.True(t, got.IsActive)
}

func TestGetListingNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetListing(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestGetActiveListings(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := createTestUser(t, db, "host@example.com", models.RoleHost)

	active := createTestListing(t, db, owner.ID)

	inactive := createTestListing(t, db, owner.ID)
	_, err := db.Exec(`UPDATE listings SET is_active = 0 WHERE id = ?`, inactive.ID)
	require.NoError(t, err)

	listings, err := db.GetActiveListings(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, active.ID, listings[0].ID)
}

func TestGetListingsByOwner(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner1 := createTestUser(t, db, "host1@example.com", models.RoleHost)
	owner2 := createTestUser(t, db, "host2@example.com", models.RoleHost)

	createTestListing(t, db, owner1.ID)
	createTestListing(t, db, owner1.ID)
	createTestListing(t, db, owner2.ID)

	listings, err := db.GetListingsByOwner(ctx, owner1.ID)
	require.NoError(t, err)
	assert.Len(t, listings, 2)
}

func TestUpdateListing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := createTestUser(t, db, "host@example.com", models.RoleHost)
	listing := createTestListing(t, db, owner.ID)

	listing.Title = "Renovated flat"
	listing.NightlyPrice = 150
	listing.Perks = []string{models.PerkWifi, models.PerkParking}
	require.NoError(t, db.UpdateListing(ctx, listing))

	got, err := db.GetListing(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renovated flat", got.Title)
	assert.Equal(t, int64(150), got.NightlyPrice)
	assert.Equal(t, []string{models.PerkWifi, models.PerkParking}, got.Perks)
}

func TestUpdateListingNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.UpdateListing(context.Background(), &models.Listing{ID: 9999, Title: "x"})
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestDeleteListing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := createTestUser(t, db, "host@example.com", models.RoleHost)
	listing := createTestListing(t, db, owner.ID)

	require.NoError(t, db.DeleteListing(ctx, listing.ID))

	_, err := db.GetListing(ctx, listing.ID)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestDeleteListingBlockedByUpcomingBooking(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := createTestUser(t, db, "host@example.com", models.RoleHost)
	guest := createTestUser(t, db, "guest@example.com", models.RoleGuest)
	listing := createTestListing(t, db, owner.ID)

	checkIn := time.Now().AddDate(0, 0, 7)
	booking := &models.Booking{
		Reference: "ref-future",
		ListingID: listing.ID,
		GuestID:   guest.ID,
		CheckIn:   checkIn,
		CheckOut:  checkIn.AddDate(0, 0, 3),
		Guests:    2,
		Status:    models.StatusConfirmed,
	}
	require.NoError(t, db.CreateBooking(ctx, booking))

	err := db.DeleteListing(ctx, listing.ID)
	assert.ErrorIs(t, err, ErrListingHasBookings)

	// A cancelled booking does not block deletion.
	require.NoError(t, db.UpdateBookingStatusWithVersion(ctx, booking.ID, booking.Version, models.StatusCancelled))
	assert.NoError(t, db.DeleteListing(ctx, listing.ID))
}
