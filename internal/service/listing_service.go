package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homestay/internal/database"
	"homestay/internal/domain"
	"homestay/internal/models"

	"github.com/rs/zerolog"
)

type ListingService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewListingService(repo domain.Repository, logger *zerolog.Logger) *ListingService {
	return &ListingService{repo: repo, logger: logger}
}

func validateListing(l *models.Listing) error {
	if strings.TrimSpace(l.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(l.Address) == "" {
		return errors.New("address is required")
	}
	if strings.TrimSpace(l.Description) == "" {
		return errors.New("description is required")
	}
	if len(l.Photos) < 1 {
		return errors.New("at least one photo is required")
	}
	for _, perk := range l.Perks {
		if !models.KnownPerks[perk] {
			return fmt.Errorf("unknown perk: %s", perk)
		}
	}
	if l.CheckInHour < 0 || l.CheckInHour > 23 {
		return errors.New("check-in hour must be between 0 and 23")
	}
	if l.CheckOutHour < 0 || l.CheckOutHour > 23 {
		return errors.New("check-out hour must be between 0 and 23")
	}
	if l.MaxGuests < 1 {
		return errors.New("max guests must be at least 1")
	}
	if l.NightlyPrice < 1 {
		return errors.New("nightly price must be positive")
	}
	return nil
}

func (s *ListingService) Create(ctx context.Context, ownerID int64, listing *models.Listing) error {
	listing.OwnerID = ownerID
	listing.IsActive = true
	if listing.CheckInHour == 0 && listing.CheckOutHour == 0 {
		listing.CheckInHour = models.DefaultCheckInHour
		listing.CheckOutHour = models.DefaultCheckOutHour
	}

	if err := validateListing(listing); err != nil {
		return err
	}

	if err := s.repo.CreateListing(ctx, listing); err != nil {
		return err
	}

	s.logger.Info().Int64("listing_id", listing.ID).Int64("owner_id", ownerID).Msg("listing created")
	return nil
}

func (s *ListingService) Get(ctx context.Context, id int64) (*models.Listing, error) {
	return s.repo.GetListing(ctx, id)
}

// ListActive returns active listings, optionally narrowed to those
// advertising the given perk.
func (s *ListingService) ListActive(ctx context.Context, perk string) ([]*models.Listing, error) {
	listings, err := s.repo.GetActiveListings(ctx)
	if err != nil {
		return nil, err
	}
	if perk == "" {
		return listings, nil
	}
	if !models.KnownPerks[perk] {
		return nil, fmt.Errorf("unknown perk: %s", perk)
	}

	filtered := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		for _, p := range l.Perks {
			if p == perk {
				filtered = append(filtered, l)
				break
			}
		}
	}
	return filtered, nil
}

func (s *ListingService) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Listing, error) {
	return s.repo.GetListingsByOwner(ctx, ownerID)
}

// Patch applies a partial update. Only the owner may patch, and the merged
// result must still pass full validation.
func (s *ListingService) Patch(ctx context.Context, id, actorID int64, patch *models.ListingPatch) (*models.Listing, error) {
	listing, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != actorID {
		return nil, database.ErrForbidden
	}
	if patch.Empty() {
		return listing, nil
	}

	patch.Apply(listing)
	if err := validateListing(listing); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateListing(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *ListingService) Delete(ctx context.Context, id, actorID int64) error {
	listing, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return err
	}
	if listing.OwnerID != actorID {
		return database.ErrForbidden
	}

	if err := s.repo.DeleteListing(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("listing_id", id).Int64("owner_id", actorID).Msg("listing deleted")
	return nil
}
