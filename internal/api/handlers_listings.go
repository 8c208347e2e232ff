package api

import (
	"errors"
	"net/http"
	"strconv"

	"homestay/internal/database"
	"homestay/internal/models"

	"github.com/gin-gonic/gin"
)

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respondError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// respondListingError treats unrecognized errors as validation failures:
// everything the listing service invents itself is a bad request.
func respondListingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrListingNotFound),
		errors.Is(err, database.ErrForbidden),
		errors.Is(err, database.ErrListingHasBookings):
		respondServiceError(c, err)
	default:
		respondError(c, http.StatusBadRequest, err.Error())
	}
}

type createListingRequest struct {
	Title        string   `json:"title" binding:"required"`
	Address      string   `json:"address" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	ExtraInfo    string   `json:"extra_info"`
	Photos       []string `json:"photos"`
	Perks        []string `json:"perks"`
	CheckInHour  int      `json:"check_in_hour"`
	CheckOutHour int      `json:"check_out_hour"`
	MaxGuests    int64    `json:"max_guests" binding:"required"`
	NightlyPrice int64    `json:"nightly_price" binding:"required"`
}

func (s *Server) handleCreateListing(c *gin.Context) {
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	listing := &models.Listing{
		Title:        req.Title,
		Address:      req.Address,
		Description:  req.Description,
		ExtraInfo:    req.ExtraInfo,
		Photos:       req.Photos,
		Perks:        req.Perks,
		CheckInHour:  req.CheckInHour,
		CheckOutHour: req.CheckOutHour,
		MaxGuests:    req.MaxGuests,
		NightlyPrice: req.NightlyPrice,
	}

	if err := s.listings.Create(c.Request.Context(), currentUserID(c), listing); err != nil {
		respondListingError(c, err)
		return
	}

	respondCreated(c, listing)
}

func (s *Server) handleListListings(c *gin.Context) {
	listings, err := s.listings.ListActive(c.Request.Context(), c.Query("perk"))
	if err != nil {
		respondListingError(c, err)
		return
	}
	respondOK(c, listings)
}

func (s *Server) handleGetListing(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	listing, err := s.listings.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, listing)
}

func (s *Server) handleMyListings(c *gin.Context) {
	listings, err := s.listings.ListByOwner(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, listings)
}

func (s *Server) handlePatchListing(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch models.ListingPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	listing, err := s.listings.Patch(c.Request.Context(), id, currentUserID(c), &patch)
	if err != nil {
		respondListingError(c, err)
		return
	}
	respondOK(c, listing)
}

func (s *Server) handleDeleteListing(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := s.listings.Delete(c.Request.Context(), id, currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": id})
}
