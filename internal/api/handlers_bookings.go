package api

import (
	"net/http"
	"strconv"
	"time"

	"homestay/internal/models"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type createBookingRequest struct {
	CheckIn      string `json:"check_in" binding:"required"`
	CheckOut     string `json:"check_out" binding:"required"`
	Guests       int64  `json:"guests" binding:"required"`
	ContactName  string `json:"contact_name" binding:"required"`
	ContactEmail string `json:"contact_email" binding:"required"`
}

func parseDate(c *gin.Context, value, field string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		respondError(c, http.StatusBadRequest, field+" must be a date in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return t, true
}

func (s *Server) handleCreateBooking(c *gin.Context) {
	listingID, ok := parseID(c)
	if !ok {
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	checkIn, ok := parseDate(c, req.CheckIn, "check_in")
	if !ok {
		return
	}
	checkOut, ok := parseDate(c, req.CheckOut, "check_out")
	if !ok {
		return
	}

	booking, err := s.bookings.CreateBooking(c.Request.Context(), &models.BookingRequest{
		ListingID:    listingID,
		GuestID:      currentUserID(c),
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Guests:       req.Guests,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, booking)
}

func (s *Server) handleMyBookings(c *gin.Context) {
	bookings, err := s.bookings.ListGuestBookings(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, bookings)
}

func (s *Server) handleGetBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	booking, err := s.bookings.GetBooking(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, booking)
}

func (s *Server) handleCancelBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := s.bookings.CancelBooking(c.Request.Context(), id, currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"cancelled": id})
}

func (s *Server) handleCompleteBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := s.bookings.CompleteBooking(c.Request.Context(), id, currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"completed": id})
}

func (s *Server) handleHostBookings(c *gin.Context) {
	bookings, err := s.bookings.ListHostBookings(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, bookings)
}

func (s *Server) handleAvailability(c *gin.Context) {
	listingID, ok := parseID(c)
	if !ok {
		return
	}

	start := time.Now()
	if from := c.Query("from"); from != "" {
		t, ok := parseDate(c, from, "from")
		if !ok {
			return
		}
		start = t
	}

	days := 30
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 365 {
			respondError(c, http.StatusBadRequest, "days must be between 1 and 365")
			return
		}
		days = n
	}

	availability, err := s.bookings.GetAvailability(c.Request.Context(), listingID, start, days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, availability)
}

func (s *Server) handleQuote(c *gin.Context) {
	listingID, ok := parseID(c)
	if !ok {
		return
	}

	checkIn, ok := parseDate(c, c.Query("check_in"), "check_in")
	if !ok {
		return
	}
	checkOut, ok := parseDate(c, c.Query("check_out"), "check_out")
	if !ok {
		return
	}

	guests := int64(1)
	if raw := c.Query("guests"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			respondError(c, http.StatusBadRequest, "guests must be a positive number")
			return
		}
		guests = n
	}

	total, err := s.bookings.Quote(c.Request.Context(), listingID, checkIn, checkOut, guests)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"listing_id":  listingID,
		"check_in":    checkIn.Format(dateLayout),
		"check_out":   checkOut.Format(dateLayout),
		"guests":      guests,
		"total_price": total,
	})
}
