package api

import (
	"errors"
	"net/http"

	"homestay/internal/database"

	"github.com/gin-gonic/gin"
)

// Response is the uniform envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

// respondServiceError maps domain errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message so internals do not leak.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrListingNotFound),
		errors.Is(err, database.ErrBookingNotFound),
		errors.Is(err, database.ErrUserNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrNotAvailable),
		errors.Is(err, database.ErrConcurrentModification),
		errors.Is(err, database.ErrListingHasBookings),
		errors.Is(err, database.ErrEmailTaken),
		errors.Is(err, database.ErrInvalidStatus):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrInvalidDateRange),
		errors.Is(err, database.ErrPastDate),
		errors.Is(err, database.ErrDateTooFar),
		errors.Is(err, database.ErrGuestCountExceeded):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrForbidden),
		errors.Is(err, database.ErrInvalidCredentials):
		// Acting on someone else's resource is Unauthorized, same as bad
		// credentials.
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, database.ErrRateLimited):
		respondError(c, http.StatusTooManyRequests, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
