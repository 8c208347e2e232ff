package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homestay/internal/config"
	"homestay/internal/database"
	"homestay/internal/events"
	"homestay/internal/models"
	"homestay/internal/repository"
	"homestay/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.App.Name = "homestay-test"
	cfg.Server.RateLimit = config.RateLimitConfig{RPS: 1000, Burst: 1000}
	cfg.Auth = config.AuthConfig{JWTSecret: "test-secret", TokenTTLHours: 1, BcryptCost: bcrypt.MinCost}
	cfg.Exports.Path = t.TempDir()

	users := service.NewUserService(db, bcrypt.MinCost, &logger)
	listings := service.NewListingService(db, &logger)
	bookings := service.NewBookingService(
		db, repository.NewMemoryStateRepository(), events.NewEventBus(), nil,
		365, 100, 60, &logger,
	)

	return NewServer(cfg, users, listings, bookings, &logger)
}

func doRequest(t *testing.T, s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}

func dataMap(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	resp := decodeEnvelope(t, w)
	m, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data is not an object: %s", w.Body.String())
	return m
}

func registerUser(t *testing.T, s *Server, name, email, role string) string {
	t.Helper()
	w := doRequest(t, s, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "secret-password",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	token, ok := dataMap(t, w)["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func createTestListing(t *testing.T, s *Server, token string, price int64) int64 {
	t.Helper()
	w := doRequest(t, s, http.MethodPost, "/api/listings", token, gin.H{
		"title":         "Garden cottage",
		"address":       "5 Orchard Lane",
		"description":   "Quiet cottage with a garden",
		"photos":        []string{"front.jpg"},
		"perks":         []string{models.PerkWifi},
		"max_guests":    4,
		"nightly_price": price,
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	id, ok := dataMap(t, w)["id"].(float64)
	require.True(t, ok)
	return int64(id)
}

func futureDateString(days int) string {
	return time.Now().AddDate(0, 0, days).Format(dateLayout)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "ok", dataMap(t, w)["status"])
}

func TestRegisterLoginFlow(t *testing.T) {
	s := newTestServer(t)

	registerUser(t, s, "Alice", "alice@example.com", models.RoleGuest)

	w := doRequest(t, s, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, dataMap(t, w)["token"])

	w = doRequest(t, s, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestServer(t)

	registerUser(t, s, "Alice", "alice@example.com", models.RoleGuest)

	w := doRequest(t, s, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Other Alice",
		"email":    "alice@example.com",
		"password": "secret-password",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterMissingFields(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Alice",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileAuth(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "Alice", "alice@example.com", models.RoleGuest)

	w := doRequest(t, s, http.MethodGet, "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	w = doRequest(t, s, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice@example.com", dataMap(t, w)["email"])
}

func TestListingLifecycle(t *testing.T) {
	s := newTestServer(t)
	hostToken := registerUser(t, s, "Bob", "bob@example.com", models.RoleHost)
	strangerToken := registerUser(t, s, "Mallory", "mallory@example.com", models.RoleHost)

	listingID := createTestListing(t, s, hostToken, 100)
	path := fmt.Sprintf("/api/listings/%d", listingID)

	w := doRequest(t, s, http.MethodGet, "/api/listings", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	listings, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, listings, 1)

	w = doRequest(t, s, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Garden cottage", dataMap(t, w)["title"])

	// A non-owner mutation is Unauthorized even with a valid token.
	w = doRequest(t, s, http.MethodPatch, path, strangerToken, gin.H{"nightly_price": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, s, http.MethodDelete, path, strangerToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, s, http.MethodPatch, path, hostToken, gin.H{"nightly_price": 120})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(120), dataMap(t, w)["nightly_price"])

	w = doRequest(t, s, http.MethodDelete, path, hostToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateListingRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/listings", "", gin.H{
		"title": "Garden cottage",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t)
	hostToken := registerUser(t, s, "Bob", "bob@example.com", models.RoleHost)
	guestToken := registerUser(t, s, "Alice", "alice@example.com", models.RoleGuest)

	listingID := createTestListing(t, s, hostToken, 100)
	bookPath := fmt.Sprintf("/api/listings/%d/bookings", listingID)

	body := gin.H{
		"check_in":      futureDateString(30),
		"check_out":     futureDateString(33),
		"guests":        2,
		"contact_name":  "Alice",
		"contact_email": "alice@example.com",
	}

	w := doRequest(t, s, http.MethodPost, bookPath, guestToken, body)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	booking := dataMap(t, w)
	// 3 nights at 100 for 2 guests.
	assert.Equal(t, float64(600), booking["total_price"])
	assert.Equal(t, models.StatusConfirmed, booking["status"])
	assert.NotEmpty(t, booking["reference"])
	bookingID := int64(booking["id"].(float64))

	// Same range again conflicts.
	w = doRequest(t, s, http.MethodPost, bookPath, guestToken, body)
	assert.Equal(t, http.StatusConflict, w.Code)

	// An adjacent stay does not.
	w = doRequest(t, s, http.MethodPost, bookPath, guestToken, gin.H{
		"check_in":      futureDateString(33),
		"check_out":     futureDateString(35),
		"guests":        1,
		"contact_name":  "Alice",
		"contact_email": "alice@example.com",
	})
	assert.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	// Guest sees both bookings.
	w = doRequest(t, s, http.MethodGet, "/api/bookings", guestToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine, ok := decodeEnvelope(t, w).Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, mine, 2)

	// So does the host, from the other side.
	w = doRequest(t, s, http.MethodGet, "/api/host/bookings", hostToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	hosted, ok := decodeEnvelope(t, w).Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, hosted, 2)

	// Cancel frees the range for rebooking.
	w = doRequest(t, s, http.MethodPost, fmt.Sprintf("/api/bookings/%d/cancel", bookingID), guestToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, http.MethodPost, bookPath, guestToken, body)
	assert.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
}

func TestBookingValidationErrors(t *testing.T) {
	s := newTestServer(t)
	hostToken := registerUser(t, s, "Bob", "bob@example.com", models.RoleHost)
	guestToken := registerUser(t, s, "Alice", "alice@example.com", models.RoleGuest)
	listingID := createTestListing(t, s, hostToken, 100)
	bookPath := fmt.Sprintf("/api/listings/%d/bookings", listingID)

	base := func() gin.H {
		return gin.H{
			"check_in":      futureDateString(10),
			"check_out":     futureDateString(12),
			"guests":        2,
			"contact_name":  "Alice",
			"contact_email": "alice@example.com",
		}
	}

	unauth := doRequest(t, s, http.MethodPost, bookPath, "", base())
	assert.Equal(t, http.StatusUnauthorized, unauth.Code)

	past := base()
	past["check_in"] = futureDateString(-5)
	past["check_out"] = futureDateString(-3)
	w := doRequest(t, s, http.MethodPost, bookPath, guestToken, past)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	malformed := base()
	malformed["check_in"] = "not-a-date"
	w = doRequest(t, s, http.MethodPost, bookPath, guestToken, malformed)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	tooMany := base()
	tooMany["guests"] = 99
	w = doRequest(t, s, http.MethodPost, bookPath, guestToken, tooMany)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, s, http.MethodPost, "/api/listings/9999/bookings", guestToken, base())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuoteEndpoint(t *testing.T) {
	s := newTestServer(t)
	hostToken := registerUser(t, s, "Bob", "bob@example.com", models.RoleHost)
	listingID := createTestListing(t, s, hostToken, 100)

	path := fmt.Sprintf("/api/listings/%d/quote?check_in=%s&check_out=%s&guests=2",
		listingID, futureDateString(10), futureDateString(13))
	w := doRequest(t, s, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	assert.Equal(t, float64(600), dataMap(t, w)["total_price"])

	path = fmt.Sprintf("/api/listings/%d/quote?check_in=%s&check_out=%s&guests=0",
		listingID, futureDateString(10), futureDateString(13))
	w = doRequest(t, s, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	s := newTestServer(t)
	hostToken := registerUser(t, s, "Bob", "bob@example.com", models.RoleHost)
	guestToken := registerUser(t, s, "Alice", "alice@example.com", models.RoleGuest)
	listingID := createTestListing(t, s, hostToken, 100)

	w := doRequest(t, s, http.MethodPost, fmt.Sprintf("/api/listings/%d/bookings", listingID), guestToken, gin.H{
		"check_in":      futureDateString(30),
		"check_out":     futureDateString(33),
		"guests":        1,
		"contact_name":  "Alice",
		"contact_email": "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	path := fmt.Sprintf("/api/listings/%d/availability?from=%s&days=5", listingID, futureDateString(30))
	w = doRequest(t, s, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	days, ok := decodeEnvelope(t, w).Data.([]interface{})
	require.True(t, ok)
	require.Len(t, days, 5)

	booked := make([]bool, 0, len(days))
	for _, d := range days {
		booked = append(booked, d.(map[string]interface{})["booked"].(bool))
	}
	// Three booked nights; the check-out day is free.
	assert.Equal(t, []bool{true, true, true, false, false}, booked)

	w = doRequest(t, s, http.MethodGet, fmt.Sprintf("/api/listings/%d/availability?days=999", listingID), "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHostBookingsExport(t *testing.T) {
	s := newTestServer(t)
	hostToken := registerUser(t, s, "Bob", "bob@example.com", models.RoleHost)
	guestToken := registerUser(t, s, "Alice", "alice@example.com", models.RoleGuest)
	listingID := createTestListing(t, s, hostToken, 100)

	w := doRequest(t, s, http.MethodPost, fmt.Sprintf("/api/listings/%d/bookings", listingID), guestToken, gin.H{
		"check_in":      futureDateString(10),
		"check_out":     futureDateString(12),
		"guests":        1,
		"contact_name":  "Alice",
		"contact_email": "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	w = doRequest(t, s, http.MethodGet, "/api/host/bookings/export", hostToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.NotZero(t, w.Body.Len())
}
