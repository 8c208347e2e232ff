package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"homestay/internal/config"
	"homestay/internal/domain"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Server exposes the REST API over a gin router wrapped in an http.Server.
type Server struct {
	cfg      *config.Config
	users    domain.UserService
	listings domain.ListingService
	bookings domain.BookingService
	tokens   *TokenManager
	logger   *zerolog.Logger
	server   *http.Server
}

func NewServer(
	cfg *config.Config,
	users domain.UserService,
	listings domain.ListingService,
	bookings domain.BookingService,
	logger *zerolog.Logger,
) *Server {
	s := &Server{
		cfg:      cfg,
		users:    users,
		listings: listings,
		bookings: bookings,
		tokens:   NewTokenManager(cfg.Auth),
		logger:   logger,
	}

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(rateLimitMiddleware(newClientLimiters(cfg.Server.RateLimit)))

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	s.registerRoutes(router)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(router *gin.Engine) {
	router.GET("/health", s.handleHealth)

	api := router.Group("/api")

	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)

	api.GET("/listings", s.handleListListings)
	api.GET("/listings/:id", s.handleGetListing)
	api.GET("/listings/:id/availability", s.handleAvailability)
	api.GET("/listings/:id/quote", s.handleQuote)

	auth := api.Group("")
	auth.Use(authRequired(s.tokens))

	auth.GET("/auth/profile", s.handleProfile)

	auth.POST("/listings", s.handleCreateListing)
	auth.PATCH("/listings/:id", s.handlePatchListing)
	auth.DELETE("/listings/:id", s.handleDeleteListing)
	auth.GET("/my/listings", s.handleMyListings)

	auth.POST("/listings/:id/bookings", s.handleCreateBooking)
	auth.GET("/bookings", s.handleMyBookings)
	auth.GET("/bookings/:id", s.handleGetBooking)
	auth.POST("/bookings/:id/cancel", s.handleCancelBooking)
	auth.POST("/bookings/:id/complete", s.handleCompleteBooking)

	auth.GET("/host/bookings", s.handleHostBookings)
	auth.GET("/host/bookings/export", s.handleHostBookingsExport)
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("REST API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	respondOK(c, gin.H{
		"status":  "ok",
		"app":     s.cfg.App.Name,
		"version": s.cfg.App.Version,
	})
}
