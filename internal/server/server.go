package server

import (
	"context"
	"net/http"
	"time"

	"quickcourt/internal/auth"
	"quickcourt/internal/booking"
	"quickcourt/internal/config"
	"quickcourt/internal/facility"
	"quickcourt/internal/notify"
	"quickcourt/internal/review"
	"quickcourt/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	notify *notify.Service
}

func New(db *sqlx.DB, cfg *config.Config, notifyService *notify.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	userRepo := user.NewRepository(db)
	facilityRepo := facility.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	reviewRepo := review.NewRepository(db)

	userService := user.NewService(userRepo, cfg.JWTSecret)
	facilityService := facility.NewService(facilityRepo)
	bookingService := booking.NewService(bookingRepo, facilityRepo, userRepo, notifyService,
		cfg.BookingOpenHour, cfg.BookingCloseHour)
	reviewService := review.NewService(reviewRepo, facilityRepo)

	userHandler := user.NewHandler(userService)
	facilityHandler := facility.NewHandler(facilityService)
	bookingHandler := booking.NewHandler(bookingService)
	reviewHandler := review.NewHandler(reviewService)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	// Browsing facilities and reviews needs no account.
	router.GET("/facilities", facilityHandler.List)
	router.GET("/facilities/:facilityID", facilityHandler.Get)
	router.GET("/facilities/:facilityID/reviews", reviewHandler.List)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware, RateLimitMiddleware(10, 30))
	{
		protected.GET("/me", userHandler.GetMe)
		protected.PATCH("/me", userHandler.UpdateMe)

		protected.GET("/facilities/:facilityID/courts/:courtID/availability", bookingHandler.CheckAvailability)
		protected.POST("/facilities/:facilityID/courts/:courtID/bookings", bookingHandler.Create)
		protected.GET("/bookings", bookingHandler.ListMine)
		protected.POST("/bookings/:bookingID/cancel", bookingHandler.Cancel)

		protected.POST("/facilities/:facilityID/reviews", reviewHandler.Create)
	}

	ownerMiddleware := auth.RequireRole(auth.RoleOwner, auth.RoleAdmin)
	owner := router.Group("/")
	owner.Use(authMiddleware, ownerMiddleware)
	{
		owner.POST("/facilities", facilityHandler.Create)
		owner.GET("/owner/facilities", facilityHandler.ListMine)
		owner.PATCH("/facilities/:facilityID", facilityHandler.Update)
		owner.DELETE("/facilities/:facilityID", facilityHandler.Delete)
		owner.PATCH("/courts/:courtID/status", facilityHandler.SetCourtStatus)

		owner.GET("/facilities/:facilityID/bookings", bookingHandler.ListForFacility)
		owner.PATCH("/facilities/:facilityID/bookings/:bookingID/status", bookingHandler.SetStatus)
	}

	adminMiddleware := auth.RequireRole(auth.RoleAdmin)
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("/facilities", facilityHandler.ListForModeration)
		admin.PATCH("/facilities/:facilityID/status", facilityHandler.SetStatus)
		admin.GET("/users", userHandler.ListUsers)
		admin.PATCH("/users/:userID/role", userHandler.SetRole)
		admin.DELETE("/facilities/:facilityID/reviews/:reviewID", reviewHandler.Delete)
		admin.GET("/analytics/bookings", bookingHandler.Analytics)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(notifyService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		notify: notifyService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests before returning.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
