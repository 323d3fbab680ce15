package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rendrapra/planora/config"
	"github.com/rendrapra/planora/internal/handlers"
	"github.com/rendrapra/planora/internal/messaging"
	"github.com/rendrapra/planora/internal/middleware"
	"github.com/rendrapra/planora/internal/models"
	"github.com/rendrapra/planora/internal/repository"
	"github.com/rendrapra/planora/internal/service"
)

func Start() error {
	logger := config.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	var publisher *messaging.Publisher
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		publisher, err = messaging.NewPublisher(url)
		if err != nil {
			logger.Warn("rabbitmq unavailable, notification events will not be published", "error", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	r := gin.Default()

	setupRoutes(r, db, publisher)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("starting server", "port", port)
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, publisher *messaging.Publisher) {
	r.Use(middleware.DatabaseMiddleware(db))

	bookingRepo := repository.NewBookingRepository(db)
	eventRepo := repository.NewEventRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	bookingSvc := service.NewBookingService(bookingRepo, eventRepo, notifRepo, publisher)
	verificationSvc := service.NewVerificationService(bookingRepo)
	proposalSvc := service.NewProposalService(proposalRepo, eventRepo, notifRepo, publisher)

	bookingHandler := handlers.NewBookingHandler(bookingSvc)
	verificationHandler := handlers.NewVerificationHandler(verificationSvc)
	proposalHandler := handlers.NewProposalHandler(proposalSvc)

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)
		public.GET("/events/:id", handlers.GetEvent)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/profile", handlers.GetProfile)
		protected.PUT("/profile", handlers.UpdateProfile)

		protected.GET("/notifications", handlers.ListNotifications)
		protected.GET("/notifications/unread-count", handlers.UnreadNotificationCount)
		protected.POST("/notifications/:id/read", handlers.MarkNotificationRead)

		hostOnly := protected.Group("", middleware.RequireRole(models.RoleHost))
		{
			hostOnly.POST("/events", handlers.CreateEvent)
			hostOnly.GET("/events", handlers.ListMyEvents)
			hostOnly.PUT("/events/:id", handlers.UpdateEvent)
			hostOnly.DELETE("/events/:id", handlers.DeleteEvent)
			hostOnly.GET("/events/:id/summary", handlers.EventSummary)

			hostOnly.GET("/proposals", proposalHandler.ListForHost)
			hostOnly.POST("/proposals/:id/accept", proposalHandler.Accept)
			hostOnly.POST("/proposals/:id/reject", proposalHandler.Reject)

			hostOnly.POST("/scan/verify", verificationHandler.Verify)
		}

		plannerOnly := protected.Group("", middleware.RequireRole(models.RolePlanner))
		{
			plannerOnly.GET("/events/open", handlers.ListOpenEvents)
			plannerOnly.POST("/events/:id/proposals", proposalHandler.Submit)
			plannerOnly.GET("/proposals/mine", proposalHandler.ListMine)
			plannerOnly.PUT("/proposals/:id", proposalHandler.Update)
			plannerOnly.DELETE("/proposals/:id", proposalHandler.Delete)
		}

		guestOnly := protected.Group("", middleware.RequireRole(models.RoleGuest))
		{
			guestOnly.GET("/events/upcoming", handlers.ListUpcomingEvents)
			guestOnly.POST("/events/:id/bookings", bookingHandler.Create)
			guestOnly.GET("/bookings", bookingHandler.ListMine)
			guestOnly.POST("/bookings/:id/cancel", bookingHandler.Cancel)
			guestOnly.POST("/bookings/:id/pay", bookingHandler.Pay)
			guestOnly.GET("/bookings/:id/qr", bookingHandler.TicketQR)
		}

		adminOnly := protected.Group("/admin", middleware.RequireRole(models.RoleAdmin))
		{
			adminOnly.GET("/dashboard", handlers.AdminDashboard)
			adminOnly.GET("/pending-approvals", handlers.ListPendingUsers)
			adminOnly.POST("/users/:id/approve", handlers.ApproveUser)
			adminOnly.DELETE("/users/:id", handlers.RejectUser)
		}
	}
}
