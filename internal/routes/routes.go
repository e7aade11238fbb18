package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/parlorworks/salon-scheduler/internal/audit"
	"github.com/parlorworks/salon-scheduler/internal/cache"
	"github.com/parlorworks/salon-scheduler/internal/config"
	"github.com/parlorworks/salon-scheduler/internal/handlers"
	infraRepo "github.com/parlorworks/salon-scheduler/internal/infra/repository"
	"github.com/parlorworks/salon-scheduler/internal/middleware"
	"github.com/parlorworks/salon-scheduler/internal/storage"
	ucBooking "github.com/parlorworks/salon-scheduler/internal/usecase/booking"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	log *zap.Logger,
	redisCache *cache.Cache,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	uploader := storage.NewUploader(cfg)

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(
		bookingRepo,
		auditDispatcher,
		cfg.Timezone,
	)

	requestCancellationUC := ucBooking.NewRequestCancellation(
		bookingRepo,
		auditDispatcher,
		cfg.Timezone,
	)

	updateStatusUC := ucBooking.NewUpdateStatus(
		bookingRepo,
		auditDispatcher,
		cfg.Timezone,
	)

	listMyBookingsUC := ucBooking.NewListMyBookings(bookingRepo)

	listAppointmentsUC := ucBooking.NewListAppointments(
		bookingRepo,
		cfg.Timezone,
	)

	dashboardUC := ucBooking.NewDashboard(
		bookingRepo,
		redisCache,
		cfg.Timezone,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	serviceHandler := handlers.NewServiceHandler(db)
	staffHandler := handlers.NewStaffHandler(db)
	availabilityHandler := handlers.NewAvailabilityHandler(bookingRepo, cfg.Timezone)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		requestCancellationUC,
		listMyBookingsUC,
	)

	adminHandler := handlers.NewAdminHandler(
		dashboardUC,
		listAppointmentsUC,
		updateStatusUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	uploadHandler := handlers.NewUploadHandler(db, uploader)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PUBLIC READS
		// ------------------------------
		api.GET("/services", serviceHandler.List)
		api.GET("/services/:id", serviceHandler.Get)
		api.GET("/staff", staffHandler.List)
		api.GET("/staff/:id", staffHandler.Get)
		api.GET("/availability", availabilityHandler.List)

		// ------------------------------
		// CUSTOMER
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.POST("/bookings", bookingHandler.Create)
			secured.GET("/bookings/my-bookings", bookingHandler.MyBookings)
			secured.PUT("/bookings/:id/cancel", bookingHandler.Cancel)

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/")
			admin.Use(middleware.RequireAdmin())
			{
				admin.PUT("/bookings/:id/status", adminHandler.UpdateStatus)

				admin.GET("/admin/dashboard", adminHandler.Dashboard)
				admin.GET("/admin/appointments", adminHandler.Appointments)
				admin.GET("/admin/booking-history", adminHandler.BookingHistory)
				admin.GET("/admin/audit-logs", auditLogsHandler.List)

				admin.POST("/services", serviceHandler.Create)
				admin.PUT("/services/:id", serviceHandler.Update)
				admin.DELETE("/services/:id", serviceHandler.Delete)
				admin.POST("/services/:id/image", uploadHandler.ServiceImage)

				admin.POST("/staff", staffHandler.Create)
				admin.PUT("/staff/:id", staffHandler.Update)
				admin.DELETE("/staff/:id", staffHandler.Delete)
				admin.POST("/staff/:id/working-hours", staffHandler.SetWorkingHours)

				admin.POST("/availability", availabilityHandler.Set)
			}
		}
	}
}
