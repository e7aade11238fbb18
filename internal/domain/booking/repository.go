package booking

import (
	"context"
	"time"

	"github.com/parlorworks/salon-scheduler/internal/models"
)

// ListFilter narrows the admin appointment listing.
type ListFilter struct {
	Status string
	Date   *time.Time
}

// UpdateFunc mutates a freshly loaded booking and returns the ledger
// effect its change requires.
type UpdateFunc func(b *models.Booking) (SlotEffect, error)

// DashboardCounts are computed by filtering, not maintained incrementally.
type DashboardCounts struct {
	TotalBookings         int64 `json:"totalBookings"`
	UpcomingAppointments  int64 `json:"upcomingAppointments"`
	CancelledAppointments int64 `json:"cancelledAppointments"`
}

type Repository interface {
	// -------- Catalog --------
	GetService(ctx context.Context, id uint) (*models.Service, error)

	GetStylist(ctx context.Context, id uint) (*models.Staff, error)

	// -------- Ledger --------
	GetSlot(
		ctx context.Context,
		serviceID uint,
		date time.Time,
		timeSlot string,
	) (*models.AvailabilitySlot, error)

	SetSlotAvailability(
		ctx context.Context,
		serviceID uint,
		date time.Time,
		timeSlot string,
		available bool,
	) (*models.AvailabilitySlot, error)

	ListSlots(
		ctx context.Context,
		serviceID uint,
		date time.Time,
	) ([]models.AvailabilitySlot, error)

	// -------- Booking (create) --------

	// CreateBooking checks slot availability and the duplicate-booking
	// guard and inserts, all inside one transaction with the slot row
	// locked.
	CreateBooking(ctx context.Context, b *models.Booking) error

	// -------- Booking (state change) --------

	// UpdateBooking loads the booking with a row lock, runs fn on the
	// current row and persists the result together with the ledger
	// effect, all in one transaction. Concurrent updates serialize on
	// the lock, so fn always decides from fresh state.
	UpdateBooking(ctx context.Context, id uint, fn UpdateFunc) (*models.Booking, error)

	// UpdateBookingForUser is UpdateBooking scoped to the owning user.
	UpdateBookingForUser(
		ctx context.Context,
		id uint,
		userID uint,
		fn UpdateFunc,
	) (*models.Booking, error)

	// -------- Listings --------
	ListBookingsForUser(ctx context.Context, userID uint) ([]models.Booking, error)

	ListBookings(ctx context.Context, filter ListFilter) ([]models.Booking, error)

	ListRecentBookings(ctx context.Context, limit int) ([]models.Booking, error)

	CountDashboard(ctx context.Context, today time.Time) (*DashboardCounts, error)
}
