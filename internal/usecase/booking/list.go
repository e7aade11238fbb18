package booking

import (
	"context"
	"time"

	domain "github.com/parlorworks/salon-scheduler/internal/domain/booking"
	"github.com/parlorworks/salon-scheduler/internal/httperr"
	"github.com/parlorworks/salon-scheduler/internal/models"
	"github.com/parlorworks/salon-scheduler/internal/timezone"
)

type ListMyBookings struct {
	repo domain.Repository
}

func NewListMyBookings(repo domain.Repository) *ListMyBookings {
	return &ListMyBookings{repo: repo}
}

func (uc *ListMyBookings) Execute(
	ctx context.Context,
	userID uint,
) ([]models.Booking, error) {
	return uc.repo.ListBookingsForUser(ctx, userID)
}

// ------------------------------------------------------

// ListAppointments is the admin listing, filtered by status and/or date.
type ListAppointments struct {
	repo     domain.Repository
	timezone string
}

func NewListAppointments(repo domain.Repository, tz string) *ListAppointments {
	return &ListAppointments{repo: repo, timezone: tz}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	status string,
	dateStr string,
) ([]models.Booking, error) {

	filter := domain.ListFilter{}

	if status != "" {
		s, err := domain.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = string(s)
	}

	if dateStr != "" {
		date, err := time.ParseInLocation(
			"2006-01-02",
			dateStr,
			timezone.Location(uc.timezone),
		)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		filter.Date = &date
	}

	return uc.repo.ListBookings(ctx, filter)
}

// History returns every booking, newest first.
func (uc *ListAppointments) History(ctx context.Context) ([]models.Booking, error) {
	return uc.repo.ListRecentBookings(ctx, 0)
}
