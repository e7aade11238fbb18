package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/parlorworks/salon-scheduler/internal/audit"
	domain "github.com/parlorworks/salon-scheduler/internal/domain/booking"
	"github.com/parlorworks/salon-scheduler/internal/httperr"
	"github.com/parlorworks/salon-scheduler/internal/models"
	"github.com/parlorworks/salon-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	UserID    uint
	ServiceID uint
	StylistID *uint

	Date     string
	TimeSlot string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	timezone string
}

func NewCreateBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		audit:    audit,
		timezone: tz,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	if !domain.ValidTimeSlot(in.TimeSlot) {
		return nil, httperr.ErrBusiness("invalid_time_slot")
	}

	date, err := time.ParseInLocation(
		"2006-01-02",
		in.Date,
		timezone.Location(uc.timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	if in.StylistID != nil {
		if _, err := uc.repo.GetStylist(ctx, *in.StylistID); err != nil {
			return nil, httperr.ErrBusiness("stylist_not_found")
		}
	}

	// Slot availability and the duplicate guard live inside the
	// repository transaction; a PENDING booking does not reserve the
	// slot yet.
	b := &models.Booking{
		Reference:   uuid.NewString(),
		UserID:      in.UserID,
		ServiceID:   service.ID,
		StylistID:   in.StylistID,
		BookingDate: date,
		TimeSlot:    in.TimeSlot,
		Status:      string(domain.InitialStatus()),
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
