package booking

import (
	"context"

	"github.com/parlorworks/salon-scheduler/internal/audit"
	domain "github.com/parlorworks/salon-scheduler/internal/domain/booking"
	"github.com/parlorworks/salon-scheduler/internal/models"
	"github.com/parlorworks/salon-scheduler/internal/timezone"
)

type RequestCancellation struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	timezone string
}

func NewRequestCancellation(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *RequestCancellation {
	return &RequestCancellation{
		repo:     repo,
		audit:    audit,
		timezone: tz,
	}
}

func (uc *RequestCancellation) Execute(
	ctx context.Context,
	userID uint,
	bookingID uint,
	reason string,
) (*models.Booking, error) {

	now := timezone.NowIn(uc.timezone)

	// Entering CANCEL_REQUESTED never touches the ledger; that waits
	// for the admin decision. The locked update still matters: it keeps
	// the request from racing a concurrent admin transition.
	b, err := uc.repo.UpdateBookingForUser(ctx, bookingID, userID,
		func(b *models.Booking) (domain.SlotEffect, error) {
			if err := domain.RequestCancellation(b, reason, now); err != nil {
				return domain.EffectNone, err
			}
			return domain.EffectNone, nil
		})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "booking_cancel_requested",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
