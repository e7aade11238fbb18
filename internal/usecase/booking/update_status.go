package booking

import (
	"context"

	"github.com/parlorworks/salon-scheduler/internal/audit"
	domain "github.com/parlorworks/salon-scheduler/internal/domain/booking"
	"github.com/parlorworks/salon-scheduler/internal/httperr"
	"github.com/parlorworks/salon-scheduler/internal/models"
	"github.com/parlorworks/salon-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type UpdateStatusInput struct {
	AdminID   uint
	BookingID uint

	Status    string
	StylistID *uint
}

// ======================================================
// USE CASE
// ======================================================

// UpdateStatus is the single admin entry point for every transition past
// creation: confirm, reject, complete, cancel, approve or decline a
// cancellation request, and stylist assignment.
type UpdateStatus struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	timezone string
}

func NewUpdateStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *UpdateStatus {
	return &UpdateStatus{
		repo:     repo,
		audit:    audit,
		timezone: tz,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateStatus) Execute(
	ctx context.Context,
	in UpdateStatusInput,
) (*models.Booking, error) {

	target, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	if in.StylistID != nil {
		if _, err := uc.repo.GetStylist(ctx, *in.StylistID); err != nil {
			return nil, httperr.ErrBusiness("stylist_not_found")
		}
	}

	now := timezone.NowIn(uc.timezone)

	// The transition is decided inside the locked update, against the
	// row as it stands there. Two admins racing on one booking
	// serialize, and the loser transitions from the winner's result or
	// gets a transition error, never a stale snapshot.
	b, err := uc.repo.UpdateBooking(ctx, in.BookingID,
		func(b *models.Booking) (domain.SlotEffect, error) {
			if in.StylistID != nil {
				b.StylistID = in.StylistID
			}

			// Same-status update assigns the stylist without a transition.
			if target == domain.Status(b.Status) {
				return domain.EffectNone, nil
			}

			return domain.Transition(b, target, now)
		})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.AdminID,
		Action:   "booking_status_updated",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"status": b.Status},
	})

	return b, nil
}
