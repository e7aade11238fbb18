package booking

import (
	"time"

	"github.com/parlorworks/salon-scheduler/internal/httperr"
	"github.com/parlorworks/salon-scheduler/internal/models"
)

// ===============================
// Ledger side effect
// ===============================

// SlotEffect is the ledger write a status transition requires. The
// repository applies it in the same transaction as the booking update.
type SlotEffect int

const (
	EffectNone SlotEffect = iota
	EffectReserve
	EffectRelease
)

// ===============================
// Domain Actions
// ===============================

// Transition moves a booking to the target status, stamps the relevant
// timestamps and returns the ledger effect. Effects are derived from
// SlotHeld rather than the (from, to) pair so that indirect paths such as
// PENDING -> CANCEL_REQUESTED -> CONFIRMED still end with booking and
// ledger consistent.
func Transition(b *models.Booking, to Status, now time.Time) (SlotEffect, error) {
	from := Status(b.Status)

	if !to.IsValid() {
		return EffectNone, httperr.ErrBusiness("invalid_status")
	}
	if !from.CanTransitionTo(to) {
		return EffectNone, httperr.ErrBusiness("invalid_transition")
	}

	b.Status = string(to)

	effect := EffectNone
	switch to {
	case StatusConfirmed:
		if !b.SlotHeld {
			effect = EffectReserve
			b.SlotHeld = true
		}
	case StatusCancelled:
		b.CancelledAt = &now
		if b.SlotHeld {
			effect = EffectRelease
			b.SlotHeld = false
		}
	case StatusCompleted:
		// Slot stays consumed.
		b.CompletedAt = &now
	}

	return effect, nil
}

// RequestCancellation is the single customer-initiated status change.
// Only PENDING or CONFIRMED bookings whose start is strictly in the
// future may enter CANCEL_REQUESTED.
func RequestCancellation(b *models.Booking, reason string, now time.Time) error {
	current := Status(b.Status)
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrBusiness("cancel_not_allowed")
	}

	start := SlotStart(b.BookingDate, b.TimeSlot, now.Location())
	if !start.After(now) {
		return httperr.ErrBusiness("past_booking")
	}

	b.Status = string(StatusCancelRequested)
	b.CancellationReason = reason
	b.CancellationRequestedAt = &now
	return nil
}
