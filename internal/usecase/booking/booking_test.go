package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/parlorworks/salon-scheduler/internal/domain/booking"
	"github.com/parlorworks/salon-scheduler/internal/httperr"
	"github.com/parlorworks/salon-scheduler/internal/models"
)

// ======================================================
// In-memory repository fake
// ======================================================

type fakeRepo struct {
	services map[uint]*models.Service
	stylists map[uint]*models.Staff
	slots    map[string]*models.AvailabilitySlot
	bookings map[uint]*models.Booking
	nextID   uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		services: map[uint]*models.Service{},
		stylists: map[uint]*models.Staff{},
		slots:    map[string]*models.AvailabilitySlot{},
		bookings: map[uint]*models.Booking{},
	}
}

func slotKey(serviceID uint, date time.Time, timeSlot string) string {
	return fmt.Sprintf("%d|%s|%s", serviceID, date.Format("2006-01-02"), timeSlot)
}

func (r *fakeRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	svc, ok := r.services[id]
	if !ok || !svc.Active {
		return nil, fmt.Errorf("record not found")
	}
	return svc, nil
}

func (r *fakeRepo) GetStylist(_ context.Context, id uint) (*models.Staff, error) {
	st, ok := r.stylists[id]
	if !ok || !st.IsActive {
		return nil, fmt.Errorf("record not found")
	}
	return st, nil
}

func (r *fakeRepo) GetSlot(_ context.Context, serviceID uint, date time.Time, timeSlot string) (*models.AvailabilitySlot, error) {
	slot, ok := r.slots[slotKey(serviceID, date, timeSlot)]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	return slot, nil
}

func (r *fakeRepo) SetSlotAvailability(_ context.Context, serviceID uint, date time.Time, timeSlot string, available bool) (*models.AvailabilitySlot, error) {
	key := slotKey(serviceID, date, timeSlot)
	if slot, ok := r.slots[key]; ok {
		slot.IsAvailable = available
		return slot, nil
	}

	slot := &models.AvailabilitySlot{
		ServiceID:   serviceID,
		Date:        date,
		TimeSlot:    timeSlot,
		IsAvailable: available,
	}
	r.slots[key] = slot
	return slot, nil
}

func (r *fakeRepo) ListSlots(_ context.Context, serviceID uint, date time.Time) ([]models.AvailabilitySlot, error) {
	var out []models.AvailabilitySlot
	for _, slot := range r.slots {
		if slot.ServiceID == serviceID && slot.Date.Equal(date) {
			out = append(out, *slot)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	slot, ok := r.slots[slotKey(b.ServiceID, b.BookingDate, b.TimeSlot)]
	if !ok || !slot.IsAvailable {
		return httperr.ErrBusiness("slot_unavailable")
	}

	for _, existing := range r.bookings {
		if existing.ServiceID == b.ServiceID &&
			existing.BookingDate.Equal(b.BookingDate) &&
			existing.TimeSlot == b.TimeSlot &&
			(existing.Status == string(domain.StatusPending) ||
				existing.Status == string(domain.StatusConfirmed)) {
			return httperr.ErrBusiness("slot_taken")
		}
	}

	r.nextID++
	b.ID = r.nextID
	r.bookings[b.ID] = b
	return nil
}

// UpdateBooking hands fn a copy of the stored row, the way the real
// repository re-reads under a row lock, and commits copy plus ledger
// effect together.
func (r *fakeRepo) UpdateBooking(_ context.Context, id uint, fn domain.UpdateFunc) (*models.Booking, error) {
	stored, ok := r.bookings[id]
	if !ok {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	b := *stored
	effect, err := fn(&b)
	if err != nil {
		return nil, err
	}

	r.bookings[id] = &b

	if effect != domain.EffectNone {
		if slot, ok := r.slots[slotKey(b.ServiceID, b.BookingDate, b.TimeSlot)]; ok {
			slot.IsAvailable = effect == domain.EffectRelease
		}
	}
	return &b, nil
}

func (r *fakeRepo) UpdateBookingForUser(ctx context.Context, id uint, userID uint, fn domain.UpdateFunc) (*models.Booking, error) {
	stored, ok := r.bookings[id]
	if !ok || stored.UserID != userID {
		return nil, httperr.ErrBusiness("booking_not_found")
	}
	return r.UpdateBooking(ctx, id, fn)
}

func (r *fakeRepo) ListBookingsForUser(_ context.Context, userID uint) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListBookings(_ context.Context, filter domain.ListFilter) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.Date != nil && !b.BookingDate.Equal(*filter.Date) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeRepo) ListRecentBookings(_ context.Context, limit int) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		out = append(out, *b)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepo) CountDashboard(_ context.Context, today time.Time) (*domain.DashboardCounts, error) {
	counts := &domain.DashboardCounts{}
	for _, b := range r.bookings {
		counts.TotalBookings++
		if b.Status == string(domain.StatusConfirmed) && !b.BookingDate.Before(today) {
			counts.UpcomingAppointments++
		}
		if b.Status == string(domain.StatusCancelled) {
			counts.CancelledAppointments++
		}
	}
	return counts, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// ======================================================
// Fixtures
// ======================================================

const testTZ = "UTC"

func seededRepo(t *testing.T) *fakeRepo {
	t.Helper()

	repo := newFakeRepo()
	repo.services[1] = &models.Service{ID: 1, Name: "Haircut", Price: 1200, DurationMin: 45, Active: true}
	repo.stylists[7] = &models.Staff{ID: 7, Name: "Anita", IsActive: true}

	date := time.Date(2100, 3, 1, 0, 0, 0, 0, time.UTC)
	repo.slots[slotKey(1, date, "10:00:00")] = &models.AvailabilitySlot{
		ServiceID: 1, Date: date, TimeSlot: "10:00:00", IsAvailable: true,
	}

	return repo
}

func slotOf(t *testing.T, repo *fakeRepo, b *models.Booking) *models.AvailabilitySlot {
	t.Helper()
	slot, ok := repo.slots[slotKey(b.ServiceID, b.BookingDate, b.TimeSlot)]
	require.True(t, ok)
	return slot
}

// ======================================================
// Create
// ======================================================

func TestCreateBookingStartsPendingWithSlotStillAvailable(t *testing.T) {
	repo := seededRepo(t)
	uc := NewCreateBooking(repo, nil, testTZ)

	b, err := uc.Execute(context.Background(), CreateBookingInput{
		UserID:    10,
		ServiceID: 1,
		Date:      "2100-03-01",
		TimeSlot:  "10:00:00",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), b.Status)
	assert.NotEmpty(t, b.Reference)
	assert.True(t, slotOf(t, repo, b).IsAvailable, "PENDING must not reserve the slot")
}

func TestCreateBookingDuplicateSlotRejected(t *testing.T) {
	repo := seededRepo(t)
	uc := NewCreateBooking(repo, nil, testTZ)

	in := CreateBookingInput{UserID: 10, ServiceID: 1, Date: "2100-03-01", TimeSlot: "10:00:00"}

	_, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	in.UserID = 11
	_, err = uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "slot_taken"))
}

func TestCreateBookingUnprovisionedSlotRejected(t *testing.T) {
	repo := seededRepo(t)
	uc := NewCreateBooking(repo, nil, testTZ)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		UserID:    10,
		ServiceID: 1,
		Date:      "2100-03-02",
		TimeSlot:  "10:00:00",
	})
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
}

func TestCreateBookingValidation(t *testing.T) {
	repo := seededRepo(t)
	uc := NewCreateBooking(repo, nil, testTZ)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		UserID: 10, ServiceID: 1, Date: "2100-03-01", TimeSlot: "25:00:00",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_time_slot"))

	_, err = uc.Execute(context.Background(), CreateBookingInput{
		UserID: 10, ServiceID: 1, Date: "not-a-date", TimeSlot: "10:00:00",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))

	_, err = uc.Execute(context.Background(), CreateBookingInput{
		UserID: 10, ServiceID: 99, Date: "2100-03-01", TimeSlot: "10:00:00",
	})
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))

	unknown := uint(99)
	_, err = uc.Execute(context.Background(), CreateBookingInput{
		UserID: 10, ServiceID: 1, StylistID: &unknown, Date: "2100-03-01", TimeSlot: "10:00:00",
	})
	assert.True(t, httperr.IsBusiness(err, "stylist_not_found"))
}

// ======================================================
// Admin status update
// ======================================================

func TestConfirmReservesLedgerSlot(t *testing.T) {
	repo := seededRepo(t)
	createUC := NewCreateBooking(repo, nil, testTZ)
	updateUC := NewUpdateStatus(repo, nil, testTZ)

	b, err := createUC.Execute(context.Background(), CreateBookingInput{
		UserID: 10, ServiceID: 1, Date: "2100-03-01", TimeSlot: "10:00:00",
	})
	require.NoError(t, err)

	updated, err := updateUC.Execute(context.Background(), UpdateStatusInput{
		AdminID: 1, BookingID: b.ID, Status: "CONFIRMED",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), updated.Status)
	assert.False(t, slotOf(t, repo, updated).IsAvailable)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	repo := seededRepo(t)
	createUC := NewCreateBooking(repo, nil, testTZ)
	updateUC := NewUpdateStatus(repo, nil, testTZ)

	b, err := createUC.Execute(context.Background(), CreateBookingInput{
		UserID: 10, ServiceID: 1, Date: "2100-03-01", TimeSlot: "10:00:00",
	})
	require.NoError(t, err)

	_, err = updateUC.Execute(context.Background(), UpdateStatusInput{
		AdminID: 1, BookingID: b.ID, Status: "DONE",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))

	stored := repo.bookings[b.ID]
	assert.Equal(t, string(domain.StatusPending), stored.Status)
	assert.True(t, slotOf(t, repo, stored).IsAvailable)
}

// Two admins acting on the same booking must serialize on the locked
// update: whoever lands second transitions from the first decision's
// committed state. A cancel landing after a confirm has to see the
// reservation and release it, even though the canceller last looked at
// the booking while it was still PENDING.
func TestRacingAdminDecisionsKeepLedgerConsistent(t *testing.T) {
	repo := seededRepo(t)
	createUC := NewCreateBooking(repo, nil, testTZ)
	updateUC := NewUpdateStatus(repo, nil, testTZ)

	b, err := createUC.Execute(context.Background(), CreateBookingInput{
		UserID: 10, ServiceID: 1, Date: "2100-03-01", TimeSlot: "10:00:00",
	})
	require.NoError(t, err)

	_, err = updateUC.Execute(context.Background(), UpdateStatusInput{
		AdminID: 1, BookingID: b.ID, Status: "CONFIRMED",
	})
	require.NoError(t, err)

	cancelled, err := updateUC.Execute(context.Background(), UpdateStatusInput{
		AdminID: 2, BookingID: b.ID, Status: "CANCELLED",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), cancelled.Status)
	assert.False(t, cancelled.SlotHeld)
	assert.True(t, slotOf(t, repo, cancelled).IsAvailable,
		"cancelling a confirmed booking must release the reservation")
}

// The loser of a race against a terminal decision gets a transition
// error, not a silent overwrite.
func TestAdminDecisionAfterTerminalStateRejected(t *testing.T) {
	repo := seededRepo(t)
	createUC := NewCreateBooking(repo, nil, testTZ)
	updateUC := NewUpdateStatus(repo, nil, testTZ)

	b, err := createUC.Execute(context.Background(), CreateBookingInput{
		UserID: 10, ServiceID: 1, Date: "2100-03-01", TimeSlot: "10:00:00",
	})
	require.NoError(t, err)

	for _, status := range []string{"CONFIRMED", "COMPLETED"} {
		_, err = updateUC.Execute(context.Background(), UpdateStatusInput{
			AdminID: 1, BookingID: b.ID, Status: status,
		})
		require.NoError(t, err)
	}

	_, err = updateUC.Execute(context.Background(), UpdateStatusInput{
		AdminID: 2, BookingID: b.ID, Status: "CANCELLED",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_transition"))

	stored := repo.bookings[b.ID]
	assert.Equal(t, string(domain.StatusCompleted), stored.Status)
	assert.False(t, slotOf(t, repo, stored).IsAvailable, "completed slot stays consumed")
}

func TestUpdateStatusUnknownBooking(t *testing.T) {
	repo := seededRepo(t)
	updateUC := NewUpdateStatus(repo, nil, testTZ)

	_, err := updateUC.Execute(context.Background(), UpdateStatusInput{
		AdminID: 1, BookingID: 42, Status: "CONFIRMED",
	})
	assert.True(t, httperr.IsBusiness(err, "booking_not_found"))
}

func TestStylistAssignmentWithoutStatusChange(t *testing.T) {
	repo := seededRepo(t)
	createUC := NewCreateBooking(repo, nil, testTZ)
	updateUC := NewUpdateStatus(repo, nil, testTZ)

	b, err := createUC.Execute(context.Background(), CreateBookingInput{
		UserID: 10, ServiceID: 1, Date: "2100-03-01", TimeSlot: "10:00:00",
	})
	require.NoError(t, err)

	stylistID := uint(7)
	updated, err := updateUC.Execute(context.Background(), UpdateStatusInput{
		AdminID: 1, BookingID: b.ID, Status: "PENDING", StylistID: &stylistID,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), updated.Status)
	require.NotNil(t, updated.StylistID)
	assert.Equal(t, stylistID, *updated.StylistID)
	assert.True(t, slotOf(t, repo, updated).IsAvailable)
}

// ======================================================
// Cancellation flow
// ======================================================

func TestCancelRequestThenAdminApprovalReleasesSlot(t *testing.T) {
	repo := seededRepo(t)
	createUC := NewCreateBooking(repo, nil, testTZ)
	updateUC := NewUpdateStatus(repo, nil, testTZ)
	cancelUC := NewRequestCancellation(repo, nil, testTZ)

	b, err := createUC.Execute(context.Background(), CreateBookingInput{
		UserID: 10, ServiceID: 1, Date: "2100-03-01", TimeSlot: "10:00:00",
	})
	require.NoError(t, err)

	_, err = updateUC.Execute(context.Background(), UpdateStatusInput{
		AdminID: 1, BookingID: b.ID, Status: "CONFIRMED",
	})
	require.NoError(t, err)
	require.False(t, slotOf(t, repo, b).IsAvailable)

	requested, err := cancelUC.Execute(context.Background(), 10, b.ID, "travel plans changed")
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelRequested), requested.Status)
	assert.Equal(t, "travel plans changed", requested.CancellationReason)
	assert.NotNil(t, requested.CancellationRequestedAt)
	assert.False(t, slotOf(t, repo, requested).IsAvailable, "slot stays reserved until the admin decides")

	approved, err := updateUC.Execute(context.Background(), UpdateStatusInput{
		AdminID: 1, BookingID: b.ID, Status: "CANCELLED",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), approved.Status)
	assert.True(t, slotOf(t, repo, approved).IsAvailable)
}

func TestCancelRequestOnPastBooking(t *testing.T) {
	repo := seededRepo(t)
	cancelUC := NewRequestCancellation(repo, nil, testTZ)

	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.bookings[1] = &models.Booking{
		ID: 1, UserID: 10, ServiceID: 1,
		BookingDate: past, TimeSlot: "10:00:00",
		Status: string(domain.StatusConfirmed), SlotHeld: true,
	}
	repo.nextID = 1

	_, err := cancelUC.Execute(context.Background(), 10, 1, "")
	assert.True(t, httperr.IsBusiness(err, "past_booking"))
}

func TestCancelRequestForeignBookingNotFound(t *testing.T) {
	repo := seededRepo(t)
	createUC := NewCreateBooking(repo, nil, testTZ)
	cancelUC := NewRequestCancellation(repo, nil, testTZ)

	b, err := createUC.Execute(context.Background(), CreateBookingInput{
		UserID: 10, ServiceID: 1, Date: "2100-03-01", TimeSlot: "10:00:00",
	})
	require.NoError(t, err)

	_, err = cancelUC.Execute(context.Background(), 11, b.ID, "")
	assert.True(t, httperr.IsBusiness(err, "booking_not_found"))
}

// ======================================================
// Listings and dashboard
// ======================================================

func TestListAppointmentsFilters(t *testing.T) {
	repo := seededRepo(t)
	createUC := NewCreateBooking(repo, nil, testTZ)
	listUC := NewListAppointments(repo, testTZ)

	_, err := createUC.Execute(context.Background(), CreateBookingInput{
		UserID: 10, ServiceID: 1, Date: "2100-03-01", TimeSlot: "10:00:00",
	})
	require.NoError(t, err)

	got, err := listUC.Execute(context.Background(), "PENDING", "2100-03-01")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = listUC.Execute(context.Background(), "CANCELLED", "")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = listUC.Execute(context.Background(), "DONE", "")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))

	_, err = listUC.Execute(context.Background(), "", "yesterday")
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))
}

func TestDashboardCounts(t *testing.T) {
	repo := seededRepo(t)
	createUC := NewCreateBooking(repo, nil, testTZ)
	updateUC := NewUpdateStatus(repo, nil, testTZ)
	dashboardUC := NewDashboard(repo, nil, testTZ)

	b, err := createUC.Execute(context.Background(), CreateBookingInput{
		UserID: 10, ServiceID: 1, Date: "2100-03-01", TimeSlot: "10:00:00",
	})
	require.NoError(t, err)

	_, err = updateUC.Execute(context.Background(), UpdateStatusInput{
		AdminID: 1, BookingID: b.ID, Status: "CONFIRMED",
	})
	require.NoError(t, err)

	data, err := dashboardUC.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), data.TotalBookings)
	assert.Equal(t, int64(1), data.UpcomingAppointments)
	assert.Equal(t, int64(0), data.CancelledAppointments)
	assert.Len(t, data.RecentBookings, 1)
}
