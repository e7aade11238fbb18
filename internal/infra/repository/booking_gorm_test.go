package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	domain "github.com/parlorworks/salon-scheduler/internal/domain/booking"
	"github.com/parlorworks/salon-scheduler/internal/httperr"
	"github.com/parlorworks/salon-scheduler/internal/models"
)

func newMockRepo(t *testing.T) (*BookingGormRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewBookingGormRepository(db), mock
}

func slotRows(available bool) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{"id", "service_id", "date", "time_slot", "is_available"}).
		AddRow(1, 1, time.Date(2100, 3, 1, 0, 0, 0, 0, time.UTC), "10:00:00", available)
}

func testBooking() *models.Booking {
	return &models.Booking{
		Reference:   "ref-1",
		UserID:      10,
		ServiceID:   1,
		BookingDate: time.Date(2100, 3, 1, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "10:00:00",
		Status:      string(domain.StatusPending),
	}
}

// --------------------------------------------------
// CreateBooking
// --------------------------------------------------

func TestCreateBookingLocksSlotAndInserts(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "availability_slots" .* FOR UPDATE`).
		WillReturnRows(slotRows(true))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	b := testBooking()
	require.NoError(t, repo.CreateBooking(context.Background(), b))
	assert.Equal(t, uint(7), b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingUnprovisionedSlotRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "availability_slots" .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.CreateBooking(context.Background(), testBooking())
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingClosedSlotRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "availability_slots" .* FOR UPDATE`).
		WillReturnRows(slotRows(false))
	mock.ExpectRollback()

	err := repo.CreateBooking(context.Background(), testBooking())
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingActiveDuplicateRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "availability_slots" .* FOR UPDATE`).
		WillReturnRows(slotRows(true))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.CreateBooking(context.Background(), testBooking())
	assert.True(t, httperr.IsBusiness(err, "slot_taken"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// --------------------------------------------------
// UpdateBooking
// --------------------------------------------------

func bookingRows(status string, slotHeld bool) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{
			"id", "user_id", "service_id", "booking_date",
			"time_slot", "status", "slot_held",
		}).
		AddRow(7, 10, 1,
			time.Date(2100, 3, 1, 0, 0, 0, 0, time.UTC),
			"10:00:00", status, slotHeld)
}

func TestUpdateBookingLocksRowAndFlipsLedgerInSameTx(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings" .* FOR UPDATE`).
		WillReturnRows(bookingRows(string(domain.StatusPending), false))
	mock.ExpectExec(`UPDATE "bookings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "availability_slots" SET "is_available"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := repo.UpdateBooking(context.Background(), 7,
		func(b *models.Booking) (domain.SlotEffect, error) {
			return domain.Transition(b, domain.StatusConfirmed, time.Now())
		})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), b.Status)
	assert.True(t, b.SlotHeld)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The update decides from the row read under the lock, not from
// whatever the caller saw earlier: a cancel landing after a concurrent
// confirm finds slot_held set and releases the reservation.
func TestUpdateBookingCancelAfterConfirmReleasesSlot(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings" .* FOR UPDATE`).
		WillReturnRows(bookingRows(string(domain.StatusConfirmed), true))
	mock.ExpectExec(`UPDATE "bookings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "availability_slots" SET "is_available"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := repo.UpdateBooking(context.Background(), 7,
		func(b *models.Booking) (domain.SlotEffect, error) {
			return domain.Transition(b, domain.StatusCancelled, time.Now())
		})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), b.Status)
	assert.False(t, b.SlotHeld)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingNoEffectSkipsLedger(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings" .* FOR UPDATE`).
		WillReturnRows(bookingRows(string(domain.StatusConfirmed), true))
	mock.ExpectExec(`UPDATE "bookings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := repo.UpdateBooking(context.Background(), 7,
		func(b *models.Booking) (domain.SlotEffect, error) {
			return domain.EffectNone, nil
		})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingRejectionRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings" .* FOR UPDATE`).
		WillReturnRows(bookingRows(string(domain.StatusCompleted), true))
	mock.ExpectRollback()

	_, err := repo.UpdateBooking(context.Background(), 7,
		func(b *models.Booking) (domain.SlotEffect, error) {
			return domain.Transition(b, domain.StatusConfirmed, time.Now())
		})
	assert.True(t, httperr.IsBusiness(err, "invalid_transition"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingForUserNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1 AND user_id = \$2 .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.UpdateBookingForUser(context.Background(), 5, 10,
		func(b *models.Booking) (domain.SlotEffect, error) {
			return domain.EffectNone, nil
		})
	assert.True(t, httperr.IsBusiness(err, "booking_not_found"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountDashboard(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings" WHERE status = \$1 AND booking_date >= \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings" WHERE status = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	today := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	counts, err := repo.CountDashboard(context.Background(), today)
	require.NoError(t, err)

	assert.Equal(t, int64(12), counts.TotalBookings)
	assert.Equal(t, int64(4), counts.UpcomingAppointments)
	assert.Equal(t, int64(3), counts.CancelledAppointments)
	assert.NoError(t, mock.ExpectationsWereMet())
}
