package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/parlorworks/salon-scheduler/internal/domain/booking"
	"github.com/parlorworks/salon-scheduler/internal/httperr"
	"github.com/parlorworks/salon-scheduler/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *BookingGormRepository) GetStylist(
	ctx context.Context,
	id uint,
) (*models.Staff, error) {

	var st models.Staff
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&st).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

// --------------------------------------------------
// Ledger
// --------------------------------------------------

func (r *BookingGormRepository) GetSlot(
	ctx context.Context,
	serviceID uint,
	date time.Time,
	timeSlot string,
) (*models.AvailabilitySlot, error) {

	var slot models.AvailabilitySlot
	if err := r.db.WithContext(ctx).
		Where("service_id = ? AND date = ? AND time_slot = ?", serviceID, date, timeSlot).
		First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

// SetSlotAvailability provisions a ledger row, or flips an existing one.
// Idempotent: applying the same availability twice leaves the same state.
func (r *BookingGormRepository) SetSlotAvailability(
	ctx context.Context,
	serviceID uint,
	date time.Time,
	timeSlot string,
	available bool,
) (*models.AvailabilitySlot, error) {

	slot := models.AvailabilitySlot{
		ServiceID:   serviceID,
		Date:        date,
		TimeSlot:    timeSlot,
		IsAvailable: available,
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "service_id"}, {Name: "date"}, {Name: "time_slot"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_available", "updated_at"}),
		}).
		Create(&slot).Error; err != nil {
		return nil, err
	}

	return &slot, nil
}

func (r *BookingGormRepository) ListSlots(
	ctx context.Context,
	serviceID uint,
	date time.Time,
) ([]models.AvailabilitySlot, error) {

	var slots []models.AvailabilitySlot
	if err := r.db.WithContext(ctx).
		Where("service_id = ? AND date = ?", serviceID, date).
		Order("time_slot ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// --------------------------------------------------
// Booking (create)
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var slot models.AvailabilitySlot
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"service_id = ? AND date = ? AND time_slot = ?",
				b.ServiceID, b.BookingDate, b.TimeSlot,
			).
			First(&slot).Error; err != nil {

			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrBusiness("slot_unavailable")
			}
			return err
		}

		if !slot.IsAvailable {
			return httperr.ErrBusiness("slot_unavailable")
		}

		var count int64
		if err := tx.
			Model(&models.Booking{}).
			Where(
				"service_id = ? AND booking_date = ? AND time_slot = ? AND status IN ?",
				b.ServiceID, b.BookingDate, b.TimeSlot,
				[]string{string(domain.StatusPending), string(domain.StatusConfirmed)},
			).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return httperr.ErrBusiness("slot_taken")
		}

		if err := tx.Create(b).Error; err != nil {
			// The partial unique index is the authoritative guard; a
			// concurrent insert that slipped past the scan lands here.
			if isUniqueViolation(err) {
				return httperr.ErrBusiness("slot_taken")
			}
			return err
		}

		return nil
	})
}

// --------------------------------------------------
// Booking (state change)
// --------------------------------------------------

// UpdateBooking serializes concurrent state changes on a row lock: the
// booking is re-read FOR UPDATE inside the transaction, so fn always
// decides from the committed state, never from a stale snapshot.
func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	id uint,
	fn domain.UpdateFunc,
) (*models.Booking, error) {
	return r.updateLocked(ctx, func(tx *gorm.DB, b *models.Booking) error {
		return tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(b, id).Error
	}, fn)
}

func (r *BookingGormRepository) UpdateBookingForUser(
	ctx context.Context,
	id uint,
	userID uint,
	fn domain.UpdateFunc,
) (*models.Booking, error) {
	return r.updateLocked(ctx, func(tx *gorm.DB, b *models.Booking) error {
		return tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).
			First(b).Error
	}, fn)
}

func (r *BookingGormRepository) updateLocked(
	ctx context.Context,
	load func(tx *gorm.DB, b *models.Booking) error,
	fn domain.UpdateFunc,
) (*models.Booking, error) {

	var b models.Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := load(tx, &b); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrBusiness("booking_not_found")
			}
			return err
		}

		effect, err := fn(&b)
		if err != nil {
			return err
		}

		// Associations stay out of the write: a status change must
		// never touch the joined catalog rows.
		if err := tx.Omit(clause.Associations).Save(&b).Error; err != nil {
			return err
		}

		if effect == domain.EffectNone {
			return nil
		}

		available := effect == domain.EffectRelease

		return tx.
			Model(&models.AvailabilitySlot{}).
			Where(
				"service_id = ? AND date = ? AND time_slot = ?",
				b.ServiceID, b.BookingDate, b.TimeSlot,
			).
			Update("is_available", available).Error
	})
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func (r *BookingGormRepository) ListBookingsForUser(
	ctx context.Context,
	userID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Stylist").
		Where("user_id = ?", userID).
		Order("booking_date DESC, time_slot DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		Preload("Stylist")

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != nil {
		q = q.Where("booking_date = ?", *filter.Date)
	}

	var bookings []models.Booking
	if err := q.
		Order("booking_date DESC, time_slot DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListRecentBookings(
	ctx context.Context,
	limit int,
) ([]models.Booking, error) {

	if limit <= 0 {
		limit = -1
	}

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		Preload("Stylist").
		Order("created_at DESC").
		Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) CountDashboard(
	ctx context.Context,
	today time.Time,
) (*domain.DashboardCounts, error) {

	var counts domain.DashboardCounts

	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Count(&counts.TotalBookings).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("status = ? AND booking_date >= ?", string(domain.StatusConfirmed), today).
		Count(&counts.UpcomingAppointments).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("status = ?", string(domain.StatusCancelled)).
		Count(&counts.CancelledAppointments).Error; err != nil {
		return nil, err
	}

	return &counts, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
