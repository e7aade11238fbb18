package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/parlorworks/salon-scheduler/internal/config"
	"github.com/parlorworks/salon-scheduler/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Staff{},
		&models.StaffWorkingHours{},
		&models.AvailabilitySlot{},
		&models.Booking{},
		&models.AuditLog{},
	); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	if err := ensureIndexes(db); err != nil {
		log.Fatal("failed to create indexes", zap.Error(err))
	}

	return db
}

// ensureIndexes adds the constraints gorm tags cannot express. The
// partial unique index is the authoritative duplicate-booking guard, so
// a failure here must abort startup rather than leave the ledger relying
// on the in-transaction scan alone.
func ensureIndexes(db *gorm.DB) error {
	return db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_slot
        ON bookings (service_id, booking_date, time_slot)
        WHERE status IN ('PENDING', 'CONFIRMED')
    `).Error
}
