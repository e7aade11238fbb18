package models

import "time"

// AvailabilitySlot is the booking ledger: one row per bookable
// (service, date, time slot) unit. Absence of a row means the slot was
// never provisioned and cannot be booked.
type AvailabilitySlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ServiceID uint      `gorm:"uniqueIndex:idx_slot_key" json:"service_id"`
	Date      time.Time `gorm:"type:date;uniqueIndex:idx_slot_key" json:"date"`
	TimeSlot  string    `gorm:"size:8;uniqueIndex:idx_slot_key" json:"time_slot"`

	IsAvailable bool `gorm:"default:true" json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
