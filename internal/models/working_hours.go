package models

import "time"

// One row per (staff, weekday); PUT upserts.
type StaffWorkingHours struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"uniqueIndex:idx_staff_day" json:"staff_id"`

	DayOfWeek string `gorm:"size:10;uniqueIndex:idx_staff_day" json:"day_of_week"`

	StartTime   string `gorm:"size:8" json:"start_time"`
	EndTime     string `gorm:"size:8" json:"end_time"`
	IsAvailable bool   `gorm:"default:true" json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
