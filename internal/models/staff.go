package models

import "time"

// Stylists are soft-deleted (IsActive=false) so historical bookings keep
// a valid reference.
type Staff struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name           string `gorm:"size:100;not null" json:"name"`
	Email          string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone          string `gorm:"size:20" json:"phone"`
	Specialization string `gorm:"size:100" json:"specialization"`
	Bio            string `gorm:"type:text" json:"bio"`
	IsActive       bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
