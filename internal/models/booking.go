package models

import "time"

type Booking struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Reference string `gorm:"size:36;uniqueIndex" json:"reference"`

	UserID uint `json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	StylistID *uint  `json:"stylist_id"`
	Stylist   *Staff `gorm:"foreignKey:StylistID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"stylist,omitempty"`

	BookingDate time.Time `gorm:"type:date" json:"booking_date"`
	TimeSlot    string    `gorm:"size:8" json:"time_slot"`

	Status string `gorm:"size:20;default:'PENDING'" json:"status"`

	// SlotHeld tracks whether this booking currently owns the ledger
	// reservation for its slot. Flipped together with the ledger write
	// inside the same transaction.
	SlotHeld bool `gorm:"default:false" json:"-"`

	CancellationReason      string     `gorm:"size:255" json:"cancellation_reason"`
	CancellationRequestedAt *time.Time `json:"cancellation_requested_at"`
	CancelledAt             *time.Time `json:"cancelled_at"`
	CompletedAt             *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
