package dto

import (
	"time"

	"github.com/parlorworks/salon-scheduler/internal/models"
)

// BookingListDTO flattens a booking with its joined service and stylist
// for list endpoints.
type BookingListDTO struct {
	ID          uint      `json:"id"`
	Reference   string    `json:"reference"`
	BookingDate time.Time `json:"booking_date"`
	TimeSlot    string    `json:"time_slot"`
	Status      string    `json:"status"`

	ServiceName string  `json:"service_name"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"`

	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`

	StylistName string `json:"stylist_name,omitempty"`

	CancellationReason string    `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

func FromBooking(b *models.Booking) BookingListDTO {
	out := BookingListDTO{
		ID:                 b.ID,
		Reference:          b.Reference,
		BookingDate:        b.BookingDate,
		TimeSlot:           b.TimeSlot,
		Status:             b.Status,
		ServiceName:        b.Service.Name,
		Price:              b.Service.Price,
		Duration:           b.Service.DurationMin,
		UserName:           b.User.Name,
		UserEmail:          b.User.Email,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
	}

	if b.Stylist != nil {
		out.StylistName = b.Stylist.Name
	}

	return out
}

func FromBookings(bs []models.Booking) []BookingListDTO {
	out := make([]BookingListDTO, 0, len(bs))
	for i := range bs {
		out = append(out, FromBooking(&bs[i]))
	}
	return out
}
