package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/parlorworks/salon-scheduler/internal/httperr"
	"github.com/parlorworks/salon-scheduler/internal/timezone"
)

// businessResponses maps domain reason codes to their HTTP shape. Codes
// stay machine-readable; messages match the public API contract.
var businessResponses = map[string]struct {
	status  int
	message string
}{
	"invalid_time_slot":  {http.StatusBadRequest, "Valid time slot required"},
	"invalid_date":       {http.StatusBadRequest, "Valid booking date required"},
	"service_not_found":  {http.StatusBadRequest, "Service not found"},
	"stylist_not_found":  {http.StatusBadRequest, "Stylist not found"},
	"slot_unavailable":   {http.StatusBadRequest, "Time slot not available"},
	"slot_taken":         {http.StatusBadRequest, "Time slot already booked"},
	"booking_not_found":  {http.StatusNotFound, "Booking not found"},
	"past_booking":       {http.StatusBadRequest, "Cannot cancel past bookings"},
	"cancel_not_allowed": {http.StatusBadRequest, "Booking cannot be cancelled in its current state"},
	"invalid_status":     {http.StatusBadRequest, "Invalid booking status"},
	"invalid_transition": {http.StatusBadRequest, "Invalid status transition"},
}

// writeBusinessError translates a domain error into its 4xx response.
// Returns false for unexpected errors so the caller can respond 500.
func writeBusinessError(c *gin.Context, err error) bool {
	code := httperr.BusinessCode(err)
	if code == "" {
		return false
	}

	resp, ok := businessResponses[code]
	if !ok {
		httperr.BadRequest(c, code, code)
		return true
	}

	httperr.Write(c, resp.status, code, resp.message)
	return true
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func parseDate(tz, dateStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", dateStr, timezone.Location(tz))
}
