package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/parlorworks/salon-scheduler/internal/dto"
	"github.com/parlorworks/salon-scheduler/internal/httperr"
	"github.com/parlorworks/salon-scheduler/internal/httpresp"
	"github.com/parlorworks/salon-scheduler/internal/middleware"
	ucBooking "github.com/parlorworks/salon-scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	createUC *ucBooking.CreateBooking
	cancelUC *ucBooking.RequestCancellation
	listUC   *ucBooking.ListMyBookings
}

func NewBookingHandler(
	createUC *ucBooking.CreateBooking,
	cancelUC *ucBooking.RequestCancellation,
	listUC *ucBooking.ListMyBookings,
) *BookingHandler {
	return &BookingHandler{
		createUC: createUC,
		cancelUC: cancelUC,
		listUC:   listUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ServiceID   uint   `json:"service_id" binding:"required"`
	BookingDate string `json:"booking_date" binding:"required"`
	TimeSlot    string `json:"time_slot" binding:"required"`
	StylistID   *uint  `json:"stylist_id"`
}

type CancelBookingRequest struct {
	CancellationReason string `json:"cancellation_reason"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, []string{err.Error()})
		return
	}

	b, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		UserID:    userID,
		ServiceID: req.ServiceID,
		StylistID: req.StylistID,
		Date:      req.BookingDate,
		TimeSlot:  req.TimeSlot,
	})
	if err != nil {
		if writeBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_create_booking", "Error creating booking")
		return
	}

	httpresp.Created(c, b)
}

// ======================================================
// MY BOOKINGS
// ======================================================

func (h *BookingHandler) MyBookings(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	bookings, err := h.listUC.Execute(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Error fetching bookings")
		return
	}

	httpresp.OK(c, dto.FromBookings(bookings))
}

// ======================================================
// CANCEL (request only; admin approves)
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.Validation(c, []string{"id must be an integer"})
		return
	}

	var req CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	b, err := h.cancelUC.Execute(
		c.Request.Context(),
		userID,
		uint(bookingID),
		req.CancellationReason,
	)
	if err != nil {
		if writeBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_cancel_booking", "Error cancelling booking")
		return
	}

	httpresp.OK(c, b)
}
