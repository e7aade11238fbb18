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

type AdminHandler struct {
	dashboardUC    *ucBooking.Dashboard
	listUC         *ucBooking.ListAppointments
	updateStatusUC *ucBooking.UpdateStatus
}

func NewAdminHandler(
	dashboardUC *ucBooking.Dashboard,
	listUC *ucBooking.ListAppointments,
	updateStatusUC *ucBooking.UpdateStatus,
) *AdminHandler {
	return &AdminHandler{
		dashboardUC:    dashboardUC,
		listUC:         listUC,
		updateStatusUC: updateStatusUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateStatusRequest struct {
	Status    string `json:"status" binding:"required"`
	StylistID *uint  `json:"stylist_id"`
}

// ======================================================
// DASHBOARD
// ======================================================

func (h *AdminHandler) Dashboard(c *gin.Context) {
	data, err := h.dashboardUC.Execute(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_load_dashboard", "Error fetching dashboard data")
		return
	}

	httpresp.OK(c, data)
}

// ======================================================
// APPOINTMENTS (filtered listing)
// ======================================================

func (h *AdminHandler) Appointments(c *gin.Context) {
	bookings, err := h.listUC.Execute(
		c.Request.Context(),
		c.Query("status"),
		c.Query("date"),
	)
	if err != nil {
		if writeBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_list_appointments", "Error fetching appointments")
		return
	}

	httpresp.OK(c, dto.FromBookings(bookings))
}

// ======================================================
// BOOKING HISTORY
// ======================================================

func (h *AdminHandler) BookingHistory(c *gin.Context) {
	bookings, err := h.listUC.History(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_history", "Error fetching booking history")
		return
	}

	httpresp.OK(c, dto.FromBookings(bookings))
}

// ======================================================
// STATUS UPDATE (single transition entry point)
// ======================================================

func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.Validation(c, []string{"id must be an integer"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, []string{err.Error()})
		return
	}

	b, err := h.updateStatusUC.Execute(c.Request.Context(), ucBooking.UpdateStatusInput{
		AdminID:   adminID,
		BookingID: uint(bookingID),
		Status:    req.Status,
		StylistID: req.StylistID,
	})
	if err != nil {
		if writeBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_update_status", "Error updating booking")
		return
	}

	httpresp.OK(c, b)
}
