package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/parlorworks/salon-scheduler/internal/domain/booking"
	"github.com/parlorworks/salon-scheduler/internal/httperr"
	"github.com/parlorworks/salon-scheduler/internal/httpresp"
)

// AvailabilityHandler exposes the slot ledger: public reads, admin
// provisioning via SetAvailability.
type AvailabilityHandler struct {
	repo     domain.Repository
	timezone string
}

func NewAvailabilityHandler(repo domain.Repository, tz string) *AvailabilityHandler {
	return &AvailabilityHandler{repo: repo, timezone: tz}
}

type SetAvailabilityRequest struct {
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	TimeSlot    string `json:"time_slot" binding:"required"`
	IsAvailable *bool  `json:"is_available"`
}

func (h *AvailabilityHandler) List(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 32)
	if err != nil {
		httperr.Validation(c, []string{"service_id is required"})
		return
	}

	date, err := parseDate(h.timezone, c.Query("date"))
	if err != nil {
		httperr.Validation(c, []string{"date must be YYYY-MM-DD"})
		return
	}

	slots, err := h.repo.ListSlots(c.Request.Context(), uint(serviceID), date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_slots", "Error fetching availability")
		return
	}

	httpresp.OK(c, slots)
}

func (h *AvailabilityHandler) Set(c *gin.Context) {
	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, []string{err.Error()})
		return
	}

	if !domain.ValidTimeSlot(req.TimeSlot) {
		httperr.Validation(c, []string{"time_slot must be HH:MM:SS"})
		return
	}

	date, err := parseDate(h.timezone, req.Date)
	if err != nil {
		httperr.Validation(c, []string{"date must be YYYY-MM-DD"})
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	slot, err := h.repo.SetSlotAvailability(
		c.Request.Context(),
		req.ServiceID,
		date,
		req.TimeSlot,
		available,
	)
	if err != nil {
		httperr.Internal(c, "failed_to_set_availability", "Error setting availability")
		return
	}

	httpresp.Created(c, slot)
}
