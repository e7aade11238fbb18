package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/parlorworks/salon-scheduler/internal/domain/booking"
	"github.com/parlorworks/salon-scheduler/internal/httperr"
	"github.com/parlorworks/salon-scheduler/internal/httpresp"
	"github.com/parlorworks/salon-scheduler/internal/models"
)

type StaffHandler struct {
	db *gorm.DB
}

func NewStaffHandler(db *gorm.DB) *StaffHandler {
	return &StaffHandler{db: db}
}

type CreateStaffRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone"`
	Specialization string `json:"specialization"`
	Bio            string `json:"bio"`
}

type UpdateStaffRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Specialization *string `json:"specialization"`
	Bio            *string `json:"bio"`
	IsActive       *bool   `json:"is_active"`
}

var weekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

type WorkingHoursRequest struct {
	DayOfWeek   string `json:"day_of_week" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	IsAvailable *bool  `json:"is_available"`
}

// List returns active stylists, public.
func (h *StaffHandler) List(c *gin.Context) {
	var staff []models.Staff
	if err := h.db.
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_list_staff", "Error fetching staff")
		return
	}

	httpresp.OK(c, staff)
}

func (h *StaffHandler) Get(c *gin.Context) {
	var member models.Staff
	if err := h.db.
		Where("id = ? AND is_active = ?", c.Param("id"), true).
		First(&member).Error; err != nil {
		httperr.NotFound(c, "staff_not_found", "Staff member not found")
		return
	}

	var hours []models.StaffWorkingHours
	h.db.Where("staff_id = ?", member.ID).Order("id ASC").Find(&hours)

	httpresp.OK(c, gin.H{
		"staff":         member,
		"working_hours": hours,
	})
}

func (h *StaffHandler) Create(c *gin.Context) {
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, []string{err.Error()})
		return
	}

	member := models.Staff{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		Bio:            req.Bio,
		IsActive:       true,
	}

	if err := h.db.Create(&member).Error; err != nil {
		if isUniqueViolation(err) {
			httperr.BadRequest(c, "email_already_exists", "Email already exists")
			return
		}
		httperr.Internal(c, "failed_to_create_staff", "Error creating staff member")
		return
	}

	httpresp.Created(c, member)
}

func (h *StaffHandler) Update(c *gin.Context) {
	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, []string{err.Error()})
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Specialization != nil {
		updates["specialization"] = *req.Specialization
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		httperr.BadRequest(c, "no_fields_to_update", "No fields to update")
		return
	}

	var member models.Staff
	if err := h.db.First(&member, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "staff_not_found", "Staff member not found")
		return
	}

	if err := h.db.Model(&member).Updates(updates).Error; err != nil {
		httperr.Internal(c, "failed_to_update_staff", "Error updating staff member")
		return
	}

	httpresp.OK(c, member)
}

// Delete deactivates; booking history keeps its stylist reference.
func (h *StaffHandler) Delete(c *gin.Context) {
	var member models.Staff
	if err := h.db.First(&member, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "staff_not_found", "Staff member not found")
		return
	}

	if err := h.db.Model(&member).Update("is_active", false).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_staff", "Error deactivating staff member")
		return
	}

	httpresp.Message(c, "Staff member deactivated successfully")
}

// SetWorkingHours upserts the (staff, weekday) row.
func (h *StaffHandler) SetWorkingHours(c *gin.Context) {
	var req WorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, []string{err.Error()})
		return
	}

	if !weekdays[req.DayOfWeek] {
		httperr.Validation(c, []string{"day_of_week must be a weekday name"})
		return
	}
	if !domain.ValidTimeSlot(req.StartTime) || !domain.ValidTimeSlot(req.EndTime) {
		httperr.Validation(c, []string{"start_time and end_time must be HH:MM:SS"})
		return
	}

	var member models.Staff
	if err := h.db.First(&member, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "staff_not_found", "Staff member not found")
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	var existing models.StaffWorkingHours
	err := h.db.
		Where("staff_id = ? AND day_of_week = ?", member.ID, req.DayOfWeek).
		First(&existing).Error

	if err == nil {
		existing.StartTime = req.StartTime
		existing.EndTime = req.EndTime
		existing.IsAvailable = available

		if err := h.db.Save(&existing).Error; err != nil {
			httperr.Internal(c, "failed_to_save_working_hours", "Error setting working hours")
			return
		}

		httpresp.OK(c, existing)
		return
	}

	hours := models.StaffWorkingHours{
		StaffID:     member.ID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: available,
	}

	if err := h.db.Create(&hours).Error; err != nil {
		httperr.Internal(c, "failed_to_save_working_hours", "Error setting working hours")
		return
	}

	httpresp.Created(c, hours)
}
