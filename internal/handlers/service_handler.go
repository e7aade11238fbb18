package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parlorworks/salon-scheduler/internal/httperr"
	"github.com/parlorworks/salon-scheduler/internal/httpresp"
	"github.com/parlorworks/salon-scheduler/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Duration    int     `json:"duration" binding:"required,min=1"`
	ImageURL    string  `json:"image_url"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Duration    *int     `json:"duration"`
	ImageURL    *string  `json:"image_url"`
}

// List returns active services, public.
func (h *ServiceHandler) List(c *gin.Context) {
	var services []models.Service
	if err := h.db.
		Where("active = ?", true).
		Order("created_at DESC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Error fetching services")
		return
	}

	httpresp.OK(c, services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	var service models.Service
	if err := h.db.
		Where("id = ? AND active = ?", c.Param("id"), true).
		First(&service).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found")
		return
	}

	httpresp.OK(c, service)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, []string{err.Error()})
		return
	}

	category := req.Category
	if category == "" {
		category = "General"
	}

	service := models.Service{
		Name:        req.Name,
		Description: req.Description,
		Category:    category,
		Price:       req.Price,
		DurationMin: req.Duration,
		ImageURL:    req.ImageURL,
		Active:      true,
	}

	if err := h.db.Create(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Error creating service")
		return
	}

	httpresp.Created(c, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, []string{err.Error()})
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Duration != nil {
		updates["duration_min"] = *req.Duration
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}

	if len(updates) == 0 {
		httperr.BadRequest(c, "no_fields_to_update", "No fields to update")
		return
	}

	var service models.Service
	if err := h.db.First(&service, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found")
		return
	}

	if err := h.db.Model(&service).Updates(updates).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Error updating service")
		return
	}

	httpresp.OK(c, service)
}

// Delete deactivates instead of removing: historical bookings keep a
// valid service reference.
func (h *ServiceHandler) Delete(c *gin.Context) {
	var service models.Service
	if err := h.db.First(&service, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found")
		return
	}

	if err := h.db.Model(&service).Update("active", false).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_service", "Error deleting service")
		return
	}

	httpresp.Message(c, "Service deleted successfully")
}
