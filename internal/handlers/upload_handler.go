package handlers

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"gorm.io/gorm"

	"github.com/parlorworks/salon-scheduler/internal/httperr"
	"github.com/parlorworks/salon-scheduler/internal/httpresp"
	"github.com/parlorworks/salon-scheduler/internal/models"
	"github.com/parlorworks/salon-scheduler/internal/storage"
)

const (
	maxImageBytes = 5 << 20
	maxImageWidth = 1200
	webpQuality   = 80
)

// UploadHandler re-encodes service images to webp and stores them in the
// configured bucket.
type UploadHandler struct {
	db       *gorm.DB
	uploader *storage.Uploader
}

func NewUploadHandler(db *gorm.DB, uploader *storage.Uploader) *UploadHandler {
	return &UploadHandler{db: db, uploader: uploader}
}

func (h *UploadHandler) ServiceImage(c *gin.Context) {
	if !h.uploader.Enabled() {
		httperr.Internal(c, "storage_not_configured", "Image storage is not configured")
		return
	}

	var service models.Service
	if err := h.db.First(&service, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		httperr.Validation(c, []string{"image file is required"})
		return
	}

	if file.Size > maxImageBytes {
		httperr.BadRequest(c, "image_too_large", "Image must be at most 5MB")
		return
	}

	src, err := file.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_image", "Error reading image")
		return
	}
	defer src.Close()

	raw, err := io.ReadAll(src)
	if err != nil {
		httperr.Internal(c, "failed_to_read_image", "Error reading image")
		return
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Image must be JPEG or PNG")
		return
	}

	img = scaleDown(img, maxImageWidth)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		httperr.Internal(c, "failed_to_encode_image", "Error processing image")
		return
	}

	key := fmt.Sprintf("services/%d/%s.webp", service.ID, uuid.NewString())

	url, err := h.uploader.Upload(c.Request.Context(), key, buf.Bytes(), "image/webp")
	if err != nil {
		httperr.Internal(c, "failed_to_upload_image", "Error uploading image")
		return
	}

	if err := h.db.Model(&service).Update("image_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Error saving image URL")
		return
	}

	httpresp.OK(c, gin.H{"image_url": url})
}

func scaleDown(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= maxWidth {
		return img
	}

	ratio := float64(maxWidth) / float64(bounds.Dx())
	height := int(float64(bounds.Dy()) * ratio)

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
