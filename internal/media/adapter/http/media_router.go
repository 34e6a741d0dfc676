package http

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strconv"

	"github.com/gofiber/fiber/v2"

	archiverepo "motive-archive/internal/archive/domain/repository"
	"motive-archive/internal/media/imaging"
	"motive-archive/internal/media/usecase"
	apperrors "motive-archive/internal/shared/errors"
	"motive-archive/internal/shared/logger"
)

// MediaHandler exposes the image processing and migration endpoints
type MediaHandler struct {
	migrator    *usecase.MetadataMigrator
	metadata    archiverepo.ImageMetadataRepository
	log         logger.Logger
	jpegQuality int
}

// NewMediaHandler creates the media HTTP handler. The migrator may be
// nil when Cloudflare is not configured.
func NewMediaHandler(
	migrator *usecase.MetadataMigrator,
	metadata archiverepo.ImageMetadataRepository,
	log logger.Logger,
	jpegQuality int,
) *MediaHandler {
	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = 92
	}
	return &MediaHandler{
		migrator:    migrator,
		metadata:    metadata,
		log:         log.WithComponent("media_handler"),
		jpegQuality: jpegQuality,
	}
}

// RegisterRoutes mounts the media routes. Processing endpoints require
// authentication; the migration endpoint additionally requires admin.
func (h *MediaHandler) RegisterRoutes(router fiber.Router, protect, requireAdmin fiber.Handler) {
	media := router.Group("/media", protect)
	media.Post("/extend-canvas", h.extendCanvas)
	media.Post("/crop", h.crop)
	media.Post("/matte", h.matte)
	media.Post("/migrate-metadata", requireAdmin, h.migrateMetadata)

	router.Get("/cars/:carId/images", protect, h.listCarImages)
}

func (h *MediaHandler) extendCanvas(c *fiber.Ctx) error {
	src, err := h.decodeImage(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	desiredHeight, err := strconv.Atoi(c.Query("height"))
	if err != nil || desiredHeight < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "height query parameter is required"})
	}
	padPct := queryFloat(c, "pad", 0.05)
	whiteThresh := queryInt(c, "whiteThresh", 0)

	out, err := imaging.ExtendCanvas(src, desiredHeight, padPct, whiteThresh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return h.writeJPEG(c, out)
}

func (h *MediaHandler) crop(c *fiber.Ctx) error {
	src, err := h.decodeImage(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	cropRect := image.Rect(
		queryInt(c, "x", 0),
		queryInt(c, "y", 0),
		queryInt(c, "x", 0)+queryInt(c, "width", 0),
		queryInt(c, "y", 0)+queryInt(c, "height", 0),
	)
	scale := queryFloat(c, "scale", 1.0)
	outW := queryInt(c, "outputWidth", 1080)
	outH := queryInt(c, "outputHeight", 1080)

	out, err := imaging.CropImage(src, cropRect, scale, outW, outH)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return h.writeJPEG(c, out)
}

func (h *MediaHandler) matte(c *fiber.Ctx) error {
	src, err := h.decodeImage(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	w := queryInt(c, "width", 1080)
	ht := queryInt(c, "height", 1350)
	padPct := queryFloat(c, "pad", 0.05)
	hexColor := c.Query("color", "#000000")

	out, err := imaging.GenerateMatte(src, w, ht, padPct, hexColor)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return h.writeJPEG(c, out)
}

func (h *MediaHandler) migrateMetadata(c *fiber.Ctx) error {
	if h.migrator == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "cloudflare images is not configured"})
	}

	report, err := h.migrator.Run(c.UserContext())
	if err != nil {
		h.log.WithContext(c.UserContext()).Errorf("Metadata migration failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "migration failed"})
	}
	return c.JSON(report)
}

func (h *MediaHandler) listCarImages(c *fiber.Ctx) error {
	images, err := h.metadata.ListByCar(c.UserContext(), c.Params("carId"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		h.log.WithContext(c.UserContext()).Errorf("Failed to list car images: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"images": images})
}

// decodeImage reads the source image from a multipart "image" field or
// the raw request body
func (h *MediaHandler) decodeImage(c *fiber.Ctx) (image.Image, error) {
	if file, err := c.FormFile("image"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		return img, err
	}

	body := c.Body()
	if len(body) == 0 {
		return nil, image.ErrFormat
	}
	img, _, err := image.Decode(bytes.NewReader(body))
	return img, err
}

func (h *MediaHandler) writeJPEG(c *fiber.Ctx, img image.Image) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: h.jpegQuality}); err != nil {
		h.log.Errorf("Failed to encode processed image: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to encode image"})
	}
	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(buf.Bytes())
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return value
}

func queryFloat(c *fiber.Ctx, key string, fallback float64) float64 {
	value, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return fallback
	}
	return value
}
