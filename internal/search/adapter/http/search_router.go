package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"motive-archive/internal/search/usecase"
	apperrors "motive-archive/internal/shared/errors"
	"motive-archive/internal/shared/logger"
)

// SearchHandler exposes research ingestion and search over HTTP
type SearchHandler struct {
	usecase usecase.SearchUsecase
	log     logger.Logger
}

// NewSearchHandler creates a search HTTP handler
func NewSearchHandler(uc usecase.SearchUsecase, log logger.Logger) *SearchHandler {
	return &SearchHandler{usecase: uc, log: log.WithComponent("search_handler")}
}

// RegisterRoutes mounts the research routes under the given router
func (h *SearchHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	research := router.Group("/cars/:carId/research", protect)
	research.Post("/", h.ingest)
	research.Get("/", h.listFiles)
	research.Get("/search", h.search)
	research.Post("/ask", h.ask)
	research.Delete("/:id", h.deleteFile)
}

type ingestRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

func (h *SearchHandler) ingest(c *fiber.Ctx) error {
	var req ingestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	file, err := h.usecase.Ingest(c.UserContext(), c.Params("carId"), req.Filename, req.Content)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(file)
}

func (h *SearchHandler) listFiles(c *fiber.Ctx) error {
	files, err := h.usecase.ListFiles(c.UserContext(), c.Params("carId"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(fiber.Map{"files": files})
}

func (h *SearchHandler) search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query parameter q is required"})
	}
	topK, _ := strconv.Atoi(c.Query("limit", "0"))

	results, err := h.usecase.Search(c.UserContext(), c.Params("carId"), query, topK)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(fiber.Map{"results": results})
}

type askRequest struct {
	Question string `json:"question"`
}

func (h *SearchHandler) ask(c *fiber.Ctx) error {
	var req askRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "question is required"})
	}

	answer, err := h.usecase.Ask(c.UserContext(), c.Params("carId"), req.Question)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(answer)
}

func (h *SearchHandler) deleteFile(c *fiber.Ctx) error {
	if err := h.usecase.DeleteFile(c.UserContext(), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SearchHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case err == apperrors.ErrInvalidObjectID:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	case apperrors.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case apperrors.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case apperrors.IsRateLimited(err):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": err.Error()})
	default:
		h.log.WithContext(c.UserContext()).Errorf("Search handler error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
