package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"motive-archive/internal/archive/domain/model"
	"motive-archive/internal/archive/usecase"
	apperrors "motive-archive/internal/shared/errors"
	"motive-archive/internal/shared/logger"
)

// ArchiveHandler exposes the archive CRUD endpoints
type ArchiveHandler struct {
	usecase usecase.ArchiveUsecase
	log     logger.Logger
}

// NewArchiveHandler creates a new archive HTTP handler
func NewArchiveHandler(uc usecase.ArchiveUsecase, log logger.Logger) *ArchiveHandler {
	return &ArchiveHandler{
		usecase: uc,
		log:     log.WithComponent("archive_handler"),
	}
}

// RegisterRoutes mounts archive routes on the router. The protect
// middleware is applied by the caller so route guarding stays in one
// place.
func (h *ArchiveHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	cars := router.Group("/cars", protect)
	cars.Post("/", h.CreateCar)
	cars.Get("/", h.ListCars)
	cars.Get("/:id", h.GetCar)
	cars.Put("/:id", h.UpdateCar)
	cars.Delete("/:id", h.DeleteCar)

	makes := router.Group("/makes", protect)
	makes.Get("/", h.ListMakes)
	makes.Post("/", h.CreateMake)
	makes.Delete("/:id", h.DeleteMake)

	models := router.Group("/models", protect)
	models.Get("/", h.ListModels)
	models.Post("/", h.CreateModel)
	models.Delete("/:id", h.DeleteModel)

	auctions := router.Group("/auctions", protect)
	auctions.Post("/", h.CreateAuction)
	auctions.Get("/", h.ListAuctions)
	auctions.Get("/:id", h.GetAuction)
	auctions.Put("/:id", h.UpdateAuction)
	auctions.Delete("/:id", h.DeleteAuction)

	projects := router.Group("/projects", protect)
	projects.Post("/", h.CreateProject)
	projects.Get("/", h.ListProjects)
	projects.Get("/:id", h.GetProject)
	projects.Put("/:id", h.UpdateProject)
	projects.Delete("/:id", h.DeleteProject)

	deliverables := router.Group("/deliverables", protect)
	deliverables.Post("/", h.CreateDeliverable)
	deliverables.Get("/", h.ListDeliverables)
	deliverables.Get("/:id", h.GetDeliverable)
	deliverables.Put("/:id", h.UpdateDeliverable)
	deliverables.Delete("/:id", h.DeleteDeliverable)

	events := router.Group("/events", protect)
	events.Post("/", h.CreateEvent)
	events.Get("/", h.ListEvents)
	events.Get("/:id", h.GetEvent)
	events.Put("/:id", h.UpdateEvent)
	events.Delete("/:id", h.DeleteEvent)

	router.Get("/activity", protect, h.GetActivity)
}

func (h *ArchiveHandler) pageFromQuery(c *fiber.Ctx) model.Page {
	return model.Page{
		Number: c.QueryInt("page", 1),
		Size:   c.QueryInt("pageSize", 0),
	}
}

// Cars

func (h *ArchiveHandler) CreateCar(c *fiber.Ctx) error {
	var car model.Car
	if err := c.BodyParser(&car); err != nil {
		return badRequest(c, "invalid request body")
	}
	if car.Make == "" || car.Model == "" || car.Year == 0 {
		return badRequest(c, "make, model and year are required")
	}

	if err := h.usecase.CreateCar(c.UserContext(), &car); err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(car)
}

func (h *ArchiveHandler) GetCar(c *fiber.Ctx) error {
	car, err := h.usecase.GetCar(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(car)
}

func (h *ArchiveHandler) ListCars(c *fiber.Ctx) error {
	filter := model.CarFilter{
		Make:     c.Query("make"),
		Model:    c.Query("model"),
		YearMin:  c.QueryInt("yearMin", 0),
		YearMax:  c.QueryInt("yearMax", 0),
		Status:   c.Query("status"),
		ClientID: c.Query("clientId"),
		Search:   c.Query("search"),
	}

	result, err := h.usecase.ListCars(c.UserContext(), filter, h.pageFromQuery(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(result)
}

func (h *ArchiveHandler) UpdateCar(c *fiber.Ctx) error {
	car, err := h.usecase.GetCar(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	if err := c.BodyParser(car); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.usecase.UpdateCar(c.UserContext(), car); err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(car)
}

func (h *ArchiveHandler) DeleteCar(c *fiber.Ctx) error {
	if err := h.usecase.DeleteCar(c.UserContext(), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reference data

func (h *ArchiveHandler) ListMakes(c *fiber.Ctx) error {
	makes, err := h.usecase.ListMakes(c.UserContext(), c.QueryBool("active", false))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(fiber.Map{"makes": makes})
}

func (h *ArchiveHandler) CreateMake(c *fiber.Ctx) error {
	var mk model.Make
	if err := c.BodyParser(&mk); err != nil {
		return badRequest(c, "invalid request body")
	}
	if mk.Name == "" {
		return badRequest(c, "name is required")
	}

	if err := h.usecase.CreateMake(c.UserContext(), &mk); err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(mk)
}

func (h *ArchiveHandler) DeleteMake(c *fiber.Ctx) error {
	if err := h.usecase.DeleteMake(c.UserContext(), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ArchiveHandler) ListModels(c *fiber.Ctx) error {
	models, err := h.usecase.ListModels(c.UserContext(), c.Query("make"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(fiber.Map{"models": models})
}

func (h *ArchiveHandler) CreateModel(c *fiber.Ctx) error {
	var m model.CarModel
	if err := c.BodyParser(&m); err != nil {
		return badRequest(c, "invalid request body")
	}
	if m.Make == "" || m.Name == "" {
		return badRequest(c, "make and name are required")
	}

	if err := h.usecase.CreateModel(c.UserContext(), &m); err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (h *ArchiveHandler) DeleteModel(c *fiber.Ctx) error {
	if err := h.usecase.DeleteModel(c.UserContext(), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Auctions

func (h *ArchiveHandler) CreateAuction(c *fiber.Ctx) error {
	var auction model.Auction
	if err := c.BodyParser(&auction); err != nil {
		return badRequest(c, "invalid request body")
	}
	if auction.Title == "" || auction.Platform == "" {
		return badRequest(c, "title and platform are required")
	}

	if err := h.usecase.CreateAuction(c.UserContext(), &auction); err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(auction)
}

func (h *ArchiveHandler) GetAuction(c *fiber.Ctx) error {
	auction, err := h.usecase.GetAuction(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(auction)
}

func (h *ArchiveHandler) ListAuctions(c *fiber.Ctx) error {
	filter := model.AuctionFilter{
		Make:     c.Query("make"),
		Platform: c.Query("platform"),
		YearMin:  c.QueryInt("yearMin", 0),
		YearMax:  c.QueryInt("yearMax", 0),
		Status:   c.Query("status"),
	}
	if v := c.Query("endsAfter"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.EndsAfter = &t
		}
	}
	if v := c.Query("endsBefore"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.EndsBefore = &t
		}
	}

	result, err := h.usecase.ListAuctions(c.UserContext(), filter, h.pageFromQuery(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(result)
}

func (h *ArchiveHandler) UpdateAuction(c *fiber.Ctx) error {
	auction, err := h.usecase.GetAuction(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	if err := c.BodyParser(auction); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.usecase.UpdateAuction(c.UserContext(), auction); err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(auction)
}

func (h *ArchiveHandler) DeleteAuction(c *fiber.Ctx) error {
	if err := h.usecase.DeleteAuction(c.UserContext(), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Projects

func (h *ArchiveHandler) CreateProject(c *fiber.Ctx) error {
	var project model.Project
	if err := c.BodyParser(&project); err != nil {
		return badRequest(c, "invalid request body")
	}
	if project.Title == "" {
		return badRequest(c, "title is required")
	}

	if err := h.usecase.CreateProject(c.UserContext(), &project); err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

func (h *ArchiveHandler) GetProject(c *fiber.Ctx) error {
	project, err := h.usecase.GetProject(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(project)
}

func (h *ArchiveHandler) ListProjects(c *fiber.Ctx) error {
	filter := model.ProjectFilter{
		Status:   c.Query("status"),
		Type:     c.Query("type"),
		ClientID: c.Query("clientId"),
		MemberID: c.Query("memberId"),
	}

	result, err := h.usecase.ListProjects(c.UserContext(), filter, h.pageFromQuery(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(result)
}

func (h *ArchiveHandler) UpdateProject(c *fiber.Ctx) error {
	project, err := h.usecase.GetProject(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	if err := c.BodyParser(project); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.usecase.UpdateProject(c.UserContext(), project); err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(project)
}

func (h *ArchiveHandler) DeleteProject(c *fiber.Ctx) error {
	if err := h.usecase.DeleteProject(c.UserContext(), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Deliverables

func (h *ArchiveHandler) CreateDeliverable(c *fiber.Ctx) error {
	var d model.Deliverable
	if err := c.BodyParser(&d); err != nil {
		return badRequest(c, "invalid request body")
	}
	if d.Title == "" {
		return badRequest(c, "title is required")
	}

	if err := h.usecase.CreateDeliverable(c.UserContext(), &d); err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(d)
}

func (h *ArchiveHandler) GetDeliverable(c *fiber.Ctx) error {
	d, err := h.usecase.GetDeliverable(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(d)
}

func (h *ArchiveHandler) ListDeliverables(c *fiber.Ctx) error {
	filter := model.DeliverableFilter{
		ProjectID: c.Query("projectId"),
		CarID:     c.Query("carId"),
		Status:    c.Query("status"),
		Platform:  c.Query("platform"),
		Editor:    c.Query("editor"),
	}

	result, err := h.usecase.ListDeliverables(c.UserContext(), filter, h.pageFromQuery(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(result)
}

func (h *ArchiveHandler) UpdateDeliverable(c *fiber.Ctx) error {
	d, err := h.usecase.GetDeliverable(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	if err := c.BodyParser(d); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.usecase.UpdateDeliverable(c.UserContext(), d); err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(d)
}

func (h *ArchiveHandler) DeleteDeliverable(c *fiber.Ctx) error {
	if err := h.usecase.DeleteDeliverable(c.UserContext(), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Calendar events

func (h *ArchiveHandler) CreateEvent(c *fiber.Ctx) error {
	var event model.Event
	if err := c.BodyParser(&event); err != nil {
		return badRequest(c, "invalid request body")
	}
	if event.Title == "" || event.Start.IsZero() {
		return badRequest(c, "title and start are required")
	}

	if err := h.usecase.CreateEvent(c.UserContext(), &event); err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

func (h *ArchiveHandler) GetEvent(c *fiber.Ctx) error {
	event, err := h.usecase.GetEvent(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(event)
}

func (h *ArchiveHandler) ListEvents(c *fiber.Ctx) error {
	filter := model.EventFilter{
		CarID:     c.Query("carId"),
		ProjectID: c.Query("projectId"),
		Type:      c.Query("type"),
		Assignee:  c.Query("assignee"),
	}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.From = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.To = &t
		}
	}

	result, err := h.usecase.ListEvents(c.UserContext(), filter, h.pageFromQuery(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(result)
}

func (h *ArchiveHandler) UpdateEvent(c *fiber.Ctx) error {
	event, err := h.usecase.GetEvent(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	if err := c.BodyParser(event); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.usecase.UpdateEvent(c.UserContext(), event); err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(event)
}

func (h *ArchiveHandler) DeleteEvent(c *fiber.Ctx) error {
	if err := h.usecase.DeleteEvent(c.UserContext(), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Activity feed

func (h *ArchiveHandler) GetActivity(c *fiber.Ctx) error {
	collection := c.Query("collection")
	if collection == "" {
		return badRequest(c, "collection is required")
	}

	events, err := h.usecase.GetActivity(c.UserContext(), collection,
		c.Query("after"), int64(c.QueryInt("count", 100)))
	if err != nil {
		return h.handleError(c, err)
	}

	resumeToken := ""
	if len(events) > 0 {
		resumeToken = events[len(events)-1].ID
	}
	return c.JSON(fiber.Map{
		"events":      events,
		"resumeToken": resumeToken,
	})
}

func (h *ArchiveHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case err == apperrors.ErrInvalidObjectID:
		return badRequest(c, "invalid id")
	case apperrors.IsValidation(err):
		return badRequest(c, err.Error())
	case apperrors.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case apperrors.IsConflict(err):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		h.log.WithContext(c.UserContext()).Errorf("Unhandled error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}
