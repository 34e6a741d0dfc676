package http

import (
	"github.com/gofiber/fiber/v2"

	"motive-archive/internal/auth/domain/model"
	"motive-archive/internal/auth/usecase"
	apperrors "motive-archive/internal/shared/errors"
	"motive-archive/internal/shared/logger"
)

// AuthHandler exposes authentication and user-management endpoints
type AuthHandler struct {
	usecase    usecase.AuthUsecase
	middleware *AuthMiddleware
	log        logger.Logger
}

// NewAuthHandler creates a new auth HTTP handler
func NewAuthHandler(uc usecase.AuthUsecase, mw *AuthMiddleware, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		usecase:    uc,
		middleware: mw,
		log:        log.WithComponent("auth_handler"),
	}
}

// RegisterRoutes mounts auth routes on the router
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	auth := router.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.Refresh)
	auth.Get("/me", h.middleware.Protect(), h.Me)

	tokens := router.Group("/tokens", h.middleware.Protect())
	tokens.Post("/", h.CreateToken)
	tokens.Get("/", h.ListTokens)
	tokens.Delete("/:id", h.RevokeToken)

	users := router.Group("/users", h.middleware.Protect(), h.middleware.RequireAdmin())
	users.Post("/", h.CreateUser)
	users.Get("/", h.ListUsers)
	users.Get("/:id", h.GetUser)
	users.Put("/:id", h.UpdateUser)
	users.Delete("/:id", h.DeleteUser)
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req model.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.usecase.Register(c.UserContext(), &req)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.usecase.Login(c.UserContext(), &req)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(resp)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.RefreshToken == "" {
		return badRequest(c, "refreshToken is required")
	}

	resp, err := h.usecase.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(resp)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := UserFromLocals(c)
	if user == nil {
		return unauthorized(c, "authentication required")
	}
	return c.JSON(user)
}

// CreateToken handles POST /tokens
func (h *AuthHandler) CreateToken(c *fiber.Ctx) error {
	user := UserFromLocals(c)
	if user == nil {
		return unauthorized(c, "authentication required")
	}

	var req model.CreateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	token, err := h.usecase.IssueAPIToken(c.UserContext(), user.ID.Hex(), &req)
	if err != nil {
		return h.handleError(c, err)
	}

	// the only response that ever carries the full secret
	return c.Status(fiber.StatusCreated).JSON(token)
}

// ListTokens handles GET /tokens
func (h *AuthHandler) ListTokens(c *fiber.Ctx) error {
	user := UserFromLocals(c)
	if user == nil {
		return unauthorized(c, "authentication required")
	}

	tokens, err := h.usecase.ListAPITokens(c.UserContext(), user.ID.Hex())
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(fiber.Map{"tokens": tokens})
}

// RevokeToken handles DELETE /tokens/:id
func (h *AuthHandler) RevokeToken(c *fiber.Ctx) error {
	user := UserFromLocals(c)
	if user == nil {
		return unauthorized(c, "authentication required")
	}

	if err := h.usecase.RevokeAPIToken(c.UserContext(), user.ID.Hex(), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateUser handles POST /users
func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	var req model.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, err := h.usecase.CreateUser(c.UserContext(), &req)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUser handles GET /users/:id
func (h *AuthHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.usecase.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(user)
}

// UpdateUser handles PUT /users/:id
func (h *AuthHandler) UpdateUser(c *fiber.Ctx) error {
	var req model.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, err := h.usecase.UpdateUser(c.UserContext(), c.Params("id"), &req)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /users/:id
func (h *AuthHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.usecase.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListUsers handles GET /users
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 20)

	users, total, err := h.usecase.ListUsers(c.UserContext(), page, pageSize)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"users":    users,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case apperrors.IsValidation(err):
		return badRequest(c, err.Error())
	case apperrors.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case apperrors.IsAuthentication(err):
		return unauthorized(c, err.Error())
	case apperrors.IsAuthorization(err):
		return forbidden(c, err.Error())
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
