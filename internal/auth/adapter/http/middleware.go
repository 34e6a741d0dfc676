package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"motive-archive/internal/auth/adapter/security"
	"motive-archive/internal/auth/domain/model"
	"motive-archive/internal/auth/domain/repository"
	apperrors "motive-archive/internal/shared/errors"
	"motive-archive/internal/shared/logger"
	"motive-archive/internal/shared/utils"
)

// Firebase ID tokens are full JWTs and always run well past this length;
// opaque API tokens are 64 hex characters. Anything short enough is worth
// a database lookup after ID-token verification fails.
const maxAPITokenLength = 500

// Auth method values stored in the request context
const (
	AuthMethodFirebase = "firebase"
	AuthMethodAPIToken = "api_token"
	AuthMethodJWT      = "jwt"
)

// UserProvisioner creates the local account on first identity-provider
// sign-in
type UserProvisioner interface {
	EnsureUser(ctx context.Context, uid, email, name string) (*model.User, error)
}

// AuthMiddleware authenticates requests against ID tokens and API tokens
type AuthMiddleware struct {
	verifier    security.IDTokenVerifier
	tokenSvc    security.TokenService
	users       repository.UserRepository
	apiTokens   repository.APITokenRepository
	provisioner UserProvisioner
	log         logger.Logger
}

// NewAuthMiddleware creates the authentication middleware. The verifier
// may be nil when Firebase credentials are not configured; session JWTs
// and API tokens still work in that case. A nil provisioner disables
// first-sign-in account creation.
func NewAuthMiddleware(
	verifier security.IDTokenVerifier,
	tokenSvc security.TokenService,
	users repository.UserRepository,
	apiTokens repository.APITokenRepository,
	provisioner UserProvisioner,
	log logger.Logger,
) *AuthMiddleware {
	return &AuthMiddleware{
		verifier:    verifier,
		tokenSvc:    tokenSvc,
		users:       users,
		apiTokens:   apiTokens,
		provisioner: provisioner,
		log:         log.WithComponent("auth_middleware"),
	}
}

// Protect requires a valid credential on the request
func (m *AuthMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return unauthorized(c, "missing authentication token")
		}

		user, method, err := m.resolve(c.UserContext(), token)
		if err != nil {
			m.log.WithContext(c.UserContext()).Debugf("Authentication failed: %v", err)
			return unauthorized(c, "invalid or expired token")
		}
		if !user.IsActive() {
			return forbidden(c, "account is not active")
		}

		setUserContext(c, user, method)
		return c.Next()
	}
}

// OptionalAuth resolves a credential when present but never rejects
func (m *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return c.Next()
		}

		user, method, err := m.resolve(c.UserContext(), token)
		if err == nil && user.IsActive() {
			setUserContext(c, user, method)
		}
		return c.Next()
	}
}

// RequireRole requires the authenticated user to hold at least one of
// the given roles. Must run after Protect.
func (m *AuthMiddleware) RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRoles, err := utils.GetRolesFromContext(c.UserContext())
		if err != nil || len(userRoles) == 0 {
			return unauthorized(c, "authentication required")
		}

		for _, required := range roles {
			for _, have := range userRoles {
				if required == have {
					return c.Next()
				}
			}
		}
		return forbidden(c, "insufficient permissions")
	}
}

// RequireAdmin is shorthand for RequireRole(admin)
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return m.RequireRole(model.RoleAdmin)
}

// resolve tries the credential kinds in order: Firebase ID token,
// session JWT, then the API-token database lookup for short tokens.
func (m *AuthMiddleware) resolve(ctx context.Context, token string) (*model.User, string, error) {
	if m.verifier != nil {
		if verified, err := m.verifier.VerifyIDToken(ctx, token); err == nil {
			user, err := m.users.GetByUID(ctx, verified.UID)
			if apperrors.IsNotFound(err) && m.provisioner != nil {
				// verified identity without a local record: first sign-in
				name, _ := verified.Claims["name"].(string)
				user, err = m.provisioner.EnsureUser(ctx, verified.UID, verified.Email, name)
			}
			if err != nil {
				return nil, "", err
			}
			return user, AuthMethodFirebase, nil
		}
	}

	if claims, err := m.tokenSvc.ValidateToken(token); err == nil {
		user, err := m.users.GetByID(ctx, claims.UserID)
		if err != nil {
			return nil, "", err
		}
		return user, AuthMethodJWT, nil
	}

	// ID tokens that failed verification are never worth a lookup
	if len(token) >= maxAPITokenLength {
		return nil, "", apperrors.ErrInvalidToken
	}

	apiToken, err := m.apiTokens.GetByToken(ctx, token)
	if err != nil {
		return nil, "", apperrors.ErrInvalidToken
	}
	if apiToken.IsExpired() {
		return nil, "", apperrors.ErrAPITokenExpired
	}

	user, err := m.users.GetByID(ctx, apiToken.UserID)
	if err != nil {
		return nil, "", err
	}

	if err := m.apiTokens.TouchLastUsed(ctx, token); err != nil {
		m.log.Warnf("Failed to update token last-used: %v", err)
	}

	return user, AuthMethodAPIToken, nil
}

// extractToken pulls the credential from the Authorization header,
// the auth cookie, or the token query parameter, in that order
func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimPrefix(authHeader, "Bearer ")
		}
		return authHeader
	}

	if cookie := c.Cookies("auth_token"); cookie != "" {
		return cookie
	}

	return c.Query("token")
}

func setUserContext(c *fiber.Ctx, user *model.User, method string) {
	ctx := c.UserContext()
	ctx = utils.WithUserID(ctx, user.ID.Hex())
	ctx = utils.WithUserEmail(ctx, user.Email)
	ctx = utils.WithRoles(ctx, user.Roles)
	ctx = utils.WithAuthMethod(ctx, method)
	c.SetUserContext(ctx)

	c.Locals("user", user)
}

// UserFromLocals returns the authenticated user stored by Protect
func UserFromLocals(c *fiber.Ctx) *model.User {
	user, _ := c.Locals("user").(*model.User)
	return user
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
	})
}

func forbidden(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error": message,
	})
}
