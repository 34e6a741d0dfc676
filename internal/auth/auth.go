package auth

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	authhttp "motive-archive/internal/auth/adapter/http"
	"motive-archive/internal/auth/adapter/persistence/mongodb"
	"motive-archive/internal/auth/adapter/security"
	"motive-archive/internal/auth/config"
	"motive-archive/internal/auth/domain/repository"
	"motive-archive/internal/auth/usecase"
	"motive-archive/internal/shared/logger"
)

// AuthModule represents the complete authentication module
type AuthModule struct {
	users      repository.UserRepository
	apiTokens  repository.APITokenRepository
	tokenSvc   security.TokenService
	verifier   security.IDTokenVerifier
	usecase    usecase.AuthUsecase
	middleware *authhttp.AuthMiddleware
	handler    *authhttp.AuthHandler
	config     *config.AuthConfig
}

// NewAuthModule creates a new authentication module instance
func NewAuthModule(ctx context.Context, db *mongo.Database, cfg *config.AuthConfig, log logger.Logger) (*AuthModule, error) {
	userRepo, err := mongodb.NewMongoUserRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}

	tokenRepo, err := mongodb.NewMongoAPITokenRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create api token repository: %w", err)
	}

	tokenSvc := security.NewJWTokenService(cfg)

	// Firebase verification is optional; without credentials the module
	// falls back to session JWTs and API tokens only
	var verifier security.IDTokenVerifier
	if cfg.FirebaseKeyData != "" {
		fv, err := security.NewFirebaseVerifier(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create firebase verifier: %w", err)
		}
		verifier = fv
	} else {
		log.Warn("KEY_DATA not set, Firebase ID token verification disabled")
	}

	authUsecase := usecase.NewAuthUsecase(userRepo, tokenRepo, tokenSvc, cfg, log)
	middleware := authhttp.NewAuthMiddleware(verifier, tokenSvc, userRepo, tokenRepo, authUsecase, log)
	handler := authhttp.NewAuthHandler(authUsecase, middleware, log)

	return &AuthModule{
		users:      userRepo,
		apiTokens:  tokenRepo,
		tokenSvc:   tokenSvc,
		verifier:   verifier,
		usecase:    authUsecase,
		middleware: middleware,
		handler:    handler,
		config:     cfg,
	}, nil
}

// RegisterRoutes registers authentication routes with the provided router
func (am *AuthModule) RegisterRoutes(router fiber.Router) {
	am.handler.RegisterRoutes(router)
}

// Middleware returns the auth middleware for other modules to guard routes
func (am *AuthModule) Middleware() *authhttp.AuthMiddleware {
	return am.middleware
}

// Usecase returns the auth usecase for external access
func (am *AuthModule) Usecase() usecase.AuthUsecase {
	return am.usecase
}
