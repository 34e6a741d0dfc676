package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"motive-archive/internal/auth/adapter/security"
	"motive-archive/internal/auth/config"
	"motive-archive/internal/auth/domain/model"
	"motive-archive/internal/auth/domain/repository"
	apperrors "motive-archive/internal/shared/errors"
	"motive-archive/internal/shared/logger"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthUsecase defines authentication and user-management operations
type AuthUsecase interface {
	Register(ctx context.Context, req *model.CreateUserRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*model.AuthResponse, error)
	EnsureUser(ctx context.Context, uid, email, name string) (*model.User, error)

	CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, req *model.UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context, page, pageSize int) ([]*model.User, int64, error)

	IssueAPIToken(ctx context.Context, userID string, req *model.CreateTokenRequest) (*model.APIToken, error)
	ListAPITokens(ctx context.Context, userID string) ([]*model.APIToken, error)
	RevokeAPIToken(ctx context.Context, userID, tokenID string) error
}

type authUsecase struct {
	users    repository.UserRepository
	tokens   repository.APITokenRepository
	tokenSvc security.TokenService
	cfg      *config.AuthConfig
	log      logger.Logger
}

// NewAuthUsecase creates the authentication usecase
func NewAuthUsecase(
	users repository.UserRepository,
	tokens repository.APITokenRepository,
	tokenSvc security.TokenService,
	cfg *config.AuthConfig,
	log logger.Logger,
) AuthUsecase {
	return &authUsecase{
		users:    users,
		tokens:   tokens,
		tokenSvc: tokenSvc,
		cfg:      cfg,
		log:      log.WithComponent("auth_usecase"),
	}
}

// Register creates a self-service account and signs it in. Roles are
// always the default; elevated roles go through the admin user CRUD.
func (uc *authUsecase) Register(ctx context.Context, req *model.CreateUserRequest) (*model.AuthResponse, error) {
	if req.Password == "" {
		return nil, apperrors.NewValidationError("password is required")
	}

	req.Roles = []string{model.RoleUser}
	req.CreativeRoles = nil

	user, err := uc.CreateUser(ctx, req)
	if err != nil {
		return nil, err
	}
	return uc.buildAuthResponse(user)
}

// Login authenticates a user with email and password
func (uc *authUsecase) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if !emailRegex.MatchString(req.Email) {
		return nil, apperrors.NewValidationError("invalid email format")
	}

	user, err := uc.users.GetByEmail(ctx, req.Email)
	if err != nil {
		// same failure shape whether the account exists or not
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, apperrors.NewAuthorizationError("account is not active")
	}
	if user.PasswordHash == "" {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := uc.users.UpdateLastSignIn(ctx, user.UID); err != nil {
		uc.log.WithContext(ctx).Warnf("Failed to update last sign-in for %s: %v", user.UID, err)
	}

	return uc.buildAuthResponse(user)
}

// Refresh exchanges a valid refresh token for a new token pair
func (uc *authUsecase) Refresh(ctx context.Context, refreshToken string) (*model.AuthResponse, error) {
	claims, err := uc.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := uc.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if !user.IsActive() {
		return nil, apperrors.NewAuthorizationError("account is not active")
	}

	return uc.buildAuthResponse(user)
}

// EnsureUser upserts the local user record after an identity-provider
// sign in. First sign-in creates the account with the default role.
func (uc *authUsecase) EnsureUser(ctx context.Context, uid, email, name string) (*model.User, error) {
	user, err := uc.users.GetByUID(ctx, uid)
	if err == nil {
		if userErr := uc.users.UpdateLastSignIn(ctx, uid); userErr != nil {
			uc.log.WithContext(ctx).Warnf("Failed to update last sign-in for %s: %v", uid, userErr)
		}
		return user, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}

	user = &model.User{
		UID:           uid,
		Email:         email,
		Name:          name,
		Roles:         []string{model.RoleUser},
		CreativeRoles: []string{},
		Status:        model.StatusActive,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.WithContext(ctx).Infof("Provisioned new user %s (%s)", uid, email)
	return user, nil
}

// CreateUser provisions a user directly, admin operation
func (uc *authUsecase) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if !emailRegex.MatchString(req.Email) {
		return nil, apperrors.NewValidationError("invalid email format")
	}
	if req.Name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}

	user := &model.User{
		UID:           generateUID(),
		Email:         req.Email,
		Name:          req.Name,
		Roles:         req.Roles,
		CreativeRoles: req.CreativeRoles,
		Status:        model.StatusActive,
	}
	if len(user.Roles) == 0 {
		user.Roles = []string{model.RoleUser}
	}
	if user.CreativeRoles == nil {
		user.CreativeRoles = []string{}
	}

	if req.Password != "" {
		if len(req.Password) < uc.cfg.MinPasswordLength {
			return nil, apperrors.NewValidationError("password is too short")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), uc.cfg.BcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to hash password")
		}
		user.PasswordHash = string(hash)
	} else {
		user.Status = model.StatusInvited
	}

	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser fetches a user by id
func (uc *authUsecase) GetUser(ctx context.Context, id string) (*model.User, error) {
	return uc.users.GetByID(ctx, id)
}

// UpdateUser applies a partial update to a user
func (uc *authUsecase) UpdateUser(ctx context.Context, id string, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Roles != nil {
		user.Roles = req.Roles
	}
	if req.CreativeRoles != nil {
		user.CreativeRoles = req.CreativeRoles
	}
	if req.Status != nil {
		switch *req.Status {
		case model.StatusActive, model.StatusSuspended, model.StatusInvited:
			user.Status = *req.Status
		default:
			return nil, apperrors.NewValidationError("invalid status")
		}
	}
	if req.ImageURL != nil {
		user.ImageURL = *req.ImageURL
	}

	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user account
func (uc *authUsecase) DeleteUser(ctx context.Context, id string) error {
	return uc.users.Delete(ctx, id)
}

// ListUsers returns a page of users
func (uc *authUsecase) ListUsers(ctx context.Context, page, pageSize int) ([]*model.User, int64, error) {
	return uc.users.List(ctx, page, pageSize)
}

// IssueAPIToken mints a new opaque API token for a user
func (uc *authUsecase) IssueAPIToken(ctx context.Context, userID string, req *model.CreateTokenRequest) (*model.APIToken, error) {
	if req.Description == "" {
		return nil, apperrors.NewValidationError("description is required")
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, apperrors.NewInternalError("failed to generate token")
	}

	userEmail := ""
	if user, err := uc.users.GetByID(ctx, userID); err == nil {
		userEmail = user.Email
	}

	token := &model.APIToken{
		Token:       hex.EncodeToString(raw),
		UserID:      userID,
		UserEmail:   userEmail,
		Description: req.Description,
		Scopes:      req.Scopes,
		ExpiresAt:   time.Now().Add(uc.cfg.APITokenExpiry),
	}
	if token.Scopes == nil {
		token.Scopes = []string{}
	}

	if err := uc.tokens.Create(ctx, token); err != nil {
		return nil, err
	}
	uc.log.WithContext(ctx).Infof("Issued API token for user %s: %s", userID, req.Description)
	return token, nil
}

// ListAPITokens returns a user's tokens with secret values masked
func (uc *authUsecase) ListAPITokens(ctx context.Context, userID string) ([]*model.APIToken, error) {
	tokens, err := uc.tokens.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*model.APIToken, len(tokens))
	for i, t := range tokens {
		out[i] = t.Redacted()
	}
	return out, nil
}

// RevokeAPIToken deletes a token owned by the user
func (uc *authUsecase) RevokeAPIToken(ctx context.Context, userID, tokenID string) error {
	return uc.tokens.Delete(ctx, tokenID, userID)
}

func (uc *authUsecase) buildAuthResponse(user *model.User) (*model.AuthResponse, error) {
	accessToken, err := uc.tokenSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate access token")
	}
	refreshToken, err := uc.tokenSvc.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate refresh token")
	}

	return &model.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(uc.cfg.AccessTokenExpiry.Seconds()),
		User:         user,
	}, nil
}

func generateUID() string {
	return uuid.New().String()
}

var _ AuthUsecase = (*authUsecase)(nil)
