package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"motive-archive/internal/auth/adapter/security"
	"motive-archive/internal/auth/config"
	"motive-archive/internal/auth/domain/model"
	apperrors "motive-archive/internal/shared/errors"
	"motive-archive/internal/shared/logger"
)

type stubUserRepo struct {
	mock.Mock
}

func (m *stubUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *stubUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *stubUserRepo) GetByUID(ctx context.Context, uid string) (*model.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *stubUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *stubUserRepo) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *stubUserRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *stubUserRepo) List(ctx context.Context, page, pageSize int) ([]*model.User, int64, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.User), args.Get(1).(int64), args.Error(2)
}

func (m *stubUserRepo) UpdateLastSignIn(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

type stubTokenRepo struct {
	mock.Mock
}

func (m *stubTokenRepo) Create(ctx context.Context, token *model.APIToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *stubTokenRepo) GetByToken(ctx context.Context, token string) (*model.APIToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.APIToken), args.Error(1)
}

func (m *stubTokenRepo) ListByUser(ctx context.Context, userID string) ([]*model.APIToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.APIToken), args.Error(1)
}

func (m *stubTokenRepo) TouchLastUsed(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *stubTokenRepo) Delete(ctx context.Context, id string, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func testConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:          "0123456789abcdef0123456789abcdef",
		JWTIssuer:          "motive-archive-test",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		APITokenExpiry:     90 * 24 * time.Hour,
		BcryptCost:         bcrypt.MinCost,
		MinPasswordLength:  8,
	}
}

func newUsecase(users *stubUserRepo, tokens *stubTokenRepo) AuthUsecase {
	cfg := testConfig()
	return NewAuthUsecase(users, tokens, security.NewJWTokenService(cfg), cfg, logger.NewLogger())
}

func TestLogin_Success(t *testing.T) {
	users := new(stubUserRepo)
	tokens := new(stubTokenRepo)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		ID:           primitive.NewObjectID(),
		UID:          "uid-1",
		Email:        "curator@example.com",
		PasswordHash: string(hash),
		Roles:        []string{model.RoleUser},
		Status:       model.StatusActive,
	}
	users.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
	users.On("UpdateLastSignIn", mock.Anything, user.UID).Return(nil)

	uc := newUsecase(users, tokens)
	resp, err := uc.Login(context.Background(), &model.LoginRequest{
		Email:    user.Email,
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, user.Email, resp.User.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(stubUserRepo)
	tokens := new(stubTokenRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	user := &model.User{
		ID:           primitive.NewObjectID(),
		Email:        "curator@example.com",
		PasswordHash: string(hash),
		Status:       model.StatusActive,
	}
	users.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	uc := newUsecase(users, tokens)
	_, err := uc.Login(context.Background(), &model.LoginRequest{
		Email:    user.Email,
		Password: "wrong",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogin_UnknownUserSameError(t *testing.T) {
	users := new(stubUserRepo)
	users.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, apperrors.ErrUserNotFound)

	uc := newUsecase(users, new(stubTokenRepo))
	_, err := uc.Login(context.Background(), &model.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestEnsureUser_CreatesOnFirstSignIn(t *testing.T) {
	users := new(stubUserRepo)
	users.On("GetByUID", mock.Anything, "new-uid").Return(nil, apperrors.ErrUserNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.UID == "new-uid" && u.Status == model.StatusActive &&
			len(u.Roles) == 1 && u.Roles[0] == model.RoleUser
	})).Return(nil)

	uc := newUsecase(users, new(stubTokenRepo))
	user, err := uc.EnsureUser(context.Background(), "new-uid", "new@example.com", "New User")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	users.AssertExpectations(t)
}

func TestEnsureUser_ExistingUserTouched(t *testing.T) {
	users := new(stubUserRepo)
	existing := &model.User{UID: "uid-1", Email: "curator@example.com", Status: model.StatusActive}
	users.On("GetByUID", mock.Anything, "uid-1").Return(existing, nil)
	users.On("UpdateLastSignIn", mock.Anything, "uid-1").Return(nil)

	uc := newUsecase(users, new(stubTokenRepo))
	user, err := uc.EnsureUser(context.Background(), "uid-1", "curator@example.com", "Curator")
	require.NoError(t, err)
	assert.Same(t, existing, user)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIssueAPIToken(t *testing.T) {
	users := new(stubUserRepo)
	tokens := new(stubTokenRepo)
	tokens.On("Create", mock.Anything, mock.Anything).Return(nil)
	userID := primitive.NewObjectID().Hex()
	users.On("GetByID", mock.Anything, userID).
		Return(&model.User{Email: "curator@example.com"}, nil)

	uc := newUsecase(users, tokens)

	token, err := uc.IssueAPIToken(context.Background(), userID, &model.CreateTokenRequest{
		Description: "render farm",
	})
	require.NoError(t, err)

	assert.Len(t, token.Token, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", token.Token)
	assert.Equal(t, userID, token.UserID)
	assert.WithinDuration(t, time.Now().Add(90*24*time.Hour), token.ExpiresAt, time.Minute)
}

func TestIssueAPIToken_RequiresDescription(t *testing.T) {
	uc := newUsecase(new(stubUserRepo), new(stubTokenRepo))
	_, err := uc.IssueAPIToken(context.Background(), "user-1", &model.CreateTokenRequest{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestListAPITokens_Redacted(t *testing.T) {
	tokens := new(stubTokenRepo)
	tokens.On("ListByUser", mock.Anything, "user-1").Return([]*model.APIToken{
		{Token: "aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899"},
	}, nil)

	uc := newUsecase(new(stubUserRepo), tokens)
	out, err := uc.ListAPITokens(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "aabbccdd...", out[0].Token)
}

func TestCreateUser_Validation(t *testing.T) {
	uc := newUsecase(new(stubUserRepo), new(stubTokenRepo))

	_, err := uc.CreateUser(context.Background(), &model.CreateUserRequest{
		Email: "not-an-email",
		Name:  "X",
	})
	assert.True(t, apperrors.IsValidation(err))

	_, err = uc.CreateUser(context.Background(), &model.CreateUserRequest{
		Email: "valid@example.com",
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestRegister_ForcesDefaultRole(t *testing.T) {
	users := new(stubUserRepo)
	tokens := new(stubTokenRepo)

	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "new@example.com" &&
			len(u.Roles) == 1 && u.Roles[0] == model.RoleUser &&
			u.Status == model.StatusActive &&
			u.PasswordHash != ""
	})).Return(nil)

	uc := newUsecase(users, tokens)
	resp, err := uc.Register(context.Background(), &model.CreateUserRequest{
		Email:    "new@example.com",
		Name:     "New User",
		Password: "hunter2222",
		Roles:    []string{model.RoleAdmin}, // must be ignored
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, []string{model.RoleUser}, resp.User.Roles)
	users.AssertExpectations(t)
}

func TestRegister_RequiresPassword(t *testing.T) {
	uc := newUsecase(new(stubUserRepo), new(stubTokenRepo))

	_, err := uc.Register(context.Background(), &model.CreateUserRequest{
		Email: "new@example.com",
		Name:  "New User",
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestJWTokenService_RoundTrip(t *testing.T) {
	cfg := testConfig()
	svc := security.NewJWTokenService(cfg)

	user := &model.User{
		ID:    primitive.NewObjectID(),
		UID:   "uid-1",
		Email: "curator@example.com",
		Roles: []string{model.RoleAdmin},
	}

	access, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, []string{model.RoleAdmin}, claims.Roles)

	// refresh tokens are not valid access tokens
	refresh, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)
	_, err = svc.ValidateToken(refresh)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
