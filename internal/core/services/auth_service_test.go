package services_test

import (
	"context"
	"testing"

	"github.com/fxdesk/fxrates_app/internal/apperrors"
	"github.com/fxdesk/fxrates_app/internal/core/domain"
	portssvc "github.com/fxdesk/fxrates_app/internal/core/ports/services"
	"github.com/fxdesk/fxrates_app/internal/core/services"
	"github.com/fxdesk/fxrates_app/internal/dto"
	"github.com/fxdesk/fxrates_app/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserService (as used by AuthService) ---
type MockUserService struct {
	mock.Mock
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) EditUser(ctx context.Context, userID string, req dto.EditUserRequest, updaterUserID string) (*domain.User, error) {
	args := m.Called(ctx, userID, req, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, userID string, password string) (*domain.User, error) {
	args := m.Called(ctx, userID, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock TokenService (as used by AuthService) ---
type MockTokenService struct {
	mock.Mock
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)

func (m *MockTokenService) MintToken(ctx context.Context, user *domain.User) (string, *domain.APIToken, error) {
	args := m.Called(ctx, user)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.APIToken), args.Error(2)
}

func (m *MockTokenService) ValidateToken(ctx context.Context, signedToken string) (string, string, error) {
	args := m.Called(ctx, signedToken)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) RevokeToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllForUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// --- Test Suite ---
type AuthServiceTestSuite struct {
	suite.Suite
	mockUsers  *MockUserService
	mockTokens *MockTokenService
	service    portssvc.AuthSvcFacade
	ctx        context.Context
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.mockUsers = new(MockUserService)
	s.mockTokens = new(MockTokenService)
	s.service = services.NewAuthService(s.mockUsers, s.mockTokens)
	s.ctx = context.Background()
}

func (s *AuthServiceTestSuite) testUser(password string) *domain.User {
	hash, err := utils.HashPassword(password)
	s.Require().NoError(err)
	return &domain.User{
		UserID:       uuid.NewString(),
		Name:         "Jan Kowalski",
		Email:        "jan@example.com",
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
}

func (s *AuthServiceTestSuite) TestLogin_Success() {
	user := s.testUser("correct-horse")
	minted := &domain.APIToken{TokenID: uuid.NewString(), UserID: user.UserID}

	s.mockUsers.On("GetUserByEmail", s.ctx, user.Email).Return(user, nil).Once()
	s.mockTokens.On("MintToken", s.ctx, user).Return("signed.jwt.token", minted, nil).Once()

	got, token, err := s.service.Login(s.ctx, user.Email, "correct-horse")

	s.Require().NoError(err)
	s.Equal(user.UserID, got.UserID)
	s.Equal("signed.jwt.token", token)
	s.mockTokens.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	user := s.testUser("correct-horse")

	s.mockUsers.On("GetUserByEmail", s.ctx, user.Email).Return(user, nil).Once()

	got, token, err := s.service.Login(s.ctx, user.Email, "battery-staple")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
	s.Nil(got)
	s.Empty(token)
	s.mockTokens.AssertNotCalled(s.T(), "MintToken", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownEmailSameError() {
	s.mockUsers.On("GetUserByEmail", s.ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, _, unknownErr := s.service.Login(s.ctx, "nobody@example.com", "whatever")

	user := s.testUser("correct-horse")
	s.mockUsers.On("GetUserByEmail", s.ctx, user.Email).Return(user, nil).Once()

	_, _, wrongPassErr := s.service.Login(s.ctx, user.Email, "wrong")

	// Unknown email and wrong password must be indistinguishable to callers.
	s.Require().Error(unknownErr)
	s.Require().Error(wrongPassErr)
	s.ErrorIs(unknownErr, apperrors.ErrUnauthorized)
	s.ErrorIs(wrongPassErr, apperrors.ErrUnauthorized)
	s.Equal(unknownErr.Error(), wrongPassErr.Error())
}

func (s *AuthServiceTestSuite) TestLoginWithVerifiedEmail_UnknownEmailRejected() {
	s.mockUsers.On("GetUserByEmail", s.ctx, "stranger@example.com").Return(nil, apperrors.ErrNotFound).Once()

	got, token, err := s.service.LoginWithVerifiedEmail(s.ctx, "stranger@example.com")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
	s.Nil(got)
	s.Empty(token)
	s.mockTokens.AssertNotCalled(s.T(), "MintToken", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogout_RevokesPresentedToken() {
	user := s.testUser("pw")
	tokenID := uuid.NewString()

	s.mockUsers.On("GetUserByID", s.ctx, user.UserID).Return(user, nil).Once()
	s.mockTokens.On("RevokeToken", s.ctx, tokenID).Return(nil).Once()

	got, err := s.service.Logout(s.ctx, user.UserID, tokenID)

	s.Require().NoError(err)
	s.Equal(user.UserID, got.UserID)
	s.mockTokens.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestRefresh_MintsThenRevokes() {
	user := s.testUser("pw")
	oldTokenID := uuid.NewString()
	minted := &domain.APIToken{TokenID: uuid.NewString(), UserID: user.UserID}

	s.mockUsers.On("GetUserByID", s.ctx, user.UserID).Return(user, nil).Once()
	s.mockTokens.On("MintToken", s.ctx, user).Return("fresh.jwt.token", minted, nil).Once()
	s.mockTokens.On("RevokeToken", s.ctx, oldTokenID).Return(nil).Once()

	got, token, err := s.service.Refresh(s.ctx, user.UserID, oldTokenID)

	s.Require().NoError(err)
	s.Equal(user.UserID, got.UserID)
	s.Equal("fresh.jwt.token", token)
	s.mockTokens.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestRefresh_MintFailureKeepsOldToken() {
	user := s.testUser("pw")
	oldTokenID := uuid.NewString()

	s.mockUsers.On("GetUserByID", s.ctx, user.UserID).Return(user, nil).Once()
	s.mockTokens.On("MintToken", s.ctx, user).Return("", nil, apperrors.ErrUnauthorized).Once()

	_, token, err := s.service.Refresh(s.ctx, user.UserID, oldTokenID)

	s.Require().Error(err)
	s.Empty(token)
	s.mockTokens.AssertNotCalled(s.T(), "RevokeToken", mock.Anything, mock.Anything)
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
