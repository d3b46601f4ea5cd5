package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/core/services"
	"github.com/SscSPs/ledgerbook/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockSettingsRepository is a mock type for the SettingsRepository interface
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetSetting(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockSettingsRepository) PutSetting(ctx context.Context, key, value string, now time.Time) error {
	args := m.Called(ctx, key, value, now)
	return args.Error(0)
}

func (m *MockSettingsRepository) DeleteSetting(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type AuthServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	mockRepo *MockSettingsRepository
	service  portssvc.AuthSvc
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRepo = new(MockSettingsRepository)
	suite.service = services.NewAuthService(testConfig(), portsrepo.RepositoryProvider{SettingsRepo: suite.mockRepo})
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) storedPIN(pin string) {
	hash, err := utils.HashPIN(pin)
	suite.Require().NoError(err)
	suite.mockRepo.On("GetSetting", suite.ctx, "pin_hash").Return(hash, nil)
}

func (suite *AuthServiceTestSuite) noPIN() {
	suite.mockRepo.On("GetSetting", suite.ctx, "pin_hash").Return("", apperrors.ErrNotFound)
}

func (suite *AuthServiceTestSuite) TestPINRequired() {
	suite.noPIN()
	required, err := suite.service.PINRequired(suite.ctx)
	suite.Require().NoError(err)
	suite.False(required)
}

func (suite *AuthServiceTestSuite) TestUnlock_NoPINSet() {
	suite.noPIN()
	_, _, err := suite.service.Unlock(suite.ctx, "1234")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AuthServiceTestSuite) TestUnlock_WrongPIN() {
	suite.storedPIN("1234")
	_, _, err := suite.service.Unlock(suite.ctx, "4321")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestUnlock_Success() {
	suite.storedPIN("1234")
	token, expiresAt, err := suite.service.Unlock(suite.ctx, "1234")
	suite.Require().NoError(err)
	suite.WithinDuration(time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := utils.ParseAndValidateJWT(token, testConfig().JWTSecret)
	suite.Require().NoError(err)
	suite.Equal("local-user", claims.Subject)
	suite.Equal("ledgerbook-test", claims.Issuer)
}

func (suite *AuthServiceTestSuite) TestSetPIN_First() {
	suite.noPIN()
	suite.mockRepo.On("PutSetting", suite.ctx, "pin_hash", mock.MatchedBy(func(hash string) bool {
		return utils.CheckPINHash("2468", hash)
	}), mock.AnythingOfType("time.Time")).Return(nil).Once()

	suite.Require().NoError(suite.service.SetPIN(suite.ctx, "", "2468"))
}

func (suite *AuthServiceTestSuite) TestSetPIN_RequiresCurrent() {
	suite.storedPIN("1234")
	err := suite.service.SetPIN(suite.ctx, "0000", "5678")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockRepo.AssertNotCalled(suite.T(), "PutSetting", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestSetPIN_RejectsWeakPIN() {
	for _, pin := range []string{"12", "abcd", "1234567890123"} {
		err := suite.service.SetPIN(suite.ctx, "", pin)
		suite.ErrorIs(err, apperrors.ErrValidation, pin)
	}
}

func (suite *AuthServiceTestSuite) TestClearPIN() {
	suite.storedPIN("1234")
	suite.mockRepo.On("DeleteSetting", suite.ctx, "pin_hash").Return(nil).Once()

	suite.ErrorIs(suite.service.ClearPIN(suite.ctx, "9999"), apperrors.ErrUnauthorized)
	suite.Require().NoError(suite.service.ClearPIN(suite.ctx, "1234"))
}
