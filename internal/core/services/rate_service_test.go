package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fxdesk/fxrates_app/internal/apperrors"
	"github.com/fxdesk/fxrates_app/internal/core/domain"
	portsrepo "github.com/fxdesk/fxrates_app/internal/core/ports/repositories"
	portssvc "github.com/fxdesk/fxrates_app/internal/core/ports/services"
	"github.com/fxdesk/fxrates_app/internal/core/services"
	"github.com/fxdesk/fxrates_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateRepository ---
type MockRateRepository struct {
	mock.Mock
}

// Ensure MockRateRepository implements portsrepo.RateRepositoryFacade
var _ portsrepo.RateRepositoryFacade = (*MockRateRepository)(nil)

func (m *MockRateRepository) FindRate(ctx context.Context, code string, date time.Time) (*domain.CurrencyRate, error) {
	args := m.Called(ctx, code, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencyRate), args.Error(1)
}

func (m *MockRateRepository) FindRatesByDate(ctx context.Context, date time.Time) ([]domain.CurrencyRate, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CurrencyRate), args.Error(1)
}

func (m *MockRateRepository) SaveRate(ctx context.Context, rate domain.CurrencyRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockRateRepository) UpdateRateAmount(ctx context.Context, code string, date time.Time, amount decimal.Decimal, updaterUserID string) error {
	args := m.Called(ctx, code, date, amount, updaterUserID)
	return args.Error(0)
}

func (m *MockRateRepository) DeleteRate(ctx context.Context, code string, date time.Time) error {
	args := m.Called(ctx, code, date)
	return args.Error(0)
}

func decPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// --- Test Suite ---
type RateServiceTestSuite struct {
	suite.Suite
	mockRepo *MockRateRepository
	service  portssvc.RateSvcFacade
	ctx      context.Context
	userID   string
}

func (s *RateServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockRateRepository)
	s.service = services.NewRateService(s.mockRepo)
	s.ctx = context.Background()
	s.userID = uuid.NewString()
}

func (s *RateServiceTestSuite) yesterday() string {
	return time.Now().AddDate(0, 0, -1).Format(domain.RateDateLayout)
}

func (s *RateServiceTestSuite) TestAddRate_Success() {
	date := s.yesterday()
	day, _ := time.Parse(domain.RateDateLayout, date)
	req := dto.AddRateRequest{Code: "eur", Date: date, Amount: decPtr(decimal.NewFromFloat(4.25))}

	s.mockRepo.On("FindRate", s.ctx, "EUR", day).Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepo.On("SaveRate", s.ctx, mock.MatchedBy(func(rate domain.CurrencyRate) bool {
		return rate.Code == "EUR" && rate.Date.Equal(day) && rate.Amount.Equal(*req.Amount) && rate.CreatedBy == s.userID
	})).Return(nil).Once()

	rate, err := s.service.AddRate(s.ctx, req, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(rate)
	s.Equal("EUR", rate.Code, "code should be canonicalized to uppercase")
	s.True(rate.Amount.Equal(*req.Amount))
	s.mockRepo.AssertExpectations(s.T())
}

func (s *RateServiceTestSuite) TestAddRate_FutureDateRejected() {
	date := time.Now().AddDate(0, 0, 2).Format(domain.RateDateLayout)
	req := dto.AddRateRequest{Code: "USD", Date: date, Amount: decPtr(decimal.NewFromInt(4))}

	rate, err := s.service.AddRate(s.ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Nil(rate)
	s.mockRepo.AssertNotCalled(s.T(), "SaveRate", mock.Anything, mock.Anything)
}

func (s *RateServiceTestSuite) TestAddRate_InvalidCodeAndDate() {
	req := dto.AddRateRequest{Code: "XXX", Date: "31-12-2024", Amount: decPtr(decimal.NewFromInt(1))}

	rate, err := s.service.AddRate(s.ctx, req, s.userID)

	s.Require().Error(err)
	s.Nil(rate)

	var fieldErrs apperrors.FieldErrors
	s.Require().ErrorAs(err, &fieldErrs)
	s.Contains(fieldErrs, "code")
	s.Contains(fieldErrs, "date")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *RateServiceTestSuite) TestAddRate_DuplicateReturnsExisting() {
	date := s.yesterday()
	day, _ := time.Parse(domain.RateDateLayout, date)
	existing := &domain.CurrencyRate{Code: "EUR", Date: day, Amount: decimal.NewFromFloat(4.11)}
	req := dto.AddRateRequest{Code: "EUR", Date: date, Amount: decPtr(decimal.NewFromFloat(4.25))}

	s.mockRepo.On("FindRate", s.ctx, "EUR", day).Return(existing, nil).Once()

	rate, err := s.service.AddRate(s.ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.Require().NotNil(rate, "the existing record must accompany the duplicate error")
	s.True(rate.Amount.Equal(existing.Amount), "the stored amount wins, not the submitted one")
	s.mockRepo.AssertNotCalled(s.T(), "SaveRate", mock.Anything, mock.Anything)
}

func (s *RateServiceTestSuite) TestAddRate_ConcurrentInsertLosesRace() {
	date := s.yesterday()
	day, _ := time.Parse(domain.RateDateLayout, date)
	winner := &domain.CurrencyRate{Code: "GBP", Date: day, Amount: decimal.NewFromFloat(5.43)}
	req := dto.AddRateRequest{Code: "GBP", Date: date, Amount: decPtr(decimal.NewFromFloat(5.5))}

	// Pre-check sees nothing, then the insert hits the unique constraint.
	s.mockRepo.On("FindRate", s.ctx, "GBP", day).Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepo.On("SaveRate", s.ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()
	s.mockRepo.On("FindRate", s.ctx, "GBP", day).Return(winner, nil).Once()

	rate, err := s.service.AddRate(s.ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.Require().NotNil(rate)
	s.True(rate.Amount.Equal(winner.Amount))
	s.mockRepo.AssertExpectations(s.T())
}

func (s *RateServiceTestSuite) TestAddRate_MissingAmount() {
	req := dto.AddRateRequest{Code: "EUR", Date: s.yesterday()}

	rate, err := s.service.AddRate(s.ctx, req, s.userID)

	s.Require().Error(err)
	s.Nil(rate)
	var fieldErrs apperrors.FieldErrors
	s.Require().ErrorAs(err, &fieldErrs)
	s.Contains(fieldErrs, "amount")
	s.mockRepo.AssertNotCalled(s.T(), "SaveRate", mock.Anything, mock.Anything)
}

func (s *RateServiceTestSuite) TestAddRate_RaceReloadFailureIsNotDuplicate() {
	date := s.yesterday()
	day, _ := time.Parse(domain.RateDateLayout, date)
	req := dto.AddRateRequest{Code: "GBP", Date: date, Amount: decPtr(decimal.NewFromFloat(5.5))}

	// Lost the insert race and the winner cannot be loaded either; the
	// duplicate error must not surface without its record.
	s.mockRepo.On("FindRate", s.ctx, "GBP", day).Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepo.On("SaveRate", s.ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()
	s.mockRepo.On("FindRate", s.ctx, "GBP", day).Return(nil, assert.AnError).Once()

	rate, err := s.service.AddRate(s.ctx, req, s.userID)

	s.Require().Error(err)
	s.NotErrorIs(err, apperrors.ErrDuplicate)
	s.Nil(rate)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *RateServiceTestSuite) TestUpdateRate_Success() {
	date := s.yesterday()
	day, _ := time.Parse(domain.RateDateLayout, date)
	newAmount := decimal.NewFromFloat(4.31)
	before := &domain.CurrencyRate{Code: "USD", Date: day, Amount: decimal.NewFromFloat(4.2)}
	after := &domain.CurrencyRate{Code: "USD", Date: day, Amount: newAmount}

	s.mockRepo.On("FindRate", s.ctx, "USD", day).Return(before, nil).Once()
	s.mockRepo.On("UpdateRateAmount", s.ctx, "USD", day, newAmount, s.userID).Return(nil).Once()
	s.mockRepo.On("FindRate", s.ctx, "USD", day).Return(after, nil).Once()

	rate, err := s.service.UpdateRate(s.ctx, "usd", date, dto.UpdateRateRequest{Amount: &newAmount}, s.userID)

	s.Require().NoError(err)
	s.True(rate.Amount.Equal(newAmount))
	s.mockRepo.AssertExpectations(s.T())
}

func (s *RateServiceTestSuite) TestUpdateRate_NotFound() {
	date := s.yesterday()
	day, _ := time.Parse(domain.RateDateLayout, date)

	s.mockRepo.On("FindRate", s.ctx, "EUR", day).Return(nil, apperrors.ErrNotFound).Once()

	rate, err := s.service.UpdateRate(s.ctx, "EUR", date, dto.UpdateRateRequest{Amount: decPtr(decimal.NewFromInt(4))}, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Nil(rate)
	s.mockRepo.AssertNotCalled(s.T(), "UpdateRateAmount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *RateServiceTestSuite) TestUpdateRate_MissingAmount() {
	rate, err := s.service.UpdateRate(s.ctx, "EUR", s.yesterday(), dto.UpdateRateRequest{}, s.userID)

	s.Require().Error(err)
	s.Nil(rate)
	var fieldErrs apperrors.FieldErrors
	s.Require().ErrorAs(err, &fieldErrs)
	s.Contains(fieldErrs, "amount")
	s.mockRepo.AssertNotCalled(s.T(), "UpdateRateAmount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *RateServiceTestSuite) TestDeleteRate_ReturnsPriorState() {
	date := s.yesterday()
	day, _ := time.Parse(domain.RateDateLayout, date)
	existing := &domain.CurrencyRate{Code: "GBP", Date: day, Amount: decimal.NewFromFloat(5.4)}

	s.mockRepo.On("FindRate", s.ctx, "GBP", day).Return(existing, nil).Once()
	s.mockRepo.On("DeleteRate", s.ctx, "GBP", day).Return(nil).Once()

	rate, err := s.service.DeleteRate(s.ctx, "GBP", date)

	s.Require().NoError(err)
	s.True(rate.Amount.Equal(existing.Amount))
	s.mockRepo.AssertExpectations(s.T())
}

func (s *RateServiceTestSuite) TestDeleteRate_NotFound() {
	date := s.yesterday()
	day, _ := time.Parse(domain.RateDateLayout, date)

	s.mockRepo.On("FindRate", s.ctx, "EUR", day).Return(nil, apperrors.ErrNotFound).Once()

	rate, err := s.service.DeleteRate(s.ctx, "EUR", date)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Nil(rate)
	s.mockRepo.AssertNotCalled(s.T(), "DeleteRate", mock.Anything, mock.Anything, mock.Anything)
}

func (s *RateServiceTestSuite) TestListRates_PreservesRepositoryOrder() {
	date := s.yesterday()
	day, _ := time.Parse(domain.RateDateLayout, date)
	stored := []domain.CurrencyRate{
		{Code: "EUR", Date: day, Amount: decimal.NewFromFloat(4.25)},
		{Code: "USD", Date: day, Amount: decimal.NewFromFloat(4.01)},
		{Code: "GBP", Date: day, Amount: decimal.NewFromFloat(5.43)},
	}

	s.mockRepo.On("FindRatesByDate", s.ctx, day).Return(stored, nil).Once()

	rates, err := s.service.ListRates(s.ctx, date)

	s.Require().NoError(err)
	s.Require().Len(rates, 3)
	s.Equal("EUR", rates[0].Code)
	s.Equal("USD", rates[1].Code)
	s.Equal("GBP", rates[2].Code)
}

func (s *RateServiceTestSuite) TestListRates_EmptyDateIsNotFound() {
	date := s.yesterday()
	day, _ := time.Parse(domain.RateDateLayout, date)

	s.mockRepo.On("FindRatesByDate", s.ctx, day).Return([]domain.CurrencyRate{}, nil).Once()

	rates, err := s.service.ListRates(s.ctx, date)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Nil(rates)
}

func (s *RateServiceTestSuite) TestListRates_BadDateFormat() {
	rates, err := s.service.ListRates(s.ctx, "2024/01/01")

	s.Require().Error(err)
	var fieldErrs apperrors.FieldErrors
	s.Require().ErrorAs(err, &fieldErrs)
	s.Contains(fieldErrs, "date")
	s.Nil(rates)
	s.mockRepo.AssertNotCalled(s.T(), "FindRatesByDate", mock.Anything, mock.Anything)
}

func (s *RateServiceTestSuite) TestGetRate_Success() {
	date := s.yesterday()
	day, _ := time.Parse(domain.RateDateLayout, date)
	existing := &domain.CurrencyRate{Code: "EUR", Date: day, Amount: decimal.NewFromFloat(4.25)}

	s.mockRepo.On("FindRate", s.ctx, "EUR", day).Return(existing, nil).Once()

	rate, err := s.service.GetRate(s.ctx, "eur", date)

	s.Require().NoError(err)
	s.Equal("EUR", rate.Code)
}

func (s *RateServiceTestSuite) TestGetRate_NotFound() {
	date := s.yesterday()
	day, _ := time.Parse(domain.RateDateLayout, date)

	s.mockRepo.On("FindRate", s.ctx, "USD", day).Return(nil, apperrors.ErrNotFound).Once()

	rate, err := s.service.GetRate(s.ctx, "USD", date)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Nil(rate)
}

func TestRateService(t *testing.T) {
	suite.Run(t, new(RateServiceTestSuite))
}
