package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/core/services"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PortfolioServiceTestSuite struct {
	suite.Suite
	mockRepo *MockPortfolioRepository
	service  portssvc.PortfolioSvcFacade
}

func (suite *PortfolioServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockPortfolioRepository)
	suite.service = services.NewPortfolioService(suite.mockRepo)
}

// membership is a helper to stub FindUserPortfolioRole with a fixed role.
func (suite *PortfolioServiceTestSuite) membership(userID, portfolioID string, role domain.UserPortfolioRole) {
	suite.mockRepo.On("FindUserPortfolioRole", mock.Anything, userID, portfolioID).
		Return(&domain.UserPortfolio{UserID: userID, PortfolioID: portfolioID, Role: role}, nil)
}

// --- CreatePortfolio Tests ---

func (suite *PortfolioServiceTestSuite) TestCreatePortfolio_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreatePortfolioRequest{Name: "Patrimoine familial", Description: "Notre parc locatif"}

	suite.mockRepo.On("SavePortfolio", ctx, mock.MatchedBy(func(p domain.Portfolio) bool {
		return p.Name == req.Name && p.IsActive && p.BaseCurrencyCode == "EUR" && p.CreatedBy == creatorUserID
	})).Return(nil).Once()
	// The creator is added as admin; self-assignment skips the role check.
	suite.mockRepo.On("AddUserToPortfolio", ctx, mock.MatchedBy(func(m domain.UserPortfolio) bool {
		return m.UserID == creatorUserID && m.Role == domain.RoleAdmin
	})).Return(nil).Once()

	portfolio, err := suite.service.CreatePortfolio(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(portfolio)
	suite.NotEmpty(portfolio.PortfolioID)
	suite.Equal("EUR", portfolio.BaseCurrencyCode)
	suite.True(portfolio.IsActive)
	suite.WithinDuration(time.Now(), portfolio.CreatedAt, time.Second)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PortfolioServiceTestSuite) TestCreatePortfolio_ExplicitCurrency() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreatePortfolioRequest{Name: "Swiss holdings", BaseCurrencyCode: "CHF"}

	suite.mockRepo.On("SavePortfolio", ctx, mock.MatchedBy(func(p domain.Portfolio) bool {
		return p.BaseCurrencyCode == "CHF"
	})).Return(nil).Once()
	suite.mockRepo.On("AddUserToPortfolio", ctx, mock.AnythingOfType("domain.UserPortfolio")).Return(nil).Once()

	portfolio, err := suite.service.CreatePortfolio(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Equal("CHF", portfolio.BaseCurrencyCode)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PortfolioServiceTestSuite) TestCreatePortfolio_MembershipFailureSurfaces() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreatePortfolioRequest{Name: "Orphaned"}
	expectedErr := assert.AnError

	suite.mockRepo.On("SavePortfolio", ctx, mock.AnythingOfType("domain.Portfolio")).Return(nil).Once()
	suite.mockRepo.On("AddUserToPortfolio", ctx, mock.AnythingOfType("domain.UserPortfolio")).Return(expectedErr).Once()

	portfolio, err := suite.service.CreatePortfolio(ctx, req, creatorUserID)

	suite.Require().Error(err)
	suite.Nil(portfolio)
	suite.ErrorIs(err, expectedErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- AuthorizeUserAction Tests ---

func (suite *PortfolioServiceTestSuite) TestAuthorizeUserAction_RoleHierarchy() {
	ctx := context.Background()
	portfolioID := uuid.NewString()

	cases := []struct {
		name     string
		held     domain.UserPortfolioRole
		required domain.UserPortfolioRole
		allowed  bool
	}{
		{"admin acts as admin", domain.RoleAdmin, domain.RoleAdmin, true},
		{"admin acts as member", domain.RoleAdmin, domain.RoleMember, true},
		{"admin acts as readonly", domain.RoleAdmin, domain.RoleReadOnly, true},
		{"member denied admin", domain.RoleMember, domain.RoleAdmin, false},
		{"member acts as member", domain.RoleMember, domain.RoleMember, true},
		{"member acts as readonly", domain.RoleMember, domain.RoleReadOnly, true},
		{"readonly denied member", domain.RoleReadOnly, domain.RoleMember, false},
		{"readonly acts as readonly", domain.RoleReadOnly, domain.RoleReadOnly, true},
		{"removed denied readonly", domain.RoleRemoved, domain.RoleReadOnly, false},
		{"removed denied admin", domain.RoleRemoved, domain.RoleAdmin, false},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			userID := uuid.NewString()
			repo := new(MockPortfolioRepository)
			repo.On("FindUserPortfolioRole", ctx, userID, portfolioID).
				Return(&domain.UserPortfolio{UserID: userID, PortfolioID: portfolioID, Role: tc.held}, nil).Once()
			svc := services.NewPortfolioService(repo)

			err := svc.AuthorizeUserAction(ctx, userID, portfolioID, tc.required)

			if tc.allowed {
				suite.NoError(err)
			} else {
				suite.ErrorIs(err, apperrors.ErrForbidden)
			}
			repo.AssertExpectations(suite.T())
		})
	}
}

func (suite *PortfolioServiceTestSuite) TestAuthorizeUserAction_NonMemberForbidden() {
	ctx := context.Background()
	userID := uuid.NewString()
	portfolioID := uuid.NewString()

	suite.mockRepo.On("FindUserPortfolioRole", ctx, userID, portfolioID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.AuthorizeUserAction(ctx, userID, portfolioID, domain.RoleReadOnly)

	// Membership lookup misses map to forbidden, not not-found.
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- UpdatePortfolio Tests ---

func (suite *PortfolioServiceTestSuite) TestUpdatePortfolio_Success() {
	ctx := context.Background()
	adminID := uuid.NewString()
	portfolioID := uuid.NewString()
	newName := "Renamed"
	existing := &domain.Portfolio{PortfolioID: portfolioID, Name: "Old", IsActive: true}

	suite.membership(adminID, portfolioID, domain.RoleAdmin)
	suite.mockRepo.On("FindPortfolioByID", ctx, portfolioID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdatePortfolio", ctx, mock.MatchedBy(func(p domain.Portfolio) bool {
		return p.Name == newName && p.LastUpdatedBy == adminID
	})).Return(nil).Once()

	portfolio, err := suite.service.UpdatePortfolio(ctx, portfolioID, dto.UpdatePortfolioRequest{Name: &newName}, adminID)

	suite.Require().NoError(err)
	suite.Equal(newName, portfolio.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PortfolioServiceTestSuite) TestUpdatePortfolio_MemberForbidden() {
	ctx := context.Background()
	memberID := uuid.NewString()
	portfolioID := uuid.NewString()
	newName := "Renamed"

	suite.membership(memberID, portfolioID, domain.RoleMember)

	portfolio, err := suite.service.UpdatePortfolio(ctx, portfolioID, dto.UpdatePortfolioRequest{Name: &newName}, memberID)

	suite.Require().Error(err)
	suite.Nil(portfolio)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdatePortfolio", mock.Anything, mock.Anything)
}

// --- DeactivatePortfolio Tests ---

func (suite *PortfolioServiceTestSuite) TestDeactivatePortfolio_Success() {
	ctx := context.Background()
	adminID := uuid.NewString()
	portfolioID := uuid.NewString()

	suite.membership(adminID, portfolioID, domain.RoleAdmin)
	suite.mockRepo.On("DeactivatePortfolio", ctx, portfolioID, adminID).Return(nil).Once()

	err := suite.service.DeactivatePortfolio(ctx, portfolioID, adminID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- AddUserToPortfolio Tests ---

func (suite *PortfolioServiceTestSuite) TestAddUserToPortfolio_ByAdmin() {
	ctx := context.Background()
	adminID := uuid.NewString()
	targetID := uuid.NewString()
	portfolioID := uuid.NewString()

	suite.membership(adminID, portfolioID, domain.RoleAdmin)
	suite.mockRepo.On("AddUserToPortfolio", ctx, mock.MatchedBy(func(m domain.UserPortfolio) bool {
		return m.UserID == targetID && m.Role == domain.RoleReadOnly
	})).Return(nil).Once()

	err := suite.service.AddUserToPortfolio(ctx, adminID, targetID, portfolioID, domain.RoleReadOnly)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PortfolioServiceTestSuite) TestAddUserToPortfolio_ByMemberForbidden() {
	ctx := context.Background()
	memberID := uuid.NewString()
	targetID := uuid.NewString()
	portfolioID := uuid.NewString()

	suite.membership(memberID, portfolioID, domain.RoleMember)

	err := suite.service.AddUserToPortfolio(ctx, memberID, targetID, portfolioID, domain.RoleReadOnly)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "AddUserToPortfolio", mock.Anything, mock.Anything)
}

// --- ListPortfolioUsers Tests ---

func (suite *PortfolioServiceTestSuite) TestListPortfolioUsers_ReadOnlySuffices() {
	ctx := context.Background()
	userID := uuid.NewString()
	portfolioID := uuid.NewString()
	memberships := []domain.UserPortfolio{
		{UserID: userID, PortfolioID: portfolioID, Role: domain.RoleReadOnly},
		{UserID: uuid.NewString(), PortfolioID: portfolioID, Role: domain.RoleAdmin},
	}

	suite.membership(userID, portfolioID, domain.RoleReadOnly)
	suite.mockRepo.On("ListPortfolioUsers", ctx, portfolioID).Return(memberships, nil).Once()

	users, err := suite.service.ListPortfolioUsers(ctx, portfolioID, userID)

	suite.Require().NoError(err)
	suite.Len(users, 2)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PortfolioServiceTestSuite) TestListUserPortfolios_EmptyIsNotNil() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockRepo.On("ListPortfoliosByUserID", ctx, userID).Return(nil, nil).Once()

	portfolios, err := suite.service.ListUserPortfolios(ctx, userID)

	suite.Require().NoError(err)
	suite.NotNil(portfolios)
	suite.Empty(portfolios)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestPortfolioService(t *testing.T) {
	suite.Run(t, new(PortfolioServiceTestSuite))
}
