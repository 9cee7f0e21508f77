package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/core/services"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type EntityServiceTestSuite struct {
	suite.Suite
	mockEntityRepo   *MockEntityRepository
	mockPropertyRepo *MockPropertyRepository
	mockAuthorizer   *MockPortfolioAuthorizer
	service          portssvc.EntitySvcFacade

	portfolioID string
	userID      string
}

func (suite *EntityServiceTestSuite) SetupTest() {
	suite.mockEntityRepo = new(MockEntityRepository)
	suite.mockPropertyRepo = new(MockPropertyRepository)
	suite.mockAuthorizer = new(MockPortfolioAuthorizer)
	suite.service = services.NewEntityService(
		suite.mockEntityRepo, suite.mockPropertyRepo,
		services.WithEntityAuthorizer(suite.mockAuthorizer),
	)

	suite.portfolioID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *EntityServiceTestSuite) allow(role domain.UserPortfolioRole) {
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.portfolioID, role).Return(nil)
}

func (suite *EntityServiceTestSuite) deny(role domain.UserPortfolioRole) {
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.portfolioID, role).Return(apperrors.ErrForbidden)
}

func (suite *EntityServiceTestSuite) storedEntity(kind domain.EntityKind) *domain.Entity {
	entity := &domain.Entity{
		EntityID:    uuid.NewString(),
		PortfolioID: suite.portfolioID,
		Name:        "SCI des Tilleuls",
		Kind:        kind,
	}
	suite.mockEntityRepo.FindEntityByIDFn = func(ctx context.Context, entityID string) (*domain.Entity, error) {
		if entityID != entity.EntityID {
			return nil, apperrors.ErrNotFound
		}
		found := *entity
		return &found, nil
	}
	return entity
}

func (suite *EntityServiceTestSuite) TestCreateEntity_Success() {
	suite.allow(domain.RoleMember)
	tmi := decimal.NewFromFloat(0.41)
	req := dto.CreateEntityRequest{
		PortfolioID:           suite.portfolioID,
		Name:                  "Meublé Rennes",
		Kind:                  "lmnp",
		IncomeTaxRateOverride: &tmi,
	}

	suite.mockEntityRepo.On("SaveEntity", mock.Anything, mock.MatchedBy(func(e domain.Entity) bool {
		return e.PortfolioID == suite.portfolioID &&
			e.Name == "Meublé Rennes" &&
			e.Kind == domain.EntityLMNP &&
			e.IncomeTaxRateOverride != nil && e.IncomeTaxRateOverride.Equal(tmi) &&
			e.SocialChargesRateOverride == nil &&
			e.CreatedBy == suite.userID
	})).Return(nil)

	entity, err := suite.service.CreateEntity(context.Background(), req, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(entity.EntityID)
	suite.Equal(domain.EntityLMNP, entity.Kind)
	suite.mockEntityRepo.AssertExpectations(suite.T())
}

func (suite *EntityServiceTestSuite) TestCreateEntity_UnknownKind() {
	suite.allow(domain.RoleMember)
	req := dto.CreateEntityRequest{
		PortfolioID: suite.portfolioID,
		Name:        "SARL de famille",
		Kind:        "sarl",
	}

	entity, err := suite.service.CreateEntity(context.Background(), req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrUnknownEntityType)
	suite.Nil(entity)
	suite.mockEntityRepo.AssertNotCalled(suite.T(), "SaveEntity", mock.Anything, mock.Anything)
}

func (suite *EntityServiceTestSuite) TestCreateEntity_OverrideOutOfRange() {
	suite.allow(domain.RoleMember)
	tooHigh := decimal.NewFromFloat(1.5)
	req := dto.CreateEntityRequest{
		PortfolioID:           suite.portfolioID,
		Name:                  "Location nue",
		Kind:                  "personal",
		IncomeTaxRateOverride: &tooHigh,
	}

	entity, err := suite.service.CreateEntity(context.Background(), req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(entity)
	suite.mockEntityRepo.AssertNotCalled(suite.T(), "SaveEntity", mock.Anything, mock.Anything)
}

func (suite *EntityServiceTestSuite) TestCreateEntity_ReadonlyForbidden() {
	suite.deny(domain.RoleMember)
	req := dto.CreateEntityRequest{
		PortfolioID: suite.portfolioID,
		Name:        "SCI Horizon",
		Kind:        "sci_is",
	}

	entity, err := suite.service.CreateEntity(context.Background(), req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(entity)
	suite.mockEntityRepo.AssertNotCalled(suite.T(), "SaveEntity", mock.Anything, mock.Anything)
}

func (suite *EntityServiceTestSuite) TestFindEntityByID_Success() {
	suite.allow(domain.RoleReadOnly)
	stored := suite.storedEntity(domain.EntitySCIIS)

	entity, err := suite.service.FindEntityByID(context.Background(), stored.EntityID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(stored.EntityID, entity.EntityID)
	suite.Equal(domain.EntitySCIIS, entity.Kind)
}

func (suite *EntityServiceTestSuite) TestFindEntityByID_NotFound() {
	suite.storedEntity(domain.EntityPersonal)

	entity, err := suite.service.FindEntityByID(context.Background(), uuid.NewString(), suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(entity)
	// Membership is never consulted for an entity that does not exist.
	suite.mockAuthorizer.AssertNotCalled(suite.T(), "AuthorizeUserAction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntityServiceTestSuite) TestListEntitiesByPortfolioID_EmptyIsNotNil() {
	suite.allow(domain.RoleReadOnly)
	suite.mockEntityRepo.On("ListEntitiesByPortfolioID", mock.Anything, suite.portfolioID).Return(nil, nil)

	entities, err := suite.service.ListEntitiesByPortfolioID(context.Background(), suite.portfolioID, suite.userID)

	suite.Require().NoError(err)
	suite.NotNil(entities)
	suite.Empty(entities)
}

func (suite *EntityServiceTestSuite) TestUpdateEntity_Success() {
	suite.allow(domain.RoleMember)
	stored := suite.storedEntity(domain.EntityPersonal)
	newName := "Indivision Morel"
	social := decimal.NewFromFloat(0.172)
	req := dto.UpdateEntityRequest{Name: &newName, SocialChargesRateOverride: &social}

	suite.mockEntityRepo.On("UpdateEntity", mock.Anything, mock.MatchedBy(func(e domain.Entity) bool {
		return e.EntityID == stored.EntityID &&
			e.Name == newName &&
			e.Kind == domain.EntityPersonal &&
			e.SocialChargesRateOverride != nil && e.SocialChargesRateOverride.Equal(social) &&
			e.LastUpdatedBy == suite.userID
	})).Return(nil)

	entity, err := suite.service.UpdateEntity(context.Background(), stored.EntityID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(newName, entity.Name)
	suite.mockEntityRepo.AssertExpectations(suite.T())
}

func (suite *EntityServiceTestSuite) TestUpdateEntity_OverrideOutOfRange() {
	suite.allow(domain.RoleMember)
	stored := suite.storedEntity(domain.EntityLMNP)
	negative := decimal.NewFromFloat(-0.1)
	req := dto.UpdateEntityRequest{IncomeTaxRateOverride: &negative}

	entity, err := suite.service.UpdateEntity(context.Background(), stored.EntityID, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(entity)
	suite.mockEntityRepo.AssertNotCalled(suite.T(), "UpdateEntity", mock.Anything, mock.Anything)
}

func (suite *EntityServiceTestSuite) TestUpdateEntity_MemberForbidden() {
	suite.deny(domain.RoleMember)
	stored := suite.storedEntity(domain.EntityLMNP)
	newName := "Meublé Vannes"
	req := dto.UpdateEntityRequest{Name: &newName}

	entity, err := suite.service.UpdateEntity(context.Background(), stored.EntityID, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(entity)
	suite.mockEntityRepo.AssertNotCalled(suite.T(), "UpdateEntity", mock.Anything, mock.Anything)
}

func (suite *EntityServiceTestSuite) TestDeleteEntity_Success() {
	suite.allow(domain.RoleAdmin)
	stored := suite.storedEntity(domain.EntitySCIIS)
	suite.mockPropertyRepo.ListPropertiesByEntityIDFn = func(ctx context.Context, entityID string) ([]domain.Property, error) {
		return nil, nil
	}
	suite.mockEntityRepo.On("DeleteEntity", mock.Anything, stored.EntityID).Return(nil)

	err := suite.service.DeleteEntity(context.Background(), stored.EntityID, suite.userID)

	suite.Require().NoError(err)
	suite.mockEntityRepo.AssertExpectations(suite.T())
}

func (suite *EntityServiceTestSuite) TestDeleteEntity_BlockedWhileHoldingProperties() {
	suite.allow(domain.RoleAdmin)
	stored := suite.storedEntity(domain.EntityLMNP)
	suite.mockPropertyRepo.ListPropertiesByEntityIDFn = func(ctx context.Context, entityID string) ([]domain.Property, error) {
		return []domain.Property{{PropertyID: uuid.NewString(), EntityID: entityID}}, nil
	}

	err := suite.service.DeleteEntity(context.Background(), stored.EntityID, suite.userID)

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockEntityRepo.AssertNotCalled(suite.T(), "DeleteEntity", mock.Anything, mock.Anything)
}

func (suite *EntityServiceTestSuite) TestDeleteEntity_RequiresAdmin() {
	suite.deny(domain.RoleAdmin)
	stored := suite.storedEntity(domain.EntityPersonal)

	err := suite.service.DeleteEntity(context.Background(), stored.EntityID, suite.userID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockEntityRepo.AssertNotCalled(suite.T(), "DeleteEntity", mock.Anything, mock.Anything)
}

func (suite *EntityServiceTestSuite) TestListEntitiesByPortfolioID_RepoError() {
	suite.allow(domain.RoleReadOnly)
	suite.mockEntityRepo.On("ListEntitiesByPortfolioID", mock.Anything, suite.portfolioID).Return(nil, assert.AnError)

	entities, err := suite.service.ListEntitiesByPortfolioID(context.Background(), suite.portfolioID, suite.userID)

	suite.ErrorIs(err, assert.AnError)
	suite.Nil(entities)
}

func TestEntityService(t *testing.T) {
	suite.Run(t, new(EntityServiceTestSuite))
}
