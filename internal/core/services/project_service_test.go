package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/poledger/po_settlement_app/internal/apperrors"
	"github.com/poledger/po_settlement_app/internal/core/domain"
	portssvc "github.com/poledger/po_settlement_app/internal/core/ports/services"
	"github.com/poledger/po_settlement_app/internal/core/services"
	"github.com/poledger/po_settlement_app/internal/dto"
)

type ProjectServiceTestSuite struct {
	suite.Suite
	mockProjectRepo *MockProjectRepository
	mockPORepo      *MockPurchaseOrderRepository
	service         portssvc.ProjectSvcFacade
	ctx             context.Context
}

func (s *ProjectServiceTestSuite) SetupTest() {
	s.mockProjectRepo = new(MockProjectRepository)
	s.mockPORepo = new(MockPurchaseOrderRepository)
	s.service = services.NewProjectService(s.mockProjectRepo, s.mockPORepo)
	s.ctx = context.Background()
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}

func (s *ProjectServiceTestSuite) TestHasActivePurchaseOrder_Bound() {
	s.mockPORepo.On("FindActiveByProjectCode", s.ctx, "PRJ-7").
		Return(&domain.PurchaseOrder{PONumber: "PO-100"}, nil).Once()

	bound, poNumber, err := s.service.HasActivePurchaseOrder(s.ctx, "PRJ-7")
	s.Require().NoError(err)
	s.True(bound)
	s.Equal("PO-100", poNumber)
}

func (s *ProjectServiceTestSuite) TestHasActivePurchaseOrder_Unbound() {
	s.mockPORepo.On("FindActiveByProjectCode", s.ctx, "PRJ-7").
		Return(nil, apperrors.NewNotFoundError("no active purchase order")).Once()

	bound, poNumber, err := s.service.HasActivePurchaseOrder(s.ctx, "PRJ-7")
	s.Require().NoError(err)
	s.False(bound)
	s.Empty(poNumber)
}

func (s *ProjectServiceTestSuite) TestHasActivePurchaseOrder_RepoError() {
	s.mockPORepo.On("FindActiveByProjectCode", s.ctx, "PRJ-7").
		Return(nil, errors.New("db down")).Once()

	_, _, err := s.service.HasActivePurchaseOrder(s.ctx, "PRJ-7")
	s.Error(err)
}

func (s *ProjectServiceTestSuite) TestCreateProject_Success() {
	s.mockProjectRepo.On("SaveProject", s.ctx, mock.AnythingOfType("domain.ProjectSummary")).Return(nil).Once()

	project, err := s.service.CreateProject(s.ctx, dto.CreateProjectRequest{
		ProjectCode: " PRJ-7 ",
		Name:        "Warehouse extension",
		ClientName:  "Acme Sdn Bhd",
	}, "user-1")
	s.Require().NoError(err)
	s.Equal("PRJ-7", project.ProjectCode)
	s.Equal("user-1", project.CreatedBy)
}

func (s *ProjectServiceTestSuite) TestCreateProject_MissingCode() {
	_, err := s.service.CreateProject(s.ctx, dto.CreateProjectRequest{Name: "x"}, "user-1")
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockProjectRepo.AssertNotCalled(s.T(), "SaveProject")
}
