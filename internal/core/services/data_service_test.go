package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ascaixa/treasury-backend/internal/apperrors"
	"github.com/ascaixa/treasury-backend/internal/core/domain"
	portsrepo "github.com/ascaixa/treasury-backend/internal/core/ports/repositories"
	portssvc "github.com/ascaixa/treasury-backend/internal/core/ports/services"
	"github.com/ascaixa/treasury-backend/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DataServiceTestSuite struct {
	suite.Suite
	mockStore *MockRecordStore
	service   portssvc.DataSvc
}

func (suite *DataServiceTestSuite) SetupTest() {
	suite.mockStore = new(MockRecordStore)
	ledger := services.NewLedgerService(suite.mockStore)
	suite.service = services.NewDataService(suite.mockStore, ledger)
}

func (suite *DataServiceTestSuite) TestStats() {
	ctx := context.Background()
	suite.mockStore.On("CountRecords", mock.Anything, domain.CollectionEntries, domain.TransactionFilter{}).
		Return(3, nil).Once()
	suite.mockStore.On("CountRecords", mock.Anything, domain.CollectionExits, domain.TransactionFilter{}).
		Return(2, nil).Once()

	stats, err := suite.service.Stats(ctx)

	suite.Require().NoError(err)
	suite.Equal(5, stats.TotalTransactions)
	suite.Equal(3, stats.TotalEntries)
	suite.Equal(2, stats.TotalExits)
	suite.Equal(2, stats.CollectionsCount)

	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *DataServiceTestSuite) TestStats_FailureAborts() {
	ctx := context.Background()
	suite.mockStore.On("CountRecords", mock.Anything, mock.Anything, domain.TransactionFilter{}).
		Return(0, errors.New("count failed"))

	stats, err := suite.service.Stats(ctx)

	suite.Require().Error(err)
	suite.Nil(stats)
	suite.ErrorIs(err, apperrors.ErrPartialFailure)
}

func (suite *DataServiceTestSuite) TestExport_ReturnsFullLedger() {
	ctx := context.Background()
	suite.mockStore.On("ListRecords", mock.Anything, domain.CollectionEntries, domain.TransactionFilter{}, portsrepo.ListOptions{}).
		Return(fixtureEntries(), nil, nil).Once()
	suite.mockStore.On("ListRecords", mock.Anything, domain.CollectionExits, domain.TransactionFilter{}, portsrepo.ListOptions{}).
		Return(fixtureExits(), nil, nil).Once()

	dump, err := suite.service.Export(ctx)

	suite.Require().NoError(err)
	suite.Len(dump, 5)
}

func TestDataService(t *testing.T) {
	suite.Run(t, new(DataServiceTestSuite))
}
