package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ascaixa/treasury-backend/internal/apperrors"
	"github.com/ascaixa/treasury-backend/internal/core/domain"
	portsrepo "github.com/ascaixa/treasury-backend/internal/core/ports/repositories"
	portssvc "github.com/ascaixa/treasury-backend/internal/core/ports/services"
	"github.com/ascaixa/treasury-backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SummaryServiceTestSuite struct {
	suite.Suite
	mockStore *MockRecordStore
	service   portssvc.SummarySvc
}

func (suite *SummaryServiceTestSuite) SetupTest() {
	suite.mockStore = new(MockRecordStore)
	ledger := services.NewLedgerService(suite.mockStore)
	suite.service = services.NewSummaryService(suite.mockStore, ledger)
}

func (suite *SummaryServiceTestSuite) TestSummarize_FixtureBalances() {
	ctx := context.Background()
	suite.mockStore.On("ListRecords", mock.Anything, domain.CollectionEntries, domain.TransactionFilter{}, portsrepo.ListOptions{}).
		Return(fixtureEntries(), nil, nil).Once()
	suite.mockStore.On("ListRecords", mock.Anything, domain.CollectionExits, domain.TransactionFilter{}, portsrepo.ListOptions{}).
		Return(fixtureExits(), nil, nil).Once()

	summary, err := suite.service.Summarize(ctx, domain.TransactionFilter{})

	suite.Require().NoError(err)
	suite.True(summary.TotalEntries.Equal(decimal.NewFromInt(175)))
	suite.True(summary.TotalExits.Equal(decimal.NewFromInt(40)))
	suite.True(summary.Balance.Equal(decimal.NewFromInt(135)))
	suite.True(summary.CompletedBalance.Equal(decimal.NewFromInt(85)))
	suite.True(summary.PendingBalance.Equal(decimal.NewFromInt(50)))
	suite.Equal(3, summary.EntriesCount)
	suite.Equal(2, summary.ExitsCount)

	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *SummaryServiceTestSuite) TestSummarize_PropagatesLedgerFailure() {
	ctx := context.Background()
	suite.mockStore.On("ListRecords", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, errors.New("boom"))

	summary, err := suite.service.Summarize(ctx, domain.TransactionFilter{})

	suite.Require().Error(err)
	suite.Nil(summary)
	suite.ErrorIs(err, apperrors.ErrPartialFailure)
}

// monthFilters mirrors the completed/pending month windows the aggregator
// derives for a given month.
func monthFilters(year int, month time.Month) (monthCompleted, monthPending, allCompleted domain.TransactionFilter) {
	completed := true
	pending := false
	monthCompleted = domain.MonthFilter(year, month)
	monthCompleted.Completed = &completed
	monthPending = domain.MonthFilter(year, month)
	monthPending.Completed = &pending
	allCompleted = domain.TransactionFilter{Completed: &completed}
	return
}

func (suite *SummaryServiceTestSuite) TestSummarizeMonth_AssemblesAggregates() {
	ctx := context.Background()
	monthCompleted, monthPending, allCompleted := monthFilters(2026, time.March)

	on := func(collection string, filter domain.TransactionFilter, value int64) {
		suite.mockStore.On("EvalRecords", mock.Anything, collection, portsrepo.EvalSum, "amount", filter).
			Return(decimal.NewFromInt(value), nil).Once()
	}
	on(domain.CollectionEntries, monthCompleted, 125)
	on(domain.CollectionExits, monthCompleted, 40)
	on(domain.CollectionEntries, monthPending, 50)
	on(domain.CollectionExits, monthPending, 0)
	on(domain.CollectionEntries, allCompleted, 1125)
	on(domain.CollectionExits, allCompleted, 440)

	suite.mockStore.On("CountRecords", mock.Anything, domain.CollectionEntries, monthCompleted).Return(2, nil).Once()
	suite.mockStore.On("CountRecords", mock.Anything, domain.CollectionExits, monthCompleted).Return(2, nil).Once()
	suite.mockStore.On("CountRecords", mock.Anything, domain.CollectionEntries, monthPending).Return(1, nil).Once()
	suite.mockStore.On("CountRecords", mock.Anything, domain.CollectionExits, monthPending).Return(0, nil).Once()

	summary, err := suite.service.SummarizeMonth(ctx, 2026, time.March)

	suite.Require().NoError(err)
	suite.Equal(2026, summary.Year)
	suite.Equal(3, summary.Month)
	suite.True(summary.MonthEntries.Equal(decimal.NewFromInt(125)))
	suite.True(summary.MonthExits.Equal(decimal.NewFromInt(40)))
	suite.True(summary.MonthPendingEntries.Equal(decimal.NewFromInt(50)))
	suite.True(summary.MonthPendingExits.Equal(decimal.Zero))
	suite.True(summary.AllTimeBalance.Equal(decimal.NewFromInt(685)), "all-time balance spans every month")
	suite.Equal(2, summary.EntriesCount)
	suite.Equal(2, summary.ExitsCount)
	suite.Equal(1, summary.PendingEntriesCount)
	suite.Equal(0, summary.PendingExitsCount)
	suite.Equal(1, summary.TotalPendingCount)

	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *SummaryServiceTestSuite) TestSummarizeMonth_EmptyMonthIsAllZeros() {
	ctx := context.Background()

	suite.mockStore.On("EvalRecords", mock.Anything, mock.Anything, portsrepo.EvalSum, "amount", mock.Anything).
		Return(decimal.Zero, nil)
	suite.mockStore.On("CountRecords", mock.Anything, mock.Anything, mock.Anything).
		Return(0, nil)

	summary, err := suite.service.SummarizeMonth(ctx, 2026, time.July)

	suite.Require().NoError(err)
	suite.True(summary.MonthEntries.Equal(decimal.Zero))
	suite.True(summary.MonthExits.Equal(decimal.Zero))
	suite.True(summary.AllTimeBalance.Equal(decimal.Zero))
	suite.Equal(0, summary.TotalPendingCount)
}

func (suite *SummaryServiceTestSuite) TestSummarizeMonth_RejectsInvalidMonth() {
	ctx := context.Background()

	_, err := suite.service.SummarizeMonth(ctx, 2026, time.Month(13))
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.SummarizeMonth(ctx, 2026, time.Month(0))
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SummaryServiceTestSuite) TestSummarizeMonth_AnyAggregateFailureAborts() {
	ctx := context.Background()
	storeErr := errors.New("eval endpoint unavailable")

	suite.mockStore.On("EvalRecords", mock.Anything, mock.Anything, portsrepo.EvalSum, "amount", mock.Anything).
		Return(decimal.Zero, storeErr).Maybe()
	suite.mockStore.On("CountRecords", mock.Anything, mock.Anything, mock.Anything).
		Return(0, nil).Maybe()

	summary, err := suite.service.SummarizeMonth(ctx, 2026, time.March)

	suite.Require().Error(err)
	suite.Nil(summary)
	suite.ErrorIs(err, apperrors.ErrPartialFailure)
	suite.ErrorIs(err, storeErr)
}

func TestSummaryService(t *testing.T) {
	suite.Run(t, new(SummaryServiceTestSuite))
}
