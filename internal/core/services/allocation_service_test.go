package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/hostbooks/host_books_app/internal/core/domain"
	portssvc "github.com/hostbooks/host_books_app/internal/core/ports/services"
	"github.com/hostbooks/host_books_app/internal/core/services"
	"github.com/hostbooks/host_books_app/internal/dto"
)

type AllocationServiceTestSuite struct {
	suite.Suite
	repo    *fakeLedgerRepo
	service portssvc.AllocationSvcFacade
	ownerID string
}

func (suite *AllocationServiceTestSuite) SetupTest() {
	suite.repo = newFakeLedgerRepo()
	suite.service = services.NewAllocationService(suite.repo, "EUR")
	suite.ownerID = "owner-1"
}

func pct(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (suite *AllocationServiceTestSuite) baseRequest() dto.AllocateLumpSumRequest {
	return dto.AllocateLumpSumRequest{
		Description:   "Municipal property tax 2025",
		Kind:          domain.Expense,
		Amount:        decimal.RequireFromString("300"),
		EffectiveDate: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		Basis:         dto.BasisPercent,
	}
}

func (suite *AllocationServiceTestSuite) childAmounts(resp *dto.AllocationResponse) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, child := range resp.Children {
		suite.Require().NotNil(child.PropertyID)
		out[*child.PropertyID] = child.Amount
	}
	return out
}

// --- Test Cases ---

func (suite *AllocationServiceTestSuite) TestAllocate_RemainderGoesToUnspecifiedTargets() {
	req := suite.baseRequest()
	req.Targets = []dto.AllocationTarget{
		{PropertyID: "prop-a", Percent: pct("40")},
		{PropertyID: "prop-b", Percent: pct("40")},
		{PropertyID: "prop-c"},
	}

	resp, err := suite.service.AllocateLumpSum(context.Background(), suite.ownerID, req)

	suite.Require().NoError(err)
	amounts := suite.childAmounts(resp)
	suite.True(amounts["prop-a"].Equal(decimal.RequireFromString("120")), "prop-a got %s", amounts["prop-a"])
	suite.True(amounts["prop-b"].Equal(decimal.RequireFromString("120")), "prop-b got %s", amounts["prop-b"])
	suite.True(amounts["prop-c"].Equal(decimal.RequireFromString("60")), "prop-c got %s", amounts["prop-c"])
}

func (suite *AllocationServiceTestSuite) TestAllocate_OverHundredPercentIsNormalized() {
	req := suite.baseRequest()
	req.Targets = []dto.AllocationTarget{
		{PropertyID: "prop-a", Percent: pct("80")},
		{PropertyID: "prop-b", Percent: pct("40")},
	}

	resp, err := suite.service.AllocateLumpSum(context.Background(), suite.ownerID, req)

	suite.Require().NoError(err)
	amounts := suite.childAmounts(resp)
	suite.True(amounts["prop-a"].Equal(decimal.RequireFromString("200")))
	suite.True(amounts["prop-b"].Equal(decimal.RequireFromString("100")))
}

func (suite *AllocationServiceTestSuite) TestAllocate_ChildrenSumToParentExactly() {
	req := suite.baseRequest()
	req.Amount = decimal.RequireFromString("100")
	req.Targets = []dto.AllocationTarget{
		{PropertyID: "prop-a"},
		{PropertyID: "prop-b"},
		{PropertyID: "prop-c"},
	}

	resp, err := suite.service.AllocateLumpSum(context.Background(), suite.ownerID, req)

	suite.Require().NoError(err)
	total := decimal.Zero
	for _, child := range resp.Children {
		total = total.Add(child.Amount)
		suite.Require().NotNil(child.ParentEntryID)
		suite.Equal(resp.Parent.EntryID, *child.ParentEntryID)
		suite.Equal(domain.SourceTaxProRata, child.SourceTag)
	}
	suite.True(total.Equal(req.Amount), "children sum to %s", total)
	suite.Nil(resp.Parent.PropertyID)
}

func (suite *AllocationServiceTestSuite) TestAllocate_RevenueBasis() {
	suite.seedRevenue("prop-a", "600")
	suite.seedRevenue("prop-b", "400")

	req := suite.baseRequest()
	req.Basis = dto.BasisRevenue
	req.Amount = decimal.RequireFromString("500")
	req.Targets = []dto.AllocationTarget{{PropertyID: "prop-a"}, {PropertyID: "prop-b"}}
	req.RevenueFrom = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	req.RevenueTo = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	resp, err := suite.service.AllocateLumpSum(context.Background(), suite.ownerID, req)

	suite.Require().NoError(err)
	amounts := suite.childAmounts(resp)
	suite.True(amounts["prop-a"].Equal(decimal.RequireFromString("300")))
	suite.True(amounts["prop-b"].Equal(decimal.RequireFromString("200")))
}

func (suite *AllocationServiceTestSuite) TestAllocate_RevenueBasisWithNoRevenueFails() {
	req := suite.baseRequest()
	req.Basis = dto.BasisRevenue
	req.Targets = []dto.AllocationTarget{{PropertyID: "prop-a"}}
	req.RevenueFrom = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	req.RevenueTo = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	_, err := suite.service.AllocateLumpSum(context.Background(), suite.ownerID, req)
	suite.Require().ErrorIs(err, services.ErrNoRevenueInRange)
}

func (suite *AllocationServiceTestSuite) TestAllocate_DuplicateTargetFails() {
	req := suite.baseRequest()
	req.Targets = []dto.AllocationTarget{{PropertyID: "prop-a"}, {PropertyID: "prop-a"}}

	_, err := suite.service.AllocateLumpSum(context.Background(), suite.ownerID, req)
	suite.Require().ErrorIs(err, services.ErrDuplicateTarget)
}

func (suite *AllocationServiceTestSuite) TestAllocate_UnknownBasisFails() {
	req := suite.baseRequest()
	req.Basis = "HEADCOUNT"
	req.Targets = []dto.AllocationTarget{{PropertyID: "prop-a"}}

	_, err := suite.service.AllocateLumpSum(context.Background(), suite.ownerID, req)
	suite.Require().ErrorIs(err, services.ErrInvalidBasis)
}

func (suite *AllocationServiceTestSuite) TestAllocate_PersistsParentAndChildren() {
	req := suite.baseRequest()
	req.Targets = []dto.AllocationTarget{{PropertyID: "prop-a"}, {PropertyID: "prop-b"}}

	resp, err := suite.service.AllocateLumpSum(context.Background(), suite.ownerID, req)

	suite.Require().NoError(err)
	suite.Len(suite.repo.entries, 3)
	_, ok := suite.repo.entries[resp.Parent.EntryID]
	suite.True(ok)
}

func (suite *AllocationServiceTestSuite) seedRevenue(propertyID, amount string) {
	_, err := suite.repo.InsertEntries(context.Background(), []domain.LedgerEntry{{
		EntryID:       propertyID + "-rev",
		OwnerID:       suite.ownerID,
		PropertyID:    &propertyID,
		Kind:          domain.Revenue,
		Amount:        decimal.RequireFromString(amount),
		CurrencyCode:  "EUR",
		EffectiveDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		SourceTag:     domain.SourceExternalPayout,
	}})
	suite.Require().NoError(err)
}

func TestAllocationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AllocationServiceTestSuite))
}
