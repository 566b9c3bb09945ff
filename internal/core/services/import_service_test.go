package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/hostbooks/host_books_app/internal/core/domain"
	portsrepo "github.com/hostbooks/host_books_app/internal/core/ports/repositories"
	portssvc "github.com/hostbooks/host_books_app/internal/core/ports/services"
	"github.com/hostbooks/host_books_app/internal/core/services"
	"github.com/hostbooks/host_books_app/internal/dto"
	"github.com/hostbooks/host_books_app/internal/ingestion"
)

// fakeLedgerRepo is an in-memory LedgerRepositoryWithTx. The import and
// allocation pipelines are exercised against real delete+insert semantics,
// which mock expectations cannot express well.
type fakeLedgerRepo struct {
	mu      sync.Mutex
	entries map[string]domain.LedgerEntry
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{entries: make(map[string]domain.LedgerEntry)}
}

var _ portsrepo.LedgerRepositoryWithTx = (*fakeLedgerRepo)(nil)

func (f *fakeLedgerRepo) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[entryID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &entry, nil
}

func inRange(entry domain.LedgerEntry, ownerID, sourceTag string, from, to time.Time) bool {
	if entry.OwnerID != ownerID || entry.SourceTag != sourceTag {
		return false
	}
	return !entry.EffectiveDate.Before(from) && !entry.EffectiveDate.After(to)
}

func (f *fakeLedgerRepo) ListEntries(ctx context.Context, ownerID, sourceTag string, from, to time.Time) ([]domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.LedgerEntry
	for _, entry := range f.entries {
		if inRange(entry, ownerID, sourceTag, from, to) {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) ListEntriesPaged(ctx context.Context, ownerID string, filter portsrepo.LedgerEntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	entries, err := f.ListEntries(ctx, ownerID, filter.SourceTag, filter.From, filter.To)
	return entries, nil, err
}

func (f *fakeLedgerRepo) SumRevenueByProperty(ctx context.Context, ownerID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]decimal.Decimal)
	for _, entry := range f.entries {
		if entry.OwnerID != ownerID || entry.Kind != domain.Revenue || entry.PropertyID == nil {
			continue
		}
		if entry.EffectiveDate.Before(from) || entry.EffectiveDate.After(to) {
			continue
		}
		out[*entry.PropertyID] = out[*entry.PropertyID].Add(entry.Amount)
	}
	return out, nil
}

func (f *fakeLedgerRepo) InsertEntries(ctx context.Context, entries []domain.LedgerEntry) ([]domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, entry := range entries {
		f.entries[entry.EntryID] = entry
	}
	return entries, nil
}

func (f *fakeLedgerRepo) deleteCascade(entryID string) int {
	deleted := 0
	if _, ok := f.entries[entryID]; ok {
		delete(f.entries, entryID)
		deleted++
	}
	for id, entry := range f.entries {
		if entry.ParentEntryID != nil && *entry.ParentEntryID == entryID {
			delete(f.entries, id)
			deleted++
		}
	}
	return deleted
}

func (f *fakeLedgerRepo) DeleteEntriesByIDs(ctx context.Context, entryIDs []string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	deleted := 0
	for _, id := range entryIDs {
		deleted += f.deleteCascade(id)
	}
	return deleted, nil
}

func (f *fakeLedgerRepo) DeleteEntryWithChildren(ctx context.Context, entryID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteCascade(entryID), nil
}

func (f *fakeLedgerRepo) UpdateEntry(ctx context.Context, entry domain.LedgerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[entry.EntryID]; !ok {
		return pgx.ErrNoRows
	}
	f.entries[entry.EntryID] = entry
	return nil
}

func (f *fakeLedgerRepo) ReplaceEntriesInRange(ctx context.Context, ownerID, sourceTag string, from, to time.Time, entries []domain.LedgerEntry) (int, []domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	deleted := 0
	for id, entry := range f.entries {
		if inRange(entry, ownerID, sourceTag, from, to) {
			delete(f.entries, id)
			deleted++
		}
	}
	for _, entry := range entries {
		f.entries[entry.EntryID] = entry
	}
	return deleted, entries, nil
}

func (f *fakeLedgerRepo) SaveAllocation(ctx context.Context, parent domain.LedgerEntry, children []domain.LedgerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[parent.EntryID] = parent
	for _, child := range children {
		f.entries[child.EntryID] = child
	}
	return nil
}

func (f *fakeLedgerRepo) Begin(ctx context.Context) (pgx.Tx, error)     { return nil, nil }
func (f *fakeLedgerRepo) Commit(ctx context.Context, tx pgx.Tx) error   { return nil }
func (f *fakeLedgerRepo) Rollback(ctx context.Context, tx pgx.Tx) error { return nil }

// stubResolver resolves labels through a fixed table, bypassing fuzzy
// matching so import tests stay focused on attribution.
type stubResolver struct {
	byLabel map[string]string
}

func (s stubResolver) Resolve(ctx context.Context, ownerID, label string) (*domain.EntityResolution, error) {
	if propertyID, ok := s.byLabel[label]; ok {
		return &domain.EntityResolution{Matched: true, PropertyID: propertyID, Confidence: 1}, nil
	}
	return &domain.EntityResolution{Matched: false}, nil
}

func (s stubResolver) ConfirmMapping(ctx context.Context, ownerID, label, propertyID string) (*domain.EntityMapping, error) {
	return &domain.EntityMapping{PropertyID: propertyID}, nil
}

// --- Test Suite ---
type ImportServiceTestSuite struct {
	suite.Suite
	repo    *fakeLedgerRepo
	service portssvc.ImportSvcFacade
	ownerID string
}

const (
	settledHeader = "Date,Type,Confirmation Code,Start Date,End Date,Listing,Currency,Amount,Paid Out\n"

	settledReport = settledHeader +
		"07/15/2025,Payout,,,,,EUR,,\"1,000.00\"\n" +
		"07/15/2025,Reservation,HMABC123,07/10/2025,07/14/2025,Seaview Loft,EUR,600.00,\n" +
		"07/15/2025,Reservation,HMDEF456,07/11/2025,07/15/2025,Beach House,EUR,400.00,\n"
)

func (suite *ImportServiceTestSuite) SetupTest() {
	suite.repo = newFakeLedgerRepo()
	suite.ownerID = "owner-1"
	resolver := stubResolver{byLabel: map[string]string{
		"Seaview Loft": "prop-a",
		"Beach House":  "prop-b",
	}}
	suite.service = services.NewImportService(suite.repo, resolver, decimal.RequireFromString("0.01"), "EUR")
}

func (suite *ImportServiceTestSuite) importContent(content string) *dto.ImportResult {
	result, err := suite.service.ImportReport(context.Background(), suite.ownerID, dto.ImportReportRequest{
		FileName: "report.csv",
		Content:  content,
	})
	suite.Require().NoError(err)
	return result
}

func (suite *ImportServiceTestSuite) amountsByProperty() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, entry := range suite.repo.entries {
		suite.Require().NotNil(entry.PropertyID)
		out[*entry.PropertyID] = out[*entry.PropertyID].Add(entry.Amount)
	}
	return out
}

// --- Test Cases ---

func (suite *ImportServiceTestSuite) TestImport_DistributesPayoutByGross() {
	result := suite.importContent(settledReport)

	suite.Equal("settled", result.LayoutName)
	suite.Equal(2, result.ImportedCount)
	suite.Equal(0, result.ReplacedCount)
	suite.Empty(result.Errors)
	suite.True(result.ReconciliationOK)

	amounts := suite.amountsByProperty()
	suite.True(amounts["prop-a"].Equal(decimal.RequireFromString("600")), "prop-a got %s", amounts["prop-a"])
	suite.True(amounts["prop-b"].Equal(decimal.RequireFromString("400")), "prop-b got %s", amounts["prop-b"])

	for _, entry := range suite.repo.entries {
		suite.Equal(domain.SourceExternalPayout, entry.SourceTag)
		suite.Equal(domain.Revenue, entry.Kind)
		suite.Equal("EUR", entry.CurrencyCode)
		suite.Equal(time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), entry.EffectiveDate)
	}
}

func (suite *ImportServiceTestSuite) TestImport_ReimportIsIdempotent() {
	suite.importContent(settledReport)
	result := suite.importContent(settledReport)

	suite.Equal(2, result.ReplacedCount)
	suite.Equal(2, result.ImportedCount)
	suite.Len(suite.repo.entries, 2)

	amounts := suite.amountsByProperty()
	suite.True(amounts["prop-a"].Equal(decimal.RequireFromString("600")))
	suite.True(amounts["prop-b"].Equal(decimal.RequireFromString("400")))
}

func (suite *ImportServiceTestSuite) TestImport_OverlappingRangeReplacesOldEntries() {
	suite.importContent(settledReport)

	wider := settledHeader +
		"07/14/2025,Payout,,,,,EUR,,200.00\n" +
		"07/14/2025,Reservation,HM111,07/10/2025,07/13/2025,Seaview Loft,EUR,200.00,\n" +
		"07/16/2025,Payout,,,,,EUR,,300.00\n" +
		"07/16/2025,Reservation,HM222,07/12/2025,07/16/2025,Beach House,EUR,300.00,\n"
	result := suite.importContent(wider)

	// The wider range [07/14, 07/16] swallows the earlier 07/15 entries.
	suite.Equal(2, result.ReplacedCount)
	suite.Equal(2, result.ImportedCount)
	suite.Len(suite.repo.entries, 2)

	amounts := suite.amountsByProperty()
	suite.True(amounts["prop-a"].Equal(decimal.RequireFromString("200")))
	suite.True(amounts["prop-b"].Equal(decimal.RequireFromString("300")))
}

func (suite *ImportServiceTestSuite) TestImport_ManualEntriesSurviveReplacement() {
	manualProp := "prop-a"
	_, err := suite.repo.InsertEntries(context.Background(), []domain.LedgerEntry{{
		EntryID:       "manual-1",
		OwnerID:       suite.ownerID,
		PropertyID:    &manualProp,
		Kind:          domain.Expense,
		Amount:        decimal.RequireFromString("50"),
		CurrencyCode:  "EUR",
		EffectiveDate: time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		SourceTag:     domain.SourceManual,
	}})
	suite.Require().NoError(err)

	result := suite.importContent(settledReport)

	suite.Equal(0, result.ReplacedCount)
	_, ok := suite.repo.entries["manual-1"]
	suite.True(ok, "manual entry must not be touched by range replacement")
}

func (suite *ImportServiceTestSuite) TestImport_MalformedRowIsSkippedAndReported() {
	content := settledHeader +
		"07/15/2025,Payout,,,,,EUR,,600.00\n" +
		"not-a-date,Reservation,HM1,,,Seaview Loft,EUR,600.00,\n" +
		"07/15/2025,Reservation,HM2,,,Seaview Loft,EUR,600.00,\n"
	result := suite.importContent(content)

	suite.Equal(1, result.SkippedCount)
	suite.Require().NotEmpty(result.Errors)
	suite.Contains(result.Errors[0], "invalid date")
	suite.Equal(1, result.ImportedCount)
}

func (suite *ImportServiceTestSuite) TestImport_UnresolvedLabelExcludedFromBasis() {
	content := settledHeader +
		"07/15/2025,Payout,,,,,EUR,,\"1,000.00\"\n" +
		"07/15/2025,Reservation,HM1,,,Seaview Loft,EUR,600.00,\n" +
		"07/15/2025,Reservation,HM2,,,No Such Listing,EUR,400.00,\n"
	result := suite.importContent(content)

	suite.Equal(1, result.ImportedCount)
	suite.Require().NotEmpty(result.Errors)
	suite.Contains(result.Errors[0], "No Such Listing")

	// The full paid amount lands on the only resolved property, keeping the
	// books consistent with what was actually paid out.
	amounts := suite.amountsByProperty()
	suite.True(amounts["prop-a"].Equal(decimal.RequireFromString("1000")))
	suite.True(result.ReconciliationOK)
}

func (suite *ImportServiceTestSuite) TestImport_RefundRowsDoNotShrinkShares() {
	content := settledHeader +
		"07/15/2025,Payout,,,,,EUR,,900.00\n" +
		"07/15/2025,Reservation,HM1,,,Seaview Loft,EUR,600.00,\n" +
		"07/15/2025,Reservation,HM2,,,Beach House,EUR,400.00,\n" +
		"07/15/2025,Adjustment,HM2,,,Beach House,EUR,-100.00,\n"
	result := suite.importContent(content)

	suite.Equal(2, result.ImportedCount)
	amounts := suite.amountsByProperty()
	// 900 split 600:400.
	suite.True(amounts["prop-a"].Equal(decimal.RequireFromString("540")), "prop-a got %s", amounts["prop-a"])
	suite.True(amounts["prop-b"].Equal(decimal.RequireFromString("360")), "prop-b got %s", amounts["prop-b"])
	suite.True(result.ReconciliationOK)
}

func (suite *ImportServiceTestSuite) TestImport_EmptyContentIsFatal() {
	_, err := suite.service.ImportReport(context.Background(), suite.ownerID, dto.ImportReportRequest{Content: ""})
	suite.Require().ErrorIs(err, ingestion.ErrEmptyInput)
	suite.Empty(suite.repo.entries)
}

func (suite *ImportServiceTestSuite) TestImport_FullyUnresolvedReportLeavesLedgerUntouched() {
	suite.importContent(settledReport)

	// Every label fails resolution, so nothing can be attributed. The covered
	// range must keep its previously imported entries instead of being wiped.
	content := settledHeader +
		"07/15/2025,Payout,,,,,EUR,,\"1,000.00\"\n" +
		"07/15/2025,Reservation,HM1,,,Unknown One,EUR,600.00,\n" +
		"07/15/2025,Reservation,HM2,,,Unknown Two,EUR,400.00,\n"
	_, err := suite.service.ImportReport(context.Background(), suite.ownerID, dto.ImportReportRequest{
		FileName: "report.csv",
		Content:  content,
	})
	suite.Require().ErrorIs(err, services.ErrNothingAttributed)

	suite.Len(suite.repo.entries, 2)
	amounts := suite.amountsByProperty()
	suite.True(amounts["prop-a"].Equal(decimal.RequireFromString("600")))
	suite.True(amounts["prop-b"].Equal(decimal.RequireFromString("400")))
}

func (suite *ImportServiceTestSuite) TestImport_NoPayoutRowsIsFatal() {
	content := settledHeader +
		"07/15/2025,Reservation,HM1,,,Seaview Loft,EUR,600.00,\n"
	_, err := suite.service.ImportReport(context.Background(), suite.ownerID, dto.ImportReportRequest{Content: content})
	suite.Require().ErrorIs(err, services.ErrNoPayouts)
	suite.Empty(suite.repo.entries)
}

func TestImportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ImportServiceTestSuite))
}
