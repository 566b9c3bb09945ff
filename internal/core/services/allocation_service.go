package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hostbooks/host_books_app/internal/core/domain"
	portsrepo "github.com/hostbooks/host_books_app/internal/core/ports/repositories"
	portssvc "github.com/hostbooks/host_books_app/internal/core/ports/services"
	"github.com/hostbooks/host_books_app/internal/dto"
	"github.com/hostbooks/host_books_app/internal/middleware"
	"github.com/hostbooks/host_books_app/internal/utils/distribution"
)

var (
	ErrNoTargets        = errors.New("allocation requires at least one target")
	ErrDuplicateTarget  = errors.New("allocation targets must be distinct properties")
	ErrInvalidBasis     = errors.New("unknown allocation basis")
	ErrNoRevenueInRange = errors.New("no revenue found for any target in the reference period")
	ErrNegativeAmount   = errors.New("allocation amount must not be negative")
)

// allocationService splits lump sums (tax bills, insurance premiums) across
// properties and persists the result as one consolidated parent entry with
// per-property children.
type allocationService struct {
	ledgerRepo      portsrepo.LedgerRepositoryWithTx
	defaultCurrency string
}

// NewAllocationService creates a new pro-rata allocation service.
func NewAllocationService(ledgerRepo portsrepo.LedgerRepositoryWithTx, defaultCurrency string) portssvc.AllocationSvcFacade {
	return &allocationService{ledgerRepo: ledgerRepo, defaultCurrency: defaultCurrency}
}

var _ portssvc.AllocationSvcFacade = (*allocationService)(nil)

// AllocateLumpSum implements portssvc.AllocationSvcFacade.
func (s *allocationService) AllocateLumpSum(ctx context.Context, ownerID string, req dto.AllocateLumpSumRequest) (*dto.AllocationResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Targets) == 0 {
		return nil, ErrNoTargets
	}
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: %s", ErrNegativeAmount, req.Amount)
	}
	seen := make(map[string]bool, len(req.Targets))
	for _, target := range req.Targets {
		if seen[target.PropertyID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTarget, target.PropertyID)
		}
		seen[target.PropertyID] = true
	}

	var shares []distribution.Share
	var err error
	switch req.Basis {
	case dto.BasisPercent:
		shares, err = s.splitByPercent(req.Amount, req.Targets)
	case dto.BasisRevenue:
		shares, err = s.splitByRevenue(ctx, ownerID, req)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidBasis, req.Basis)
	}
	if err != nil {
		return nil, err
	}

	parent, children := s.buildEntries(ownerID, req, shares)
	if err := s.ledgerRepo.SaveAllocation(ctx, parent, children); err != nil {
		return nil, fmt.Errorf("failed to save allocation: %w", err)
	}

	logger.Info("Lump sum allocated",
		slog.String("owner_id", ownerID),
		slog.String("basis", string(req.Basis)),
		slog.String("amount", req.Amount.String()),
		slog.Int("targets", len(children)),
	)
	return &dto.AllocationResponse{Parent: parent, Children: children}, nil
}

// splitByPercent distributes by explicit percentages. Targets without a
// percentage share the unassigned remainder equally among themselves before
// the basis-100 policy is applied.
func (s *allocationService) splitByPercent(amount decimal.Decimal, targets []dto.AllocationTarget) ([]distribution.Share, error) {
	assigned := decimal.Zero
	var unassigned int
	for _, target := range targets {
		if target.Percent == nil {
			unassigned++
			continue
		}
		assigned = assigned.Add(*target.Percent)
	}

	var remainderEach decimal.Decimal
	if unassigned > 0 {
		remainder := decimal.NewFromInt(100).Sub(assigned)
		if remainder.IsNegative() {
			remainder = decimal.Zero
		}
		remainderEach = remainder.Div(decimal.NewFromInt(int64(unassigned)))
	}

	weights := make([]distribution.Weight, 0, len(targets))
	for _, target := range targets {
		percent := remainderEach
		if target.Percent != nil {
			percent = *target.Percent
		}
		weights = append(weights, distribution.Weight{Key: target.PropertyID, Value: percent})
	}
	return distribution.DistributePercent(amount, weights)
}

// splitByRevenue distributes by each target's share of revenue over the
// reference period. Targets with no revenue in the period get a zero weight;
// if nothing earned, there is no defensible split and the call fails.
func (s *allocationService) splitByRevenue(ctx context.Context, ownerID string, req dto.AllocateLumpSumRequest) ([]distribution.Share, error) {
	revenue, err := s.ledgerRepo.SumRevenueByProperty(ctx, ownerID, req.RevenueFrom, req.RevenueTo)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue for %s..%s: %w", dateKey(req.RevenueFrom), dateKey(req.RevenueTo), err)
	}

	weights := make([]distribution.Weight, 0, len(req.Targets))
	anyPositive := false
	for _, target := range req.Targets {
		value := revenue[target.PropertyID]
		if value.IsNegative() {
			value = decimal.Zero
		}
		if value.IsPositive() {
			anyPositive = true
		}
		weights = append(weights, distribution.Weight{Key: target.PropertyID, Value: value})
	}
	if !anyPositive {
		return nil, ErrNoRevenueInRange
	}
	return distribution.Distribute(req.Amount, weights)
}

func (s *allocationService) buildEntries(ownerID string, req dto.AllocateLumpSumRequest, shares []distribution.Share) (domain.LedgerEntry, []domain.LedgerEntry) {
	now := time.Now().UTC()
	sourceTag := req.SourceTag
	if sourceTag == "" {
		sourceTag = domain.SourceTaxProRata
	}
	currency := req.CurrencyCode
	if currency == "" {
		currency = s.defaultCurrency
	}

	parent := domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		OwnerID:       ownerID,
		Kind:          req.Kind,
		Amount:        req.Amount,
		CurrencyCode:  currency,
		EffectiveDate: req.EffectiveDate,
		Description:   req.Description,
		SourceTag:     sourceTag,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	children := make([]domain.LedgerEntry, 0, len(shares))
	for _, share := range shares {
		propertyID := share.Key
		parentID := parent.EntryID
		children = append(children, domain.LedgerEntry{
			EntryID:       uuid.NewString(),
			OwnerID:       ownerID,
			PropertyID:    &propertyID,
			Kind:          req.Kind,
			Amount:        share.Amount,
			CurrencyCode:  currency,
			EffectiveDate: req.EffectiveDate,
			Description:   req.Description,
			SourceTag:     sourceTag,
			ParentEntryID: &parentID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		})
	}
	return parent, children
}
