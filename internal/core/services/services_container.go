package services

import (
	"github.com/shopspring/decimal"

	portsrepo "github.com/hostbooks/host_books_app/internal/core/ports/repositories"
	portssvc "github.com/hostbooks/host_books_app/internal/core/ports/services"
	"github.com/hostbooks/host_books_app/internal/platform/config"
	"github.com/hostbooks/host_books_app/internal/utils/similarity"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Resolver comes first since the import pipeline depends on it.
	container.Resolver = NewEntityResolverService(
		repos.PropertyRepo,
		similarity.NewLevenshteinScorer(),
		ResolverThresholds{
			Accept: cfg.FuzzyAcceptThreshold,
			Learn:  cfg.FuzzyLearnThreshold,
		},
	)

	tolerance, err := decimal.NewFromString(cfg.ReconcileTolerance)
	if err != nil {
		tolerance = decimal.RequireFromString("0.01")
	}

	container.Import = NewImportService(repos.LedgerRepo, container.Resolver, tolerance, cfg.DefaultCurrency)
	container.Allocation = NewAllocationService(repos.LedgerRepo, cfg.DefaultCurrency)
	container.Ledger = NewLedgerService(repos.LedgerRepo)
	container.Property = NewPropertyService(repos.PropertyRepo)

	return container
}
