package services

import (
	"context"

	"github.com/hostbooks/host_books_app/internal/dto"
)

// AllocationSvcFacade splits lump-sum expenses and tax liabilities across
// properties using the shared proportional distributor.
type AllocationSvcFacade interface {
	AllocateLumpSum(ctx context.Context, ownerID string, req dto.AllocateLumpSumRequest) (*dto.AllocationResponse, error)
}
