package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hostbooks/host_books_app/internal/core/domain"
	portsrepo "github.com/hostbooks/host_books_app/internal/core/ports/repositories"
	portssvc "github.com/hostbooks/host_books_app/internal/core/ports/services"
	"github.com/hostbooks/host_books_app/internal/dto"
	"github.com/hostbooks/host_books_app/internal/middleware"
	"github.com/hostbooks/host_books_app/internal/utils/textnorm"
)

var ErrDuplicateProperty = errors.New("a property with this name already exists")

type propertyService struct {
	propertyRepo portsrepo.PropertyRepositoryFacade
}

// NewPropertyService creates a new property management service.
func NewPropertyService(propertyRepo portsrepo.PropertyRepositoryFacade) portssvc.PropertySvcFacade {
	return &propertyService{propertyRepo: propertyRepo}
}

var _ portssvc.PropertySvcFacade = (*propertyService)(nil)

// CreateProperty implements portssvc.PropertySvcFacade. Names are compared
// in normalized form so "Sea View Loft" and "sea  view loft" collide.
func (s *propertyService) CreateProperty(ctx context.Context, ownerID string, req dto.CreatePropertyRequest) (*domain.Property, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.New("property name must not be empty")
	}

	existing, err := s.propertyRepo.ListProperties(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties for owner %s: %w", ownerID, err)
	}
	normalized := textnorm.Normalize(name)
	for _, p := range existing {
		if textnorm.Normalize(p.Name) == normalized {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProperty, name)
		}
	}

	now := time.Now().UTC()
	property := domain.Property{
		PropertyID: uuid.NewString(),
		OwnerID:    ownerID,
		Name:       name,
		Aliases:    dedupeAliases(req.Aliases),
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.propertyRepo.SaveProperty(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to save property %q: %w", name, err)
	}

	logger.Info("Property created",
		slog.String("owner_id", ownerID),
		slog.String("property_id", property.PropertyID),
		slog.String("name", name),
	)
	return &property, nil
}

// ListProperties implements portssvc.PropertySvcFacade.
func (s *propertyService) ListProperties(ctx context.Context, ownerID string) ([]domain.Property, error) {
	properties, err := s.propertyRepo.ListProperties(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties for owner %s: %w", ownerID, err)
	}
	return properties, nil
}

func dedupeAliases(aliases []string) []string {
	seen := make(map[string]bool, len(aliases))
	var out []string
	for _, alias := range aliases {
		alias = strings.TrimSpace(alias)
		key := textnorm.Normalize(alias)
		if alias == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, alias)
	}
	return out
}
