package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hostbooks/host_books_app/internal/apperrors"
	"github.com/hostbooks/host_books_app/internal/core/domain"
	portsrepo "github.com/hostbooks/host_books_app/internal/core/ports/repositories"
	portssvc "github.com/hostbooks/host_books_app/internal/core/ports/services"
	"github.com/hostbooks/host_books_app/internal/middleware"
	"github.com/hostbooks/host_books_app/internal/utils/similarity"
	"github.com/hostbooks/host_books_app/internal/utils/textnorm"
)

var (
	ErrEmptyLabel       = errors.New("entity label must not be empty")
	ErrPropertyNotFound = errors.New("property not found")
)

// ResolverThresholds carries the fuzzy-matching policy. A fuzzy candidate is
// usable from Accept upward; from Learn upward the mapping is persisted
// automatically. Candidates in between are surfaced for confirmation rather
// than silently learned, which prevents mapping drift from near-miss labels.
type ResolverThresholds struct {
	Accept float64
	Learn  float64
}

// DefaultResolverThresholds returns the system-wide fuzzy matching policy.
func DefaultResolverThresholds() ResolverThresholds {
	return ResolverThresholds{Accept: 0.6, Learn: 0.9}
}

// entityResolverService maps external free-text labels to internal
// properties via exact, learned and fuzzy matching.
type entityResolverService struct {
	propertyRepo portsrepo.PropertyRepositoryFacade
	scorer       similarity.Scorer
	thresholds   ResolverThresholds
}

// NewEntityResolverService creates a new resolver. The similarity scorer is
// injected so alternative matchers can be substituted without touching the
// resolution policy.
func NewEntityResolverService(propertyRepo portsrepo.PropertyRepositoryFacade, scorer similarity.Scorer, thresholds ResolverThresholds) portssvc.ResolverSvcFacade {
	return &entityResolverService{
		propertyRepo: propertyRepo,
		scorer:       scorer,
		thresholds:   thresholds,
	}
}

var _ portssvc.ResolverSvcFacade = (*entityResolverService)(nil)

// Resolve implements portssvc.ResolverSvcFacade. Resolution order: learned
// mapping, exact canonical name or alias, fuzzy similarity. The fuzzy best
// candidate wins only when it clears the accept threshold and strictly beats
// the runner-up.
func (s *entityResolverService) Resolve(ctx context.Context, ownerID, label string) (*domain.EntityResolution, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	normalized := textnorm.Normalize(label)
	if normalized == "" {
		return nil, fmt.Errorf("%w: %q", ErrEmptyLabel, label)
	}

	// 1. Previously learned mapping.
	mapping, err := s.propertyRepo.GetMapping(ctx, ownerID, normalized)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up learned mapping: %w", err)
	}
	if mapping != nil {
		return &domain.EntityResolution{Matched: true, PropertyID: mapping.PropertyID, Confidence: 1}, nil
	}

	properties, err := s.propertyRepo.ListProperties(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties for owner %s: %w", ownerID, err)
	}

	// 2. Exact match against canonical names and known aliases.
	for _, p := range properties {
		if textnorm.Normalize(p.Name) == normalized {
			return &domain.EntityResolution{Matched: true, PropertyID: p.PropertyID, Confidence: 1}, nil
		}
		for _, alias := range p.Aliases {
			if textnorm.Normalize(alias) == normalized {
				return &domain.EntityResolution{Matched: true, PropertyID: p.PropertyID, Confidence: 1}, nil
			}
		}
	}

	// 3. Fuzzy match over all of the owner's properties.
	best, second := s.scoreCandidates(normalized, properties)
	if best.propertyID == "" || best.score < s.thresholds.Accept || best.score <= second {
		logger.Debug("Label did not resolve",
			slog.String("owner_id", ownerID),
			slog.String("label", label),
			slog.Float64("best_score", best.score),
		)
		return &domain.EntityResolution{Matched: false, Confidence: best.score}, nil
	}

	resolution := &domain.EntityResolution{
		Matched:    true,
		PropertyID: best.propertyID,
		Confidence: best.score,
	}

	if best.score >= s.thresholds.Learn {
		if _, err := s.learnMapping(ctx, ownerID, normalized, best.propertyID); err != nil {
			// Learning is an optimization; the resolution itself stands.
			logger.Warn("Failed to persist learned mapping",
				slog.String("owner_id", ownerID),
				slog.String("label", label),
				slog.String("error", err.Error()),
			)
		} else {
			resolution.AutoLearned = true
		}
	} else {
		resolution.NeedsConfirmation = true
	}

	return resolution, nil
}

type fuzzyCandidate struct {
	propertyID string
	score      float64
}

// scoreCandidates returns the best candidate and the runner-up score. Each
// property is scored by the best of its canonical name and aliases.
func (s *entityResolverService) scoreCandidates(normalized string, properties []domain.Property) (fuzzyCandidate, float64) {
	var best fuzzyCandidate
	second := 0.0

	for _, p := range properties {
		score := s.scorer.Score(normalized, textnorm.Normalize(p.Name))
		for _, alias := range p.Aliases {
			if aliasScore := s.scorer.Score(normalized, textnorm.Normalize(alias)); aliasScore > score {
				score = aliasScore
			}
		}
		if score > best.score {
			second = best.score
			best = fuzzyCandidate{propertyID: p.PropertyID, score: score}
		} else if score > second {
			second = score
		}
	}
	return best, second
}

// ConfirmMapping implements portssvc.ResolverSvcFacade. It records an
// explicit user confirmation, which is always trusted regardless of
// similarity.
func (s *entityResolverService) ConfirmMapping(ctx context.Context, ownerID, label, propertyID string) (*domain.EntityMapping, error) {
	normalized := textnorm.Normalize(label)
	if normalized == "" {
		return nil, fmt.Errorf("%w: %q", ErrEmptyLabel, label)
	}

	property, err := s.propertyRepo.FindPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, propertyID)
	}
	if property.OwnerID != ownerID {
		return nil, apperrors.ErrNotFound
	}

	return s.learnMapping(ctx, ownerID, normalized, propertyID)
}

func (s *entityResolverService) learnMapping(ctx context.Context, ownerID, normalizedLabel, propertyID string) (*domain.EntityMapping, error) {
	now := time.Now().UTC()
	mapping := domain.EntityMapping{
		MappingID:       uuid.NewString(),
		OwnerID:         ownerID,
		NormalizedLabel: normalizedLabel,
		PropertyID:      propertyID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	saved, err := s.propertyRepo.SaveMapping(ctx, mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to save mapping for label %q: %w", normalizedLabel, err)
	}
	return saved, nil
}
