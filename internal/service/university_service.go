package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vnudocs/hub-api/internal/models"
	appErrors "github.com/vnudocs/hub-api/pkg/errors"
)

const (
	universityListCacheKey  = "universities:all"
	universityAbbrCachePref = "universities:abbr:"
)

type universityStore interface {
	List(ctx context.Context) ([]models.University, error)
	FindByAbbreviation(ctx context.Context, abbreviation string) (*models.University, error)
}

type referenceCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// UniversityService serves university reference data and resolves the
// ambiguous university identifier used by the listing filters. Universities
// never change, so both reads sit behind the cache.
type UniversityService struct {
	repo   universityStore
	cache  referenceCache
	logger *zap.Logger
	ttl    time.Duration
}

// NewUniversityService constructs the service.
func NewUniversityService(repo universityStore, cache referenceCache, logger *zap.Logger, ttl time.Duration) *UniversityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &UniversityService{repo: repo, cache: cache, logger: logger, ttl: ttl}
}

// List returns all universities ordered by name.
func (s *UniversityService) List(ctx context.Context) ([]models.University, error) {
	if s.cache != nil {
		var cached []models.University
		if err := s.cache.Get(ctx, universityListCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("university cache read failed", zap.Error(err))
		}
	}

	universities, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to list universities")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, universityListCacheKey, universities, s.ttl); err != nil {
			s.logger.Warn("university cache write failed", zap.Error(err))
		}
	}
	return universities, nil
}

// ResolveIdentifier turns a university identifier, either a UUID or an
// abbreviation, into a UUID usable as a filter. An empty identifier or an
// abbreviation that resolves to nothing yields "", which callers treat as
// "no university filter" rather than an error.
func (s *UniversityService) ResolveIdentifier(ctx context.Context, identifier string) string {
	if identifier == "" {
		return ""
	}
	if _, err := uuid.Parse(identifier); err == nil {
		return identifier
	}

	cacheKey := universityAbbrCachePref + identifier
	if s.cache != nil {
		var cachedID string
		if err := s.cache.Get(ctx, cacheKey, &cachedID); err == nil {
			return cachedID
		}
	}

	university, err := s.repo.FindByAbbreviation(ctx, identifier)
	if err != nil {
		s.logger.Warn("could not resolve university abbreviation",
			zap.String("abbreviation", identifier),
			zap.Error(err))
		return ""
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, university.ID, s.ttl); err != nil {
			s.logger.Warn("university cache write failed", zap.Error(err))
		}
	}
	return university.ID
}
