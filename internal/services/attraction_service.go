package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	dbm "tripbuddy/internal/models/db_models"
	"tripbuddy/internal/models/request_models"
	"tripbuddy/internal/models/response_models"
	"tripbuddy/internal/repositories"
	"tripbuddy/pkg/memcache"
	"tripbuddy/pkg/utils"
)

const (
	DefaultRandomCount = 12
	MaxRandomCount     = 50

	searchGenerationKey = "attractions:search:generation"
)

type AttractionServiceInterface interface {
	RandomAttractions(ctx context.Context, count int) ([]response_models.FormattedAttraction, error)
	SearchAttractions(ctx context.Context, query request_models.SearchAttractionsQuery) ([]response_models.FormattedAttraction, error)
	GetAttraction(ctx context.Context, id uint) (*response_models.FormattedAttraction, error)
	CreateAttraction(ctx context.Context, req request_models.CreateAttractionRequest) (*response_models.FormattedAttraction, error)
}

type AttractionService struct {
	attractionRepo repositories.AttractionRepository
	cache          memcache.Store
	cacheTTL       time.Duration
}

func NewAttractionService(
	attractionRepo repositories.AttractionRepository,
	cache memcache.Store,
	cacheTTL time.Duration,
) AttractionServiceInterface {
	return &AttractionService{
		attractionRepo: attractionRepo,
		cache:          cache,
		cacheTTL:       cacheTTL,
	}
}

func (s *AttractionService) RandomAttractions(ctx context.Context, count int) ([]response_models.FormattedAttraction, error) {
	if count < 1 || count > MaxRandomCount {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", utils.ErrInvalidInput, MaxRandomCount)
	}

	attractions, err := s.attractionRepo.Random(ctx, count)
	if err != nil {
		logrus.WithError(err).Error("Error fetching random attractions")
		return nil, utils.ErrDatabaseError
	}
	return FormatAttractions(attractions), nil
}

// SearchAttractions serves repeated queries from the cache. Creating an
// attraction bumps the generation in the key, so older pages expire unused.
func (s *AttractionService) SearchAttractions(
	ctx context.Context,
	query request_models.SearchAttractionsQuery,
) ([]response_models.FormattedAttraction, error) {

	var generation int64
	if err := s.cache.Get(ctx, searchGenerationKey, &generation); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		logrus.WithError(err).Warn("attraction cache unavailable")
	}

	key := fmt.Sprintf("attractions:search:v%d:%s:%g:%d:%d",
		generation, strings.ToLower(strings.TrimSpace(query.Term)), query.MinRating, query.Page, query.PageSize)

	return memcache.GetOrSet(ctx, s.cache, key, s.cacheTTL, func() ([]response_models.FormattedAttraction, error) {
		attractions, err := s.attractionRepo.Search(ctx, query.Term, query.MinRating, query.Page, query.PageSize)
		if err != nil {
			logrus.WithError(err).Error("Error searching attractions")
			return nil, utils.ErrDatabaseError
		}
		return FormatAttractions(attractions), nil
	})
}

func (s *AttractionService) GetAttraction(ctx context.Context, id uint) (*response_models.FormattedAttraction, error) {
	attraction, err := s.attractionRepo.GetById(ctx, id)
	if err != nil {
		logrus.WithError(err).WithField("attraction_id", id).Error("Error fetching attraction")
		return nil, utils.ErrDatabaseError
	}
	if attraction == nil {
		return nil, utils.ErrAttractionNotFound
	}

	out := toFormattedAttraction(*attraction)
	return &out, nil
}

func (s *AttractionService) CreateAttraction(
	ctx context.Context,
	req request_models.CreateAttractionRequest,
) (*response_models.FormattedAttraction, error) {

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", utils.ErrInvalidInput)
	}

	attraction := &dbm.Attraction{
		Name:       name,
		ImageURL:   req.ImageURL,
		UserRating: req.UserRating,
	}
	if _, err := s.attractionRepo.Create(ctx, attraction); err != nil {
		logrus.WithError(err).Error("Error creating attraction")
		return nil, utils.ErrDatabaseError
	}

	if _, err := s.cache.Incr(ctx, searchGenerationKey); err != nil {
		logrus.WithError(err).Warn("failed to invalidate attraction search cache")
	}

	out := toFormattedAttraction(*attraction)
	return &out, nil
}

// FormatAttractions orders attractions best-rated first (ties by name) and
// projects them for display.
func FormatAttractions(attractions []dbm.Attraction) []response_models.FormattedAttraction {
	out := make([]response_models.FormattedAttraction, 0, len(attractions))
	for _, a := range attractions {
		out = append(out, toFormattedAttraction(a))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UserRating != out[j].UserRating {
			return out[i].UserRating > out[j].UserRating
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func toFormattedAttraction(a dbm.Attraction) response_models.FormattedAttraction {
	return response_models.FormattedAttraction{
		ID:         a.ID,
		Name:       a.Name,
		ImageURL:   a.ImageURL,
		UserRating: a.UserRating,
	}
}
