// Package geojsonfile читает набор границ регионов из GeoJSON FeatureCollection
// (локальный файл или http(s) URL).
package geojsonfile

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/random-spot/internal/config"
	"github.com/random-spot/internal/domain"
	"github.com/random-spot/internal/domain/repository"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
	"go.uber.org/zap"
)

const (
	cacheKeyPrefix = "boundaries:"
	fetchTimeout   = 60 * time.Second
)

type regionRepository struct {
	path       string
	keys       domain.PropertyKeys
	httpClient *http.Client
	cache      repository.CacheRepository
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewRegionRepository создает репозиторий границ из GeoJSON.
// cache может быть nil: тогда удаленный набор скачивается при каждом LoadAll.
func NewRegionRepository(
	cfg *config.BoundariesConfig,
	cache repository.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) repository.RegionRepository {
	return &regionRepository{
		path: cfg.Path,
		keys: domain.PropertyKeys{
			Name:   cfg.NameProperty,
			Status: cfg.StatusProperty,
			Parent: cfg.ParentProperty,
		},
		httpClient: &http.Client{Timeout: fetchTimeout},
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// CacheKey - ключ кеша для удаленного набора границ
func CacheKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (r *regionRepository) Source() string {
	return "geojson:" + r.path
}

// LoadAll читает FeatureCollection и возвращает регион на каждый объект.
// Проверка типа геометрии выполняется каталогом регионов.
func (r *regionRepository) LoadAll(ctx context.Context) ([]*domain.Region, error) {
	data, err := r.read(ctx)
	if err != nil {
		r.logger.Error("failed to read boundaries", zap.String("path", r.path), zap.Error(err))
		return nil, pkgerrors.ErrBoundariesUnavailable.WithDetails(map[string]interface{}{
			"source": r.Source(),
		})
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		r.logger.Error("failed to parse boundaries geojson", zap.String("path", r.path), zap.Error(err))
		return nil, pkgerrors.ErrBoundariesUnavailable.WithDetails(map[string]interface{}{
			"source": r.Source(),
			"reason": "invalid geojson",
		})
	}

	regions := make([]*domain.Region, 0, len(fc.Features))
	for _, f := range fc.Features {
		regions = append(regions, domain.RegionFromProperties(featureID(f), map[string]interface{}(f.Properties), f.Geometry, r.keys))
	}

	r.logger.Info("boundaries loaded",
		zap.String("source", r.Source()),
		zap.Int("features", len(regions)))

	return regions, nil
}

func (r *regionRepository) read(ctx context.Context) ([]byte, error) {
	if !isRemote(r.path) {
		return os.ReadFile(r.path)
	}

	key := CacheKey(r.path)
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, key)
		if err != nil {
			r.logger.Warn("boundaries cache read failed", zap.Error(err))
		} else if cached != nil {
			r.logger.Debug("boundaries served from cache", zap.String("key", key))
			return cached, nil
		}
	}

	data, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, data, r.cacheTTL); err != nil {
			r.logger.Warn("failed to cache boundaries", zap.Error(err))
		}
	}
	return data, nil
}

func (r *regionRepository) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("boundaries download failed: status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func featureID(f *geojson.Feature) string {
	switch id := f.ID.(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return ""
	}
}
