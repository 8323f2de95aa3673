package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/paulmach/orb/geo"
	"github.com/random-spot/internal/domain"
	"github.com/random-spot/internal/domain/repository"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
	"github.com/random-spot/internal/pkg/utils"
	"github.com/random-spot/internal/sampler"
	"go.uber.org/zap"
)

// RegionUseCase - каталог регионов. Набор границ загружается один раз на процесс
// и дальше только читается.
type RegionUseCase struct {
	repo   repository.RegionRepository
	logger *zap.Logger

	mu      sync.Mutex
	loaded  bool
	regions []*domain.Region // отсортированы по названию
	byID    map[string]*domain.Region
	byName  map[string]*domain.Region
}

// NewRegionUseCase создает новый экземпляр RegionUseCase
func NewRegionUseCase(repo repository.RegionRepository, logger *zap.Logger) *RegionUseCase {
	return &RegionUseCase{
		repo:   repo,
		logger: logger,
	}
}

// Load загружает набор границ. Повторные вызовы после успешной загрузки ничего не делают,
// после ошибки загрузка повторяется.
func (uc *RegionUseCase) Load(ctx context.Context) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.loaded {
		return nil
	}

	raw, err := uc.repo.LoadAll(ctx)
	if err != nil {
		uc.logger.Error("Failed to load boundaries", zap.String("source", uc.repo.Source()), zap.Error(err))
		if _, ok := pkgerrors.As(err); ok {
			return err
		}
		return pkgerrors.ErrBoundariesUnavailable
	}

	regions := make([]*domain.Region, 0, len(raw))
	byID := make(map[string]*domain.Region, len(raw))
	byName := make(map[string]*domain.Region, len(raw))

	for _, r := range raw {
		if !uc.prepare(r) {
			continue
		}

		r.ID = uniqueID(r.ID, byID)
		byID[r.ID] = r
		if key := strings.ToLower(r.Name); byName[key] == nil {
			byName[key] = r
		}
		regions = append(regions, r)
	}

	if len(regions) == 0 {
		uc.logger.Error("Boundary dataset has no usable regions", zap.String("source", uc.repo.Source()))
		return pkgerrors.ErrBoundariesUnavailable.WithDetails(map[string]interface{}{
			"source": uc.repo.Source(),
			"reason": "no polygon features",
		})
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return strings.ToLower(regions[i].Name) < strings.ToLower(regions[j].Name)
	})

	uc.regions = regions
	uc.byID = byID
	uc.byName = byName
	uc.loaded = true

	uc.logger.Info("Region catalog loaded",
		zap.String("source", uc.repo.Source()),
		zap.Int("regions", len(regions)),
		zap.Int("skipped", len(raw)-len(regions)))

	return nil
}

// prepare проверяет геометрию и заполняет ID, bbox и площадь
func (uc *RegionUseCase) prepare(r *domain.Region) bool {
	if r == nil {
		return false
	}

	box, err := sampler.BoundingBox(r.Geometry)
	if err != nil {
		uc.logger.Warn("Skipping region that cannot be sampled",
			zap.String("name", r.Name),
			zap.String("geometry_type", r.GeometryType()),
			zap.Error(err))
		return false
	}

	r.Name = strings.TrimSpace(r.Name)
	r.ID = strings.ToLower(strings.TrimSpace(r.ID))
	if r.ID == "" {
		r.ID = utils.Slugify(r.Name)
	}
	if r.Name == "" {
		r.Name = r.ID
	}
	if r.ID == "" {
		uc.logger.Warn("Skipping region without name or id")
		return false
	}

	r.BBox = box
	if box.IsDegenerate() {
		uc.logger.Warn("Region has zero-area bounding box, samples collapse to a line or point",
			zap.String("id", r.ID),
			zap.String("name", r.Name))
	}
	if r.AreaSqKm <= 0 {
		r.AreaSqKm = math.Abs(geo.Area(r.Geometry)) / 1e6
	}
	return true
}

// uniqueID добавляет числовой суффикс к повторяющимся идентификаторам
func uniqueID(id string, taken map[string]*domain.Region) string {
	if taken[id] == nil {
		return id
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", id, i)
		if taken[candidate] == nil {
			return candidate
		}
	}
}

func (uc *RegionUseCase) snapshot(ctx context.Context) ([]*domain.Region, error) {
	if err := uc.Load(ctx); err != nil {
		return nil, err
	}
	return uc.regions, nil
}

// Count возвращает число загруженных регионов (0 до загрузки)
func (uc *RegionUseCase) Count() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return len(uc.regions)
}

// List возвращает регионы, отсортированные по названию
func (uc *RegionUseCase) List(ctx context.Context, filter domain.RegionFilter) ([]*domain.Region, error) {
	regions, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	result := make([]*domain.Region, 0, len(regions))
	for _, r := range regions {
		if filter.Status != "" && !strings.EqualFold(r.Status, filter.Status) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(r.Name), query) && !strings.Contains(r.ID, query) {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

// Get ищет регион по ID или по названию без учета регистра
func (uc *RegionUseCase) Get(ctx context.Context, idOrName string) (*domain.Region, error) {
	if err := uc.Load(ctx); err != nil {
		return nil, err
	}

	key := strings.ToLower(strings.TrimSpace(idOrName))
	if r, ok := uc.byID[key]; ok {
		return r, nil
	}
	if r, ok := uc.byName[key]; ok {
		return r, nil
	}
	return nil, pkgerrors.ErrRegionNotFound.WithDetails(map[string]interface{}{
		"region": idOrName,
	})
}

// Groups группирует регионы по статусу; группы и регионы внутри отсортированы
func (uc *RegionUseCase) Groups(ctx context.Context) ([]domain.RegionGroup, error) {
	regions, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var groups []domain.RegionGroup
	for _, r := range regions {
		i, ok := index[r.Status]
		if !ok {
			i = len(groups)
			index[r.Status] = i
			groups = append(groups, domain.RegionGroup{Status: r.Status})
		}
		groups[i].Regions = append(groups[i].Regions, r)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Status < groups[j].Status
	})
	return groups, nil
}

// Candidates строит взвешенный по площади список для выбора региона.
// all=true берет весь каталог (территории только с includeTerritories),
// иначе - перечисленные регионы без повторов.
func (uc *RegionUseCase) Candidates(ctx context.Context, idsOrNames []string, all, includeTerritories bool) ([]domain.WeightedRegion, error) {
	var selected []*domain.Region

	if all {
		regions, err := uc.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		for _, r := range regions {
			if r.IsTerritory() && !includeTerritories {
				continue
			}
			selected = append(selected, r)
		}
	} else {
		seen := make(map[string]bool, len(idsOrNames))
		for _, name := range idsOrNames {
			r, err := uc.Get(ctx, name)
			if err != nil {
				return nil, err
			}
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			selected = append(selected, r)
		}
	}

	candidates := make([]domain.WeightedRegion, 0, len(selected))
	for _, r := range selected {
		candidates = append(candidates, domain.WeightedRegion{Region: r, Weight: r.AreaSqKm})
	}
	return candidates, nil
}
