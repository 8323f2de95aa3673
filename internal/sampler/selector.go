package sampler

import (
	"math"

	"github.com/random-spot/internal/domain"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
)

// SelectWeighted выбирает ровно один регион с вероятностью weight/total.
// Единственный кандидат выбирается всегда, независимо от веса.
// Отрицательные, NaN и бесконечные веса считаются нулевыми.
func (s *Sampler) SelectWeighted(candidates []domain.WeightedRegion) (*domain.Region, error) {
	if len(candidates) == 0 {
		return nil, pkgerrors.ErrNoSelectableRegion
	}
	if len(candidates) == 1 {
		if candidates[0].Region == nil {
			return nil, pkgerrors.ErrNoSelectableRegion
		}
		return candidates[0].Region, nil
	}

	total := 0.0
	for _, c := range candidates {
		if c.Region != nil {
			total += usableWeight(c.Weight)
		}
	}
	if total <= 0 || math.IsInf(total, 0) {
		return nil, pkgerrors.ErrNoSelectableRegion.WithDetails(map[string]interface{}{
			"candidates": len(candidates),
		})
	}

	r := s.src.Float64() * total

	// Строгое сравнение: регион с нулевым весом не выбирается даже при r == 0
	cumulative := 0.0
	var last *domain.Region
	for _, c := range candidates {
		w := usableWeight(c.Weight)
		if c.Region == nil || w == 0 {
			continue
		}
		cumulative += w
		last = c.Region
		if r < cumulative {
			return c.Region, nil
		}
	}

	// погрешность суммирования float64
	return last, nil
}

func usableWeight(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}
