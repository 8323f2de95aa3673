// Package sampler генерирует равномерно распределенные случайные точки внутри
// полигонов регионов и выбирает регион пропорционально его площади.
package sampler

import (
	"math/rand/v2"

	"github.com/paulmach/orb"
	"github.com/random-spot/internal/domain"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
)

// DefaultMaxAttempts - потолок числа кандидатов при rejection sampling.
// Для островных государств отношение площади bbox к площади суши достигает ~1e5.
const DefaultMaxAttempts = 1_000_000

// Source - источник равномерных случайных чисел в [0, 1)
type Source interface {
	Float64() float64
}

// globalSource использует потокобезопасный глобальный генератор math/rand/v2
type globalSource struct{}

func (globalSource) Float64() float64 {
	return rand.Float64()
}

// Sampler не хранит изменяемого состояния кроме источника случайности,
// поэтому безопасен для конкурентных вызовов при потокобезопасном Source.
type Sampler struct {
	src         Source
	maxAttempts int
}

type Option func(*Sampler)

// WithSource задает источник случайности (например, *rand.Rand с фиксированным seed в тестах).
// *rand.Rand не потокобезопасен: такой Sampler нельзя делить между горутинами.
func WithSource(src Source) Option {
	return func(s *Sampler) {
		if src != nil {
			s.src = src
		}
	}
}

// WithMaxAttempts задает потолок кандидатов на одну точку
func WithMaxAttempts(n int) Option {
	return func(s *Sampler) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func New(opts ...Option) *Sampler {
	s := &Sampler{
		src:         globalSource{},
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxAttempts возвращает текущий потолок кандидатов
func (s *Sampler) MaxAttempts() int {
	return s.maxAttempts
}

// PointIn возвращает точку, равномерно распределенную по площади региона.
// Кандидаты берутся равномерно из bbox и отбрасываются, пока не попадут в геометрию.
func (s *Sampler) PointIn(region *domain.Region) (domain.SampledPoint, error) {
	if region == nil {
		return domain.SampledPoint{}, pkgerrors.ErrEmptyGeometry
	}

	box, err := BoundingBox(region.Geometry)
	if err != nil {
		return domain.SampledPoint{}, err
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		lon := box.MinLon + s.src.Float64()*box.Width()
		lat := box.MinLat + s.src.Float64()*box.Height()

		// тип геометрии уже проверен в BoundingBox
		inside, _ := Contains(region.Geometry, orb.Point{lon, lat})
		if inside {
			return domain.SampledPoint{
				RegionID: region.ID,
				Lat:      lat,
				Lon:      lon,
				Attempts: attempt,
			}, nil
		}
	}

	return domain.SampledPoint{}, pkgerrors.ErrSamplingExhausted.WithDetails(map[string]interface{}{
		"region":       region.Name,
		"max_attempts": s.maxAttempts,
	})
}

// SampleWeighted выбирает регион пропорционально весу и генерирует точку внутри него
func (s *Sampler) SampleWeighted(candidates []domain.WeightedRegion) (*domain.Region, domain.SampledPoint, error) {
	region, err := s.SelectWeighted(candidates)
	if err != nil {
		return nil, domain.SampledPoint{}, err
	}

	point, err := s.PointIn(region)
	if err != nil {
		return region, domain.SampledPoint{}, err
	}
	return region, point, nil
}
