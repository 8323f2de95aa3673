package utils

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// DistanceMeters - расстояние по большому кругу между двумя точками в метрах
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	return geo.DistanceHaversine(orb.Point{lon1, lat1}, orb.Point{lon2, lat2})
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// RoundCoordinate округляет координату до заданного числа знаков (ключи кеша)
func RoundCoordinate(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// ClosestPointOnLine возвращает ближайшую к (lat, lon) точку ломаной и расстояние до нее в метрах.
// Проекция на отрезки выполняется в локальной плоской системе с масштабом cos(lat) по долготе.
func ClosestPointOnLine(lat, lon float64, line orb.LineString) (orb.Point, float64, bool) {
	if len(line) == 0 {
		return orb.Point{}, 0, false
	}

	scale := math.Cos(lat * math.Pi / 180)
	if scale < 1e-6 {
		scale = 1e-6
	}
	toLocal := func(p orb.Point) (float64, float64) {
		return (p.Lon() - lon) * scale, p.Lat() - lat
	}

	best := line[0]
	bestDist := math.Inf(1)
	consider := func(p orb.Point) {
		if d := DistanceMeters(lat, lon, p.Lat(), p.Lon()); d < bestDist {
			best, bestDist = p, d
		}
	}

	if len(line) == 1 {
		consider(line[0])
		return best, bestDist, true
	}

	for i := 0; i < len(line)-1; i++ {
		ax, ay := toLocal(line[i])
		bx, by := toLocal(line[i+1])
		dx, dy := bx-ax, by-ay

		t := 0.0
		if l2 := dx*dx + dy*dy; l2 > 0 {
			t = -(ax*dx + ay*dy) / l2
			t = math.Max(0, math.Min(1, t))
		}

		px, py := ax+t*dx, ay+t*dy
		consider(orb.Point{lon + px/scale, lat + py})
	}

	return best, bestDist, true
}
