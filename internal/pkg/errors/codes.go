package errors

import "net/http"

// Ошибки генерации точки
var (
	ErrEmptyGeometry = New(
		"EMPTY_GEOMETRY",
		"Region geometry has no coordinates",
		http.StatusUnprocessableEntity,
	)

	ErrUnsupportedGeometry = New(
		"UNSUPPORTED_GEOMETRY",
		"Region geometry must be a Polygon or MultiPolygon",
		http.StatusUnprocessableEntity,
	)

	ErrNoSelectableRegion = New(
		"NO_SELECTABLE_REGION",
		"No region with positive weight to select from",
		http.StatusUnprocessableEntity,
	)

	ErrSamplingExhausted = New(
		"SAMPLING_EXHAUSTED",
		"No point inside the region was found within the attempt limit",
		http.StatusUnprocessableEntity,
	)
)

// Ошибки каталога регионов и истории
var (
	ErrRegionNotFound = New(
		"REGION_NOT_FOUND",
		"Region not found",
		http.StatusNotFound,
	)

	ErrBoundariesUnavailable = New(
		"BOUNDARIES_UNAVAILABLE",
		"Boundary dataset could not be loaded",
		http.StatusServiceUnavailable,
	)

	ErrSpotNotFound = New(
		"SPOT_NOT_FOUND",
		"Spot not found",
		http.StatusNotFound,
	)

	ErrHistoryDisabled = New(
		"HISTORY_DISABLED",
		"Spot history storage is disabled",
		http.StatusServiceUnavailable,
	)
)

// Ошибки поиска дорог
var (
	ErrRoadNotFound = New(
		"ROAD_NOT_FOUND",
		"No road found near the point",
		http.StatusNotFound,
	)

	ErrRoadsProvider = New(
		"ROADS_PROVIDER_ERROR",
		"Roads provider request failed",
		http.StatusBadGateway,
	)

	ErrRoadsDisabled = New(
		"ROADS_DISABLED",
		"Road lookup is disabled",
		http.StatusServiceUnavailable,
	)
)

var (
	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
