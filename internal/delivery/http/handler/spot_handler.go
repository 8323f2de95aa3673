package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
	"github.com/random-spot/internal/pkg/utils"
	"github.com/random-spot/internal/pkg/validator"
	"github.com/random-spot/internal/usecase"
	"github.com/random-spot/internal/usecase/dto"
	"go.uber.org/zap"
)

// ContentTypeGeoJSON - MIME тип GeoJSON (RFC 7946)
const ContentTypeGeoJSON = "application/geo+json"

// SpotHandler - обработчик генерации и истории случайных точек
type SpotHandler struct {
	spotUC *usecase.SpotUseCase
	logger *zap.Logger
}

// NewSpotHandler - создание нового SpotHandler
func NewSpotHandler(spotUC *usecase.SpotUseCase, logger *zap.Logger) *SpotHandler {
	return &SpotHandler{
		spotUC: spotUC,
		logger: logger,
	}
}

func parseGenerateRequest(c *fiber.Ctx) (dto.GenerateSpotRequest, error) {
	var req dto.GenerateSpotRequest
	if err := c.BodyParser(&req); err != nil {
		return req, pkgerrors.ErrInvalidRequest.WithMessage("Invalid request body")
	}

	if err := validator.Validate(&req); err != nil {
		return req, err
	}
	return req, nil
}

// Generate godoc
// @Summary Случайная точка в регионе
// @Description Генерирует точку, равномерно распределенную по площади региона. Один регион (region) или выбор региона пропорционально площади (regions / all). find_road добавляет ближайшую дорогу; ошибка поиска дороги попадает в road_error и не отменяет точку.
// @Tags Spots
// @Accept json
// @Produce json
// @Param request body dto.GenerateSpotRequest true "Регион или набор регионов"
// @Success 200 {object} utils.SuccessResponse{data=dto.SpotResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/spots [post]
func (h *SpotHandler) Generate(c *fiber.Ctx) error {
	req, err := parseGenerateRequest(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	spot, err := h.spotUC.Generate(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.ToSpotResponse(spot), nil)
}

// GenerateGeoJSON godoc
// @Summary Случайная точка в виде GeoJSON
// @Description То же, что POST /spots, но возвращает FeatureCollection для карты: регион, маркер с popup и, если найдена, дорогу с соединяющей линией. ID точки возвращается в заголовке X-Spot-ID.
// @Tags Spots
// @Accept json
// @Produce application/geo+json
// @Param request body dto.GenerateSpotRequest true "Регион или набор регионов"
// @Success 200 {object} object "GeoJSON FeatureCollection"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/spots/geojson [post]
func (h *SpotHandler) GenerateGeoJSON(c *fiber.Ctx) error {
	req, err := parseGenerateRequest(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	fc, spot, err := h.spotUC.GenerateFeatureCollection(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		h.logger.Error("Failed to encode feature collection", zap.Error(err))
		return utils.SendError(c, pkgerrors.ErrInternalServer)
	}

	c.Set("X-Spot-ID", spot.ID.String())
	c.Set(fiber.HeaderContentType, ContentTypeGeoJSON)
	return c.Send(data)
}

// Get godoc
// @Summary Точка из истории
// @Tags Spots
// @Produce json
// @Param id path string true "UUID точки"
// @Success 200 {object} utils.SuccessResponse{data=dto.SpotResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/spots/{id} [get]
func (h *SpotHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, pkgerrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"id": "uuid",
		}))
	}

	spot, err := h.spotUC.Get(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.ToSpotResponse(spot), nil)
}

// List godoc
// @Summary История точек
// @Description Последние сгенерированные точки, новые первыми
// @Tags Spots
// @Produce json
// @Param region query string false "ID регионов через запятую"
// @Param limit query int false "Максимальное количество точек" default(50)
// @Success 200 {object} utils.SuccessResponse{data=dto.SpotListResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/spots [get]
func (h *SpotHandler) List(c *fiber.Ctx) error {
	var query dto.SpotListQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, pkgerrors.ErrInvalidRequest.WithMessage("Invalid query parameters"))
	}

	if err := validator.Validate(&query); err != nil {
		return utils.SendError(c, err)
	}

	filter := query.ToFilter()
	spots, err := h.spotUC.List(c.Context(), filter)
	if err != nil {
		return utils.SendError(c, err)
	}

	resp := dto.ToSpotListResponse(spots)
	return utils.SendSuccess(c, resp, &utils.Meta{
		Total: resp.Total,
		Limit: filter.Limit,
	})
}
