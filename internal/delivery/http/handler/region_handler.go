package handler

import (
	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
	"github.com/random-spot/internal/pkg/utils"
	"github.com/random-spot/internal/pkg/validator"
	"github.com/random-spot/internal/usecase"
	"github.com/random-spot/internal/usecase/dto"
	"go.uber.org/zap"
)

// RegionHandler - обработчик каталога регионов
type RegionHandler struct {
	regionUC *usecase.RegionUseCase
	logger   *zap.Logger
}

// NewRegionHandler - создание нового RegionHandler
func NewRegionHandler(regionUC *usecase.RegionUseCase, logger *zap.Logger) *RegionHandler {
	return &RegionHandler{
		regionUC: regionUC,
		logger:   logger,
	}
}

// List godoc
// @Summary Список регионов
// @Description Возвращает регионы, отсортированные по названию (данные для выпадающего списка). Геометрия не включается.
// @Tags Regions
// @Produce json
// @Param status query string false "Фильтр по статусу (Member State, Territory, ...)"
// @Param q query string false "Подстрока названия или ID"
// @Success 200 {object} utils.SuccessResponse{data=[]dto.RegionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/regions [get]
func (h *RegionHandler) List(c *fiber.Ctx) error {
	var query dto.RegionListQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, pkgerrors.ErrInvalidRequest.WithMessage("Invalid query parameters"))
	}

	if err := validator.Validate(&query); err != nil {
		return utils.SendError(c, err)
	}

	regions, err := h.regionUC.List(c.Context(), query.ToFilter())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.ToRegionResponses(regions), &utils.Meta{
		Total: len(regions),
	})
}

// Groups godoc
// @Summary Регионы, сгруппированные по статусу
// @Tags Regions
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]dto.RegionGroupResponse}
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/regions/groups [get]
func (h *RegionHandler) Groups(c *fiber.Ctx) error {
	groups, err := h.regionUC.Groups(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.ToRegionGroupResponses(groups), &utils.Meta{
		Total: len(groups),
	})
}

// Get godoc
// @Summary Регион с геометрией
// @Description Ищет регион по ID или по названию без учета регистра и возвращает его GeoJSON геометрию
// @Tags Regions
// @Produce json
// @Param id path string true "ID или название региона"
// @Success 200 {object} utils.SuccessResponse{data=dto.RegionDetailResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/regions/{id} [get]
func (h *RegionHandler) Get(c *fiber.Ctx) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	region, err := h.regionUC.Get(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.ToRegionDetailResponse(region), nil)
}
