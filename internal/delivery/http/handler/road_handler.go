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

// RoadHandler - обработчик поиска ближайшей дороги
type RoadHandler struct {
	roadUC *usecase.RoadUseCase
	logger *zap.Logger
}

// NewRoadHandler - создание нового RoadHandler
func NewRoadHandler(roadUC *usecase.RoadUseCase, logger *zap.Logger) *RoadHandler {
	return &RoadHandler{
		roadUC: roadUC,
		logger: logger,
	}
}

// Nearest godoc
// @Summary Ближайшая дорога
// @Description Ищет ближайшую к точке дорогу (OSM way с тегом highway), расширяя радиус поиска
// @Tags Roads
// @Accept json
// @Produce json
// @Param request body dto.NearestRoadRequest true "Координаты точки"
// @Success 200 {object} utils.SuccessResponse{data=dto.RoadResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/roads/nearest [post]
func (h *RoadHandler) Nearest(c *fiber.Ctx) error {
	var req dto.NearestRoadRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, pkgerrors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	road, err := h.roadUC.FindNearest(c.Context(), *req.Lat, *req.Lon)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.ToRoadResponse(road), nil)
}
