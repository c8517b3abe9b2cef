package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agroselva/liquidacion-api/internal/application/classification"
	"github.com/agroselva/liquidacion-api/internal/application/dto"
	"github.com/agroselva/liquidacion-api/internal/application/usecase"
)

// LotHandler maneja las peticiones HTTP de lotes y su clasificación.
type LotHandler struct {
	uc       *usecase.LotUseCase
	classify *classification.ClassifyLotUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *usecase.LotUseCase, classify *classification.ClassifyLotUseCase) *LotHandler {
	return &LotHandler{uc: uc, classify: classify}
}

// Create godoc
// @Summary      Registrar ingreso de lote
// @Tags         lots
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "producer_id, product (kion|curcuma), gross_weight, cage_discount_weight"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *LotHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Consultar lote
// @Tags         lots
// @Produce      json
// @Param        id   path      string  true  "ID del lote"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [get]
func (h *LotHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Classify godoc
// @Summary      Clasificar lote por categorías
// @Description  Registra los pesos por categoría con su humedad, valoriza contra el
// tarifario y deja el lote en estado classified. Si falta precio para alguna
// categoría la operación procede y la respuesta incluye el warning MISSING_PRICE.
// @Tags         lots
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del lote"
// @Param        body  body  dto.ClassifyLotRequest true  "líneas por categoría, humedad global y versión de tarifario opcional"
// @Success      200   {object}  dto.ClassificationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/classification [post]
func (h *LotHandler) Classify(c *fiber.Ctx) error {
	var in dto.ClassifyLotRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.classify.Classify(c.Context(), c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
