package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agroselva/liquidacion-api/internal/application/dto"
	"github.com/agroselva/liquidacion-api/internal/application/settlement"
)

// SettlementHandler maneja las peticiones HTTP de liquidaciones.
type SettlementHandler struct {
	uc *settlement.SettlementEngineUseCase
}

// NewSettlementHandler construye el handler.
func NewSettlementHandler(uc *settlement.SettlementEngineUseCase) *SettlementHandler {
	return &SettlementHandler{uc: uc}
}

// Compute godoc
// @Summary      Calcular liquidación de un lote clasificado
// @Description  Congela el snapshot de líneas, descuenta adelantos FIFO y asienta
// los movimientos en el kardex doble. Un neto negativo no bloquea: la respuesta
// incluye el warning NEGATIVE_SETTLEMENT.
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del lote"
// @Param        body  body  dto.ComputeSettlementRequest true  "costos fijos (flete, cosecha, maquila)"
// @Success      201   {object}  dto.SettlementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/settlement [post]
func (h *SettlementHandler) Compute(c *fiber.Ctx) error {
	var in dto.ComputeSettlementRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Compute(c.Context(), c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Void godoc
// @Summary      Anular liquidación por compensación
// @Description  No borra nada: repone los adelantos descontados y asienta los
// movimientos inversos en ambos ledgers. El lote vuelve a classified.
// @Tags         settlements
// @Produce      json
// @Param        id   path      string  true  "ID de la liquidación"
// @Success      200  {object}  dto.VoidSettlementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/settlements/{id}/void [post]
func (h *SettlementHandler) Void(c *fiber.Ctx) error {
	out, err := h.uc.Void(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Pay godoc
// @Summary      Marcar liquidación como pagada
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la liquidación"
// @Param        body  body  dto.PaySettlementRequest true  "cuenta de salida (bank|cash)"
// @Success      200   {object}  dto.SettlementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/settlements/{id}/payment [post]
func (h *SettlementHandler) Pay(c *fiber.Ctx) error {
	var in dto.PaySettlementRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Pay(c.Context(), c.Params("id"), in.Account)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
