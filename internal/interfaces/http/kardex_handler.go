package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agroselva/liquidacion-api/internal/application/dto"
	"github.com/agroselva/liquidacion-api/internal/application/kardex"
)

// KardexHandler maneja las peticiones HTTP del kardex doble.
type KardexHandler struct {
	uc *kardex.DualKardexUseCase
}

// NewKardexHandler construye el handler.
func NewKardexHandler(uc *kardex.DualKardexUseCase) *KardexHandler {
	return &KardexHandler{uc: uc}
}

// ManualAdjustment godoc
// @Summary      Asiento manual de ajuste
// @Description  Mermas, robos o correcciones. Reason es obligatorio; el asiento
// queda en el ledger con ref_type manual.
// @Tags         kardex
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ManualAdjustmentRequest  true  "ledger, deltas y reason"
// @Success      201   {object}  dto.KardexMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/kardex/adjustments [post]
func (h *KardexHandler) ManualAdjustment(c *fiber.Ctx) error {
	var in dto.ManualAdjustmentRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.ManualAdjustment(c.Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// VoidMovement godoc
// @Summary      Anular un asiento del kardex
// @Description  Asienta el movimiento opuesto con ref_type void; nunca borra.
// @Tags         kardex
// @Produce      json
// @Param        id   path      string  true  "ID del asiento"
// @Success      201  {object}  dto.KardexMovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/kardex/movements/{id}/void [post]
func (h *KardexHandler) VoidMovement(c *fiber.Ctx) error {
	out, err := h.uc.VoidMovement(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PhysicalBalance godoc
// @Summary      Saldo físico de un lote y categoría según el kardex
// @Tags         kardex
// @Produce      json
// @Param        id        path  string  true  "ID del lote"
// @Param        category  path  string  true  "Categoría"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/lots/{id}/categories/{category}/kardex [get]
func (h *KardexHandler) PhysicalBalance(c *fiber.Ctx) error {
	balance, err := h.uc.PhysicalBalance(c.Context(), c.Params("id"), c.Params("category"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{
		"lot_id":   c.Params("id"),
		"category": c.Params("category"),
		"balance":  balance,
	})
}

// FinancialBalance godoc
// @Summary      Saldo de una cuenta del ledger financiero
// @Tags         kardex
// @Produce      json
// @Param        account  path  string  true  "Cuenta (bank|cash|sales|producer_payable|producer_receivable)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/kardex/accounts/{account}/balance [get]
func (h *KardexHandler) FinancialBalance(c *fiber.Ctx) error {
	balance, err := h.uc.FinancialBalance(c.Context(), c.Params("account"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{
		"account": c.Params("account"),
		"balance": balance,
	})
}
