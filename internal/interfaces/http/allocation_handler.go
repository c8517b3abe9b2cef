package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agroselva/liquidacion-api/internal/application/allocation"
	"github.com/agroselva/liquidacion-api/internal/application/dto"
	"github.com/agroselva/liquidacion-api/internal/application/kardex"
)

// AllocationHandler maneja las peticiones HTTP de asignaciones lote→pedido.
type AllocationHandler struct {
	uc     *allocation.AllocationUseCase
	kardex *kardex.DualKardexUseCase
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(uc *allocation.AllocationUseCase, kardexUC *kardex.DualKardexUseCase) *AllocationHandler {
	return &AllocationHandler{uc: uc, kardex: kardexUC}
}

// Allocate godoc
// @Summary      Reservar peso de un lote para un pedido
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocateRequest  true  "lot_id, category, order_id, weight"
// @Success      201   {object}  dto.AllocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/allocations [post]
func (h *AllocationHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Allocate(c.Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Deallocate godoc
// @Summary      Liberar una asignación (total o parcial)
// @Description  Sin cuerpo libera toda la asignación; con weight la reduce.
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID de la asignación"
// @Param        body  body  dto.DeallocateRequest  false  "weight opcional a liberar"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/allocations/{id} [delete]
func (h *AllocationHandler) Deallocate(c *fiber.Ctx) error {
	var in dto.DeallocateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	if err := h.uc.Deallocate(c.Context(), c.Params("id"), in.Weight); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AvailableBalance godoc
// @Summary      Saldo asignable de un lote y categoría
// @Tags         allocations
// @Produce      json
// @Param        id        path      string  true  "ID del lote"
// @Param        category  path      string  true  "Categoría"
// @Success      200  {object}  dto.AvailableBalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/categories/{category}/balance [get]
func (h *AllocationHandler) AvailableBalance(c *fiber.Ctx) error {
	out, err := h.uc.AvailableBalance(c.Context(), c.Params("id"), c.Params("category"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Dispatch godoc
// @Summary      Despachar una asignación a su pedido
// @Description  Asienta la salida física del lote y el ingreso por venta en el
// ledger financiero; marca el pedido fulfilled si completa el peso requerido.
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la asignación"
// @Param        body  body  dto.DispatchRequest  true  "sale_unit_price por kg"
// @Success      200   {object}  dto.DispatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/allocations/{id}/dispatch [post]
func (h *AllocationHandler) Dispatch(c *fiber.Ctx) error {
	var in dto.DispatchRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.kardex.DispatchSale(c.Context(), c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
