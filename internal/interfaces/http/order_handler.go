package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agroselva/liquidacion-api/internal/application/dto"
	"github.com/agroselva/liquidacion-api/internal/application/usecase"
)

// OrderHandler maneja las peticiones HTTP de pedidos de venta.
type OrderHandler struct {
	uc *usecase.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar pedido de venta
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "customer_name, product, required_weight"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
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
// @Summary      Consultar pedido
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
