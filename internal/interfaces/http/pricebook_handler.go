package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agroselva/liquidacion-api/internal/application/dto"
	"github.com/agroselva/liquidacion-api/internal/application/usecase"
)

// PricebookHandler maneja las peticiones HTTP del tarifario por categoría.
type PricebookHandler struct {
	uc *usecase.PricebookUseCase
}

// NewPricebookHandler construye el handler.
func NewPricebookHandler(uc *usecase.PricebookUseCase) *PricebookHandler {
	return &PricebookHandler{uc: uc}
}

// GetCurrent godoc
// @Summary      Tarifario vigente
// @Tags         pricebook
// @Produce      json
// @Success      200  {object}  dto.PricebookResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricebook [get]
func (h *PricebookHandler) GetCurrent(c *fiber.Ctx) error {
	out, err := h.uc.GetCurrent()
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// SaveVersion godoc
// @Summary      Publicar nueva versión del tarifario
// @Description  Crea una versión completa; las anteriores quedan intactas para
// reproducir liquidaciones históricas.
// @Tags         pricebook
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SavePricebookRequest  true  "entries por categoría"
// @Success      201   {object}  dto.PricebookResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pricebook [put]
func (h *PricebookHandler) SaveVersion(c *fiber.Ctx) error {
	var in dto.SavePricebookRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.SaveVersion(in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
