package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agroselva/liquidacion-api/internal/application/advances"
	"github.com/agroselva/liquidacion-api/internal/application/dto"
	"github.com/agroselva/liquidacion-api/internal/application/kardex"
	"github.com/agroselva/liquidacion-api/internal/application/usecase"
)

// ProducerHandler maneja las peticiones HTTP de productores y sus adelantos.
type ProducerHandler struct {
	uc       *usecase.ProducerUseCase
	advances *advances.AdvanceLedgerUseCase
	kardex   *kardex.DualKardexUseCase
}

// NewProducerHandler construye el handler.
func NewProducerHandler(uc *usecase.ProducerUseCase, adv *advances.AdvanceLedgerUseCase, kardexUC *kardex.DualKardexUseCase) *ProducerHandler {
	return &ProducerHandler{uc: uc, advances: adv, kardex: kardexUC}
}

// Create godoc
// @Summary      Registrar productor
// @Tags         producers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProducerRequest  true  "name, document (DNI/RUC)"
// @Success      201   {object}  dto.ProducerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/producers [post]
func (h *ProducerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProducerRequest
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
// @Summary      Consultar productor
// @Tags         producers
// @Produce      json
// @Param        id   path      string  true  "ID del productor"
// @Success      200  {object}  dto.ProducerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/producers/{id} [get]
func (h *ProducerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Disburse godoc
// @Summary      Desembolsar adelanto a un productor
// @Tags         producers
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del productor"
// @Param        body  body  dto.DisburseAdvanceRequest true  "amount, account (bank|cash), date opcional"
// @Success      201   {object}  dto.AdvanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/producers/{id}/advances [post]
func (h *ProducerHandler) Disburse(c *fiber.Ctx) error {
	var in dto.DisburseAdvanceRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.advances.Disburse(c.Context(), c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AdvanceBalance godoc
// @Summary      Saldo de adelantos de un productor
// @Tags         producers
// @Produce      json
// @Param        id   path      string  true  "ID del productor"
// @Success      200  {object}  dto.AdvanceBalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/producers/{id}/advances/balance [get]
func (h *ProducerHandler) AdvanceBalance(c *fiber.Ctx) error {
	out, err := h.advances.Balance(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Statement godoc
// @Summary      Estado de cuenta del productor
// @Description  Movimientos de ambos ledgers vinculados al productor, en orden
// cronológico.
// @Tags         producers
// @Produce      json
// @Param        id   path      string  true  "ID del productor"
// @Success      200  {object}  dto.StatementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/producers/{id}/statement [get]
func (h *ProducerHandler) Statement(c *fiber.Ctx) error {
	out, err := h.kardex.Statement(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
