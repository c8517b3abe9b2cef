package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agroselva/liquidacion-api/internal/application/dto"
	"github.com/agroselva/liquidacion-api/internal/domain"
	"github.com/agroselva/liquidacion-api/internal/domain/entity"
	"github.com/agroselva/liquidacion-api/internal/domain/repository"
)

// OrderUseCase directorio de pedidos de venta.
type OrderUseCase struct {
	repo repository.OrderRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(repo repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{repo: repo}
}

// Create registra un pedido de venta abierto.
func (uc *OrderUseCase) Create(in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.CustomerName == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Product != entity.ProductKion && in.Product != entity.ProductCurcuma {
		return nil, domain.ErrInvalidInput
	}
	if !in.RequiredWeight.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	order := &entity.Order{
		ID:             uuid.New().String(),
		CustomerName:   in.CustomerName,
		Product:        in.Product,
		RequiredWeight: in.RequiredWeight,
		State:          entity.OrderStateOpen,
		CreatedAt:      time.Now(),
	}
	if err := uc.repo.Create(order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// GetByID obtiene un pedido por ID.
func (uc *OrderUseCase) GetByID(id string) (*dto.OrderResponse, error) {
	order, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:             o.ID,
		CustomerName:   o.CustomerName,
		Product:        o.Product,
		RequiredWeight: o.RequiredWeight,
		State:          o.State,
	}
}
