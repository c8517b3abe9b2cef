package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrInvalidState        = errors.New("el estado actual no permite la operación")
	ErrAlreadySettled      = errors.New("el lote ya fue liquidado")
	ErrInsufficientBalance = errors.New("saldo disponible insuficiente")
	ErrSettlementVoided    = errors.New("la liquidación ya fue anulada")
)
