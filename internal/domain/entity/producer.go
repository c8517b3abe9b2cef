package entity

import "time"

// Producer es un productor que entrega lotes a la planta.
type Producer struct {
	ID          string
	Name        string
	Document    string // DNI o RUC
	BankAccount string
	CreatedAt   time.Time
}
