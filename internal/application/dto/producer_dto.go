package dto

// CreateProducerRequest body para POST /api/producers.
type CreateProducerRequest struct {
	Name        string `json:"name" validate:"required"`
	Document    string `json:"document" validate:"required"` // DNI o RUC
	BankAccount string `json:"bank_account,omitempty"`
}

// ProducerResponse productor en respuestas.
type ProducerResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Document    string `json:"document"`
	BankAccount string `json:"bank_account,omitempty"`
}
