package request

type CreateTransactionRequest struct {
	Date   string  `json:"date"`
	Symbol string  `json:"symbol"`
	Action string  `json:"action"`
	Amount float64 `json:"amount"`
	Price  float64 `json:"price"`
	Fees   float64 `json:"fees"`
}

type UpdateTransactionRequest struct {
	Date   *string  `json:"date,omitempty"`
	Symbol *string  `json:"symbol,omitempty"`
	Action *string  `json:"action,omitempty"`
	Amount *float64 `json:"amount,omitempty"`
	Price  *float64 `json:"price,omitempty"`
	Fees   *float64 `json:"fees,omitempty"`
}
