package request

type CreateCashFlowRequest struct {
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
	FlowType string  `json:"flowType"`
}

type UpdateCashFlowRequest struct {
	Date     *string  `json:"date,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
	FlowType *string  `json:"flowType,omitempty"`
}
