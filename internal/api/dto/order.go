package dto

// OrderNumberResponse carries the latest order number issued
type OrderNumberResponse struct {
	OrderNumber int64 `json:"order_number"`
}

// SequenceValueResponse is returned when a value is drawn from a sequence
type SequenceValueResponse struct {
	SequenceID string `json:"sequence_id"`
	Value      int64  `json:"value"`
}
