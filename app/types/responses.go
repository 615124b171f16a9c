package types

import "github.com/goccy/go-json"

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

type OfferResponse struct {
	Offer string `json:"offer"`
}

type LnAddressResponse struct {
	Address string `json:"address"`
}

type TxResponse struct {
	TxID string `json:"txId"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PaymentLogRecord struct {
	ID          uint64          `json:"id"`
	Direction   string          `json:"direction"`
	PaymentHash string          `json:"paymentHash"`
	AmountSat   int64           `json:"amountSat"`
	Status      string          `json:"status"`
	RawData     json.RawMessage `json:"rawData"`
	CreatedAt   string          `json:"createdAt"`
}

type PaymentLogListResponse struct {
	Payments []*PaymentLogRecord `json:"payments"`
}
