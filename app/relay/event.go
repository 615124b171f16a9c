package relay

import (
	"github.com/goccy/go-json"
)

const EventTypePaymentReceived = "payment_received"

// PaymentEvent is one phoenixd push notification. Only the fields the relay
// itself needs are decoded; Raw preserves the exact upstream bytes so
// subscribers and the durable log see the event unmodified.
type PaymentEvent struct {
	Type        string `json:"type"`
	PaymentHash string `json:"paymentHash"`
	AmountSat   int64  `json:"amountSat"`
	PayerNote   string `json:"payerNote"`
	PayerKey    string `json:"payerKey"`
	ExternalID  string `json:"externalId"`

	Raw []byte `json:"-"`
}

func DecodePaymentEvent(payload []byte) (*PaymentEvent, error) {
	event := &PaymentEvent{}
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, err
	}
	event.Raw = append([]byte(nil), payload...)
	return event, nil
}

func (e *PaymentEvent) IsPaymentReceived() bool {
	return e.Type == EventTypePaymentReceived
}
