package relay

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lnwatch/phoenixd-dash/app/entity"
	"github.com/lnwatch/phoenixd-dash/app/factory"
)

type paymentLogRepository interface {
	Create(ctx context.Context, record *entity.PaymentLog) error
}

// Recorder persists incoming payments on a best-effort basis. A write failure
// is logged and discarded; delivery to subscribers never waits on it.
type Recorder struct {
	repo   paymentLogRepository
	logger logrus.FieldLogger
}

func NewRecorder(repo paymentLogRepository) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: factory.NewModuleLogger("relay-recorder"),
	}
}

func (r *Recorder) Record(ctx context.Context, event *PaymentEvent) {
	if !event.IsPaymentReceived() {
		return
	}

	paymentHash := event.PaymentHash
	if paymentHash == "" {
		paymentHash = "unknown"
	}

	record := &entity.PaymentLog{
		Direction:   entity.DirectionIncoming,
		PaymentHash: paymentHash,
		AmountSat:   event.AmountSat,
		Status:      entity.PaymentStatusCompleted,
		RawJSON:     string(event.Raw),
		CreatedAt:   time.Now().UTC(),
	}

	if err := r.repo.Create(ctx, record); err != nil {
		r.logger.WithError(err).WithField("payment_hash", paymentHash).Error("Failed to save payment to database")
	}
}
