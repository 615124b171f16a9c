package mapper

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/lnwatch/phoenixd-dash/app/entity"
	"github.com/lnwatch/phoenixd-dash/app/types"
)

func PaymentLogToResponse(item *entity.PaymentLog) *types.PaymentLogRecord {
	if item == nil {
		return nil
	}

	return &types.PaymentLogRecord{
		ID:          item.ID,
		Direction:   item.Direction,
		PaymentHash: item.PaymentHash,
		AmountSat:   item.AmountSat,
		Status:      item.Status,
		RawData:     json.RawMessage(item.RawJSON),
		CreatedAt:   item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func PaymentLogsToResponse(items []*entity.PaymentLog) []*types.PaymentLogRecord {
	result := make([]*types.PaymentLogRecord, 0, len(items))
	for _, item := range items {
		result = append(result, PaymentLogToResponse(item))
	}
	return result
}
