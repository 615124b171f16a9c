package repository

import (
	"context"
	"time"

	"github.com/lnwatch/phoenixd-dash/app/entity"
)

type PaymentLogFilter struct {
	Direction   string
	PaymentHash string
	Limit       int32
	Offset      int32
}

type PaymentLogRepository struct {
	db DBTX
}

func NewPaymentLogRepository(db DBTX) *PaymentLogRepository {
	return &PaymentLogRepository{db: db}
}

func (r *PaymentLogRepository) Create(ctx context.Context, record *entity.PaymentLog) error {
	query := `
		INSERT INTO payment_logs (
			direction, payment_hash, amount_sat, status, raw_json, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		record.Direction,
		record.PaymentHash,
		record.AmountSat,
		record.Status,
		record.RawJSON,
		record.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	record.ID = uint64(id)

	return nil
}

func (r *PaymentLogRepository) List(ctx context.Context, filter PaymentLogFilter) ([]*entity.PaymentLog, error) {
	query := `
		SELECT id, direction, payment_hash, amount_sat, status, raw_json, created_at
		FROM payment_logs
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.Direction != "" {
		query += " AND direction = ?"
		args = append(args, filter.Direction)
	}
	if filter.PaymentHash != "" {
		query += " AND payment_hash = ?"
		args = append(args, filter.PaymentHash)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*entity.PaymentLog{}
	for rows.Next() {
		record := &entity.PaymentLog{}
		if err := rows.Scan(
			&record.ID,
			&record.Direction,
			&record.PaymentHash,
			&record.AmountSat,
			&record.Status,
			&record.RawJSON,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, record)
	}

	return items, rows.Err()
}

// DeleteOlderThan removes at most limit records created before the cutoff and
// reports how many were deleted.
func (r *PaymentLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time, limit int32) (int64, error) {
	if limit <= 0 {
		limit = 500
	}

	result, err := r.db.ExecContext(ctx,
		"DELETE FROM payment_logs WHERE created_at < ? ORDER BY id LIMIT ?",
		cutoff, limit,
	)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
