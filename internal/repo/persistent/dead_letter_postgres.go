package persistent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/postgres"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/types/errs"
	"github.com/google/uuid"
)

const (
	// Table
	deadLetterTable = "dead_letters"

	// Columns
	deadLetterIDColumn            = "id"
	deadLetterMessageIDColumn     = "message_id"
	deadLetterTransactionIDColumn = "transaction_id"
	deadLetterPayloadKeyColumn    = "payload_key"
	deadLetterHeadersColumn       = "headers"
	deadLetterReasonColumn        = "reason"
	deadLetterRetryableColumn     = "retryable"
	deadLetterStatusColumn        = "status"
	deadLetterCreatedAtColumn     = "created_at"
	deadLetterProcessedAtColumn   = "processed_at"
	deadLetterRetryCountColumn    = "retry_count"
)

type DeadLetterRepo struct {
	*postgres.Postgres
}

func NewDeadLetterRepo(pg *postgres.Postgres) *DeadLetterRepo {
	return &DeadLetterRepo{pg}
}

func (r *DeadLetterRepo) Create(ctx context.Context, letter *entity.DeadLetter) error {
	headers, err := json.Marshal(letter.Headers)
	if err != nil {
		return fmt.Errorf("DeadLetterRepo - Create - json.Marshal: %w", err)
	}

	sql, args, err := r.Builder.
		Insert(deadLetterTable).
		Columns(
			deadLetterIDColumn,
			deadLetterMessageIDColumn,
			deadLetterTransactionIDColumn,
			deadLetterPayloadKeyColumn,
			deadLetterHeadersColumn,
			deadLetterReasonColumn,
			deadLetterRetryableColumn,
			deadLetterStatusColumn,
			deadLetterCreatedAtColumn,
			deadLetterRetryCountColumn,
		).
		Values(
			letter.ID,
			letter.MessageID,
			letter.TransactionID,
			letter.PayloadKey,
			headers,
			letter.Reason,
			letter.Retryable,
			letter.Status,
			letter.CreatedAt,
			letter.RetryCount,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("DeadLetterRepo - Create - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("DeadLetterRepo - Create - executor.Exec: %w", err)
	}

	return nil
}

func (r *DeadLetterRepo) GetPending(ctx context.Context, limit int, maxRetries int) ([]*entity.DeadLetter, error) {
	sql, args, err := r.Builder.
		Select(
			deadLetterIDColumn,
			deadLetterMessageIDColumn,
			deadLetterTransactionIDColumn,
			deadLetterPayloadKeyColumn,
			deadLetterHeadersColumn,
			deadLetterReasonColumn,
			deadLetterRetryableColumn,
			deadLetterStatusColumn,
			deadLetterCreatedAtColumn,
			deadLetterProcessedAtColumn,
			deadLetterRetryCountColumn,
		).
		From(deadLetterTable).
		Where(squirrel.And{
			squirrel.Eq{deadLetterStatusColumn: entity.Pending},
			squirrel.Eq{deadLetterRetryableColumn: true},
			squirrel.Lt{deadLetterRetryCountColumn: maxRetries},
		}).
		OrderBy(deadLetterCreatedAtColumn + " ASC").
		Limit(uint64(limit)). //nolint:gosec
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("DeadLetterRepo - GetPending - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("DeadLetterRepo - GetPending - executor.Query: %w", err)
	}
	defer rows.Close()

	letters := make([]*entity.DeadLetter, 0, limit)
	for rows.Next() {
		var (
			letter  entity.DeadLetter
			headers []byte
		)
		err = rows.Scan(
			&letter.ID,
			&letter.MessageID,
			&letter.TransactionID,
			&letter.PayloadKey,
			&headers,
			&letter.Reason,
			&letter.Retryable,
			&letter.Status,
			&letter.CreatedAt,
			&letter.ProcessedAt,
			&letter.RetryCount,
		)
		if err != nil {
			return nil, fmt.Errorf("DeadLetterRepo - GetPending - rows.Scan: %w", err)
		}

		if len(headers) > 0 {
			err = json.Unmarshal(headers, &letter.Headers)
			if err != nil {
				return nil, fmt.Errorf("DeadLetterRepo - GetPending - json.Unmarshal: %w", err)
			}
		}

		letters = append(letters, &letter)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("DeadLetterRepo - GetPending - rows.Err: %w", err)
	}

	return letters, nil
}

func (r *DeadLetterRepo) MarkAsProcessingBatch(ctx context.Context, IDs uuid.UUIDs) error {
	return r.setStatus(ctx, "MarkAsProcessingBatch", IDs, entity.Processing)
}

func (r *DeadLetterRepo) MarkAsProcessedBatch(ctx context.Context, IDs uuid.UUIDs) error {
	return r.setStatus(ctx, "MarkAsProcessedBatch", IDs, entity.Processed)
}

// ReleaseBatch returns claimed letters to pending without spending a retry.
func (r *DeadLetterRepo) ReleaseBatch(ctx context.Context, IDs uuid.UUIDs) error {
	return r.setStatus(ctx, "ReleaseBatch", IDs, entity.Pending)
}

func (r *DeadLetterRepo) setStatus(ctx context.Context, method string, IDs uuid.UUIDs, status entity.Status) error {
	sql, args, err := r.Builder.
		Update(deadLetterTable).
		Set(deadLetterStatusColumn, status).
		Set(deadLetterProcessedAtColumn, time.Now()).
		Where(squirrel.Eq{deadLetterIDColumn: IDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("DeadLetterRepo - %s - r.Builder.ToSql: %w", method, err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("DeadLetterRepo - %s - executor.Exec: %w", method, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeadLetterRepo - %s: %w", method, errs.ErrRecordNotFound)
	}

	return nil
}

func (r *DeadLetterRepo) IncrementRetryCountBatch(ctx context.Context, IDs uuid.UUIDs) error {
	sql, args, err := r.Builder.
		Update(deadLetterTable).
		Set(deadLetterRetryCountColumn, squirrel.Expr(deadLetterRetryCountColumn+" + 1")).
		Set(deadLetterStatusColumn, entity.Pending).
		Where(squirrel.Eq{deadLetterIDColumn: IDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("DeadLetterRepo - IncrementRetryCountBatch - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("DeadLetterRepo - IncrementRetryCountBatch - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeadLetterRepo - IncrementRetryCountBatch: %w", errs.ErrRecordNotFound)
	}

	return nil
}

func (r *DeadLetterRepo) MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) (int64, error) {
	sql, args, err := r.Builder.
		Update(deadLetterTable).
		Set(deadLetterStatusColumn, entity.Failed).
		Where(squirrel.And{
			squirrel.Eq{deadLetterStatusColumn: string(entity.Pending)},
			squirrel.GtOrEq{deadLetterRetryCountColumn: maxRetries},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("DeadLetterRepo - MarkMaxRetriesAsFailed - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("DeadLetterRepo - MarkMaxRetriesAsFailed - executor.Exec: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ReclaimStaleProcessing returns letters claimed before the given time to pending.
// processed_at holds the claim time while a letter is processing.
func (r *DeadLetterRepo) ReclaimStaleProcessing(ctx context.Context, before time.Time) (int64, error) {
	sql, args, err := r.Builder.
		Update(deadLetterTable).
		Set(deadLetterStatusColumn, entity.Pending).
		Where(squirrel.And{
			squirrel.Eq{deadLetterStatusColumn: string(entity.Processing)},
			squirrel.Lt{deadLetterProcessedAtColumn: before},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("DeadLetterRepo - ReclaimStaleProcessing - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("DeadLetterRepo - ReclaimStaleProcessing - executor.Exec: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteOldProcessedAndFailed returns the payload keys of the deleted rows.
func (r *DeadLetterRepo) DeleteOldProcessedAndFailed(ctx context.Context, before time.Time) ([]string, error) {
	sql, args, err := r.Builder.
		Delete(deadLetterTable).
		Where(squirrel.And{
			squirrel.Eq{deadLetterStatusColumn: terminalStatuses()},
			squirrel.Lt{deadLetterCreatedAtColumn: before},
		}).
		Suffix("RETURNING " + deadLetterPayloadKeyColumn).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("DeadLetterRepo - DeleteOldProcessedAndFailed - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("DeadLetterRepo - DeleteOldProcessedAndFailed - executor.Query: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err = rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("DeadLetterRepo - DeleteOldProcessedAndFailed - rows.Scan: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("DeadLetterRepo - DeleteOldProcessedAndFailed - rows.Err: %w", err)
	}

	return keys, nil
}

func terminalStatuses() []string {
	statuses := entity.TerminalStatuses()

	res := make([]string, 0, len(statuses))
	for _, s := range statuses {
		res = append(res, string(s))
	}

	return res
}
