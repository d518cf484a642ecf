package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.IdempotencyRepository = (*IdempotencyRepo)(nil)

// IdempotencyRepo claves de idempotencia de la creación múltiple de pedidos.
type IdempotencyRepo struct {
	q Querier
}

// NewIdempotencyRepository construye el adaptador de idempotencia.
func NewIdempotencyRepository(q Querier) *IdempotencyRepo {
	return &IdempotencyRepo{q: q}
}

const idempotencyColumns = `key, request_hash, status, response_body, http_status, ttl_at, created_at, updated_at`

func scanRecord(row pgx.Row) (*entity.IdempotencyRecord, error) {
	var (
		rec        entity.IdempotencyRecord
		status     string
		httpStatus *int
	)
	if err := row.Scan(
		&rec.Key, &rec.RequestHash, &status, &rec.ResponseBody, &httpStatus,
		&rec.TTLAt, &rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rec.Status = entity.IdempotencyStatus(status)
	if httpStatus != nil {
		rec.HTTPStatus = *httpStatus
	}
	return &rec, nil
}

// Reserve inserta la clave en processing. Una fila vencida se reutiliza en el mismo INSERT;
// si la fila sigue vigente no se devuelve nada y se clasifica la existente.
func (r *IdempotencyRepo) Reserve(ctx context.Context, key, requestHash string, ttlAt time.Time) (*entity.IdempotencyRecord, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, domain.ErrIdempotencyKeyRequired
	}
	now := time.Now().UTC()

	rec, err := scanRecord(r.q.QueryRow(ctx, `
		INSERT INTO idempotency_keys (key, request_hash, status, response_body, http_status, ttl_at, created_at, updated_at)
		VALUES ($1, $2, $3, NULL, NULL, $4, $5, $5)
		ON CONFLICT (key) DO UPDATE
		SET request_hash = EXCLUDED.request_hash, status = EXCLUDED.status,
		    response_body = NULL, http_status = NULL,
		    ttl_at = EXCLUDED.ttl_at, created_at = EXCLUDED.created_at, updated_at = EXCLUDED.updated_at
		WHERE idempotency_keys.ttl_at <= $5
		RETURNING `+idempotencyColumns,
		key, requestHash, string(entity.IdempotencyStatusProcessing), ttlAt, now,
	))
	if err == nil {
		return rec, nil
	}
	if !isNoRows(err) {
		return nil, fmt.Errorf("reserve idempotency key: %w", err)
	}

	existing, err := scanRecord(r.q.QueryRow(ctx,
		`SELECT `+idempotencyColumns+` FROM idempotency_keys WHERE key = $1`, key))
	if err != nil {
		if isNoRows(err) {
			// borrada entre las dos sentencias; el cliente puede reintentar
			return nil, domain.ErrIdempotencyInFlight
		}
		return nil, fmt.Errorf("get idempotency key: %w", err)
	}
	switch {
	case existing.RequestHash != requestHash:
		return existing, domain.ErrIdempotencyMismatch
	case existing.Status == entity.IdempotencyStatusProcessing:
		return existing, domain.ErrIdempotencyInFlight
	default:
		return existing, domain.ErrDuplicate
	}
}

func (r *IdempotencyRepo) MarkDone(ctx context.Context, key string, responseBody []byte, httpStatus int, ttlAt time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE idempotency_keys
		SET status = $2, response_body = $3, http_status = $4, ttl_at = $5, updated_at = $6
		WHERE key = $1`,
		key, string(entity.IdempotencyStatusDone), responseBody, httpStatus, ttlAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark idempotency key done: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *IdempotencyRepo) Release(ctx context.Context, key string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM idempotency_keys WHERE key = $1`, key); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

// DeleteExpired borra por lotes usando ctid para no bloquear la tabla completa.
func (r *IdempotencyRepo) DeleteExpired(ctx context.Context, now time.Time, limit int) (int, error) {
	if limit <= 0 {
		limit = 1000
	}
	cmd, err := r.q.Exec(ctx, `
		DELETE FROM idempotency_keys
		WHERE ctid IN (
			SELECT ctid FROM idempotency_keys WHERE ttl_at <= $1 ORDER BY ttl_at LIMIT $2
		)`, now, limit)
	if err != nil {
		return 0, fmt.Errorf("delete expired idempotency keys: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}
