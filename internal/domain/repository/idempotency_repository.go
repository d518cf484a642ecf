package repository

import (
	"context"
	"time"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
)

// IdempotencyRepository reserva claves de idempotencia para la creación múltiple de pedidos.
type IdempotencyRepository interface {
	// Reserve crea el registro en estado processing. Si la clave existe y no venció devuelve
	// el registro existente junto con domain.ErrIdempotencyInFlight (processing),
	// domain.ErrIdempotencyMismatch (hash distinto) o domain.ErrDuplicate (done, mismo hash).
	Reserve(ctx context.Context, key, requestHash string, ttlAt time.Time) (*entity.IdempotencyRecord, error)
	// MarkDone guarda la respuesta y extiende la vida de la clave hasta ttlAt.
	MarkDone(ctx context.Context, key string, responseBody []byte, httpStatus int, ttlAt time.Time) error
	// Release borra la clave para permitir reintentos tras un fallo.
	Release(ctx context.Context, key string) error
	// DeleteExpired borra hasta limit registros con ttl_at <= now y devuelve cuántos borró.
	DeleteExpired(ctx context.Context, now time.Time, limit int) (int, error)
}
