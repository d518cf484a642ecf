package memory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.IdempotencyRepository = (*IdempotencyRepo)(nil)

// IdempotencyRepo claves de idempotencia en memoria. Las vencidas se reemplazan al reservar.
type IdempotencyRepo struct{ s *session }

func cloneRecord(r entity.IdempotencyRecord) entity.IdempotencyRecord {
	r.ResponseBody = append([]byte(nil), r.ResponseBody...)
	return r
}

func (r *IdempotencyRepo) Reserve(_ context.Context, key, requestHash string, ttlAt time.Time) (*entity.IdempotencyRecord, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, domain.ErrIdempotencyKeyRequired
	}
	now := time.Now().UTC()

	defer r.s.lock()()
	st := r.s.state()

	if existing, ok := st.idem[key]; ok && !existing.Expired(now) {
		out := cloneRecord(existing)
		switch {
		case existing.RequestHash != requestHash:
			return &out, domain.ErrIdempotencyMismatch
		case existing.Status == entity.IdempotencyStatusProcessing:
			return &out, domain.ErrIdempotencyInFlight
		default:
			return &out, domain.ErrDuplicate
		}
	}

	rec := entity.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Status:      entity.IdempotencyStatusProcessing,
		TTLAt:       ttlAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	st.idem[key] = rec
	out := cloneRecord(rec)
	return &out, nil
}

func (r *IdempotencyRepo) MarkDone(_ context.Context, key string, responseBody []byte, httpStatus int, ttlAt time.Time) error {
	defer r.s.lock()()
	st := r.s.state()
	rec, ok := st.idem[key]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Status = entity.IdempotencyStatusDone
	rec.ResponseBody = append([]byte(nil), responseBody...)
	rec.HTTPStatus = httpStatus
	rec.TTLAt = ttlAt
	rec.UpdatedAt = time.Now().UTC()
	st.idem[key] = rec
	return nil
}

func (r *IdempotencyRepo) Release(_ context.Context, key string) error {
	defer r.s.lock()()
	delete(r.s.state().idem, key)
	return nil
}

func (r *IdempotencyRepo) DeleteExpired(_ context.Context, now time.Time, limit int) (int, error) {
	defer r.s.lock()()
	st := r.s.state()
	deleted := 0
	for k, rec := range st.idem {
		if limit > 0 && deleted >= limit {
			break
		}
		if rec.Expired(now) {
			delete(st.idem, k)
			deleted++
		}
	}
	return deleted, nil
}
