package ordering

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/mercado-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

const (
	defaultCleanupInterval  = 10 * time.Minute
	defaultCleanupBatchSize = 500
)

// IdempotencyCleaner borra periódicamente las claves de idempotencia vencidas.
type IdempotencyCleaner struct {
	repo      repository.IdempotencyRepository
	log       zerolog.Logger
	interval  time.Duration
	batchSize int
	onDeleted func(n int)
}

// NewIdempotencyCleaner construye el worker. interval o batchSize <= 0 usan los valores por defecto.
// onDeleted es opcional y recibe cuántas claves se borraron en cada corrida.
func NewIdempotencyCleaner(repo repository.IdempotencyRepository, log zerolog.Logger, interval time.Duration, batchSize int, onDeleted func(n int)) *IdempotencyCleaner {
	if interval <= 0 {
		interval = defaultCleanupInterval
	}
	if batchSize <= 0 {
		batchSize = defaultCleanupBatchSize
	}
	if onDeleted == nil {
		onDeleted = func(int) {}
	}
	return &IdempotencyCleaner{repo: repo, log: log, interval: interval, batchSize: batchSize, onDeleted: onDeleted}
}

// Run limpia al arrancar y luego en cada tick hasta que se cancele ctx.
func (w *IdempotencyCleaner) Run(ctx context.Context) {
	w.cleanup(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.cleanup(ctx)
		}
	}
}

func (w *IdempotencyCleaner) cleanup(ctx context.Context) {
	deleted, err := w.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		w.log.Warn().Err(err).Msg("limpieza de claves de idempotencia fallida")
		return
	}
	w.onDeleted(deleted)
	if deleted > 0 {
		w.log.Info().Int("deleted", deleted).Msg("claves de idempotencia vencidas eliminadas")
	}
}

// DeleteExpired borra en lotes todas las claves con ttl <= now.
func (w *IdempotencyCleaner) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		deleted, err := w.repo.DeleteExpired(ctx, now, w.batchSize)
		if err != nil {
			return total, err
		}
		total += deleted
		if deleted < w.batchSize {
			return total, nil
		}
	}
}
