package entity

import "time"

// IdempotencyStatus ciclo de vida de un idempotency key.
type IdempotencyStatus string

const (
	IdempotencyStatusProcessing IdempotencyStatus = "processing"
	IdempotencyStatusDone       IdempotencyStatus = "done"
)

// IdempotencyRecord guarda la respuesta de una creación múltiple para poder reenviarla.
type IdempotencyRecord struct {
	Key          string // principalID:clave del header
	RequestHash  string
	Status       IdempotencyStatus
	ResponseBody []byte
	HTTPStatus   int
	TTLAt        time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Expired informa si el registro venció.
func (r *IdempotencyRecord) Expired(now time.Time) bool {
	return !r.TTLAt.After(now)
}
