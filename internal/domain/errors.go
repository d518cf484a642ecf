package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrUnknownRole        = errors.New("rol desconocido")
)

// Errores de idempotencia para la creación múltiple de pedidos.
var (
	ErrIdempotencyKeyRequired = errors.New("idempotency key requerido")
	ErrIdempotencyInFlight    = errors.New("la solicitud con este idempotency key sigue en proceso")
	ErrIdempotencyMismatch    = errors.New("el idempotency key ya se usó con otro cuerpo")
)

// ValidationError describe un campo requerido ausente o malformado.
// Se compara con errors.Is(err, ErrInvalidInput).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError para el campo dado.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PermissionError describe un chequeo de rol o propiedad fallido.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string { return e.Message }

// Unwrap permite errors.Is(err, ErrForbidden).
func (e *PermissionError) Unwrap() error { return ErrForbidden }

// NewPermissionError construye un PermissionError con el mensaje visible al cliente.
func NewPermissionError(message string) *PermissionError {
	return &PermissionError{Message: message}
}

// BatchError identifica el primer pedido (y opcionalmente el ítem) que hizo fallar un lote.
// Index e ItemIndex son 1-based; ItemIndex = 0 significa que el fallo es del pedido completo.
// Cause es ErrInvalidInput (campo faltante) o ErrNotFound (id inexistente).
type BatchError struct {
	Index     int
	ItemIndex int
	Field     string
	ID        string
	Message   string
	Cause     error
}

func (e *BatchError) Error() string { return e.Message }

// Unwrap expone el sentinel de la causa.
func (e *BatchError) Unwrap() error { return e.Cause }

// Details devuelve el objeto "detalles" que acompaña a la respuesta de error.
func (e *BatchError) Details() map[string]any {
	d := map[string]any{"pedido": e.Index}
	if e.ItemIndex > 0 {
		d["item"] = e.ItemIndex
	}
	if e.Field != "" {
		d["campo"] = e.Field
	}
	if e.ID != "" {
		d["id"] = e.ID
	}
	return d
}

// MissingOrderField crea el error de un campo ausente en el pedido index.
func MissingOrderField(index int, field string) *BatchError {
	return &BatchError{
		Index:   index,
		Field:   field,
		Message: fmt.Sprintf("El pedido %d debe tener %s", index, field),
		Cause:   ErrInvalidInput,
	}
}

// MissingItemField crea el error de un campo ausente en el ítem item del pedido index.
func MissingItemField(index, item int, field string) *BatchError {
	return &BatchError{
		Index:     index,
		ItemIndex: item,
		Field:     field,
		Message:   fmt.Sprintf("El item %d del pedido %d debe tener %s", item, index, field),
		Cause:     ErrInvalidInput,
	}
}

// InvalidItemField crea el error de un valor inválido en un ítem.
func InvalidItemField(index, item int, field, reason string) *BatchError {
	return &BatchError{
		Index:     index,
		ItemIndex: item,
		Field:     field,
		Message:   fmt.Sprintf("El item %d del pedido %d tiene %s inválido: %s", item, index, field, reason),
		Cause:     ErrInvalidInput,
	}
}

// MissingReference crea el error de un id referenciado que no existe.
// entityName es "empresa", "producto" o "direccion".
func MissingReference(index, item int, entityName, field, id string) *BatchError {
	article := "El"
	if strings.HasSuffix(entityName, "a") || entityName == "direccion" {
		article = "La"
	}
	return &BatchError{
		Index:     index,
		ItemIndex: item,
		Field:     field,
		ID:        id,
		Message:   fmt.Sprintf("%s %s con ID %s no existe (pedido %d)", article, entityName, id, index),
		Cause:     ErrNotFound,
	}
}

// UnexpectedError fallo no previsto (DB caída, bug). Message es lo único que ve el cliente;
// Cause se registra en el log.
type UnexpectedError struct {
	Message string
	Cause   error
}

func (e *UnexpectedError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *UnexpectedError) Unwrap() error { return e.Cause }

// NewUnexpectedError envuelve cause con un mensaje genérico.
func NewUnexpectedError(message string, cause error) *UnexpectedError {
	return &UnexpectedError{Message: message, Cause: cause}
}
