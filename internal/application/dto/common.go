package dto

// ErrorResponse cuerpo de error HTTP.
// Details solo se envía en errores de creación múltiple (índice de pedido, ítem, campo e id).
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"error"`
	Details map[string]any `json:"detalles,omitempty"`
}

// MessageResponse respuesta simple con mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}
