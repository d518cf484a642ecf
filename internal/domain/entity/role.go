package entity

import (
	"fmt"
	"strings"
)

// Role es el conjunto cerrado de roles del marketplace.
type Role string

const (
	RoleEmpresa       Role = "empresa"       // dueño de una o más empresas
	RoleUsuarioNormal Role = "usuarionormal" // cliente que compra
	RoleRepartidor    Role = "repartidor"    // courier
	RoleOther         Role = "other"         // cualquier otro valor recibido
)

// ParseRole convierte el claim del token en Role. Valores desconocidos caen en RoleOther.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleEmpresa:
		return RoleEmpresa
	case RoleUsuarioNormal:
		return RoleUsuarioNormal
	case RoleRepartidor:
		return RoleRepartidor
	default:
		return RoleOther
	}
}

// Valid informa si r pertenece al enum (incluye RoleOther).
func (r Role) Valid() bool {
	switch r {
	case RoleEmpresa, RoleUsuarioNormal, RoleRepartidor, RoleOther:
		return true
	default:
		return false
	}
}

// Registrable informa si el rol se puede asignar al registrar una cuenta.
func (r Role) Registrable() bool {
	switch r {
	case RoleEmpresa, RoleUsuarioNormal, RoleRepartidor:
		return true
	case RoleOther:
		return false
	default:
		return false
	}
}

// Principal es el actor autenticado de una petición. Inmutable durante la petición.
type Principal struct {
	ID            string
	Role          Role
	DisplayName   string
	ContactHandle string // email
}

// Is informa si el principal tiene el rol r.
func (p Principal) Is(r Role) bool { return p.Role == r }

// String para logs.
func (p Principal) String() string {
	return fmt.Sprintf("%s(%s)", p.ID, p.Role)
}
