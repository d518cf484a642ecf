package entity

import (
	"strings"
	"time"
)

// Estados válidos para User.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa una cuenta del marketplace. El rol decide qué puede ver y hacer.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName devuelve "nombre apellido" recortado o, si está vacío, el email.
func (u *User) DisplayName() string {
	return DisplayName(u.FirstName, u.LastName, u.Email)
}

// DisplayName arma el nombre visible de una persona con el email como respaldo.
func DisplayName(first, last, email string) string {
	if name := strings.TrimSpace(first + " " + last); name != "" {
		return name
	}
	return email
}
