package entity

import "time"

// Company (empresa) pertenece a exactamente un usuario con rol empresa.
type Company struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Address     string
	Phone       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnedBy informa si la empresa pertenece al usuario.
func (c *Company) OwnedBy(userID string) bool {
	return c != nil && c.OwnerID == userID
}
