package usuario

import (
	"time"

	"github.com/gofrs/uuid"
)

// Rol partitions the app's users: consumers buy, vendors sell, admins verify
// payments.
type Rol string

const (
	RolCliente  Rol = "CLIENTE"
	RolVendedor Rol = "VENDEDOR"
	RolAdmin    Rol = "ADMIN"
)

func (r Rol) Valido() bool {
	switch r {
	case RolCliente, RolVendedor, RolAdmin:
		return true
	}
	return false
}

type Usuario struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Nombre       string    `json:"nombre" db:"nombre"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Rol          Rol       `json:"rol" db:"rol"`
	Telefono     string    `json:"telefono,omitempty" db:"telefono"`
	Direccion    string    `json:"direccion,omitempty" db:"direccion"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
