package producto

import (
	"time"

	"github.com/gofrs/uuid"
)

type Producto struct {
	ID          uuid.UUID `json:"id" db:"id"`
	VendedorID  uuid.UUID `json:"idVendedor" db:"vendedor_id"`
	Nombre      string    `json:"nombre" db:"nombre"`
	Descripcion string    `json:"descripcion,omitempty" db:"descripcion"`
	Categoria   string    `json:"categoria" db:"categoria"`
	Precio      float64   `json:"precio" db:"precio"`
	Stock       int       `json:"stock" db:"stock"`
	ImagenURL   string    `json:"imagenUrl,omitempty" db:"imagen_url"`
	Activo      bool      `json:"activo" db:"activo"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Filtro narrows catalog listings: free-text search plus category, the two
// filters the storefront exposes.
type Filtro struct {
	Busqueda  string
	Categoria string
}
