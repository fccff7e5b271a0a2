package carrito

import (
	"time"

	"github.com/gofrs/uuid"
)

// ItemCarrito is one product line in a consumer's cart. Prices are not stored
// here: the catalog price at checkout time is what counts.
type ItemCarrito struct {
	ID         int64     `json:"id" db:"id"`
	ClienteID  uuid.UUID `json:"idCliente" db:"cliente_id"`
	ProductoID uuid.UUID `json:"idProducto" db:"producto_id"`
	Cantidad   int       `json:"cantidad" db:"cantidad"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}
