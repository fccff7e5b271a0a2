package storeclient

import (
	"github.com/gofrs/uuid"

	"github.com/dcevallos/mercadillo/internal/pedido"
)

// rawPedido absorbs the field-name drift between endpoints (idPedido vs id,
// nombreCliente vs clienteNombre vs a nested cliente object) so the rest of
// the code only ever sees the canonical shape.
type rawPedido struct {
	IDPedido int64 `json:"idPedido"`
	ID       int64 `json:"id"`

	Numero int64 `json:"numeroPedido"`

	ClienteID     uuid.UUID `json:"idCliente"`
	NombreCliente string    `json:"nombreCliente"`
	ClienteNombre string    `json:"clienteNombre"`
	Cliente       *struct {
		Nombre string `json:"nombre"`
	} `json:"cliente"`

	VendedorID uuid.UUID `json:"idVendedor"`

	Estado         pedido.EstadoPedido   `json:"estadoPedido"`
	EstadoPago     pedido.EstadoPago     `json:"estadoPago"`
	EstadoVendedor pedido.EstadoVendedor `json:"estadoPedidoVendedor"`
	MetodoPago     pedido.MetodoPago     `json:"metodoPago"`
	ComprobanteURL string                `json:"comprobanteUrl"`

	Subtotal float64       `json:"subtotal"`
	IVA      float64       `json:"iva"`
	Total    float64       `json:"total"`
	Items    []pedido.Item `json:"items"`
}

func (r *rawPedido) normalize() *pedido.Pedido {
	p := &pedido.Pedido{
		ID:             r.IDPedido,
		Numero:         r.Numero,
		ClienteID:      r.ClienteID,
		ClienteNombre:  r.NombreCliente,
		VendedorID:     r.VendedorID,
		Estado:         r.Estado,
		EstadoPago:     r.EstadoPago,
		EstadoVendedor: r.EstadoVendedor,
		MetodoPago:     r.MetodoPago,
		ComprobanteURL: r.ComprobanteURL,
		Subtotal:       r.Subtotal,
		IVA:            r.IVA,
		Total:          r.Total,
		Items:          r.Items,
	}
	if p.ID == 0 {
		p.ID = r.ID
	}
	if p.ClienteNombre == "" {
		p.ClienteNombre = r.ClienteNombre
	}
	if p.ClienteNombre == "" && r.Cliente != nil {
		p.ClienteNombre = r.Cliente.Nombre
	}
	if p.Items == nil {
		p.Items = []pedido.Item{}
	}
	return p
}
