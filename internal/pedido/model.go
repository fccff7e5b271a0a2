package pedido

import (
	"time"

	"github.com/gofrs/uuid"
)

// EstadoPago tracks whether money has been verified as received.
type EstadoPago string

const (
	PagoPendiente      EstadoPago = "PENDIENTE"
	PagoEnVerificacion EstadoPago = "EN_VERIFICACION"
	PagoPagado         EstadoPago = "PAGADO"
	PagoRechazado      EstadoPago = "RECHAZADO"
	PagoCancelado      EstadoPago = "CANCELADO"
)

func (e EstadoPago) String() string {
	return string(e)
}

// EstadoPedido is the coarse order lifecycle field. It mostly matters for
// detecting cancellation; the rest of the values mirror whatever stage the
// backend last recorded.
type EstadoPedido string

const (
	PedidoPendiente             EstadoPedido = "PENDIENTE"
	PedidoProcesando            EstadoPedido = "PROCESANDO"
	PedidoPendienteVerificacion EstadoPedido = "PENDIENTE_VERIFICACION"
	PedidoCompletado            EstadoPedido = "COMPLETADO"
	PedidoEnviado               EstadoPedido = "ENVIADO"
	PedidoEntregado             EstadoPedido = "ENTREGADO"
	PedidoCancelado             EstadoPedido = "CANCELADO"
)

func (e EstadoPedido) String() string {
	return string(e)
}

// EstadoVendedor is the vendor fulfillment sub-state. The empty string means
// the vendor has not claimed the order yet.
type EstadoVendedor string

const (
	VendedorSinAsignar EstadoVendedor = ""
	VendedorNuevo      EstadoVendedor = "NUEVO"
	VendedorEnProceso  EstadoVendedor = "EN_PROCESO"
	VendedorDespachado EstadoVendedor = "DESPACHADO"
	VendedorEntregado  EstadoVendedor = "ENTREGADO"
	VendedorCancelado  EstadoVendedor = "CANCELADO"
)

func (e EstadoVendedor) String() string {
	return string(e)
}

// MetodoPago is the payment method chosen by the consumer at checkout.
type MetodoPago string

const (
	MetodoEfectivo      MetodoPago = "EFECTIVO"
	MetodoTransferencia MetodoPago = "TRANSFERENCIA"
	MetodoTarjeta       MetodoPago = "TARJETA"
)

// IVARate is the fixed VAT applied to every order.
const IVARate = 0.12

// Item is one purchased line inside an order.
type Item struct {
	ID             int64     `json:"id" db:"id"`
	PedidoID       int64     `json:"idPedido" db:"pedido_id"`
	ProductoID     uuid.UUID `json:"idProducto" db:"producto_id"`
	Nombre         string    `json:"nombreProducto" db:"nombre"`
	Cantidad       int       `json:"cantidad" db:"cantidad"`
	PrecioUnitario float64   `json:"precioUnitario" db:"precio_unitario"`
	Subtotal       float64   `json:"subtotal" db:"subtotal"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// Pedido is one purchase placed by a consumer against one vendor.
type Pedido struct {
	ID             int64          `json:"idPedido" db:"id"`
	Numero         int64          `json:"numeroPedido" db:"numero"` // vendor-scoped sequential
	ClienteID      uuid.UUID      `json:"idCliente" db:"cliente_id"`
	ClienteNombre  string         `json:"nombreCliente" db:"cliente_nombre"`
	VendedorID     uuid.UUID      `json:"idVendedor" db:"vendedor_id"`
	Estado         EstadoPedido   `json:"estadoPedido" db:"estado"`
	EstadoPago     EstadoPago     `json:"estadoPago" db:"estado_pago"`
	EstadoVendedor EstadoVendedor `json:"estadoPedidoVendedor" db:"estado_vendedor"`
	MetodoPago     MetodoPago     `json:"metodoPago,omitempty" db:"metodo_pago"`
	ComprobanteURL string         `json:"comprobanteUrl,omitempty" db:"comprobante_url"`
	Subtotal       float64        `json:"subtotal" db:"subtotal"`
	IVA            float64        `json:"iva" db:"iva"`
	Total          float64        `json:"total" db:"total"`
	Items          []Item         `json:"items" db:"-"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`
}

// Cancelado reports whether the order is cancelled through either the coarse
// lifecycle field or the payment field. The fulfillment field is checked
// separately because it only exists for paid orders.
func (p *Pedido) Cancelado() bool {
	return p.Estado == PedidoCancelado || p.EstadoPago == PagoCancelado
}
