package pedido

// StatusView is what every screen renders for an order: a single label plus
// its badge colors. Resolution is pure and total: unknown enum values fall
// through to the raw string, never to an error.
type StatusView struct {
	Label      string `json:"estado"`
	Color      string `json:"color"`
	Background string `json:"fondo"`
}

const (
	fallbackColor      = "#64748B"
	fallbackBackground = "#F1F5F9"

	// LabelSinAsignar is shown for paid orders the vendor has not claimed.
	LabelSinAsignar = "No asignado"
)

var vendedorLabels = map[EstadoVendedor]string{
	VendedorNuevo:      "Nuevo",
	VendedorEnProceso:  "En Proceso",
	VendedorDespachado: "Despachado",
	VendedorEntregado:  "Entregado",
	VendedorCancelado:  "Cancelado",
}

var statusPalette = map[string][2]string{
	"Cancelado":        {"#DC2626", "#FEE2E2"},
	"Esperando pago":   {"#D97706", "#FEF3C7"},
	"Verificando pago": {"#2563EB", "#DBEAFE"},
	"Pago rechazado":   {"#B91C1C", "#FEE2E2"},
	"Nuevo":            {"#4F46E5", "#E0E7FF"},
	"En Proceso":       {"#B45309", "#FEF3C7"},
	"Despachado":       {"#0284C7", "#E0F2FE"},
	"Entregado":        {"#16A34A", "#DCFCE7"},
}

// DisplayStatus maps an order's three sub-state fields to the one label shown
// on badges. Evaluation is strict priority order, first match wins:
// cancellation beats payment, payment beats fulfillment.
func DisplayStatus(p *Pedido) StatusView {
	return paint(displayLabel(p))
}

func displayLabel(p *Pedido) string {
	if p.Cancelado() {
		return "Cancelado"
	}

	switch p.EstadoPago {
	case PagoPendiente:
		return "Esperando pago"
	case PagoEnVerificacion:
		return "Verificando pago"
	case PagoRechazado:
		return "Pago rechazado"
	case PagoPagado:
		if p.EstadoVendedor == VendedorSinAsignar {
			return LabelSinAsignar
		}
		if label, ok := vendedorLabels[p.EstadoVendedor]; ok {
			return label
		}
		return string(p.EstadoVendedor)
	}

	if p.Estado == "" {
		return "Pendiente"
	}
	return string(p.Estado)
}

func paint(label string) StatusView {
	if colors, ok := statusPalette[label]; ok {
		return StatusView{Label: label, Color: colors[0], Background: colors[1]}
	}
	return StatusView{Label: label, Color: fallbackColor, Background: fallbackBackground}
}

// nextStates is the vendor fulfillment state machine: a linear progression
// with an early-cancellation branch. ENTREGADO and CANCELADO are terminal.
var nextStates = map[EstadoVendedor][]EstadoVendedor{
	VendedorSinAsignar: {VendedorNuevo},
	VendedorNuevo:      {VendedorEnProceso, VendedorCancelado},
	VendedorEnProceso:  {VendedorDespachado, VendedorCancelado},
	VendedorDespachado: {VendedorEntregado},
	VendedorEntregado:  {},
	VendedorCancelado:  {},
}

// NextStates returns the fulfillment states reachable from current, ignoring
// order-level gating. Unrecognized states get nothing.
func NextStates(current EstadoVendedor) []EstadoVendedor {
	states, ok := nextStates[current]
	if !ok {
		return []EstadoVendedor{}
	}
	out := make([]EstadoVendedor, len(states))
	copy(out, states)
	return out
}

// AllowedTransitions returns the fulfillment states the vendor may move the
// order to. A cancelled order offers nothing; fulfillment never advances
// until payment is confirmed.
func AllowedTransitions(p *Pedido) []EstadoVendedor {
	if p.Cancelado() || p.EstadoPago != PagoPagado {
		return []EstadoVendedor{}
	}
	return NextStates(p.EstadoVendedor)
}
