package factura_test

import (
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcevallos/mercadillo/internal/factura"
	"github.com/dcevallos/mercadillo/internal/pedido"
)

func ejemplo() *pedido.Pedido {
	return &pedido.Pedido{
		ID:            42,
		Numero:        7,
		ClienteNombre: "Ana Suárez",
		Estado:        pedido.PedidoProcesando,
		EstadoPago:    pedido.PagoPagado,
		EstadoVendedor: pedido.VendedorEnProceso,
		MetodoPago:    pedido.MetodoEfectivo,
		Subtotal:      25.00,
		IVA:           3.00,
		Total:         28.00,
		Items: []pedido.Item{
			{ProductoID: uuid.Must(uuid.NewV4()), Nombre: "Pan artesanal", Cantidad: 2, PrecioUnitario: 10, Subtotal: 20},
			{ProductoID: uuid.Must(uuid.NewV4()), Nombre: "Café molido", Cantidad: 1, PrecioUnitario: 5, Subtotal: 5},
		},
		CreatedAt: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuild(t *testing.T) {
	f := factura.Build(ejemplo())

	assert.Equal(t, "FAC-000007-42", f.Numero)
	assert.Equal(t, "Ana Suárez", f.ClienteNombre)
	assert.Equal(t, "En Proceso", f.Estado)
	require.Len(t, f.Lineas, 2)
	assert.Equal(t, "Pan artesanal", f.Lineas[0].Descripcion)
	assert.Equal(t, 28.00, f.Total)
	assert.Equal(t, f.Subtotal+f.IVA, f.Total)
}

func TestRenderHTML(t *testing.T) {
	html, err := factura.RenderHTML(factura.Build(ejemplo()))
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, "Factura FAC-000007-42")
	assert.Contains(t, out, "Pan artesanal")
	assert.Contains(t, out, "IVA (12%): $3.00")
	assert.Contains(t, out, "Total: $28.00")
	assert.Contains(t, out, "2026-03-15")
}
