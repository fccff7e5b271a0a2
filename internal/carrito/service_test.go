package carrito_test

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcevallos/mercadillo/internal/carrito"
	"github.com/dcevallos/mercadillo/internal/pedido"
	"github.com/dcevallos/mercadillo/internal/producto"
)

type mockRepository struct {
	items   []carrito.ItemCarrito
	cleared bool
}

func (m *mockRepository) Upsert(ctx context.Context, item *carrito.ItemCarrito) error {
	m.items = append(m.items, *item)
	return nil
}

func (m *mockRepository) UpdateCantidad(ctx context.Context, clienteID uuid.UUID, itemID int64, cantidad int) error {
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, clienteID uuid.UUID, itemID int64) error {
	return nil
}

func (m *mockRepository) ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]carrito.ItemCarrito, error) {
	return m.items, nil
}

func (m *mockRepository) Clear(ctx context.Context, clienteID uuid.UUID) error {
	m.cleared = true
	m.items = nil
	return nil
}

type mockProductos struct {
	productos map[uuid.UUID]*producto.Producto
}

func (m *mockProductos) Crear(ctx context.Context, p *producto.Producto) (*producto.Producto, error) {
	return p, nil
}

func (m *mockProductos) GetByID(ctx context.Context, id uuid.UUID) (*producto.Producto, error) {
	p, ok := m.productos[id]
	if !ok {
		return nil, producto.ErrProductoNotFound
	}
	return p, nil
}

func (m *mockProductos) Listar(ctx context.Context, f producto.Filtro) ([]producto.Producto, error) {
	return nil, nil
}

func (m *mockProductos) ListarDeVendedor(ctx context.Context, vendedorID uuid.UUID) ([]producto.Producto, error) {
	return nil, nil
}

func (m *mockProductos) Actualizar(ctx context.Context, vendedorID uuid.UUID, p *producto.Producto) (*producto.Producto, error) {
	return p, nil
}

func (m *mockProductos) RecomendarPrecio(ctx context.Context, categoria string) (float64, error) {
	return 0, nil
}

type mockPedidos struct {
	pedido.Service
	creados []pedido.Pedido
}

func (m *mockPedidos) CrearPedido(ctx context.Context, p *pedido.Pedido) (*pedido.Pedido, error) {
	subtotal := 0.0
	for i := range p.Items {
		p.Items[i].Subtotal = float64(p.Items[i].Cantidad) * p.Items[i].PrecioUnitario
		subtotal += p.Items[i].Subtotal
	}
	p.ID = int64(len(m.creados) + 1)
	p.Subtotal = subtotal
	p.IVA = subtotal * pedido.IVARate
	p.Total = p.Subtotal + p.IVA
	p.Estado = pedido.PedidoPendiente
	p.EstadoPago = pedido.PagoPendiente
	m.creados = append(m.creados, *p)
	return p, nil
}

var (
	clienteID   = uuid.Must(uuid.FromString("123e4567-e89b-12d3-a456-426614174000"))
	vendedorA   = uuid.Must(uuid.FromString("550e8400-e29b-41d4-a716-446655440000"))
	vendedorB   = uuid.Must(uuid.FromString("6fa459ea-ee8a-3ca4-894e-db77e160355e"))
	productoPan = uuid.Must(uuid.FromString("9f8b1c3a-5d2e-4f6a-8b7c-1d2e3f4a5b6c"))
	productoCafe = uuid.Must(uuid.FromString("16fd2706-8baf-433b-82eb-8c7fada847da"))
)

func catalogo() *mockProductos {
	return &mockProductos{productos: map[uuid.UUID]*producto.Producto{
		productoPan:  {ID: productoPan, VendedorID: vendedorA, Nombre: "Pan artesanal", Precio: 2.50, Stock: 10},
		productoCafe: {ID: productoCafe, VendedorID: vendedorB, Nombre: "Café molido", Precio: 8.00, Stock: 3},
	}}
}

func TestService_Agregar(t *testing.T) {
	repo := &mockRepository{}
	svc := carrito.NewService(repo, catalogo(), &mockPedidos{})

	t.Run("invalid_quantity", func(t *testing.T) {
		err := svc.Agregar(context.Background(), clienteID, productoPan, 0)
		assert.ErrorIs(t, err, carrito.ErrCantidadInvalida)
	})

	t.Run("unknown_product", func(t *testing.T) {
		err := svc.Agregar(context.Background(), clienteID, uuid.Must(uuid.NewV4()), 1)
		assert.ErrorIs(t, err, producto.ErrProductoNotFound)
	})

	t.Run("success", func(t *testing.T) {
		err := svc.Agregar(context.Background(), clienteID, productoPan, 2)
		require.NoError(t, err)
		assert.Len(t, repo.items, 1)
	})
}

func TestService_Checkout(t *testing.T) {
	t.Run("empty_cart", func(t *testing.T) {
		svc := carrito.NewService(&mockRepository{}, catalogo(), &mockPedidos{})
		_, err := svc.Checkout(context.Background(), clienteID, "Ana")
		assert.ErrorIs(t, err, carrito.ErrCarritoVacio)
	})

	t.Run("insufficient_stock", func(t *testing.T) {
		repo := &mockRepository{items: []carrito.ItemCarrito{
			{ID: 1, ClienteID: clienteID, ProductoID: productoCafe, Cantidad: 5},
		}}
		svc := carrito.NewService(repo, catalogo(), &mockPedidos{})

		_, err := svc.Checkout(context.Background(), clienteID, "Ana")
		assert.ErrorIs(t, err, carrito.ErrStockInsuficiente)
		assert.False(t, repo.cleared, "cart must survive a failed checkout")
	})

	t.Run("one_order_per_vendor", func(t *testing.T) {
		repo := &mockRepository{items: []carrito.ItemCarrito{
			{ID: 1, ClienteID: clienteID, ProductoID: productoPan, Cantidad: 4},
			{ID: 2, ClienteID: clienteID, ProductoID: productoCafe, Cantidad: 1},
		}}
		pedidos := &mockPedidos{}
		svc := carrito.NewService(repo, catalogo(), pedidos)

		creados, err := svc.Checkout(context.Background(), clienteID, "Ana")
		require.NoError(t, err)
		require.Len(t, creados, 2)
		assert.True(t, repo.cleared)

		assert.Equal(t, vendedorA, creados[0].VendedorID)
		assert.InDelta(t, 10.0, creados[0].Subtotal, 0.001)
		assert.InDelta(t, 1.2, creados[0].IVA, 0.001)
		assert.InDelta(t, 11.2, creados[0].Total, 0.001)

		assert.Equal(t, vendedorB, creados[1].VendedorID)
		assert.InDelta(t, 8.0, creados[1].Subtotal, 0.001)

		for _, p := range creados {
			assert.Equal(t, "Esperando pago", pedido.DisplayStatus(&p).Label)
		}
	})
}
