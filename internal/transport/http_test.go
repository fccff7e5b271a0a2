package transport_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcevallos/mercadillo/internal/handler"
	"github.com/dcevallos/mercadillo/internal/pedido"
	"github.com/dcevallos/mercadillo/internal/sesion"
	"github.com/dcevallos/mercadillo/internal/transport"
	"github.com/dcevallos/mercadillo/internal/usuario"
)

// memPedidoRepo keeps orders in memory so the router tests run the real
// service and its transition rules.
type memPedidoRepo struct {
	pedidos map[int64]*pedido.Pedido
}

func (m *memPedidoRepo) Create(ctx context.Context, p *pedido.Pedido) (int64, error) {
	p.ID = int64(len(m.pedidos) + 1)
	m.pedidos[p.ID] = p
	return p.ID, nil
}

func (m *memPedidoRepo) GetByID(ctx context.Context, id int64) (*pedido.Pedido, error) {
	p, ok := m.pedidos[id]
	if !ok {
		return nil, pedido.ErrPedidoNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPedidoRepo) GetByCliente(ctx context.Context, clienteID uuid.UUID) ([]pedido.Pedido, error) {
	out := make([]pedido.Pedido, 0)
	for _, p := range m.pedidos {
		if p.ClienteID == clienteID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPedidoRepo) GetByVendedor(ctx context.Context, vendedorID uuid.UUID) ([]pedido.Pedido, error) {
	out := make([]pedido.Pedido, 0)
	for _, p := range m.pedidos {
		if p.VendedorID == vendedorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPedidoRepo) ListAll(ctx context.Context) ([]pedido.Pedido, error) {
	out := make([]pedido.Pedido, 0)
	for _, p := range m.pedidos {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memPedidoRepo) UpdateEstadoVendedor(ctx context.Context, id int64, estado pedido.EstadoVendedor) error {
	p, ok := m.pedidos[id]
	if !ok {
		return pedido.ErrPedidoNotFound
	}
	p.EstadoVendedor = estado
	return nil
}

func (m *memPedidoRepo) UpdatePago(ctx context.Context, id int64, estadoPago pedido.EstadoPago, estado pedido.EstadoPedido, metodo pedido.MetodoPago, comprobanteURL string) error {
	p, ok := m.pedidos[id]
	if !ok {
		return pedido.ErrPedidoNotFound
	}
	p.EstadoPago = estadoPago
	p.Estado = estado
	if metodo != "" {
		p.MetodoPago = metodo
	}
	if comprobanteURL != "" {
		p.ComprobanteURL = comprobanteURL
	}
	return nil
}

func (m *memPedidoRepo) Cancel(ctx context.Context, id int64) error {
	p, ok := m.pedidos[id]
	if !ok {
		return pedido.ErrPedidoNotFound
	}
	p.Estado = pedido.PedidoCancelado
	p.EstadoPago = pedido.PagoCancelado
	return nil
}

// memSesiones is an in-memory sesion.Store for tests.
type memSesiones struct {
	sesiones map[string]*sesion.Sesion
}

func (m *memSesiones) Create(ctx context.Context, usuarioID uuid.UUID, rol usuario.Rol, invitado bool) (*sesion.Sesion, error) {
	token := uuid.Must(uuid.NewV4()).String()
	ses := &sesion.Sesion{Token: token, UsuarioID: usuarioID, Rol: rol, Invitado: invitado}
	m.sesiones[token] = ses
	return ses, nil
}

func (m *memSesiones) Get(ctx context.Context, token string) (*sesion.Sesion, error) {
	ses, ok := m.sesiones[token]
	if !ok {
		return nil, sesion.ErrSesionNotFound
	}
	return ses, nil
}

func (m *memSesiones) Destroy(ctx context.Context, token string) error {
	delete(m.sesiones, token)
	return nil
}

var (
	vendedorID = uuid.Must(uuid.FromString("550e8400-e29b-41d4-a716-446655440000"))
	clienteID  = uuid.Must(uuid.FromString("123e4567-e89b-12d3-a456-426614174000"))
)

type fixture struct {
	server   *httptest.Server
	repo     *memPedidoRepo
	vendedor string // bearer token
	cliente  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := &memPedidoRepo{pedidos: make(map[int64]*pedido.Pedido)}
	sesiones := &memSesiones{sesiones: make(map[string]*sesion.Sesion)}

	svc := pedido.NewService(repo)
	router := transport.NewRouter(transport.Handlers{
		Auth:      handler.NewAuthHandler(nil, sesiones),
		Pedidos:   handler.NewPedidoHandler(svc),
		Productos: handler.NewProductoHandler(nil),
		Carrito:   handler.NewCarritoHandler(nil),
		Sesiones:  sesiones,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	sesVendedor, err := sesiones.Create(context.Background(), vendedorID, usuario.RolVendedor, false)
	require.NoError(t, err)
	sesCliente, err := sesiones.Create(context.Background(), clienteID, usuario.RolCliente, false)
	require.NoError(t, err)

	return &fixture{server: server, repo: repo, vendedor: sesVendedor.Token, cliente: sesCliente.Token}
}

func (f *fixture) seed(p pedido.Pedido) {
	cp := p
	f.repo.pedidos[cp.ID] = &cp
}

func (f *fixture) do(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, f.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRouter_VendorDetail(t *testing.T) {
	f := newFixture(t)
	f.seed(pedido.Pedido{ID: 1, VendedorID: vendedorID, ClienteID: clienteID, Estado: pedido.PedidoProcesando, EstadoPago: pedido.PagoPagado, EstadoVendedor: pedido.VendedorNuevo})

	t.Run("without_token", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/pedidos/vendedor/detalle/1", "", "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("consumer_role_is_rejected", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/pedidos/vendedor/detalle/1", f.cliente, "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("owning_vendor_sees_status_and_transitions", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/pedidos/vendedor/detalle/1", f.vendedor, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		estadoVisible := body["estadoVisible"].(map[string]any)
		assert.Equal(t, "Nuevo", estadoVisible["estado"])
		assert.Equal(t, []any{"EN_PROCESO", "CANCELADO"}, body["transicionesDisponibles"])
	})

	t.Run("foreign_order_is_forbidden", func(t *testing.T) {
		f.seed(pedido.Pedido{ID: 2, VendedorID: uuid.Must(uuid.NewV4()), ClienteID: clienteID, EstadoPago: pedido.PagoPagado})

		resp := f.do(t, http.MethodGet, "/pedidos/vendedor/detalle/2", f.vendedor, "")
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Contains(t, body["error"], "no autorizado")
	})
}

func TestRouter_ActualizarEstado(t *testing.T) {
	f := newFixture(t)
	f.seed(pedido.Pedido{ID: 1, VendedorID: vendedorID, ClienteID: clienteID, Estado: pedido.PedidoProcesando, EstadoPago: pedido.PagoPagado, EstadoVendedor: pedido.VendedorNuevo})

	t.Run("valid_transition", func(t *testing.T) {
		resp := f.do(t, http.MethodPut, "/pedidos/vendedor/1/estado", f.vendedor, `{"estadoPedidoVendedor":"EN_PROCESO"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "EN_PROCESO", body["estadoPedidoVendedor"])
		estadoVisible := body["estadoVisible"].(map[string]any)
		assert.Equal(t, "En Proceso", estadoVisible["estado"])
	})

	t.Run("repeat_is_conflict", func(t *testing.T) {
		resp := f.do(t, http.MethodPut, "/pedidos/vendedor/1/estado", f.vendedor, `{"estadoPedidoVendedor":"EN_PROCESO"}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("missing_state_is_bad_request", func(t *testing.T) {
		resp := f.do(t, http.MethodPut, "/pedidos/vendedor/1/estado", f.vendedor, `{}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRouter_ConsumerFlow(t *testing.T) {
	f := newFixture(t)
	f.seed(pedido.Pedido{ID: 1, VendedorID: vendedorID, ClienteID: clienteID, Estado: pedido.PedidoPendiente, EstadoPago: pedido.PagoPendiente})

	t.Run("pay_cash", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/pedidos/1/pago", f.cliente, `{"metodoPago":"EFECTIVO"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "PAGADO", body["estadoPago"])
		estadoVisible := body["estadoVisible"].(map[string]any)
		assert.Equal(t, "No asignado", estadoVisible["estado"])
		assert.Equal(t, []any{"NUEVO"}, body["transicionesDisponibles"])
	})

	t.Run("cancel", func(t *testing.T) {
		f.seed(pedido.Pedido{ID: 2, VendedorID: vendedorID, ClienteID: clienteID, Estado: pedido.PedidoPendiente, EstadoPago: pedido.PagoPendiente})

		resp := f.do(t, http.MethodPut, "/pedidos/2/cancelar", f.cliente, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		estadoVisible := body["estadoVisible"].(map[string]any)
		assert.Equal(t, "Cancelado", estadoVisible["estado"])
		assert.Equal(t, []any{}, body["transicionesDisponibles"])
	})

	t.Run("transfer_requires_proof", func(t *testing.T) {
		f.seed(pedido.Pedido{ID: 3, VendedorID: vendedorID, ClienteID: clienteID, Estado: pedido.PedidoPendiente, EstadoPago: pedido.PagoPendiente})

		resp := f.do(t, http.MethodPost, "/pedidos/3/pago", f.cliente, `{"metodoPago":"TRANSFERENCIA"}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}
