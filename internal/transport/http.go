package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dcevallos/mercadillo/internal/handler"
	"github.com/dcevallos/mercadillo/internal/sesion"
	"github.com/dcevallos/mercadillo/internal/usuario"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Pedidos   *handler.PedidoHandler
	Productos *handler.ProductoHandler
	Carrito   *handler.CarritoHandler
	Sesiones  sesion.Store
}

func NewRouter(h Handlers) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Post("/auth/registro", h.Auth.Registro)
	r.Post("/auth/login", h.Auth.Login)
	r.Post("/auth/logout", h.Auth.Logout)

	// public catalog
	r.Get("/productos", h.Productos.Listar)
	r.Get("/productos/{idProducto}", h.Productos.Detalle)

	r.Group(func(r chi.Router) {
		r.Use(handler.Autenticar(h.Sesiones))

		r.Get("/perfil", h.Auth.Perfil)
		r.Put("/perfil", h.Auth.ActualizarPerfil)

		// consumer
		r.Get("/carrito", h.Carrito.Ver)
		r.Post("/carrito/items", h.Carrito.Agregar)
		r.Put("/carrito/items/{idItem}", h.Carrito.CambiarCantidad)
		r.Delete("/carrito/items/{idItem}", h.Carrito.Quitar)
		r.Post("/carrito/checkout", h.Carrito.Checkout)

		r.Get("/pedidos", h.Pedidos.ListarMisPedidos)
		r.Get("/pedidos/{idPedido}", h.Pedidos.DetalleMiPedido)
		r.Post("/pedidos/{idPedido}/pago", h.Pedidos.RegistrarPago)
		r.Post("/pedidos/{idPedido}/comprobante", h.Pedidos.AdjuntarComprobante)
		r.Put("/pedidos/{idPedido}/cancelar", h.Pedidos.Cancelar)
		r.Get("/pedidos/{idPedido}/factura", h.Pedidos.Factura)

		// vendor
		r.Group(func(r chi.Router) {
			r.Use(handler.RequireRol(usuario.RolVendedor))

			r.Get("/pedidos/vendedor", h.Pedidos.ListarPedidosVendedor)
			r.Get("/pedidos/vendedor/detalle/{idPedido}", h.Pedidos.DetalleVendedor)
			r.Put("/pedidos/vendedor/{idPedido}/estado", h.Pedidos.ActualizarEstadoVendedor)

			r.Get("/vendedor/productos", h.Productos.ListarMios)
			r.Post("/vendedor/productos", h.Productos.Crear)
			r.Put("/vendedor/productos/{idProducto}", h.Productos.Actualizar)
			r.Get("/vendedor/productos/precio-sugerido", h.Productos.RecomendarPrecio)
		})

		// admin
		r.Group(func(r chi.Router) {
			r.Use(handler.RequireRol(usuario.RolAdmin))

			r.Get("/admin/pedidos", h.Pedidos.ListarTodos)
			r.Put("/admin/pedidos/{idPedido}/pago", h.Pedidos.VerificarPago)
		})
	})

	return r
}
