package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dcevallos/mercadillo/internal/factura"
	"github.com/dcevallos/mercadillo/internal/pedido"
)

type PedidoHandler struct {
	svc pedido.Service
}

func NewPedidoHandler(svc pedido.Service) *PedidoHandler {
	return &PedidoHandler{svc: svc}
}

// pedidoView decorates the raw order record with the resolved display status
// and, for the vendor, the transitions currently on offer. Every screen reads
// the same derivation instead of re-computing it.
type pedidoView struct {
	*pedido.Pedido
	EstadoVisible pedido.StatusView       `json:"estadoVisible"`
	Transiciones  []pedido.EstadoVendedor `json:"transicionesDisponibles"`
}

func newPedidoView(p *pedido.Pedido) pedidoView {
	return pedidoView{
		Pedido:        p,
		EstadoVisible: pedido.DisplayStatus(p),
		Transiciones:  pedido.AllowedTransitions(p),
	}
}

func newPedidoViews(pedidos []pedido.Pedido) []pedidoView {
	views := make([]pedidoView, 0, len(pedidos))
	for i := range pedidos {
		views = append(views, newPedidoView(&pedidos[i]))
	}
	return views
}

func idPedidoParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "idPedido"), 10, 64)
	return id, err == nil && id > 0
}

// --- consumer ---

func (h *PedidoHandler) ListarMisPedidos(w http.ResponseWriter, r *http.Request) {
	ses := sesionFromContext(r.Context())

	pedidos, err := h.svc.GetByCliente(r.Context(), ses.UsuarioID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newPedidoViews(pedidos))
}

func (h *PedidoHandler) DetalleMiPedido(w http.ResponseWriter, r *http.Request) {
	id, ok := idPedidoParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "idPedido inválido")
		return
	}
	ses := sesionFromContext(r.Context())

	p, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if p.ClienteID != ses.UsuarioID {
		respondWithError(w, http.StatusForbidden, pedido.ErrNoAutorizado.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, newPedidoView(p))
}

func (h *PedidoHandler) RegistrarPago(w http.ResponseWriter, r *http.Request) {
	id, ok := idPedidoParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "idPedido inválido")
		return
	}
	ses := sesionFromContext(r.Context())

	var pago pedido.Pago
	if err := json.NewDecoder(r.Body).Decode(&pago); err != nil {
		respondWithError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}

	p, err := h.svc.RegistrarPago(r.Context(), id, ses.UsuarioID, pago)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newPedidoView(p))
}

func (h *PedidoHandler) AdjuntarComprobante(w http.ResponseWriter, r *http.Request) {
	id, ok := idPedidoParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "idPedido inválido")
		return
	}
	ses := sesionFromContext(r.Context())

	var req struct {
		ComprobanteURL string `json:"comprobanteUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}

	p, err := h.svc.AdjuntarComprobante(r.Context(), id, ses.UsuarioID, req.ComprobanteURL)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newPedidoView(p))
}

func (h *PedidoHandler) Cancelar(w http.ResponseWriter, r *http.Request) {
	id, ok := idPedidoParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "idPedido inválido")
		return
	}
	ses := sesionFromContext(r.Context())

	p, err := h.svc.Cancelar(r.Context(), id, ses.UsuarioID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newPedidoView(p))
}

func (h *PedidoHandler) Factura(w http.ResponseWriter, r *http.Request) {
	id, ok := idPedidoParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "idPedido inválido")
		return
	}
	ses := sesionFromContext(r.Context())

	p, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if p.ClienteID != ses.UsuarioID && p.VendedorID != ses.UsuarioID {
		respondWithError(w, http.StatusForbidden, pedido.ErrNoAutorizado.Error())
		return
	}

	html, err := factura.RenderHTML(factura.Build(p))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

// --- vendor ---

func (h *PedidoHandler) ListarPedidosVendedor(w http.ResponseWriter, r *http.Request) {
	ses := sesionFromContext(r.Context())

	pedidos, err := h.svc.GetByVendedor(r.Context(), ses.UsuarioID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newPedidoViews(pedidos))
}

func (h *PedidoHandler) DetalleVendedor(w http.ResponseWriter, r *http.Request) {
	id, ok := idPedidoParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "idPedido inválido")
		return
	}
	ses := sesionFromContext(r.Context())

	p, err := h.svc.DetalleVendedor(r.Context(), id, ses.UsuarioID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newPedidoView(p))
}

type estadoRequest struct {
	EstadoPedidoVendedor pedido.EstadoVendedor `json:"estadoPedidoVendedor"`
}

func (h *PedidoHandler) ActualizarEstadoVendedor(w http.ResponseWriter, r *http.Request) {
	id, ok := idPedidoParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "idPedido inválido")
		return
	}
	ses := sesionFromContext(r.Context())

	var req estadoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}
	if req.EstadoPedidoVendedor == "" {
		respondWithError(w, http.StatusBadRequest, "estadoPedidoVendedor es obligatorio")
		return
	}

	p, err := h.svc.ActualizarEstadoVendedor(r.Context(), id, ses.UsuarioID, req.EstadoPedidoVendedor)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newPedidoView(p))
}

// --- admin ---

func (h *PedidoHandler) ListarTodos(w http.ResponseWriter, r *http.Request) {
	pedidos, err := h.svc.ListarTodos(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newPedidoViews(pedidos))
}

func (h *PedidoHandler) VerificarPago(w http.ResponseWriter, r *http.Request) {
	id, ok := idPedidoParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "idPedido inválido")
		return
	}

	var req struct {
		Aprobado bool `json:"aprobado"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}

	p, err := h.svc.VerificarPago(r.Context(), id, req.Aprobado)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newPedidoView(p))
}
