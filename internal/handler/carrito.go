package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"

	"github.com/dcevallos/mercadillo/internal/carrito"
)

type CarritoHandler struct {
	svc carrito.Service
}

func NewCarritoHandler(svc carrito.Service) *CarritoHandler {
	return &CarritoHandler{svc: svc}
}

func (h *CarritoHandler) Ver(w http.ResponseWriter, r *http.Request) {
	ses := sesionFromContext(r.Context())

	items, err := h.svc.Ver(r.Context(), ses.UsuarioID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

func (h *CarritoHandler) Agregar(w http.ResponseWriter, r *http.Request) {
	ses := sesionFromContext(r.Context())

	var req struct {
		ProductoID uuid.UUID `json:"idProducto"`
		Cantidad   int       `json:"cantidad"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}

	if err := h.svc.Agregar(r.Context(), ses.UsuarioID, req.ProductoID, req.Cantidad); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{"mensaje": "producto agregado al carrito"})
}

func itemIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "idItem"), 10, 64)
	return id, err == nil && id > 0
}

func (h *CarritoHandler) CambiarCantidad(w http.ResponseWriter, r *http.Request) {
	id, ok := itemIDParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "idItem inválido")
		return
	}
	ses := sesionFromContext(r.Context())

	var req struct {
		Cantidad int `json:"cantidad"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}

	if err := h.svc.CambiarCantidad(r.Context(), ses.UsuarioID, id, req.Cantidad); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"mensaje": "cantidad actualizada"})
}

func (h *CarritoHandler) Quitar(w http.ResponseWriter, r *http.Request) {
	id, ok := itemIDParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "idItem inválido")
		return
	}
	ses := sesionFromContext(r.Context())

	if err := h.svc.Quitar(r.Context(), ses.UsuarioID, id); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"mensaje": "producto eliminado del carrito"})
}

func (h *CarritoHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ses := sesionFromContext(r.Context())

	var req struct {
		NombreCliente string `json:"nombreCliente"`
	}
	// an empty body is fine, the name is optional
	_ = json.NewDecoder(r.Body).Decode(&req)

	pedidos, err := h.svc.Checkout(r.Context(), ses.UsuarioID, req.NombreCliente)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, pedidos)
}
