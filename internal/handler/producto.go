package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"

	"github.com/dcevallos/mercadillo/internal/producto"
)

type ProductoHandler struct {
	svc producto.Service
}

func NewProductoHandler(svc producto.Service) *ProductoHandler {
	return &ProductoHandler{svc: svc}
}

func idProductoParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.FromString(chi.URLParam(r, "idProducto"))
	return id, err == nil
}

func (h *ProductoHandler) Listar(w http.ResponseWriter, r *http.Request) {
	filtro := producto.Filtro{
		Busqueda:  r.URL.Query().Get("q"),
		Categoria: r.URL.Query().Get("categoria"),
	}

	productos, err := h.svc.Listar(r.Context(), filtro)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, productos)
}

func (h *ProductoHandler) Detalle(w http.ResponseWriter, r *http.Request) {
	id, ok := idProductoParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "idProducto inválido")
		return
	}

	p, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

func (h *ProductoHandler) ListarMios(w http.ResponseWriter, r *http.Request) {
	ses := sesionFromContext(r.Context())

	productos, err := h.svc.ListarDeVendedor(r.Context(), ses.UsuarioID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, productos)
}

func (h *ProductoHandler) Crear(w http.ResponseWriter, r *http.Request) {
	ses := sesionFromContext(r.Context())

	var p producto.Producto
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondWithError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}
	p.VendedorID = ses.UsuarioID

	creado, err := h.svc.Crear(r.Context(), &p)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, creado)
}

func (h *ProductoHandler) Actualizar(w http.ResponseWriter, r *http.Request) {
	id, ok := idProductoParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "idProducto inválido")
		return
	}
	ses := sesionFromContext(r.Context())

	var p producto.Producto
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondWithError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}
	p.ID = id

	actualizado, err := h.svc.Actualizar(r.Context(), ses.UsuarioID, &p)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, actualizado)
}

func (h *ProductoHandler) RecomendarPrecio(w http.ResponseWriter, r *http.Request) {
	categoria := r.URL.Query().Get("categoria")
	if categoria == "" {
		respondWithError(w, http.StatusBadRequest, "categoria es obligatoria")
		return
	}

	precio, err := h.svc.RecomendarPrecio(r.Context(), categoria)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"categoria": categoria, "precioSugerido": precio})
}
