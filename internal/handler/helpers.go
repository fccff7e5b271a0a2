package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/dcevallos/mercadillo/internal/carrito"
	"github.com/dcevallos/mercadillo/internal/pedido"
	"github.com/dcevallos/mercadillo/internal/producto"
	"github.com/dcevallos/mercadillo/internal/sesion"
	"github.com/dcevallos/mercadillo/internal/usuario"
)

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"error interno"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("handler: failed to write JSON response")
	}
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, pedido.ErrPedidoNotFound),
		errors.Is(err, producto.ErrProductoNotFound),
		errors.Is(err, carrito.ErrItemNotFound),
		errors.Is(err, usuario.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pedido.ErrNoAutorizado),
		errors.Is(err, producto.ErrNoEsPropietario):
		return http.StatusForbidden
	case errors.Is(err, sesion.ErrSesionNotFound),
		errors.Is(err, usuario.ErrCredencialesInvalidas):
		return http.StatusUnauthorized
	case errors.Is(err, usuario.ErrEmailExists),
		errors.Is(err, pedido.ErrInvalidStatusTransition):
		return http.StatusConflict
	case errors.Is(err, pedido.ErrPagoInvalido),
		errors.Is(err, pedido.ErrComprobanteRequerido),
		errors.Is(err, pedido.ErrTokenTarjetaRequerido),
		errors.Is(err, pedido.ErrNoCancelable),
		errors.Is(err, carrito.ErrCarritoVacio),
		errors.Is(err, carrito.ErrCantidadInvalida),
		errors.Is(err, carrito.ErrStockInsuficiente):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondWithServiceError(w http.ResponseWriter, err error) {
	code := mapErrorToStatusCode(err)
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Msg("handler: unexpected service error")
		respondWithError(w, code, "error interno del servidor")
		return
	}
	respondWithError(w, code, err.Error())
}
