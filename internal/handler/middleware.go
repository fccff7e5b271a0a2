package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/dcevallos/mercadillo/internal/sesion"
	"github.com/dcevallos/mercadillo/internal/usuario"
)

type contextKey string

const sesionKey contextKey = "sesion"

// Autenticar resolves the bearer token into a typed session and rejects
// requests without one.
func Autenticar(store sesion.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respondWithError(w, http.StatusUnauthorized, "se requiere un token de sesión")
				return
			}

			ses, err := store.Get(r.Context(), token)
			if err != nil {
				respondWithServiceError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sesionKey, ses)))
		})
	}
}

// RequireRol guards a route group for a single role. It assumes Autenticar
// already ran.
func RequireRol(rol usuario.Rol) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ses := sesionFromContext(r.Context())
			if ses == nil || ses.Rol != rol {
				respondWithError(w, http.StatusForbidden, "rol insuficiente para esta operación")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sesionFromContext(ctx context.Context) *sesion.Sesion {
	ses, _ := ctx.Value(sesionKey).(*sesion.Sesion)
	return ses
}
