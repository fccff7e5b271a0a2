package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dcevallos/mercadillo/internal/sesion"
	"github.com/dcevallos/mercadillo/internal/usuario"
)

type AuthHandler struct {
	usuarios usuario.Service
	sesiones sesion.Store
}

func NewAuthHandler(usuarios usuario.Service, sesiones sesion.Store) *AuthHandler {
	return &AuthHandler{usuarios: usuarios, sesiones: sesiones}
}

type registroRequest struct {
	Nombre    string      `json:"nombre"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Rol       usuario.Rol `json:"rol"`
	Telefono  string      `json:"telefono"`
	Direccion string      `json:"direccion"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sesionResponse struct {
	Token   string           `json:"token"`
	Usuario *usuario.Usuario `json:"usuario"`
}

func (h *AuthHandler) Registro(w http.ResponseWriter, r *http.Request) {
	var req registroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}

	u := &usuario.Usuario{
		Nombre:    req.Nombre,
		Email:     req.Email,
		Rol:       req.Rol,
		Telefono:  req.Telefono,
		Direccion: req.Direccion,
	}
	u, err := h.usuarios.Registrar(r.Context(), u, req.Password)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, u)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}

	u, err := h.usuarios.Autenticar(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	ses, err := h.sesiones.Create(r.Context(), u.ID, u.Rol, false)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sesionResponse{Token: ses.Token, Usuario: u})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		respondWithError(w, http.StatusUnauthorized, "se requiere un token de sesión")
		return
	}

	if err := h.sesiones.Destroy(r.Context(), token); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"mensaje": "sesión cerrada"})
}

func (h *AuthHandler) Perfil(w http.ResponseWriter, r *http.Request) {
	ses := sesionFromContext(r.Context())

	u, err := h.usuarios.GetByID(r.Context(), ses.UsuarioID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) ActualizarPerfil(w http.ResponseWriter, r *http.Request) {
	ses := sesionFromContext(r.Context())

	var req registroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}

	u, err := h.usuarios.GetByID(r.Context(), ses.UsuarioID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	u.Nombre = req.Nombre
	u.Telefono = req.Telefono
	u.Direccion = req.Direccion

	if err := h.usuarios.ActualizarPerfil(r.Context(), u); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, u)
}
