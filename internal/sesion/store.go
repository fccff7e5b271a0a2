// Package sesion holds the authenticated session for a bearer token: one
// typed object with explicit creation on login and teardown on logout,
// instead of loose values scattered across key-value storage.
package sesion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dcevallos/mercadillo/internal/usuario"
)

var ErrSesionNotFound = errors.New("sesión no encontrada o expirada")

type Sesion struct {
	Token     string      `json:"token"`
	UsuarioID uuid.UUID   `json:"usuarioId"`
	Rol       usuario.Rol `json:"rol"`
	Invitado  bool        `json:"invitado"`
	CreadaEn  time.Time   `json:"creadaEn"`
}

type Store interface {
	Create(ctx context.Context, usuarioID uuid.UUID, rol usuario.Rol, invitado bool) (*Sesion, error)
	Get(ctx context.Context, token string) (*Sesion, error)
	Destroy(ctx context.Context, token string) error
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr string, ttl time.Duration) Store {
	return &redisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func key(token string) string {
	return "mercadillo:sesion:" + token
}

func (s *redisStore) Create(ctx context.Context, usuarioID uuid.UUID, rol usuario.Rol, invitado bool) (*Sesion, error) {
	token, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("sesion: failed to generate token: %w", err)
	}

	ses := &Sesion{
		Token:     token.String(),
		UsuarioID: usuarioID,
		Rol:       rol,
		Invitado:  invitado,
		CreadaEn:  time.Now().UTC(),
	}

	payload, err := json.Marshal(ses)
	if err != nil {
		return nil, fmt.Errorf("sesion: failed to marshal sesion: %w", err)
	}

	if err := s.client.Set(ctx, key(ses.Token), payload, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("sesion: failed to store sesion: %w", err)
	}

	return ses, nil
}

func (s *redisStore) Get(ctx context.Context, token string) (*Sesion, error) {
	payload, err := s.client.Get(ctx, key(token)).Result()
	if err == redis.Nil {
		return nil, ErrSesionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sesion: failed to read sesion: %w", err)
	}

	var ses Sesion
	if err := json.Unmarshal([]byte(payload), &ses); err != nil {
		return nil, fmt.Errorf("sesion: failed to unmarshal sesion: %w", err)
	}
	return &ses, nil
}

func (s *redisStore) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("sesion: failed to delete sesion: %w", err)
	}
	return nil
}
