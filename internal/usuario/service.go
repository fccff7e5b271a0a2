package usuario

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var ErrCredencialesInvalidas = errors.New("email o contraseña incorrectos")

type Service interface {
	Registrar(ctx context.Context, u *Usuario, password string) (*Usuario, error)
	Autenticar(ctx context.Context, email, password string) (*Usuario, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Usuario, error)
	ActualizarPerfil(ctx context.Context, u *Usuario) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Registrar(ctx context.Context, u *Usuario, password string) (*Usuario, error) {
	if password == "" {
		return nil, errors.New("service: la contraseña no puede estar vacía")
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" {
		return nil, errors.New("service: el email es obligatorio")
	}
	if !u.Rol.Valido() {
		u.Rol = RolCliente
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to hash password")
		return nil, fmt.Errorf("service: failed to hash password: %w", err)
	}
	u.PasswordHash = string(hash)

	if _, err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		log.Error().Err(err).Msg("service: failed to create usuario")
		return nil, fmt.Errorf("service: failed to create usuario: %w", err)
	}

	log.Info().Stringer("usuario_id", u.ID).Str("rol", string(u.Rol)).Msg("service: usuario registered")
	return u, nil
}

func (s *service) Autenticar(ctx context.Context, email, password string) (*Usuario, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrCredencialesInvalidas
		}
		return nil, fmt.Errorf("service: failed to fetch usuario by email: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrCredencialesInvalidas
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Usuario, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch usuario %s: %w", id, err)
	}
	return u, nil
}

func (s *service) ActualizarPerfil(ctx context.Context, u *Usuario) error {
	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("service: failed to update usuario %s: %w", u.ID, err)
	}
	return nil
}
