package usuario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound    = errors.New("usuario not found")
	ErrEmailExists = errors.New("email already registered")
)

type Repository interface {
	Create(ctx context.Context, u *Usuario) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Usuario, error)
	GetByEmail(ctx context.Context, email string) (*Usuario, error)
	Update(ctx context.Context, u *Usuario) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, u *Usuario) (uuid.UUID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, fmt.Errorf("repository: failed to generate usuario ID: %w", err)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO usuarios (id, nombre, email, password_hash, rol, telefono, direccion, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`
	_, err = r.db.Exec(ctx, query, id, u.Nombre, u.Email, u.PasswordHash, string(u.Rol), u.Telefono, u.Direccion, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return uuid.Nil, ErrEmailExists
		}
		return uuid.Nil, fmt.Errorf("repository: failed to insert usuario: %w", err)
	}

	u.ID = id
	u.CreatedAt = now
	u.UpdatedAt = now
	return id, nil
}

const usuarioColumns = `id, nombre, email, password_hash, rol, telefono, direccion, created_at, updated_at`

func (r *postgresRepository) scanUsuario(row pgx.Row) (*Usuario, error) {
	var u Usuario
	err := row.Scan(&u.ID, &u.Nombre, &u.Email, &u.PasswordHash, &u.Rol, &u.Telefono, &u.Direccion, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to scan usuario: %w", err)
	}
	return &u, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Usuario, error) {
	query := `SELECT ` + usuarioColumns + ` FROM usuarios WHERE id = $1`
	return r.scanUsuario(r.db.QueryRow(ctx, query, id))
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*Usuario, error) {
	query := `SELECT ` + usuarioColumns + ` FROM usuarios WHERE email = $1`
	return r.scanUsuario(r.db.QueryRow(ctx, query, email))
}

func (r *postgresRepository) Update(ctx context.Context, u *Usuario) error {
	query := `
		UPDATE usuarios
		SET nombre = $1, telefono = $2, direccion = $3, updated_at = $4
		WHERE id = $5
	`
	cmdTag, err := r.db.Exec(ctx, query, u.Nombre, u.Telefono, u.Direccion, time.Now().UTC(), u.ID)
	if err != nil {
		return fmt.Errorf("repository: failed to update usuario %s: %w", u.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
