package carrito

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrItemNotFound = errors.New("item de carrito not found")

type Repository interface {
	Upsert(ctx context.Context, item *ItemCarrito) error
	UpdateCantidad(ctx context.Context, clienteID uuid.UUID, itemID int64, cantidad int) error
	Delete(ctx context.Context, clienteID uuid.UUID, itemID int64) error
	ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]ItemCarrito, error)
	Clear(ctx context.Context, clienteID uuid.UUID) error
}

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, item *ItemCarrito) error {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	// Adding a product already in the cart bumps its quantity.
	query := `INSERT INTO carrito_items (cliente_id, producto_id, cantidad, created_at, updated_at)
	          VALUES (:cliente_id, :producto_id, :cantidad, :created_at, :updated_at)
	          ON CONFLICT (cliente_id, producto_id)
	          DO UPDATE SET cantidad = carrito_items.cantidad + EXCLUDED.cantidad, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("repository: failed to upsert carrito item: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateCantidad(ctx context.Context, clienteID uuid.UUID, itemID int64, cantidad int) error {
	query := `UPDATE carrito_items SET cantidad = $1, updated_at = $2 WHERE id = $3 AND cliente_id = $4`
	res, err := r.db.ExecContext(ctx, query, cantidad, time.Now().UTC(), itemID, clienteID)
	if err != nil {
		return fmt.Errorf("repository: failed to update cantidad for item %d: %w", itemID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository: failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, clienteID uuid.UUID, itemID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM carrito_items WHERE id = $1 AND cliente_id = $2`, itemID, clienteID)
	if err != nil {
		return fmt.Errorf("repository: failed to delete carrito item %d: %w", itemID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository: failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]ItemCarrito, error) {
	items := make([]ItemCarrito, 0)
	query := `SELECT * FROM carrito_items WHERE cliente_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &items, query, clienteID); err != nil {
		return nil, fmt.Errorf("repository: failed to list carrito for cliente %s: %w", clienteID, err)
	}
	return items, nil
}

func (r *PostgresRepository) Clear(ctx context.Context, clienteID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM carrito_items WHERE cliente_id = $1`, clienteID); err != nil {
		return fmt.Errorf("repository: failed to clear carrito for cliente %s: %w", clienteID, err)
	}
	return nil
}
