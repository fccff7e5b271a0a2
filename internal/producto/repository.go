package producto

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrProductoNotFound = errors.New("producto not found")

type Repository interface {
	Create(ctx context.Context, p *Producto) error
	GetByID(ctx context.Context, id uuid.UUID) (*Producto, error)
	List(ctx context.Context, f Filtro) ([]Producto, error)
	ListByVendedor(ctx context.Context, vendedorID uuid.UUID) ([]Producto, error)
	Update(ctx context.Context, p *Producto) error
	PrecioPromedioCategoria(ctx context.Context, categoria string) (float64, error)
}

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *Producto) error {
	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("repository: failed to generate producto ID: %w", err)
	}
	p.ID = id

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Activo = true

	query := `INSERT INTO productos (id, vendedor_id, nombre, descripcion, categoria, precio, stock, imagen_url, activo, created_at, updated_at)
	          VALUES (:id, :vendedor_id, :nombre, :descripcion, :categoria, :precio, :stock, :imagen_url, :activo, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("repository: failed to insert producto: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Producto, error) {
	var p Producto
	query := `SELECT * FROM productos WHERE id = $1`
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductoNotFound
		}
		return nil, fmt.Errorf("repository: failed to get producto %s: %w", id, err)
	}
	return &p, nil
}

func (r *PostgresRepository) List(ctx context.Context, f Filtro) ([]Producto, error) {
	query := `SELECT * FROM productos WHERE activo`
	args := []any{}

	if f.Busqueda != "" {
		args = append(args, "%"+f.Busqueda+"%")
		query += fmt.Sprintf(" AND (nombre ILIKE $%d OR descripcion ILIKE $%d)", len(args), len(args))
	}
	if f.Categoria != "" {
		args = append(args, f.Categoria)
		query += fmt.Sprintf(" AND categoria = $%d", len(args))
	}
	query += ` ORDER BY created_at DESC`

	productos := make([]Producto, 0)
	if err := r.db.SelectContext(ctx, &productos, query, args...); err != nil {
		return nil, fmt.Errorf("repository: failed to list productos: %w", err)
	}
	return productos, nil
}

func (r *PostgresRepository) ListByVendedor(ctx context.Context, vendedorID uuid.UUID) ([]Producto, error) {
	productos := make([]Producto, 0)
	query := `SELECT * FROM productos WHERE vendedor_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &productos, query, vendedorID); err != nil {
		return nil, fmt.Errorf("repository: failed to list productos for vendedor %s: %w", vendedorID, err)
	}
	return productos, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *Producto) error {
	p.UpdatedAt = time.Now().UTC()
	query := `UPDATE productos
	          SET nombre = :nombre, descripcion = :descripcion, categoria = :categoria,
	              precio = :precio, stock = :stock, imagen_url = :imagen_url, activo = :activo, updated_at = :updated_at
	          WHERE id = :id AND vendedor_id = :vendedor_id`
	res, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		return fmt.Errorf("repository: failed to update producto %s: %w", p.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository: failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProductoNotFound
	}
	return nil
}

func (r *PostgresRepository) PrecioPromedioCategoria(ctx context.Context, categoria string) (float64, error) {
	var promedio sql.NullFloat64
	query := `SELECT AVG(precio) FROM productos WHERE activo AND categoria = $1`
	if err := r.db.GetContext(ctx, &promedio, query, categoria); err != nil {
		return 0, fmt.Errorf("repository: failed to average precio for categoria %s: %w", categoria, err)
	}
	if !promedio.Valid {
		return 0, nil
	}
	return promedio.Float64, nil
}
