package pedido

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var ErrPedidoNotFound = errors.New("pedido not found")

type Repository interface {
	Create(ctx context.Context, p *Pedido) (int64, error)
	GetByID(ctx context.Context, id int64) (*Pedido, error)
	GetByCliente(ctx context.Context, clienteID uuid.UUID) ([]Pedido, error)
	GetByVendedor(ctx context.Context, vendedorID uuid.UUID) ([]Pedido, error)
	ListAll(ctx context.Context) ([]Pedido, error)
	UpdateEstadoVendedor(ctx context.Context, id int64, estado EstadoVendedor) error
	UpdatePago(ctx context.Context, id int64, estadoPago EstadoPago, estado EstadoPedido, metodo MetodoPago, comprobanteURL string) error
	Cancel(ctx context.Context, id int64) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, p *Pedido) (id int64, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Msg("repository: failed to rollback pedido transaction")
			}
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
		}
	}()

	now := time.Now().UTC()

	// numero is sequential per vendor so invoices read naturally.
	queryPedido := `
		INSERT INTO pedidos (numero, cliente_id, cliente_nombre, vendedor_id, estado, estado_pago, estado_vendedor,
		                     metodo_pago, comprobante_url, subtotal, iva, total, created_at, updated_at)
		VALUES ((SELECT COALESCE(MAX(numero), 0) + 1 FROM pedidos WHERE vendedor_id = $3),
		        $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		RETURNING id, numero
	`
	err = tx.QueryRow(ctx, queryPedido,
		p.ClienteID,
		p.ClienteNombre,
		p.VendedorID,
		string(p.Estado),
		string(p.EstadoPago),
		string(p.EstadoVendedor),
		string(p.MetodoPago),
		p.ComprobanteURL,
		p.Subtotal,
		p.IVA,
		p.Total,
		now,
	).Scan(&p.ID, &p.Numero)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert pedido: %w", err)
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	queryItem := `
		INSERT INTO pedido_items (pedido_id, producto_id, nombre, cantidad, precio_unitario, subtotal, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id
	`
	for i := range p.Items {
		item := &p.Items[i]
		err = tx.QueryRow(ctx, queryItem,
			p.ID,
			item.ProductoID,
			item.Nombre,
			item.Cantidad,
			item.PrecioUnitario,
			item.Subtotal,
			now,
		).Scan(&item.ID)
		if err != nil {
			return 0, fmt.Errorf("repository: failed to insert item for pedido %d: %w", p.ID, err)
		}
		item.PedidoID = p.ID
		item.CreatedAt = now
		item.UpdatedAt = now
	}

	return p.ID, nil
}

const pedidoColumns = `id, numero, cliente_id, cliente_nombre, vendedor_id, estado, estado_pago, estado_vendedor,
	metodo_pago, comprobante_url, subtotal, iva, total, created_at, updated_at`

func scanPedido(row pgx.Row) (*Pedido, error) {
	var p Pedido
	err := row.Scan(
		&p.ID,
		&p.Numero,
		&p.ClienteID,
		&p.ClienteNombre,
		&p.VendedorID,
		&p.Estado,
		&p.EstadoPago,
		&p.EstadoVendedor,
		&p.MetodoPago,
		&p.ComprobanteURL,
		&p.Subtotal,
		&p.IVA,
		&p.Total,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Pedido, error) {
	query := `SELECT ` + pedidoColumns + ` FROM pedidos WHERE id = $1`

	p, err := scanPedido(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPedidoNotFound
		}
		return nil, fmt.Errorf("repository: failed to select pedido %d: %w", id, err)
	}

	items, err := r.itemsForPedidos(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	p.Items = items[id]
	if p.Items == nil {
		p.Items = []Item{}
	}

	return p, nil
}

func (r *postgresRepository) GetByCliente(ctx context.Context, clienteID uuid.UUID) ([]Pedido, error) {
	return r.list(ctx, `WHERE cliente_id = $1`, clienteID)
}

func (r *postgresRepository) GetByVendedor(ctx context.Context, vendedorID uuid.UUID) ([]Pedido, error) {
	return r.list(ctx, `WHERE vendedor_id = $1`, vendedorID)
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]Pedido, error) {
	return r.list(ctx, ``)
}

func (r *postgresRepository) list(ctx context.Context, where string, args ...any) ([]Pedido, error) {
	query := `SELECT ` + pedidoColumns + ` FROM pedidos ` + where + ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query pedidos: %w", err)
	}
	defer rows.Close()

	pedidos := make([]Pedido, 0)
	var ids []int64
	for rows.Next() {
		p, err := scanPedido(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan pedido: %w", err)
		}
		p.Items = []Item{}
		pedidos = append(pedidos, *p)
		ids = append(ids, p.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating pedidos: %w", err)
	}

	if len(ids) == 0 {
		return pedidos, nil
	}

	items, err := r.itemsForPedidos(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range pedidos {
		if its, ok := items[pedidos[i].ID]; ok {
			pedidos[i].Items = its
		}
	}

	return pedidos, nil
}

func (r *postgresRepository) itemsForPedidos(ctx context.Context, ids []int64) (map[int64][]Item, error) {
	query := `
		SELECT id, pedido_id, producto_id, nombre, cantidad, precio_unitario, subtotal, created_at, updated_at
		FROM pedido_items
		WHERE pedido_id = ANY($1)
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query pedido items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]Item)
	for rows.Next() {
		var it Item
		err := rows.Scan(
			&it.ID,
			&it.PedidoID,
			&it.ProductoID,
			&it.Nombre,
			&it.Cantidad,
			&it.PrecioUnitario,
			&it.Subtotal,
			&it.CreatedAt,
			&it.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan pedido item: %w", err)
		}
		items[it.PedidoID] = append(items[it.PedidoID], it)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating pedido items: %w", err)
	}

	return items, nil
}

func (r *postgresRepository) UpdateEstadoVendedor(ctx context.Context, id int64, estado EstadoVendedor) error {
	query := `UPDATE pedidos SET estado_vendedor = $1, updated_at = $2 WHERE id = $3`

	cmdTag, err := r.db.Exec(ctx, query, string(estado), time.Now().UTC(), id)
	if err != nil {
		log.Error().Err(err).Int64("pedido_id", id).Stringer("estado_vendedor", estado).Msg("repository: failed to update estado_vendedor")
		return fmt.Errorf("repository: failed to update estado_vendedor for pedido %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrPedidoNotFound
	}
	return nil
}

func (r *postgresRepository) UpdatePago(ctx context.Context, id int64, estadoPago EstadoPago, estado EstadoPedido, metodo MetodoPago, comprobanteURL string) error {
	query := `
		UPDATE pedidos
		SET estado_pago = $1, estado = $2,
		    metodo_pago = COALESCE(NULLIF($3, ''), metodo_pago),
		    comprobante_url = COALESCE(NULLIF($4, ''), comprobante_url),
		    updated_at = $5
		WHERE id = $6
	`
	cmdTag, err := r.db.Exec(ctx, query, string(estadoPago), string(estado), string(metodo), comprobanteURL, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("repository: failed to update pago for pedido %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrPedidoNotFound
	}
	return nil
}

func (r *postgresRepository) Cancel(ctx context.Context, id int64) error {
	query := `
		UPDATE pedidos
		SET estado = $1, estado_pago = $2,
		    estado_vendedor = CASE WHEN estado_vendedor IN ('NUEVO', 'EN_PROCESO') THEN 'CANCELADO' ELSE estado_vendedor END,
		    updated_at = $3
		WHERE id = $4
	`
	cmdTag, err := r.db.Exec(ctx, query, string(PedidoCancelado), string(PagoCancelado), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("repository: failed to cancel pedido %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrPedidoNotFound
	}
	return nil
}
