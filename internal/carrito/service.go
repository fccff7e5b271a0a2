package carrito

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dcevallos/mercadillo/internal/pedido"
	"github.com/dcevallos/mercadillo/internal/producto"
)

var (
	ErrCarritoVacio      = errors.New("el carrito está vacío")
	ErrCantidadInvalida  = errors.New("la cantidad debe ser al menos 1")
	ErrStockInsuficiente = errors.New("stock insuficiente para el producto")
)

type Service interface {
	Agregar(ctx context.Context, clienteID, productoID uuid.UUID, cantidad int) error
	CambiarCantidad(ctx context.Context, clienteID uuid.UUID, itemID int64, cantidad int) error
	Quitar(ctx context.Context, clienteID uuid.UUID, itemID int64) error
	Ver(ctx context.Context, clienteID uuid.UUID) ([]ItemCarrito, error)
	Checkout(ctx context.Context, clienteID uuid.UUID, nombreCliente string) ([]pedido.Pedido, error)
}

type service struct {
	repo      Repository
	productos producto.Service
	pedidos   pedido.Service
}

func NewService(repo Repository, productos producto.Service, pedidos pedido.Service) Service {
	return &service{repo: repo, productos: productos, pedidos: pedidos}
}

func (s *service) Agregar(ctx context.Context, clienteID, productoID uuid.UUID, cantidad int) error {
	if cantidad < 1 {
		return ErrCantidadInvalida
	}
	if _, err := s.productos.GetByID(ctx, productoID); err != nil {
		return err
	}

	item := &ItemCarrito{ClienteID: clienteID, ProductoID: productoID, Cantidad: cantidad}
	if err := s.repo.Upsert(ctx, item); err != nil {
		return fmt.Errorf("service: failed to add to carrito: %w", err)
	}
	return nil
}

func (s *service) CambiarCantidad(ctx context.Context, clienteID uuid.UUID, itemID int64, cantidad int) error {
	if cantidad < 1 {
		return ErrCantidadInvalida
	}
	return s.repo.UpdateCantidad(ctx, clienteID, itemID, cantidad)
}

func (s *service) Quitar(ctx context.Context, clienteID uuid.UUID, itemID int64) error {
	return s.repo.Delete(ctx, clienteID, itemID)
}

func (s *service) Ver(ctx context.Context, clienteID uuid.UUID) ([]ItemCarrito, error) {
	return s.repo.ListByCliente(ctx, clienteID)
}

// Checkout converts the cart into orders, one per vendor, priced at the
// current catalog price, then empties the cart. Orders start awaiting
// payment; nothing here touches the fulfillment state.
func (s *service) Checkout(ctx context.Context, clienteID uuid.UUID, nombreCliente string) ([]pedido.Pedido, error) {
	items, err := s.repo.ListByCliente(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCarritoVacio
	}

	porVendedor := make(map[uuid.UUID][]pedido.Item)
	var vendedores []uuid.UUID
	for _, item := range items {
		prod, err := s.productos.GetByID(ctx, item.ProductoID)
		if err != nil {
			return nil, err
		}
		if prod.Stock < item.Cantidad {
			return nil, fmt.Errorf("%w: %s", ErrStockInsuficiente, prod.Nombre)
		}

		if _, ok := porVendedor[prod.VendedorID]; !ok {
			vendedores = append(vendedores, prod.VendedorID)
		}
		porVendedor[prod.VendedorID] = append(porVendedor[prod.VendedorID], pedido.Item{
			ProductoID:     prod.ID,
			Nombre:         prod.Nombre,
			Cantidad:       item.Cantidad,
			PrecioUnitario: prod.Precio,
		})
	}

	pedidos := make([]pedido.Pedido, 0, len(vendedores))
	for _, vendedorID := range vendedores {
		p, err := s.pedidos.CrearPedido(ctx, &pedido.Pedido{
			ClienteID:     clienteID,
			ClienteNombre: nombreCliente,
			VendedorID:    vendedorID,
			Items:         porVendedor[vendedorID],
		})
		if err != nil {
			return nil, fmt.Errorf("service: checkout failed for vendedor %s: %w", vendedorID, err)
		}
		pedidos = append(pedidos, *p)
	}

	if err := s.repo.Clear(ctx, clienteID); err != nil {
		// Orders exist already; an uncleared cart is annoying but not fatal.
		log.Error().Err(err).Stringer("cliente_id", clienteID).Msg("service: failed to clear carrito after checkout")
	}

	log.Info().Stringer("cliente_id", clienteID).Int("pedidos", len(pedidos)).Msg("service: checkout completed")
	return pedidos, nil
}
