package producto

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

var ErrNoEsPropietario = errors.New("el producto pertenece a otro vendedor")

type Service interface {
	Crear(ctx context.Context, p *Producto) (*Producto, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Producto, error)
	Listar(ctx context.Context, f Filtro) ([]Producto, error)
	ListarDeVendedor(ctx context.Context, vendedorID uuid.UUID) ([]Producto, error)
	Actualizar(ctx context.Context, vendedorID uuid.UUID, p *Producto) (*Producto, error)
	RecomendarPrecio(ctx context.Context, categoria string) (float64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Crear(ctx context.Context, p *Producto) (*Producto, error) {
	if p.Nombre == "" {
		return nil, errors.New("service: el nombre del producto es obligatorio")
	}
	if p.Precio < 0 {
		return nil, errors.New("service: el precio no puede ser negativo")
	}
	if p.Stock < 0 {
		return nil, errors.New("service: el stock no puede ser negativo")
	}

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error().Err(err).Msg("service: failed to create producto")
		return nil, fmt.Errorf("service: failed to create producto: %w", err)
	}

	log.Info().Stringer("producto_id", p.ID).Stringer("vendedor_id", p.VendedorID).Msg("service: producto created")
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Producto, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProductoNotFound) {
			return nil, ErrProductoNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch producto %s: %w", id, err)
	}
	return p, nil
}

func (s *service) Listar(ctx context.Context, f Filtro) ([]Producto, error) {
	productos, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list productos: %w", err)
	}
	return productos, nil
}

func (s *service) ListarDeVendedor(ctx context.Context, vendedorID uuid.UUID) ([]Producto, error) {
	productos, err := s.repo.ListByVendedor(ctx, vendedorID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list productos for vendedor: %w", err)
	}
	return productos, nil
}

func (s *service) Actualizar(ctx context.Context, vendedorID uuid.UUID, p *Producto) (*Producto, error) {
	actual, err := s.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if actual.VendedorID != vendedorID {
		return nil, ErrNoEsPropietario
	}

	p.VendedorID = vendedorID
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("service: failed to update producto %s: %w", p.ID, err)
	}
	return s.GetByID(ctx, p.ID)
}

// RecomendarPrecio suggests a listing price from the category average,
// rounded to cents. Zero means no comparable products exist yet.
func (s *service) RecomendarPrecio(ctx context.Context, categoria string) (float64, error) {
	promedio, err := s.repo.PrecioPromedioCategoria(ctx, categoria)
	if err != nil {
		return 0, fmt.Errorf("service: failed to compute recommended price: %w", err)
	}
	return math.Round(promedio*100) / 100, nil
}
