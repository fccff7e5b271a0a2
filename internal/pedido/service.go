package pedido

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidStatusTransition = errors.New("transición de estado no válida")
	ErrNoAutorizado            = errors.New("no autorizado para ver este pedido")
	ErrPagoInvalido            = errors.New("el pago no puede registrarse en el estado actual")
	ErrComprobanteRequerido    = errors.New("la transferencia requiere un comprobante de pago")
	ErrTokenTarjetaRequerido   = errors.New("el pago con tarjeta requiere un token del procesador")
	ErrNoCancelable            = errors.New("el pedido ya no puede cancelarse")
)

type Service interface {
	CrearPedido(ctx context.Context, p *Pedido) (*Pedido, error)
	GetByID(ctx context.Context, id int64) (*Pedido, error)
	GetByCliente(ctx context.Context, clienteID uuid.UUID) ([]Pedido, error)
	GetByVendedor(ctx context.Context, vendedorID uuid.UUID) ([]Pedido, error)
	ListarTodos(ctx context.Context) ([]Pedido, error)
	DetalleVendedor(ctx context.Context, id int64, vendedorID uuid.UUID) (*Pedido, error)
	ActualizarEstadoVendedor(ctx context.Context, id int64, vendedorID uuid.UUID, destino EstadoVendedor) (*Pedido, error)
	RegistrarPago(ctx context.Context, id int64, clienteID uuid.UUID, pago Pago) (*Pedido, error)
	AdjuntarComprobante(ctx context.Context, id int64, clienteID uuid.UUID, comprobanteURL string) (*Pedido, error)
	VerificarPago(ctx context.Context, id int64, aprobado bool) (*Pedido, error)
	Cancelar(ctx context.Context, id int64, actorID uuid.UUID) (*Pedido, error)
}

// Pago carries what the consumer submits when choosing a payment method.
// Card payments carry an opaque processor token; raw card numbers are never
// accepted by this service.
type Pago struct {
	Metodo         MetodoPago `json:"metodoPago"`
	ComprobanteURL string     `json:"comprobanteUrl,omitempty"`
	TokenTarjeta   string     `json:"tokenTarjeta,omitempty"`
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *service) CrearPedido(ctx context.Context, p *Pedido) (*Pedido, error) {
	if len(p.Items) == 0 {
		return nil, errors.New("service: el pedido debe contener al menos un item")
	}

	subtotal := 0.0
	for i := range p.Items {
		item := &p.Items[i]

		if item.Cantidad < 1 {
			return nil, fmt.Errorf("service: la cantidad del producto %s debe ser al menos 1", item.ProductoID)
		}
		if item.PrecioUnitario < 0 {
			return nil, fmt.Errorf("service: el precio del producto %s no puede ser negativo", item.ProductoID)
		}
		if item.ProductoID == uuid.Nil {
			return nil, errors.New("service: el item debe referenciar un producto")
		}

		item.Subtotal = round2(float64(item.Cantidad) * item.PrecioUnitario)
		subtotal += item.Subtotal
	}

	p.Subtotal = round2(subtotal)
	p.IVA = round2(p.Subtotal * IVARate)
	p.Total = round2(p.Subtotal + p.IVA)
	p.Estado = PedidoPendiente
	p.EstadoPago = PagoPendiente
	p.EstadoVendedor = VendedorSinAsignar

	if _, err := s.repo.Create(ctx, p); err != nil {
		log.Error().Err(err).Msg("service: failed to create pedido in repository")
		return nil, fmt.Errorf("service: failed to create pedido: %w", err)
	}

	log.Info().Int64("pedido_id", p.ID).Stringer("cliente_id", p.ClienteID).Msg("service: pedido created")
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Pedido, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPedidoNotFound) {
			return nil, ErrPedidoNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch pedido %d: %w", id, err)
	}
	return p, nil
}

func (s *service) GetByCliente(ctx context.Context, clienteID uuid.UUID) ([]Pedido, error) {
	pedidos, err := s.repo.GetByCliente(ctx, clienteID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch pedidos for cliente %s: %w", clienteID, err)
	}
	return pedidos, nil
}

func (s *service) GetByVendedor(ctx context.Context, vendedorID uuid.UUID) ([]Pedido, error) {
	pedidos, err := s.repo.GetByVendedor(ctx, vendedorID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch pedidos for vendedor %s: %w", vendedorID, err)
	}
	return pedidos, nil
}

func (s *service) ListarTodos(ctx context.Context) ([]Pedido, error) {
	pedidos, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list all pedidos: %w", err)
	}
	return pedidos, nil
}

func (s *service) DetalleVendedor(ctx context.Context, id int64, vendedorID uuid.UUID) (*Pedido, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.VendedorID != vendedorID {
		log.Warn().Int64("pedido_id", id).Stringer("vendedor_id", vendedorID).Msg("service: vendedor requested a pedido it does not own")
		return nil, ErrNoAutorizado
	}
	return p, nil
}

// ActualizarEstadoVendedor applies one vendor fulfillment transition. The
// target must be currently reachable: repeats and skips are rejected, and
// nothing moves while payment is unconfirmed or the order is cancelled.
func (s *service) ActualizarEstadoVendedor(ctx context.Context, id int64, vendedorID uuid.UUID, destino EstadoVendedor) (*Pedido, error) {
	p, err := s.DetalleVendedor(ctx, id, vendedorID)
	if err != nil {
		return nil, err
	}

	permitidos := AllowedTransitions(p)
	valido := false
	for _, e := range permitidos {
		if e == destino {
			valido = true
			break
		}
	}
	if !valido {
		log.Warn().
			Int64("pedido_id", id).
			Stringer("estado_actual", p.EstadoVendedor).
			Stringer("estado_destino", destino).
			Msg("service: invalid fulfillment transition attempt")
		return nil, fmt.Errorf("service: de %q a %q: %w", p.EstadoVendedor, destino, ErrInvalidStatusTransition)
	}

	if err := s.repo.UpdateEstadoVendedor(ctx, id, destino); err != nil {
		return nil, fmt.Errorf("service: failed to update estado_vendedor: %w", err)
	}

	log.Info().
		Int64("pedido_id", id).
		Stringer("estado_anterior", p.EstadoVendedor).
		Stringer("estado_nuevo", destino).
		Msg("service: pedido fulfillment state updated")

	// Re-read so callers always see server-confirmed truth.
	return s.GetByID(ctx, id)
}

func (s *service) RegistrarPago(ctx context.Context, id int64, clienteID uuid.UUID, pago Pago) (*Pedido, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.ClienteID != clienteID {
		return nil, ErrNoAutorizado
	}
	if p.Cancelado() {
		return nil, ErrPagoInvalido
	}
	// RECHAZADO lets the consumer retry with a new proof or method.
	if p.EstadoPago != PagoPendiente && p.EstadoPago != PagoRechazado {
		return nil, ErrPagoInvalido
	}

	var estadoPago EstadoPago
	var estado EstadoPedido
	switch pago.Metodo {
	case MetodoEfectivo:
		// Cash orders are eligible for fulfillment immediately; collection
		// happens on delivery.
		estadoPago = PagoPagado
		estado = PedidoProcesando
	case MetodoTransferencia:
		if pago.ComprobanteURL == "" {
			return nil, ErrComprobanteRequerido
		}
		estadoPago = PagoEnVerificacion
		estado = PedidoPendienteVerificacion
	case MetodoTarjeta:
		if pago.TokenTarjeta == "" {
			return nil, ErrTokenTarjetaRequerido
		}
		estadoPago = PagoPagado
		estado = PedidoProcesando
	default:
		return nil, fmt.Errorf("service: método de pago desconocido %q: %w", pago.Metodo, ErrPagoInvalido)
	}

	if err := s.repo.UpdatePago(ctx, id, estadoPago, estado, pago.Metodo, pago.ComprobanteURL); err != nil {
		return nil, fmt.Errorf("service: failed to register pago: %w", err)
	}

	log.Info().Int64("pedido_id", id).Str("metodo", string(pago.Metodo)).Stringer("estado_pago", estadoPago).Msg("service: pago registered")
	return s.GetByID(ctx, id)
}

func (s *service) AdjuntarComprobante(ctx context.Context, id int64, clienteID uuid.UUID, comprobanteURL string) (*Pedido, error) {
	if comprobanteURL == "" {
		return nil, ErrComprobanteRequerido
	}

	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.ClienteID != clienteID {
		return nil, ErrNoAutorizado
	}
	if p.Cancelado() || p.MetodoPago != MetodoTransferencia {
		return nil, ErrPagoInvalido
	}
	switch p.EstadoPago {
	case PagoPendiente, PagoRechazado, PagoEnVerificacion:
		// re-uploads replace the previous proof
	default:
		return nil, ErrPagoInvalido
	}

	if err := s.repo.UpdatePago(ctx, id, PagoEnVerificacion, PedidoPendienteVerificacion, MetodoTransferencia, comprobanteURL); err != nil {
		return nil, fmt.Errorf("service: failed to attach comprobante: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *service) VerificarPago(ctx context.Context, id int64, aprobado bool) (*Pedido, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.EstadoPago != PagoEnVerificacion {
		return nil, fmt.Errorf("service: el pago del pedido %d no está en verificación: %w", id, ErrPagoInvalido)
	}

	estadoPago, estado := PagoPagado, PedidoProcesando
	if !aprobado {
		estadoPago, estado = PagoRechazado, PedidoPendiente
	}

	if err := s.repo.UpdatePago(ctx, id, estadoPago, estado, "", ""); err != nil {
		return nil, fmt.Errorf("service: failed to verify pago: %w", err)
	}

	log.Info().Int64("pedido_id", id).Bool("aprobado", aprobado).Msg("service: pago verified")
	return s.GetByID(ctx, id)
}

func (s *service) Cancelar(ctx context.Context, id int64, actorID uuid.UUID) (*Pedido, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.ClienteID != actorID && p.VendedorID != actorID {
		return nil, ErrNoAutorizado
	}
	if p.Cancelado() {
		return nil, ErrNoCancelable
	}
	// Once dispatched the order is on its way and can no longer be cancelled.
	if p.EstadoVendedor == VendedorDespachado || p.EstadoVendedor == VendedorEntregado {
		return nil, ErrNoCancelable
	}

	if err := s.repo.Cancel(ctx, id); err != nil {
		return nil, fmt.Errorf("service: failed to cancel pedido: %w", err)
	}

	log.Info().Int64("pedido_id", id).Stringer("actor_id", actorID).Msg("service: pedido cancelled")
	return s.GetByID(ctx, id)
}
