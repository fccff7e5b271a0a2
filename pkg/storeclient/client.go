// Package storeclient is the Go client for the Mercadillo REST API. It
// mirrors how the storefront consumes the backend: bearer-token auth, no
// automatic retries, and a full re-fetch after every mutation so callers
// always hold server-confirmed state.
package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dcevallos/mercadillo/internal/pedido"
	"github.com/dcevallos/mercadillo/internal/producto"
)

var (
	// ErrNoAutorizado covers every non-OK answer on the vendor detail
	// endpoint: the caller may not view this order.
	ErrNoAutorizado = errors.New("no autorizado para ver este pedido")
	// ErrActualizacionEstado is returned when the backend refuses a
	// fulfillment transition.
	ErrActualizacionEstado = errors.New("no se pudo actualizar el estado")
)

// catalogTimeout bounds the initial product load; it is the only call with an
// explicit deadline of its own.
const catalogTimeout = 10 * time.Second

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("storeclient: failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("storeclient: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// VendorOrderDetail fetches one order as seen by the authenticated vendor.
func (c *Client) VendorOrderDetail(ctx context.Context, idPedido int64) (*pedido.Pedido, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/pedidos/vendedor/detalle/%d", idPedido), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storeclient: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w (HTTP %d)", ErrNoAutorizado, resp.StatusCode)
	}

	var raw rawPedido
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("storeclient: failed to decode pedido: %w", err)
	}
	return raw.normalize(), nil
}

// UpdateVendorStatus persists one fulfillment transition: exactly one PUT,
// and on success exactly one re-fetch so the resolved status reflects what
// the server accepted. On failure nothing is re-fetched and no local state
// is assumed; there are no retries.
func (c *Client) UpdateVendorStatus(ctx context.Context, idPedido int64, destino pedido.EstadoVendedor) (*pedido.Pedido, error) {
	body := map[string]string{"estadoPedidoVendedor": string(destino)}
	req, err := c.newRequest(ctx, http.MethodPut, fmt.Sprintf("/pedidos/vendedor/%d/estado", idPedido), body)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storeclient: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w (HTTP %d)", ErrActualizacionEstado, resp.StatusCode)
	}

	return c.VendorOrderDetail(ctx, idPedido)
}

// Products loads the catalog with the client-side timeout the storefront
// applies to its initial load.
func (c *Client) Products(ctx context.Context, busqueda, categoria string) ([]producto.Producto, error) {
	ctx, cancel := context.WithTimeout(ctx, catalogTimeout)
	defer cancel()

	path := "/productos"
	query := url.Values{}
	if busqueda != "" {
		query.Set("q", busqueda)
	}
	if categoria != "" {
		query.Set("categoria", categoria)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storeclient: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storeclient: unexpected status %d listing productos", resp.StatusCode)
	}

	var productos []producto.Producto
	if err := json.NewDecoder(resp.Body).Decode(&productos); err != nil {
		return nil, fmt.Errorf("storeclient: failed to decode productos: %w", err)
	}
	return productos, nil
}
