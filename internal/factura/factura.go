// Package factura builds the printable invoice view for an order.
package factura

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/dcevallos/mercadillo/internal/pedido"
)

type Linea struct {
	Descripcion    string
	Cantidad       int
	PrecioUnitario float64
	Subtotal       float64
}

type Factura struct {
	Numero        string
	Fecha         time.Time
	ClienteNombre string
	MetodoPago    pedido.MetodoPago
	Estado        string
	Lineas        []Linea
	Subtotal      float64
	IVA           float64
	Total         float64
}

// Build derives the invoice from the server-confirmed order record. The
// invoice number combines the vendor-scoped sequence with the order id so it
// stays unique across vendors.
func Build(p *pedido.Pedido) Factura {
	lineas := make([]Linea, 0, len(p.Items))
	for _, item := range p.Items {
		lineas = append(lineas, Linea{
			Descripcion:    item.Nombre,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Subtotal:       item.Subtotal,
		})
	}

	return Factura{
		Numero:        fmt.Sprintf("FAC-%06d-%d", p.Numero, p.ID),
		Fecha:         p.CreatedAt,
		ClienteNombre: p.ClienteNombre,
		MetodoPago:    p.MetodoPago,
		Estado:        pedido.DisplayStatus(p).Label,
		Lineas:        lineas,
		Subtotal:      p.Subtotal,
		IVA:           p.IVA,
		Total:         p.Total,
	}
}

var tmpl = template.Must(template.New("factura").Parse(`<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>Factura {{.Numero}}</title></head>
<body>
<h1>Factura {{.Numero}}</h1>
<p>Fecha: {{.Fecha.Format "2006-01-02"}}</p>
<p>Cliente: {{.ClienteNombre}}</p>
<p>Estado: {{.Estado}}</p>
<table>
<tr><th>Producto</th><th>Cantidad</th><th>Precio</th><th>Subtotal</th></tr>
{{range .Lineas}}<tr><td>{{.Descripcion}}</td><td>{{.Cantidad}}</td><td>{{printf "$%.2f" .PrecioUnitario}}</td><td>{{printf "$%.2f" .Subtotal}}</td></tr>
{{end}}</table>
<p>Subtotal: {{printf "$%.2f" .Subtotal}}</p>
<p>IVA (12%): {{printf "$%.2f" .IVA}}</p>
<p><strong>Total: {{printf "$%.2f" .Total}}</strong></p>
</body>
</html>
`))

// RenderHTML writes the invoice as a standalone HTML document.
func RenderHTML(f Factura) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, f); err != nil {
		return nil, fmt.Errorf("factura: failed to render invoice %s: %w", f.Numero, err)
	}
	return buf.Bytes(), nil
}
