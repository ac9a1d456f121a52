package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CompletarVentaRequest struct {
	VendedorID     string  `json:"vendedor_id"     validate:"required"`
	VendedorNombre string  `json:"vendedor_nombre" validate:"required"`
	FechaVenta     *string `json:"fecha_venta"     validate:"omitempty,datetime=2006-01-02T15:04:05Z"`
}

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha string `form:"fecha"` // YYYY-MM-DD; empty = all
	Tipo  string `form:"tipo"`  // simple | electronic; empty = all
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VentaItemResponse struct {
	ProductoID     string          `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Cantidad       int             `json:"cantidad"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID             string              `json:"id"`
	NumeroFactura  int                 `json:"numero_factura"`
	SesionCajaID   string              `json:"sesion_caja_id"`
	VendedorID     string              `json:"vendedor_id"`
	VendedorNombre string              `json:"vendedor_nombre"`
	ClienteID      *string             `json:"cliente_id,omitempty"`
	ClienteNombre  *string             `json:"cliente_nombre,omitempty"`
	TipoPos        string              `json:"tipo_pos"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	Impuesto       decimal.Decimal     `json:"impuesto"`
	Descuento      decimal.Decimal     `json:"descuento"`
	Total          decimal.Decimal     `json:"total"`
	Items          []VentaItemResponse `json:"items"`
	Pagos          []PagoResponse      `json:"pagos"`
	Notas          *string             `json:"notas,omitempty"`
	FechaVenta     string              `json:"fecha_venta"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
