package dto

import (
	"github.com/shopspring/decimal"

	"mostrador/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearVentanaRequest struct {
	Nombre string `json:"nombre" validate:"omitempty,min=1,max=80"`
}

type AgregarProductoRequest struct {
	ProductoID      string           `json:"producto_id"      validate:"required"`
	Nombre          string           `json:"nombre"           validate:"required"`
	PrecioUnitario  decimal.Decimal  `json:"precio_unitario"  validate:"min=0"`
	Cantidad        int              `json:"cantidad"         validate:"required,min=1"`
	TasaImpuesto    *decimal.Decimal `json:"tasa_impuesto"`
	StockDisponible *int             `json:"stock_disponible"`
}

type ActualizarCantidadRequest struct {
	Cantidad int `json:"cantidad" validate:"required,min=1"`
}

// AsignarClienteRequest with a nil Cliente clears the window back to an
// anonymous sale.
type AsignarClienteRequest struct {
	Cliente *ClienteRequest `json:"cliente"`
}

type ClienteRequest struct {
	ID              string  `json:"id"               validate:"required"`
	Nombre          string  `json:"nombre"           validate:"required"`
	TipoDocumento   *string `json:"tipo_documento"`
	NumeroDocumento *string `json:"numero_documento"`
	Email           *string `json:"email"            validate:"omitempty,email"`
	Telefono        *string `json:"telefono"`
}

type AgregarPagoRequest struct {
	ID         string          `json:"id"         validate:"required"`
	Metodo     string          `json:"metodo"     validate:"required,oneof=cash card nequi transfer credit"`
	Monto      decimal.Decimal `json:"monto"      validate:"required,gt=0"`
	Referencia *string         `json:"referencia"`
}

// AplicarDescuentoRequest: porcentaje XOR monto; sending neither clears the
// discount.
type AplicarDescuentoRequest struct {
	Porcentaje *decimal.Decimal `json:"porcentaje" validate:"omitempty,min=0,max=100"`
	Monto      *decimal.Decimal `json:"monto"      validate:"omitempty,min=0"`
}

type AsignarNotasRequest struct {
	Notas *string `json:"notas"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineaResponse struct {
	ProductoID      string           `json:"producto_id"`
	Nombre          string           `json:"nombre"`
	PrecioUnitario  decimal.Decimal  `json:"precio_unitario"`
	Cantidad        int              `json:"cantidad"`
	TasaImpuesto    *decimal.Decimal `json:"tasa_impuesto,omitempty"`
	StockDisponible *int             `json:"stock_disponible,omitempty"`
}

type PagoResponse struct {
	ID         string          `json:"id"`
	Metodo     string          `json:"metodo"`
	Monto      decimal.Decimal `json:"monto"`
	Referencia *string         `json:"referencia,omitempty"`
}

type VentanaResponse struct {
	ID             int64            `json:"id"`
	Nombre         string           `json:"nombre"`
	Lineas         []LineaResponse  `json:"lineas"`
	Cliente        *model.Cliente   `json:"cliente,omitempty"`
	Pagos          []PagoResponse   `json:"pagos"`
	Subtotal       decimal.Decimal  `json:"subtotal"`
	Impuesto       decimal.Decimal  `json:"impuesto"`
	Descuento      decimal.Decimal  `json:"descuento"`
	Total          decimal.Decimal  `json:"total"`
	Estado         string           `json:"estado"`
	DescuentoPct   *decimal.Decimal `json:"descuento_pct,omitempty"`
	DescuentoMonto *decimal.Decimal `json:"descuento_monto,omitempty"`
	Notas          *string          `json:"notas,omitempty"`
	CreadoEn       string           `json:"creado_en"`
	ModificadoEn   string           `json:"modificado_en"`
	DraftID        *string          `json:"draft_id,omitempty"`
	Synced         bool             `json:"synced"`
	SyncedAt       *string          `json:"synced_at,omitempty"`
	SyncError      *string          `json:"sync_error,omitempty"`
}
