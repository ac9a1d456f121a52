package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una ventana de venta. Derived from payments vs. total on every
// mutation — never set directly by callers.
const (
	VentanaDraft          = "draft"
	VentanaPendingPayment = "pending_payment"
	VentanaPaid           = "paid"
	VentanaCancelled      = "cancelled"
)

// Métodos de pago aceptados.
const (
	PagoCash     = "cash"
	PagoCard     = "card"
	PagoNequi    = "nequi"
	PagoTransfer = "transfer"
	PagoCredit   = "credit"
)

// Linea is one cart line: a denormalized snapshot of the catalog product at
// the moment it was added. Line identity is ProductoID — re-adding the same
// product merges quantities instead of duplicating the line.
type Linea struct {
	ProductoID     string           `json:"producto_id"`
	Nombre         string           `json:"nombre"`
	PrecioUnitario decimal.Decimal  `json:"precio_unitario"`
	Cantidad       int              `json:"cantidad"`
	// TasaImpuesto overrides the terminal's default rate when set (e.g. 0.19).
	TasaImpuesto    *decimal.Decimal `json:"tasa_impuesto,omitempty"`
	StockDisponible *int             `json:"stock_disponible,omitempty"`
}

// Cliente is the optional customer attached to a window. nil means an
// anonymous simple sale; a customer with a document number classifies the
// completed sale as electronic.
type Cliente struct {
	ID              string  `json:"id"`
	Nombre          string  `json:"nombre"`
	TipoDocumento   *string `json:"tipo_documento,omitempty"`
	NumeroDocumento *string `json:"numero_documento,omitempty"`
	Email           *string `json:"email,omitempty"`
	Telefono        *string `json:"telefono,omitempty"`
}

// Pago is one payment entry on a window. Identity is ID — re-adding a payment
// with the same id replaces its amount rather than duplicating the entry.
type Pago struct {
	ID         string          `json:"id"`
	Metodo     string          `json:"metodo"`
	Monto      decimal.Decimal `json:"monto"`
	Referencia *string         `json:"referencia,omitempty"`
}

// Ventana is one in-progress draft transaction on the terminal. Totals and
// Estado are recomputed after every relevant mutation; DescuentoPct and
// DescuentoMonto are mutually exclusive (last one set wins).
type Ventana struct {
	ID      int64    `json:"id"`
	Nombre  string   `json:"nombre"`
	Lineas  []Linea  `json:"lineas"`
	Cliente *Cliente `json:"cliente,omitempty"`
	Pagos   []Pago   `json:"pagos"`

	Subtotal  decimal.Decimal `json:"subtotal"`
	Impuesto  decimal.Decimal `json:"impuesto"`
	Descuento decimal.Decimal `json:"descuento"`
	Total     decimal.Decimal `json:"total"`
	Estado    string          `json:"estado"`

	DescuentoPct   *decimal.Decimal `json:"descuento_pct,omitempty"`
	DescuentoMonto *decimal.Decimal `json:"descuento_monto,omitempty"`
	Notas          *string          `json:"notas,omitempty"`

	CreadoEn     time.Time `json:"creado_en"`
	ModificadoEn time.Time `json:"modificado_en"`

	// Sync bookkeeping against the Redis draft mirror.
	DraftID   *string    `json:"draft_id,omitempty"`
	Synced    bool       `json:"synced"`
	SyncedAt  *time.Time `json:"synced_at,omitempty"`
	SyncError *string    `json:"sync_error,omitempty"`
}

// Draft is the persisted mirror of a Ventana, stored as JSON in Redis so a
// terminal can resume its open windows across restarts.
type Draft struct {
	ID         string  `json:"id"`
	TerminalID string  `json:"terminal_id"`
	Nombre     string  `json:"nombre"`
	Lineas     []Linea `json:"lineas"`
	Cliente    *Cliente `json:"cliente,omitempty"`
	Pagos      []Pago   `json:"pagos"`

	DescuentoPct   *decimal.Decimal `json:"descuento_pct,omitempty"`
	DescuentoMonto *decimal.Decimal `json:"descuento_monto,omitempty"`
	Notas          *string          `json:"notas,omitempty"`

	Subtotal  decimal.Decimal `json:"subtotal"`
	Impuesto  decimal.Decimal `json:"impuesto"`
	Descuento decimal.Decimal `json:"descuento"`
	Total     decimal.Decimal `json:"total"`

	UpdatedAt time.Time `json:"updated_at"`
}
