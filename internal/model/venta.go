package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de venta al completar. Electronic when the customer carries a
// document number (required for electronic invoicing downstream).
const (
	VentaSimple     = "simple"
	VentaElectronic = "electronic"
)

// VentaCompletada is the immutable snapshot taken when a paid window leaves
// the active list. Append-only: rows are never updated after creation.
type VentaCompletada struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroFactura int       `gorm:"uniqueIndex;not null"`
	SesionCajaID  uuid.UUID `gorm:"type:uuid;not null;index"`

	VendedorID     string `gorm:"not null"`
	VendedorNombre string `gorm:"not null"`

	ClienteID     *string
	ClienteNombre *string
	TipoPos       string `gorm:"type:varchar(20);not null;default:'simple'"`

	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Impuesto  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Notas      *string
	FechaVenta time.Time `gorm:"not null;index"`
	CreatedAt  time.Time

	Items []VentaItem `gorm:"foreignKey:VentaID"`
	Pagos []VentaPago `gorm:"foreignKey:VentaID"`
}

// VentaItem is a sold line frozen at completion time.
type VentaItem struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductoID     string           `gorm:"not null"`
	Nombre         string           `gorm:"not null"`
	PrecioUnitario decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Cantidad       int              `gorm:"not null"`
	TasaImpuesto   *decimal.Decimal `gorm:"type:decimal(6,4)"`
	Subtotal       decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
}

// VentaPago is a payment entry frozen at completion time.
type VentaPago struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Metodo     string          `gorm:"type:varchar(20);not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Referencia *string
}
