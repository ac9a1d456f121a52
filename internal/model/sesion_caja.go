package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de una sesión de caja.
const (
	SesionAbierta = "abierta"
	SesionCerrada = "cerrada"
)

// SesionCaja represents the lifecycle of a cash register shift, from open to
// close. One session is active per terminal at a time; closing is terminal —
// a new open always creates a fresh row and resets the in-memory working set.
type SesionCaja struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TerminalID     string          `gorm:"not null;index"`
	TerminalNombre string          `gorm:"not null"`
	VendedorID     string          `gorm:"not null"`
	VendedorNombre string          `gorm:"not null"`
	MontoApertura  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// TotalVentas / TotalEfectivo accumulate as sales complete during the shift.
	TotalVentas   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalEfectivo decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// MontoCierre is the declared drawer count at close;
	// DiferenciaEfectivo = MontoCierre - (MontoApertura + TotalEfectivo).
	MontoCierre        *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiferenciaEfectivo *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Estado             string           `gorm:"type:varchar(20);not null;default:'abierta'"`
	Observaciones      *string
	TurnoID            *string `gorm:"type:varchar(64)"`
	OpenedAt           time.Time
	ClosedAt           *time.Time
}
