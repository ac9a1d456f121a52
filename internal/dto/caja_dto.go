package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	VendedorID     string          `json:"vendedor_id"     validate:"required"`
	VendedorNombre string          `json:"vendedor_nombre" validate:"required,min=2"`
	MontoApertura  decimal.Decimal `json:"monto_apertura"  validate:"min=0"`
	TurnoID        *string         `json:"turno_id"`
	Observaciones  *string         `json:"observaciones"`
}

type CerrarCajaRequest struct {
	MontoCierre   decimal.Decimal `json:"monto_cierre"  validate:"min=0"`
	Observaciones *string         `json:"observaciones"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SesionResponse struct {
	ID                 string           `json:"id"`
	TerminalID         string           `json:"terminal_id"`
	TerminalNombre     string           `json:"terminal_nombre"`
	VendedorID         string           `json:"vendedor_id"`
	VendedorNombre     string           `json:"vendedor_nombre"`
	MontoApertura      decimal.Decimal  `json:"monto_apertura"`
	TotalVentas        decimal.Decimal  `json:"total_ventas"`
	TotalEfectivo      decimal.Decimal  `json:"total_efectivo"`
	MontoCierre        *decimal.Decimal `json:"monto_cierre,omitempty"`
	DiferenciaEfectivo *decimal.Decimal `json:"diferencia_efectivo,omitempty"`
	Estado             string           `json:"estado"`
	Observaciones      *string          `json:"observaciones,omitempty"`
	TurnoID            *string          `json:"turno_id,omitempty"`
	OpenedAt           string           `json:"opened_at"`
	ClosedAt           *string          `json:"closed_at,omitempty"`
}
