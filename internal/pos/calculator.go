package pos

import (
	"github.com/shopspring/decimal"

	"mostrador/internal/model"
)

var cien = decimal.NewFromInt(100)

// Descuento describes a window's discount: percentage XOR fixed amount.
// When both are nil the window has no discount.
type Descuento struct {
	Porcentaje *decimal.Decimal
	Monto      *decimal.Decimal
}

// Totales is the derived money breakdown of a set of cart lines.
type Totales struct {
	Subtotal  decimal.Decimal
	Impuesto  decimal.Decimal
	Descuento decimal.Decimal
	Total     decimal.Decimal
}

// CalcularTotales derives subtotal, discount, tax and total for the given
// lines. The discount applies to the subtotal BEFORE tax: the taxable base is
// (subtotal - descuento), so per-line taxes are scaled by the discounted
// fraction of the subtotal. With a single uniform rate this reduces to
// (subtotal - descuento) * tasa. All rounding is half-up to 2 decimals; the
// total is clamped at zero.
func CalcularTotales(lineas []model.Linea, tasaDefecto decimal.Decimal, desc Descuento) Totales {
	subtotal := decimal.Zero
	impuestoPleno := decimal.Zero
	for _, l := range lineas {
		linea := l.PrecioUnitario.Mul(decimal.NewFromInt(int64(l.Cantidad)))
		subtotal = subtotal.Add(linea)

		tasa := tasaDefecto
		if l.TasaImpuesto != nil {
			tasa = *l.TasaImpuesto
		}
		impuestoPleno = impuestoPleno.Add(linea.Mul(tasa))
	}
	subtotal = subtotal.Round(2)

	descuento := decimal.Zero
	switch {
	case desc.Porcentaje != nil:
		descuento = subtotal.Mul(*desc.Porcentaje).Div(cien).Round(2)
	case desc.Monto != nil:
		descuento = desc.Monto.Round(2)
	}

	// Taxable base never goes below zero (a fixed discount may exceed the subtotal).
	base := subtotal.Sub(descuento)
	if base.IsNegative() {
		base = decimal.Zero
	}

	impuesto := decimal.Zero
	if subtotal.IsPositive() {
		impuesto = impuestoPleno.Mul(base).Div(subtotal).Round(2)
	}

	total := subtotal.Sub(descuento).Add(impuesto)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totales{
		Subtotal:  subtotal,
		Impuesto:  impuesto,
		Descuento: descuento,
		Total:     total,
	}
}

// derivarEstado recomputes a window's status from its payments. A window
// without lines — or whose total is zero, e.g. after a 100% discount — is
// never payable: it stays in draft no matter what stale payments remain.
func derivarEstado(v *model.Ventana) string {
	if len(v.Lineas) == 0 || !v.Total.IsPositive() {
		return model.VentanaDraft
	}
	pagado := decimal.Zero
	for _, p := range v.Pagos {
		pagado = pagado.Add(p.Monto)
	}
	switch {
	case pagado.GreaterThanOrEqual(v.Total):
		return model.VentanaPaid
	case pagado.IsPositive():
		return model.VentanaPendingPayment
	default:
		return model.VentanaDraft
	}
}
