package pos

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"mostrador/internal/model"
)

// Lookup misses and failed preconditions leave the container untouched; the
// caller decides whether to surface or ignore the error.
var (
	ErrSinSesionAbierta     = errors.New("no hay sesión de caja abierta")
	ErrSesionYaAbierta      = errors.New("ya existe una sesión de caja abierta")
	ErrVentanaNoEncontrada  = errors.New("ventana de venta no encontrada")
	ErrProductoNoEncontrado = errors.New("producto no encontrado en la ventana")
	ErrPagoNoEncontrado     = errors.New("pago no encontrado en la ventana")
	ErrCantidadInvalida     = errors.New("la cantidad debe ser mayor a cero")
	ErrVentanaNoPagada      = errors.New("la ventana no está pagada")
)

// MetaVenta carries the completion metadata stamped onto a VentaCompletada.
// The invoice number is allocated by the caller (it comes from the database
// sequence, not from this container).
type MetaVenta struct {
	NumeroFactura  int
	VendedorID     string
	VendedorNombre string
	Fecha          time.Time
}

// Caja is the in-memory state container for one register terminal: the open
// session, its active sale windows and the session's completed-sales log.
// All methods are safe for concurrent use; each mutation runs to completion
// under the lock, recomputing totals and status before returning, so readers
// always observe a consistent window.
type Caja struct {
	mu          sync.Mutex
	tasaDefecto decimal.Decimal

	sesion      *model.SesionCaja
	ventanas    []*model.Ventana
	completadas []model.VentaCompletada
	nextID      int64
}

// NewCaja builds an empty container. tasaDefecto is the terminal's default
// tax rate as a fraction (0.19 for 19%).
func NewCaja(tasaDefecto decimal.Decimal) *Caja {
	return &Caja{tasaDefecto: tasaDefecto, nextID: 1}
}

// ── Ciclo de vida de la sesión ───────────────────────────────────────────────

// AbrirSesion installs a fresh session and resets the working set: the active
// window list is replaced by a single empty window and the completed-sales
// log is cleared.
func (c *Caja) AbrirSesion(sesion *model.SesionCaja) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sesion != nil && c.sesion.Estado == model.SesionAbierta {
		return ErrSesionYaAbierta
	}

	c.sesion = sesion
	c.completadas = nil
	c.ventanas = nil
	c.nuevaVentana("")
	return nil
}

// CerrarSesion declares the drawer count, computes the variance against the
// expected cash and marks the session closed. Terminal: the session object is
// never reopened. Returns a copy of the closed session for persistence.
func (c *Caja) CerrarSesion(montoCierre decimal.Decimal, observaciones *string) (*model.SesionCaja, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sesion == nil || c.sesion.Estado != model.SesionAbierta {
		return nil, ErrSinSesionAbierta
	}

	esperado := c.sesion.MontoApertura.Add(c.sesion.TotalEfectivo)
	diferencia := montoCierre.Sub(esperado)
	ahora := time.Now()

	c.sesion.MontoCierre = &montoCierre
	c.sesion.DiferenciaEfectivo = &diferencia
	c.sesion.Estado = model.SesionCerrada
	c.sesion.ClosedAt = &ahora
	if observaciones != nil {
		c.sesion.Observaciones = observaciones
	}

	cerrada := *c.sesion
	return &cerrada, nil
}

// Sesion returns a copy of the current session, or nil when none was opened.
func (c *Caja) Sesion() *model.SesionCaja {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sesion == nil {
		return nil
	}
	s := *c.sesion
	return &s
}

// ── Ventanas ─────────────────────────────────────────────────────────────────

// AgregarVentana appends a new empty window and returns a copy of it.
func (c *Caja) AgregarVentana(nombre string) model.Ventana {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clonarVentana(c.nuevaVentana(nombre))
}

// QuitarVentana removes a window from the active list. If an open session is
// left with zero windows a fresh empty one is created, so there is always at
// least one active window during a shift.
func (c *Caja) QuitarVentana(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indiceVentana(id)
	if idx < 0 {
		return ErrVentanaNoEncontrada
	}
	c.ventanas = append(c.ventanas[:idx], c.ventanas[idx+1:]...)
	c.asegurarVentana()
	return nil
}

// Ventana returns a copy of the window with the given id.
func (c *Caja) Ventana(id int64) (model.Ventana, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.ventana(id)
	if v == nil {
		return model.Ventana{}, ErrVentanaNoEncontrada
	}
	return clonarVentana(v), nil
}

// Ventanas returns copies of all active windows, in creation order.
func (c *Caja) Ventanas() []model.Ventana {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Ventana, 0, len(c.ventanas))
	for _, v := range c.ventanas {
		out = append(out, clonarVentana(v))
	}
	return out
}

// VentanasSucias returns copies of the windows with local edits not yet
// mirrored to the draft store.
func (c *Caja) VentanasSucias() []model.Ventana {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []model.Ventana
	for _, v := range c.ventanas {
		if !v.Synced {
			out = append(out, clonarVentana(v))
		}
	}
	return out
}

// ── Mutaciones de ventana ────────────────────────────────────────────────────

// AgregarProducto merges the line into the window: an existing line with the
// same product id has its quantity incremented, otherwise the line is
// appended. Totals are recomputed and the window is marked dirty.
func (c *Caja) AgregarProducto(id int64, linea model.Linea) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.ventana(id)
	if v == nil {
		return ErrVentanaNoEncontrada
	}

	merged := false
	for i := range v.Lineas {
		if v.Lineas[i].ProductoID == linea.ProductoID {
			v.Lineas[i].Cantidad += linea.Cantidad
			merged = true
			break
		}
	}
	if !merged {
		v.Lineas = append(v.Lineas, linea)
	}
	c.recalcular(v)
	c.marcarModificada(v)
	return nil
}

// QuitarProducto removes the line matching the product id.
func (c *Caja) QuitarProducto(id int64, productoID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.ventana(id)
	if v == nil {
		return ErrVentanaNoEncontrada
	}
	for i := range v.Lineas {
		if v.Lineas[i].ProductoID == productoID {
			v.Lineas = append(v.Lineas[:i], v.Lineas[i+1:]...)
			c.recalcular(v)
			c.marcarModificada(v)
			return nil
		}
	}
	return ErrProductoNoEncontrado
}

// ActualizarCantidad sets the quantity of an existing line. Quantities of
// zero or less are rejected without touching the window — removing a product
// is an explicit operation, not a quantity edit.
func (c *Caja) ActualizarCantidad(id int64, productoID string, cantidad int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cantidad <= 0 {
		return ErrCantidadInvalida
	}
	v := c.ventana(id)
	if v == nil {
		return ErrVentanaNoEncontrada
	}
	for i := range v.Lineas {
		if v.Lineas[i].ProductoID == productoID {
			v.Lineas[i].Cantidad = cantidad
			c.recalcular(v)
			c.marcarModificada(v)
			return nil
		}
	}
	return ErrProductoNoEncontrado
}

// AsignarCliente attaches a customer to the window; nil clears it back to an
// anonymous sale.
func (c *Caja) AsignarCliente(id int64, cliente *model.Cliente) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.ventana(id)
	if v == nil {
		return ErrVentanaNoEncontrada
	}
	v.Cliente = clonarCliente(cliente)
	c.marcarModificada(v)
	return nil
}

// AgregarPago adds a payment entry, or replaces the amount of an existing
// entry with the same id. Only the status is re-derived — totals are
// product-driven and payments never change them.
func (c *Caja) AgregarPago(id int64, pago model.Pago) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.ventana(id)
	if v == nil {
		return ErrVentanaNoEncontrada
	}

	replaced := false
	for i := range v.Pagos {
		if v.Pagos[i].ID == pago.ID {
			v.Pagos[i] = pago
			replaced = true
			break
		}
	}
	if !replaced {
		v.Pagos = append(v.Pagos, pago)
	}
	v.Estado = derivarEstado(v)
	c.marcarModificada(v)
	return nil
}

// QuitarPago removes a payment entry and re-derives the status — dropping
// below the total demotes the window back to pending_payment or draft.
func (c *Caja) QuitarPago(id int64, pagoID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.ventana(id)
	if v == nil {
		return ErrVentanaNoEncontrada
	}
	for i := range v.Pagos {
		if v.Pagos[i].ID == pagoID {
			v.Pagos = append(v.Pagos[:i], v.Pagos[i+1:]...)
			v.Estado = derivarEstado(v)
			c.marcarModificada(v)
			return nil
		}
	}
	return ErrPagoNoEncontrado
}

// AplicarDescuento sets the window discount: percentage XOR fixed amount,
// last write wins. Both nil clears the discount.
func (c *Caja) AplicarDescuento(id int64, porcentaje, monto *decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.ventana(id)
	if v == nil {
		return ErrVentanaNoEncontrada
	}
	switch {
	case porcentaje != nil:
		pct := *porcentaje
		v.DescuentoPct = &pct
		v.DescuentoMonto = nil
	case monto != nil:
		m := *monto
		v.DescuentoMonto = &m
		v.DescuentoPct = nil
	default:
		v.DescuentoPct = nil
		v.DescuentoMonto = nil
	}
	c.recalcular(v)
	c.marcarModificada(v)
	return nil
}

// AsignarNotas sets the free-form note on the window.
func (c *Caja) AsignarNotas(id int64, notas *string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.ventana(id)
	if v == nil {
		return ErrVentanaNoEncontrada
	}
	v.Notas = notas
	c.marcarModificada(v)
	return nil
}

// ── Completar venta ──────────────────────────────────────────────────────────

// CompletarVenta converts a paid window into an immutable VentaCompletada:
// the snapshot is appended to the session log, the session aggregates grow by
// the sale total (and its cash payments), and the window leaves the active
// list. Preconditions — an open session and a paid window — fail without any
// state change.
func (c *Caja) CompletarVenta(id int64, meta MetaVenta) (*model.VentaCompletada, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sesion == nil || c.sesion.Estado != model.SesionAbierta {
		return nil, ErrSinSesionAbierta
	}
	idx := c.indiceVentana(id)
	if idx < 0 {
		return nil, ErrVentanaNoEncontrada
	}
	v := c.ventanas[idx]
	if v.Estado != model.VentanaPaid {
		return nil, ErrVentanaNoPagada
	}

	venta := model.VentaCompletada{
		SesionCajaID:   c.sesion.ID,
		NumeroFactura:  meta.NumeroFactura,
		VendedorID:     meta.VendedorID,
		VendedorNombre: meta.VendedorNombre,
		TipoPos:        model.VentaSimple,
		Subtotal:       v.Subtotal,
		Impuesto:       v.Impuesto,
		Descuento:      v.Descuento,
		Total:          v.Total,
		Notas:          v.Notas,
		FechaVenta:     meta.Fecha,
	}
	if v.Cliente != nil {
		clienteID := v.Cliente.ID
		clienteNombre := v.Cliente.Nombre
		venta.ClienteID = &clienteID
		venta.ClienteNombre = &clienteNombre
		if v.Cliente.NumeroDocumento != nil && *v.Cliente.NumeroDocumento != "" {
			venta.TipoPos = model.VentaElectronic
		}
	}
	for _, l := range v.Lineas {
		venta.Items = append(venta.Items, model.VentaItem{
			ProductoID:     l.ProductoID,
			Nombre:         l.Nombre,
			PrecioUnitario: l.PrecioUnitario,
			Cantidad:       l.Cantidad,
			TasaImpuesto:   l.TasaImpuesto,
			Subtotal:       l.PrecioUnitario.Mul(decimal.NewFromInt(int64(l.Cantidad))).Round(2),
		})
	}
	efectivo := decimal.Zero
	for _, p := range v.Pagos {
		venta.Pagos = append(venta.Pagos, model.VentaPago{
			Metodo:     p.Metodo,
			Monto:      p.Monto,
			Referencia: p.Referencia,
		})
		if p.Metodo == model.PagoCash {
			efectivo = efectivo.Add(p.Monto)
		}
	}

	c.completadas = append(c.completadas, venta)
	c.sesion.TotalVentas = c.sesion.TotalVentas.Add(v.Total)
	c.sesion.TotalEfectivo = c.sesion.TotalEfectivo.Add(efectivo)

	c.ventanas = append(c.ventanas[:idx], c.ventanas[idx+1:]...)
	c.asegurarVentana()
	return &venta, nil
}

// VentasCompletadas returns the session's completed-sales log.
func (c *Caja) VentasCompletadas() []model.VentaCompletada {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.VentaCompletada, len(c.completadas))
	copy(out, c.completadas)
	return out
}

// ── Sincronización ───────────────────────────────────────────────────────────

// MarcarSincronizada records a successful draft push. The mark is skipped when
// the window was modified after the pushed snapshot was taken, so an in-flight
// edit keeps the window dirty for the next sync pass.
func (c *Caja) MarcarSincronizada(id int64, draftID string, instantanea time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.ventana(id)
	if v == nil {
		return ErrVentanaNoEncontrada
	}
	v.DraftID = &draftID
	if v.ModificadoEn.After(instantanea) {
		return nil
	}
	ahora := time.Now()
	v.Synced = true
	v.SyncedAt = &ahora
	v.SyncError = nil
	return nil
}

// MarcarErrorSync records a failed draft push. Window content is untouched —
// the last-known-good local state stands and the window stays dirty.
func (c *Caja) MarcarErrorSync(id int64, mensaje string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.ventana(id)
	if v == nil {
		return ErrVentanaNoEncontrada
	}
	v.SyncError = &mensaje
	return nil
}

// ── Hidratación ──────────────────────────────────────────────────────────────

// Hidratar replaces the whole working set from storage: the prior session,
// its active windows and the completed-sales log. Totals and statuses are
// re-derived rather than trusted, so a stale or hand-edited snapshot cannot
// break the money invariants.
func (c *Caja) Hidratar(sesion *model.SesionCaja, ventanas []model.Ventana, completadas []model.VentaCompletada) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sesion = sesion
	c.completadas = append([]model.VentaCompletada(nil), completadas...)
	c.ventanas = nil
	for i := range ventanas {
		v := ventanas[i]
		c.recalcular(&v)
		c.ventanas = append(c.ventanas, &v)
		if v.ID >= c.nextID {
			c.nextID = v.ID + 1
		}
	}
	if sesion != nil && sesion.Estado == model.SesionAbierta {
		c.asegurarVentana()
	}
}

// ── Helpers internos (se llaman con el lock tomado) ──────────────────────────

func (c *Caja) nuevaVentana(nombre string) *model.Ventana {
	id := c.nextID
	c.nextID++
	if nombre == "" {
		nombre = fmt.Sprintf("Venta %d", id)
	}
	ahora := time.Now()
	v := &model.Ventana{
		ID:           id,
		Nombre:       nombre,
		Subtotal:     decimal.Zero,
		Impuesto:     decimal.Zero,
		Descuento:    decimal.Zero,
		Total:        decimal.Zero,
		Estado:       model.VentanaDraft,
		CreadoEn:     ahora,
		ModificadoEn: ahora,
	}
	c.ventanas = append(c.ventanas, v)
	return v
}

func (c *Caja) ventana(id int64) *model.Ventana {
	if idx := c.indiceVentana(id); idx >= 0 {
		return c.ventanas[idx]
	}
	return nil
}

func (c *Caja) indiceVentana(id int64) int {
	for i, v := range c.ventanas {
		if v.ID == id {
			return i
		}
	}
	return -1
}

// asegurarVentana keeps the at-least-one-window invariant while a session is
// open. Applied uniformly: both explicit removal and sale completion go
// through it.
func (c *Caja) asegurarVentana() {
	if len(c.ventanas) == 0 && c.sesion != nil && c.sesion.Estado == model.SesionAbierta {
		c.nuevaVentana("")
	}
}

func (c *Caja) recalcular(v *model.Ventana) {
	t := CalcularTotales(v.Lineas, c.tasaDefecto, Descuento{Porcentaje: v.DescuentoPct, Monto: v.DescuentoMonto})
	v.Subtotal = t.Subtotal
	v.Impuesto = t.Impuesto
	v.Descuento = t.Descuento
	v.Total = t.Total
	v.Estado = derivarEstado(v)
}

func (c *Caja) marcarModificada(v *model.Ventana) {
	v.Synced = false
	v.ModificadoEn = time.Now()
}

func clonarVentana(v *model.Ventana) model.Ventana {
	out := *v
	out.Lineas = append([]model.Linea(nil), v.Lineas...)
	out.Pagos = append([]model.Pago(nil), v.Pagos...)
	out.Cliente = clonarCliente(v.Cliente)
	return out
}

func clonarCliente(cl *model.Cliente) *model.Cliente {
	if cl == nil {
		return nil
	}
	out := *cl
	return &out
}
