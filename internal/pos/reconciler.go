package pos

import (
	"time"

	"mostrador/internal/model"
)

// MergeDraft reconciles one persisted draft against the active windows and
// returns the local id of the window it landed on.
//
// Policy: dirty-local wins. A window whose draft id matches but that carries
// unpushed local edits is left untouched — the next sync pass will overwrite
// the stored draft with the local state instead. A clean matching window is
// overwritten field by field from the draft. An unknown draft id materializes
// a new window under a fresh local id.
func (c *Caja) MergeDraft(d model.Draft) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, v := range c.ventanas {
		if v.DraftID != nil && *v.DraftID == d.ID {
			if !v.Synced {
				return v.ID
			}
			c.aplicarDraft(v, d)
			return v.ID
		}
	}

	v := c.nuevaVentana(d.Nombre)
	draftID := d.ID
	v.DraftID = &draftID
	c.aplicarDraft(v, d)
	return v.ID
}

// aplicarDraft overwrites window content from the draft and re-derives the
// totals locally — stored totals are informative, never trusted.
func (c *Caja) aplicarDraft(v *model.Ventana, d model.Draft) {
	if d.Nombre != "" {
		v.Nombre = d.Nombre
	}
	v.Lineas = append([]model.Linea(nil), d.Lineas...)
	v.Pagos = append([]model.Pago(nil), d.Pagos...)
	v.Cliente = clonarCliente(d.Cliente)
	v.DescuentoPct = d.DescuentoPct
	v.DescuentoMonto = d.DescuentoMonto
	v.Notas = d.Notas
	c.recalcular(v)

	v.ModificadoEn = d.UpdatedAt
	v.Synced = true
	syncedAt := d.UpdatedAt
	v.SyncedAt = &syncedAt
	v.SyncError = nil
}

// ClaimDraftID assigns a window's draft id exactly once. Concurrent pushes of
// a never-synced window race to claim; the loser receives the winner's id, so
// every push for one window converges on a single draft key in the mirror.
func (c *Caja) ClaimDraftID(id int64, candidato string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.ventana(id)
	if v == nil {
		return "", ErrVentanaNoEncontrada
	}
	if v.DraftID != nil {
		return *v.DraftID, nil
	}
	draftID := candidato
	v.DraftID = &draftID
	return draftID, nil
}

// MarcarModificada flags a window dirty and bumps its modification time, so
// the sync loop picks it up on the next pass. Exposed for callers that mutate
// window-adjacent state outside this container.
func (c *Caja) MarcarModificada(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.ventana(id)
	if v == nil {
		return ErrVentanaNoEncontrada
	}
	c.marcarModificada(v)
	return nil
}

// DraftDeVentana builds the persistable draft mirror of a window snapshot.
// The draft id is the window's existing one when present; otherwise the
// caller supplies a freshly generated id.
func DraftDeVentana(v model.Ventana, terminalID, draftID string) model.Draft {
	if v.DraftID != nil {
		draftID = *v.DraftID
	}
	return model.Draft{
		ID:             draftID,
		TerminalID:     terminalID,
		Nombre:         v.Nombre,
		Lineas:         append([]model.Linea(nil), v.Lineas...),
		Cliente:        clonarCliente(v.Cliente),
		Pagos:          append([]model.Pago(nil), v.Pagos...),
		DescuentoPct:   v.DescuentoPct,
		DescuentoMonto: v.DescuentoMonto,
		Notas:          v.Notas,
		Subtotal:       v.Subtotal,
		Impuesto:       v.Impuesto,
		Descuento:      v.Descuento,
		Total:          v.Total,
		UpdatedAt:      time.Now(),
	}
}
