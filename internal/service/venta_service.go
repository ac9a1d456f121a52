package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"mostrador/internal/dto"
	"mostrador/internal/model"
	"mostrador/internal/pos"
	"mostrador/internal/repository"
)

type VentaService interface {
	Completar(ctx context.Context, ventanaID int64, req dto.CompletarVentaRequest) (*dto.VentaResponse, error)
	Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	// DelTurno returns the in-memory completed-sales log of the current shift.
	DelTurno(ctx context.Context) []dto.VentaResponse
}

type ventaService struct {
	caja       *pos.Caja
	repo       repository.VentaRepository
	sesiones   repository.SesionRepository
	drafts     repository.DraftRepository
	terminalID string
}

func NewVentaService(caja *pos.Caja, repo repository.VentaRepository, sesiones repository.SesionRepository, drafts repository.DraftRepository, terminalID string) VentaService {
	return &ventaService{
		caja:       caja,
		repo:       repo,
		sesiones:   sesiones,
		drafts:     drafts,
		terminalID: terminalID,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Completar ─────────────────────────────────────────────────────────────────
// The invoice number is allocated inside the same transaction that creates the
// row, so two terminals sharing a database cannot both read the same MAX and
// collide on the unique index after committing locally. The in-memory
// completion happens between allocation and insert; a persistence failure
// after it does NOT roll it back — the in-memory log is authoritative for the
// shift and the row can be re-created from it.

func (s *ventaService) Completar(ctx context.Context, ventanaID int64, req dto.CompletarVentaRequest) (*dto.VentaResponse, error) {
	fecha := time.Now()
	if req.FechaVenta != nil {
		if parsed, perr := time.Parse("2006-01-02T15:04:05Z", *req.FechaVenta); perr == nil {
			fecha = parsed
		}
	}

	ventana, err := s.caja.Ventana(ventanaID)
	if err != nil {
		return nil, err
	}

	var venta *model.VentaCompletada
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumeroFactura(ctx, tx)
		if err != nil {
			return err
		}
		venta, err = s.caja.CompletarVenta(ventanaID, pos.MetaVenta{
			NumeroFactura:  numero,
			VendedorID:     req.VendedorID,
			VendedorNombre: req.VendedorNombre,
			Fecha:          fecha,
		})
		if err != nil {
			return err
		}
		return s.repo.Create(ctx, tx, venta)
	})
	if txErr != nil {
		if venta != nil {
			log.Error().Int("numero_factura", venta.NumeroFactura).Err(txErr).
				Msg("venta completada localmente pero no persistida")
		}
		return nil, txErr
	}

	// Keep the session row's aggregates current so a crash between sales
	// resumes with correct totals.
	if sesion := s.caja.Sesion(); sesion != nil {
		if err := s.sesiones.Update(ctx, sesion); err != nil {
			log.Warn().Err(err).Msg("no se pudieron persistir los acumulados de la sesión")
		}
	}

	// The window is gone; its draft mirror is now garbage.
	if ventana.DraftID != nil {
		if err := s.drafts.Delete(ctx, s.terminalID, *ventana.DraftID); err != nil {
			log.Warn().Str("draft_id", *ventana.DraftID).Err(err).Msg("no se pudo eliminar el draft de la venta completada")
		}
	}

	return ventaToResponse(venta), nil
}

// ── Listar ────────────────────────────────────────────────────────────────────

func (s *ventaService) Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		items = append(items, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *ventaService) DelTurno(_ context.Context) []dto.VentaResponse {
	completadas := s.caja.VentasCompletadas()
	out := make([]dto.VentaResponse, 0, len(completadas))
	for i := range completadas {
		out = append(out, *ventaToResponse(&completadas[i]))
	}
	return out
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func ventaToResponse(v *model.VentaCompletada) *dto.VentaResponse {
	items := make([]dto.VentaItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, dto.VentaItemResponse{
			ProductoID:     item.ProductoID,
			Nombre:         item.Nombre,
			PrecioUnitario: item.PrecioUnitario,
			Cantidad:       item.Cantidad,
			Subtotal:       item.Subtotal,
		})
	}
	pagos := make([]dto.PagoResponse, 0, len(v.Pagos))
	for _, p := range v.Pagos {
		pagos = append(pagos, dto.PagoResponse{Metodo: p.Metodo, Monto: p.Monto, Referencia: p.Referencia})
	}
	return &dto.VentaResponse{
		ID:             v.ID.String(),
		NumeroFactura:  v.NumeroFactura,
		SesionCajaID:   v.SesionCajaID.String(),
		VendedorID:     v.VendedorID,
		VendedorNombre: v.VendedorNombre,
		ClienteID:      v.ClienteID,
		ClienteNombre:  v.ClienteNombre,
		TipoPos:        v.TipoPos,
		Subtotal:       v.Subtotal,
		Impuesto:       v.Impuesto,
		Descuento:      v.Descuento,
		Total:          v.Total,
		Items:          items,
		Pagos:          pagos,
		Notas:          v.Notas,
		FechaVenta:     v.FechaVenta.Format(time.RFC3339),
	}
}
