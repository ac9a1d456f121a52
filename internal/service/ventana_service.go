package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"mostrador/internal/dto"
	"mostrador/internal/model"
	"mostrador/internal/pos"
)

// DraftPusher enqueues a background push of one window to the draft mirror.
// Implemented by worker.Dispatcher; nil disables background sync (unit tests).
type DraftPusher interface {
	EncolarPush(ctx context.Context, ventanaID int64) error
}

type VentanaService interface {
	Crear(ctx context.Context, req dto.CrearVentanaRequest) (*dto.VentanaResponse, error)
	Listar(ctx context.Context) []dto.VentanaResponse
	Obtener(ctx context.Context, id int64) (*dto.VentanaResponse, error)
	Quitar(ctx context.Context, id int64) error
	AgregarProducto(ctx context.Context, id int64, req dto.AgregarProductoRequest) (*dto.VentanaResponse, error)
	QuitarProducto(ctx context.Context, id int64, productoID string) (*dto.VentanaResponse, error)
	ActualizarCantidad(ctx context.Context, id int64, productoID string, req dto.ActualizarCantidadRequest) (*dto.VentanaResponse, error)
	AsignarCliente(ctx context.Context, id int64, req dto.AsignarClienteRequest) (*dto.VentanaResponse, error)
	AgregarPago(ctx context.Context, id int64, req dto.AgregarPagoRequest) (*dto.VentanaResponse, error)
	QuitarPago(ctx context.Context, id int64, pagoID string) (*dto.VentanaResponse, error)
	AplicarDescuento(ctx context.Context, id int64, req dto.AplicarDescuentoRequest) (*dto.VentanaResponse, error)
	AsignarNotas(ctx context.Context, id int64, req dto.AsignarNotasRequest) (*dto.VentanaResponse, error)
}

type ventanaService struct {
	caja   *pos.Caja
	pusher DraftPusher
}

func NewVentanaService(caja *pos.Caja, pusher DraftPusher) VentanaService {
	return &ventanaService{caja: caja, pusher: pusher}
}

func (s *ventanaService) Crear(ctx context.Context, req dto.CrearVentanaRequest) (*dto.VentanaResponse, error) {
	v := s.caja.AgregarVentana(req.Nombre)
	s.encolarPush(ctx, v.ID)
	return ventanaToResponse(&v), nil
}

func (s *ventanaService) Listar(_ context.Context) []dto.VentanaResponse {
	ventanas := s.caja.Ventanas()
	out := make([]dto.VentanaResponse, 0, len(ventanas))
	for i := range ventanas {
		out = append(out, *ventanaToResponse(&ventanas[i]))
	}
	return out
}

func (s *ventanaService) Obtener(_ context.Context, id int64) (*dto.VentanaResponse, error) {
	v, err := s.caja.Ventana(id)
	if err != nil {
		return nil, err
	}
	return ventanaToResponse(&v), nil
}

func (s *ventanaService) Quitar(_ context.Context, id int64) error {
	return s.caja.QuitarVentana(id)
}

func (s *ventanaService) AgregarProducto(ctx context.Context, id int64, req dto.AgregarProductoRequest) (*dto.VentanaResponse, error) {
	linea := model.Linea{
		ProductoID:      req.ProductoID,
		Nombre:          req.Nombre,
		PrecioUnitario:  req.PrecioUnitario,
		Cantidad:        req.Cantidad,
		TasaImpuesto:    req.TasaImpuesto,
		StockDisponible: req.StockDisponible,
	}
	if err := s.caja.AgregarProducto(id, linea); err != nil {
		return nil, err
	}
	return s.responder(ctx, id)
}

func (s *ventanaService) QuitarProducto(ctx context.Context, id int64, productoID string) (*dto.VentanaResponse, error) {
	if err := s.caja.QuitarProducto(id, productoID); err != nil {
		return nil, err
	}
	return s.responder(ctx, id)
}

func (s *ventanaService) ActualizarCantidad(ctx context.Context, id int64, productoID string, req dto.ActualizarCantidadRequest) (*dto.VentanaResponse, error) {
	if err := s.caja.ActualizarCantidad(id, productoID, req.Cantidad); err != nil {
		return nil, err
	}
	return s.responder(ctx, id)
}

func (s *ventanaService) AsignarCliente(ctx context.Context, id int64, req dto.AsignarClienteRequest) (*dto.VentanaResponse, error) {
	var cliente *model.Cliente
	if req.Cliente != nil {
		cliente = &model.Cliente{
			ID:              req.Cliente.ID,
			Nombre:          req.Cliente.Nombre,
			TipoDocumento:   req.Cliente.TipoDocumento,
			NumeroDocumento: req.Cliente.NumeroDocumento,
			Email:           req.Cliente.Email,
			Telefono:        req.Cliente.Telefono,
		}
	}
	if err := s.caja.AsignarCliente(id, cliente); err != nil {
		return nil, err
	}
	return s.responder(ctx, id)
}

func (s *ventanaService) AgregarPago(ctx context.Context, id int64, req dto.AgregarPagoRequest) (*dto.VentanaResponse, error) {
	pago := model.Pago{
		ID:         req.ID,
		Metodo:     req.Metodo,
		Monto:      req.Monto,
		Referencia: req.Referencia,
	}
	if err := s.caja.AgregarPago(id, pago); err != nil {
		return nil, err
	}
	return s.responder(ctx, id)
}

func (s *ventanaService) QuitarPago(ctx context.Context, id int64, pagoID string) (*dto.VentanaResponse, error) {
	if err := s.caja.QuitarPago(id, pagoID); err != nil {
		return nil, err
	}
	return s.responder(ctx, id)
}

func (s *ventanaService) AplicarDescuento(ctx context.Context, id int64, req dto.AplicarDescuentoRequest) (*dto.VentanaResponse, error) {
	var porcentaje, monto *decimal.Decimal
	if req.Porcentaje != nil {
		porcentaje = req.Porcentaje
	} else if req.Monto != nil {
		monto = req.Monto
	}
	if err := s.caja.AplicarDescuento(id, porcentaje, monto); err != nil {
		return nil, err
	}
	return s.responder(ctx, id)
}

func (s *ventanaService) AsignarNotas(ctx context.Context, id int64, req dto.AsignarNotasRequest) (*dto.VentanaResponse, error) {
	if err := s.caja.AsignarNotas(id, req.Notas); err != nil {
		return nil, err
	}
	return s.responder(ctx, id)
}

// responder re-reads the window after a mutation and schedules its draft push.
func (s *ventanaService) responder(ctx context.Context, id int64) (*dto.VentanaResponse, error) {
	v, err := s.caja.Ventana(id)
	if err != nil {
		return nil, err
	}
	s.encolarPush(ctx, id)
	return ventanaToResponse(&v), nil
}

// encolarPush is fire-and-forget: a failed enqueue only means the sync cron
// will pick the dirty window up later.
func (s *ventanaService) encolarPush(ctx context.Context, id int64) {
	if s.pusher == nil {
		return
	}
	if err := s.pusher.EncolarPush(ctx, id); err != nil {
		log.Warn().Int64("ventana_id", id).Err(err).Msg("no se pudo encolar el push del draft")
	}
}

func ventanaToResponse(v *model.Ventana) *dto.VentanaResponse {
	lineas := make([]dto.LineaResponse, 0, len(v.Lineas))
	for _, l := range v.Lineas {
		lineas = append(lineas, dto.LineaResponse{
			ProductoID:      l.ProductoID,
			Nombre:          l.Nombre,
			PrecioUnitario:  l.PrecioUnitario,
			Cantidad:        l.Cantidad,
			TasaImpuesto:    l.TasaImpuesto,
			StockDisponible: l.StockDisponible,
		})
	}
	pagos := make([]dto.PagoResponse, 0, len(v.Pagos))
	for _, p := range v.Pagos {
		pagos = append(pagos, dto.PagoResponse{ID: p.ID, Metodo: p.Metodo, Monto: p.Monto, Referencia: p.Referencia})
	}
	resp := &dto.VentanaResponse{
		ID:             v.ID,
		Nombre:         v.Nombre,
		Lineas:         lineas,
		Cliente:        v.Cliente,
		Pagos:          pagos,
		Subtotal:       v.Subtotal,
		Impuesto:       v.Impuesto,
		Descuento:      v.Descuento,
		Total:          v.Total,
		Estado:         v.Estado,
		DescuentoPct:   v.DescuentoPct,
		DescuentoMonto: v.DescuentoMonto,
		Notas:          v.Notas,
		CreadoEn:       v.CreadoEn.Format(time.RFC3339),
		ModificadoEn:   v.ModificadoEn.Format(time.RFC3339),
		DraftID:        v.DraftID,
		Synced:         v.Synced,
		SyncError:      v.SyncError,
	}
	if v.SyncedAt != nil {
		t := v.SyncedAt.Format(time.RFC3339)
		resp.SyncedAt = &t
	}
	return resp
}
