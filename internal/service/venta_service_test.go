package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mostrador/internal/dto"
	"mostrador/internal/model"
	"mostrador/internal/pos"
)

// cajaConVentanaPagada arma una caja con sesión abierta y una ventana lista
// para completar (2 × 1000 @ 19% = 2380, pagada en efectivo).
func cajaConVentanaPagada(t *testing.T) (*pos.Caja, int64) {
	t.Helper()
	caja := pos.NewCaja(tasa19)
	require.NoError(t, caja.AbrirSesion(sesionAbiertaPrueba()))

	id := caja.Ventanas()[0].ID
	require.NoError(t, caja.AgregarProducto(id, lineaPrueba("p1", "1000", 2)))
	require.NoError(t, caja.AgregarPago(id, model.Pago{ID: "pg1", Metodo: model.PagoCash, Monto: dec("2380")}))
	return caja, id
}

func TestVentaServiceCompletar(t *testing.T) {
	caja, id := cajaConVentanaPagada(t)
	repo := newFakeVentaRepo()
	sesiones := newFakeSesionRepo()
	drafts := newFakeDraftRepo()

	// La ventana ya fue espejada: su draft debe eliminarse al completar.
	require.NoError(t, caja.MarcarSincronizada(id, "d1", time.Now()))
	drafts.drafts["d1"] = model.Draft{ID: "d1", TerminalID: "term-1"}

	svc := NewVentaService(caja, repo, sesiones, drafts, "term-1")
	resp, err := svc.Completar(context.Background(), id, dto.CompletarVentaRequest{
		VendedorID:     "vend-1",
		VendedorNombre: "Ana",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.NumeroFactura)
	assert.Equal(t, model.VentaSimple, resp.TipoPos)
	assert.True(t, resp.Total.Equal(dec("2380")))
	require.Len(t, resp.Items, 1)
	require.Len(t, resp.Pagos, 1)

	// Persistencia: la venta quedó en el repo y los acumulados de la sesión
	// también se guardaron.
	assert.Len(t, repo.ventas, 1)
	assert.GreaterOrEqual(t, sesiones.updates, 1)

	// El espejo de la ventana completada desapareció.
	assert.Empty(t, drafts.drafts)

	// El log del turno creció y quedó una ventana nueva en su lugar.
	assert.Len(t, caja.VentasCompletadas(), 1)
	ventanas := caja.Ventanas()
	require.Len(t, ventanas, 1)
	assert.NotEqual(t, id, ventanas[0].ID)
}

func TestVentaServiceCompletarNumeracionConsecutiva(t *testing.T) {
	caja, id := cajaConVentanaPagada(t)
	repo := newFakeVentaRepo()
	svc := NewVentaService(caja, repo, newFakeSesionRepo(), newFakeDraftRepo(), "term-1")

	req := dto.CompletarVentaRequest{VendedorID: "vend-1", VendedorNombre: "Ana"}

	resp, err := svc.Completar(context.Background(), id, req)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.NumeroFactura)

	// Segunda venta sobre la ventana de reemplazo.
	id2 := caja.Ventanas()[0].ID
	require.NoError(t, caja.AgregarProducto(id2, lineaPrueba("p2", "500", 1)))
	require.NoError(t, caja.AgregarPago(id2, model.Pago{ID: "pg1", Metodo: model.PagoCard, Monto: dec("595")}))

	resp, err = svc.Completar(context.Background(), id2, req)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.NumeroFactura)
}

func TestVentaServiceCompletarNoPagada(t *testing.T) {
	caja := pos.NewCaja(tasa19)
	require.NoError(t, caja.AbrirSesion(sesionAbiertaPrueba()))
	id := caja.Ventanas()[0].ID
	require.NoError(t, caja.AgregarProducto(id, lineaPrueba("p1", "1000", 2)))

	repo := newFakeVentaRepo()
	svc := NewVentaService(caja, repo, newFakeSesionRepo(), newFakeDraftRepo(), "term-1")

	_, err := svc.Completar(context.Background(), id, dto.CompletarVentaRequest{VendedorID: "vend-1", VendedorNombre: "Ana"})
	assert.ErrorIs(t, err, pos.ErrVentanaNoPagada)
	assert.Empty(t, repo.ventas)
	assert.Len(t, caja.Ventanas(), 1)
}

func TestVentaServiceCompletarPersistenciaFallida(t *testing.T) {
	caja, id := cajaConVentanaPagada(t)
	repo := newFakeVentaRepo()
	repo.failCreate = true
	svc := NewVentaService(caja, repo, newFakeSesionRepo(), newFakeDraftRepo(), "term-1")

	_, err := svc.Completar(context.Background(), id, dto.CompletarVentaRequest{VendedorID: "vend-1", VendedorNombre: "Ana"})
	require.Error(t, err)

	// Sin rollback local: la venta quedó en el log del turno aunque la fila
	// no se haya creado. El registro en memoria manda durante el turno.
	assert.Len(t, caja.VentasCompletadas(), 1)
	assert.Empty(t, repo.ventas)
}

func TestVentaServiceCompletarFalloDeNumeracion(t *testing.T) {
	caja, id := cajaConVentanaPagada(t)
	repo := newFakeVentaRepo()
	repo.failNext = true
	svc := NewVentaService(caja, repo, newFakeSesionRepo(), newFakeDraftRepo(), "term-1")

	_, err := svc.Completar(context.Background(), id, dto.CompletarVentaRequest{VendedorID: "vend-1", VendedorNombre: "Ana"})
	require.Error(t, err)

	// El número se asigna antes del cierre local: si la asignación falla no
	// hay venta en el log ni ventana consumida.
	assert.Empty(t, caja.VentasCompletadas())
	ventanas := caja.Ventanas()
	require.Len(t, ventanas, 1)
	assert.Equal(t, id, ventanas[0].ID)
	assert.Empty(t, repo.ventas)
}

func TestVentaServiceListarConFiltro(t *testing.T) {
	repo := newFakeVentaRepo()
	hoy := time.Now()
	repo.ventas = []model.VentaCompletada{
		{NumeroFactura: 1, TipoPos: model.VentaSimple, FechaVenta: hoy},
		{NumeroFactura: 2, TipoPos: model.VentaElectronic, FechaVenta: hoy},
		{NumeroFactura: 3, TipoPos: model.VentaSimple, FechaVenta: hoy.AddDate(0, 0, -1)},
	}

	svc := NewVentaService(pos.NewCaja(tasa19), repo, newFakeSesionRepo(), newFakeDraftRepo(), "term-1")

	resp, err := svc.Listar(context.Background(), dto.VentaFilter{Tipo: model.VentaSimple})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	assert.Equal(t, 1, resp.Page, "page por defecto")

	resp, err = svc.Listar(context.Background(), dto.VentaFilter{Fecha: hoy.Format("2006-01-02")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
}

func TestVentaServiceDelTurno(t *testing.T) {
	caja, id := cajaConVentanaPagada(t)
	svc := NewVentaService(caja, newFakeVentaRepo(), newFakeSesionRepo(), newFakeDraftRepo(), "term-1")

	assert.Empty(t, svc.DelTurno(context.Background()))

	_, err := svc.Completar(context.Background(), id, dto.CompletarVentaRequest{VendedorID: "vend-1", VendedorNombre: "Ana"})
	require.NoError(t, err)

	turno := svc.DelTurno(context.Background())
	require.Len(t, turno, 1)
	assert.Equal(t, 1, turno[0].NumeroFactura)
}
