package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mostrador/internal/dto"
	"mostrador/internal/model"
	"mostrador/internal/pos"
)

// fakePusher records the window ids queued for background sync.
type fakePusher struct {
	encolados []int64
}

var _ DraftPusher = (*fakePusher)(nil)

func (f *fakePusher) EncolarPush(_ context.Context, ventanaID int64) error {
	f.encolados = append(f.encolados, ventanaID)
	return nil
}

func ventanaServicePrueba(t *testing.T) (VentanaService, *pos.Caja, *fakePusher, int64) {
	t.Helper()
	caja := pos.NewCaja(tasa19)
	require.NoError(t, caja.AbrirSesion(sesionAbiertaPrueba()))
	pusher := &fakePusher{}
	return NewVentanaService(caja, pusher), caja, pusher, caja.Ventanas()[0].ID
}

func TestVentanaServiceFlujoDeVenta(t *testing.T) {
	svc, _, pusher, id := ventanaServicePrueba(t)
	ctx := context.Background()

	resp, err := svc.AgregarProducto(ctx, id, dto.AgregarProductoRequest{
		ProductoID:     "p1",
		Nombre:         "Café 500g",
		PrecioUnitario: dec("1000"),
		Cantidad:       2,
	})
	require.NoError(t, err)
	assert.Equal(t, model.VentanaDraft, resp.Estado)
	assert.True(t, resp.Total.Equal(dec("2380")))

	resp, err = svc.AgregarPago(ctx, id, dto.AgregarPagoRequest{
		ID:     "pg1",
		Metodo: model.PagoCash,
		Monto:  dec("2380"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.VentanaPaid, resp.Estado)

	// Cada mutación encoló un push de fondo para esa ventana.
	require.Len(t, pusher.encolados, 2)
	for _, queued := range pusher.encolados {
		assert.Equal(t, id, queued)
	}
}

func TestVentanaServiceCrearYQuitar(t *testing.T) {
	svc, caja, _, id := ventanaServicePrueba(t)
	ctx := context.Background()

	resp, err := svc.Crear(ctx, dto.CrearVentanaRequest{Nombre: "Mesa 5"})
	require.NoError(t, err)
	assert.Equal(t, "Mesa 5", resp.Nombre)
	assert.Len(t, svc.Listar(ctx), 2)

	require.NoError(t, svc.Quitar(ctx, id))
	require.NoError(t, svc.Quitar(ctx, resp.ID))
	// Nunca queda el turno sin ventana activa.
	assert.Len(t, caja.Ventanas(), 1)
}

func TestVentanaServiceDescuentoYCliente(t *testing.T) {
	svc, _, _, id := ventanaServicePrueba(t)
	ctx := context.Background()

	_, err := svc.AgregarProducto(ctx, id, dto.AgregarProductoRequest{
		ProductoID:     "p1",
		Nombre:         "Café 500g",
		PrecioUnitario: dec("1000"),
		Cantidad:       2,
	})
	require.NoError(t, err)

	pct := dec("10")
	resp, err := svc.AplicarDescuento(ctx, id, dto.AplicarDescuentoRequest{Porcentaje: &pct})
	require.NoError(t, err)
	assert.True(t, resp.Descuento.Equal(dec("200")))
	assert.True(t, resp.Total.Equal(dec("2142")), "total: %s", resp.Total)

	doc := "900123456"
	resp, err = svc.AsignarCliente(ctx, id, dto.AsignarClienteRequest{
		Cliente: &dto.ClienteRequest{ID: "cl1", Nombre: "Acme", NumeroDocumento: &doc},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Cliente)
	assert.Equal(t, "Acme", resp.Cliente.Nombre)

	// nil limpia el cliente.
	resp, err = svc.AsignarCliente(ctx, id, dto.AsignarClienteRequest{})
	require.NoError(t, err)
	assert.Nil(t, resp.Cliente)
}

func TestVentanaServiceErroresNoEncolan(t *testing.T) {
	svc, _, pusher, _ := ventanaServicePrueba(t)

	_, err := svc.Obtener(context.Background(), 999)
	assert.ErrorIs(t, err, pos.ErrVentanaNoEncontrada)

	_, err = svc.QuitarProducto(context.Background(), 999, "p1")
	assert.ErrorIs(t, err, pos.ErrVentanaNoEncontrada)

	assert.Empty(t, pusher.encolados)
}

func TestVentanaServiceSinPusher(t *testing.T) {
	caja := pos.NewCaja(tasa19)
	require.NoError(t, caja.AbrirSesion(sesionAbiertaPrueba()))
	svc := NewVentanaService(caja, nil)

	// Sin dispatcher las mutaciones siguen funcionando; solo se pierde el
	// push de fondo.
	_, err := svc.AgregarProducto(context.Background(), caja.Ventanas()[0].ID, dto.AgregarProductoRequest{
		ProductoID:     "p1",
		Nombre:         "Café 500g",
		PrecioUnitario: dec("1000"),
		Cantidad:       1,
	})
	require.NoError(t, err)
}
