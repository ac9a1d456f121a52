package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mostrador/internal/model"
	"mostrador/internal/pos"
)

func cajaConVentanaSucia(t *testing.T) (*pos.Caja, int64) {
	t.Helper()
	caja := pos.NewCaja(tasa19)
	require.NoError(t, caja.AbrirSesion(sesionAbiertaPrueba()))
	id := caja.Ventanas()[0].ID
	require.NoError(t, caja.AgregarProducto(id, lineaPrueba("p1", "1000", 2)))
	return caja, id
}

func TestDraftServicePush(t *testing.T) {
	caja, id := cajaConVentanaSucia(t)
	repo := newFakeDraftRepo()
	svc := NewDraftService(caja, repo, "term-1")

	require.NoError(t, svc.Push(context.Background(), id))

	assert.Equal(t, 1, repo.saves)
	v, err := caja.Ventana(id)
	require.NoError(t, err)
	assert.True(t, v.Synced)
	require.NotNil(t, v.DraftID)

	d, ok := repo.drafts[*v.DraftID]
	require.True(t, ok)
	assert.Equal(t, "term-1", d.TerminalID)
	assert.True(t, d.Total.Equal(dec("2380")))
}

func TestDraftServicePushReutilizaDraftID(t *testing.T) {
	caja, id := cajaConVentanaSucia(t)
	repo := newFakeDraftRepo()
	svc := NewDraftService(caja, repo, "term-1")

	require.NoError(t, svc.Push(context.Background(), id))
	v, _ := caja.Ventana(id)
	primero := *v.DraftID

	// Nueva edición y nuevo push: el espejo se sobreescribe, no se duplica.
	require.NoError(t, caja.AgregarProducto(id, lineaPrueba("p2", "500", 1)))
	require.NoError(t, svc.Push(context.Background(), id))

	v, _ = caja.Ventana(id)
	assert.Equal(t, primero, *v.DraftID)
	assert.Len(t, repo.drafts, 1)
}

func TestDraftServicePushesConcurrentesConvergenEnUnDraft(t *testing.T) {
	caja, id := cajaConVentanaSucia(t)
	repo := newFakeDraftRepo()
	svc := NewDraftService(caja, repo, "term-1")

	// Dos workers empujan la misma ventana nunca sincronizada a la vez. El id
	// se reclama bajo el lock del contenedor, así ambos escriben la misma
	// clave en lugar de acuñar un draft huérfano cada uno.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.Push(context.Background(), id)
		}()
	}
	wg.Wait()

	assert.Len(t, repo.drafts, 1)
	v, err := caja.Ventana(id)
	require.NoError(t, err)
	require.NotNil(t, v.DraftID)
	_, ok := repo.drafts[*v.DraftID]
	assert.True(t, ok, "el draft guardado usa el id reclamado por la ventana")
}

func TestDraftServicePushVentanaDesaparecida(t *testing.T) {
	caja, _ := cajaConVentanaSucia(t)
	repo := newFakeDraftRepo()
	svc := NewDraftService(caja, repo, "term-1")

	// La ventana se completó o quitó entre el encolado y el push: no es error.
	require.NoError(t, svc.Push(context.Background(), 999))
	assert.Zero(t, repo.saves)
}

func TestDraftServicePushFallido(t *testing.T) {
	caja, id := cajaConVentanaSucia(t)
	repo := newFakeDraftRepo()
	repo.failSave = true
	svc := NewDraftService(caja, repo, "term-1")

	err := svc.Push(context.Background(), id)
	require.Error(t, err)

	// El contenido local queda intacto y la ventana sucia, con el error anotado.
	v, _ := caja.Ventana(id)
	assert.False(t, v.Synced)
	require.NotNil(t, v.SyncError)
	assert.Contains(t, *v.SyncError, "redis no disponible")
	assert.Len(t, v.Lineas, 1)
}

func TestDraftServicePushSucias(t *testing.T) {
	caja, id := cajaConVentanaSucia(t)
	v2 := caja.AgregarVentana("Mesa 2")
	require.NoError(t, caja.AgregarProducto(v2.ID, lineaPrueba("p2", "500", 1)))

	repo := newFakeDraftRepo()
	svc := NewDraftService(caja, repo, "term-1")

	resp, err := svc.PushSucias(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Empujadas)
	assert.Equal(t, 0, resp.Fallidas)

	// Segunda pasada: ya no hay nada sucio.
	resp, err = svc.PushSucias(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Empujadas)

	// Una edición vuelve a ensuciar exactamente una ventana.
	require.NoError(t, caja.ActualizarCantidad(id, "p1", 3))
	resp, err = svc.PushSucias(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Empujadas)
}

func TestDraftServicePushSuciasConFallo(t *testing.T) {
	caja, _ := cajaConVentanaSucia(t)
	repo := newFakeDraftRepo()
	repo.failSave = true
	svc := NewDraftService(caja, repo, "term-1")

	resp, err := svc.PushSucias(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Empujadas)
	assert.Equal(t, 1, resp.Fallidas)
}

func TestDraftServiceListar(t *testing.T) {
	repo := newFakeDraftRepo()
	repo.drafts["d1"] = model.Draft{ID: "d1", TerminalID: "term-1"}
	repo.drafts["d2"] = model.Draft{ID: "d2", TerminalID: "otra-terminal"}

	svc := NewDraftService(pos.NewCaja(tasa19), repo, "term-1")
	drafts, err := svc.Listar(context.Background())
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "d1", drafts[0].ID)
}
