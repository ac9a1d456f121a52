package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mostrador/internal/dto"
	"mostrador/internal/model"
	"mostrador/internal/repository"
)

// In-memory fakes for the repository interfaces. They run without Postgres or
// Redis; failure flags simulate an unreachable backend.

// ── SesionRepository ──────────────────────────────────────────────────────────

type fakeSesionRepo struct {
	mu       sync.Mutex
	sesiones map[uuid.UUID]*model.SesionCaja

	failUpdate bool
	updates    int
}

var _ repository.SesionRepository = (*fakeSesionRepo)(nil)

func newFakeSesionRepo() *fakeSesionRepo {
	return &fakeSesionRepo{sesiones: make(map[uuid.UUID]*model.SesionCaja)}
}

func (f *fakeSesionRepo) Create(_ context.Context, sesion *model.SesionCaja) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sesion.ID == uuid.Nil {
		sesion.ID = uuid.New()
	}
	s := *sesion
	f.sesiones[sesion.ID] = &s
	return nil
}

func (f *fakeSesionRepo) Update(_ context.Context, sesion *model.SesionCaja) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return errors.New("db no disponible")
	}
	f.updates++
	s := *sesion
	f.sesiones[sesion.ID] = &s
	return nil
}

func (f *fakeSesionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sesiones[id]; ok {
		out := *s
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSesionRepo) FindAbiertaPorTerminal(_ context.Context, terminalID string) (*model.SesionCaja, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sesiones {
		if s.TerminalID == terminalID && s.Estado == model.SesionAbierta {
			out := *s
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSesionRepo) ListCerradas(_ context.Context, terminalID string, _, _ int) ([]model.SesionCaja, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.SesionCaja
	for _, s := range f.sesiones {
		if s.TerminalID == terminalID && s.Estado == model.SesionCerrada {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

// ── VentaRepository ───────────────────────────────────────────────────────────

type fakeVentaRepo struct {
	mu     sync.Mutex
	ventas []model.VentaCompletada

	failCreate bool
	failNext   bool
}

var _ repository.VentaRepository = (*fakeVentaRepo)(nil)

func newFakeVentaRepo() *fakeVentaRepo { return &fakeVentaRepo{} }

// DB returns nil: runTx short-circuits to fn(nil) in unit tests.
func (f *fakeVentaRepo) DB() *gorm.DB { return nil }

func (f *fakeVentaRepo) Create(_ context.Context, _ *gorm.DB, venta *model.VentaCompletada) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("db no disponible")
	}
	if venta.ID == uuid.Nil {
		venta.ID = uuid.New()
	}
	f.ventas = append(f.ventas, *venta)
	return nil
}

func (f *fakeVentaRepo) NextNumeroFactura(_ context.Context, _ *gorm.DB) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		return 0, errors.New("db no disponible")
	}
	max := 0
	for _, v := range f.ventas {
		if v.NumeroFactura > max {
			max = v.NumeroFactura
		}
	}
	return max + 1, nil
}

func (f *fakeVentaRepo) ListBySesion(_ context.Context, sesionID uuid.UUID) ([]model.VentaCompletada, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.VentaCompletada
	for _, v := range f.ventas {
		if v.SesionCajaID == sesionID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVentaRepo) List(_ context.Context, filter dto.VentaFilter) ([]model.VentaCompletada, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.VentaCompletada
	for _, v := range f.ventas {
		if filter.Tipo != "" && v.TipoPos != filter.Tipo {
			continue
		}
		if filter.Fecha != "" && v.FechaVenta.Format("2006-01-02") != filter.Fecha {
			continue
		}
		out = append(out, v)
	}
	return out, int64(len(out)), nil
}

// ── DraftRepository ───────────────────────────────────────────────────────────

type fakeDraftRepo struct {
	mu     sync.Mutex
	drafts map[string]model.Draft // draftID → draft

	failSave bool
	saves    int
	deletes  int
}

var _ repository.DraftRepository = (*fakeDraftRepo)(nil)

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: make(map[string]model.Draft)}
}

func (f *fakeDraftRepo) Save(_ context.Context, draft model.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		return errors.New("redis no disponible")
	}
	f.saves++
	f.drafts[draft.ID] = draft
	return nil
}

func (f *fakeDraftRepo) List(_ context.Context, terminalID string) ([]model.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Draft
	for _, d := range f.drafts {
		if d.TerminalID == terminalID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDraftRepo) Delete(_ context.Context, _, draftID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	delete(f.drafts, draftID)
	return nil
}

func (f *fakeDraftRepo) DeleteAll(_ context.Context, terminalID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, d := range f.drafts {
		if d.TerminalID == terminalID {
			delete(f.drafts, id)
		}
	}
	return nil
}
