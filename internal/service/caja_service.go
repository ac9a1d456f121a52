package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"mostrador/internal/config"
	"mostrador/internal/dto"
	"mostrador/internal/model"
	"mostrador/internal/pos"
	"mostrador/internal/repository"
)

type CajaService interface {
	Abrir(ctx context.Context, req dto.AbrirCajaRequest) (*dto.SesionResponse, error)
	Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.SesionResponse, error)
	Actual(ctx context.Context) (*dto.SesionResponse, error)
	Historial(ctx context.Context, page, limit int) ([]dto.SesionResponse, int64, error)
	// Hidratar resumes the working set after a restart: the open session from
	// Postgres plus the window drafts mirrored in Redis.
	Hidratar(ctx context.Context) error
}

type cajaService struct {
	caja       *pos.Caja
	sesiones   repository.SesionRepository
	ventas     repository.VentaRepository
	drafts     repository.DraftRepository
	terminalID string
	terminal   string
}

func NewCajaService(caja *pos.Caja, sesiones repository.SesionRepository, ventas repository.VentaRepository, drafts repository.DraftRepository, cfg *config.Config) CajaService {
	return &cajaService{
		caja:       caja,
		sesiones:   sesiones,
		ventas:     ventas,
		drafts:     drafts,
		terminalID: cfg.TerminalID,
		terminal:   cfg.TerminalNombre,
	}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, req dto.AbrirCajaRequest) (*dto.SesionResponse, error) {
	// Guard: no duplicate open session per terminal
	if existing, err := s.sesiones.FindAbiertaPorTerminal(ctx, s.terminalID); err == nil && existing != nil {
		return nil, errors.New("Ya existe una caja abierta en esta terminal")
	}

	sesion := &model.SesionCaja{
		TerminalID:     s.terminalID,
		TerminalNombre: s.terminal,
		VendedorID:     req.VendedorID,
		VendedorNombre: req.VendedorNombre,
		MontoApertura:  req.MontoApertura,
		Estado:         model.SesionAbierta,
		Observaciones:  req.Observaciones,
		TurnoID:        req.TurnoID,
	}
	if err := s.sesiones.Create(ctx, sesion); err != nil {
		return nil, err
	}

	if err := s.caja.AbrirSesion(sesion); err != nil {
		return nil, err
	}

	// A fresh shift starts from an empty working set: any drafts left over
	// from the previous session are stale.
	if err := s.drafts.DeleteAll(ctx, s.terminalID); err != nil {
		log.Warn().Err(err).Msg("no se pudieron limpiar los drafts de la sesión anterior")
	}

	return sesionToResponse(sesion), nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────

func (s *cajaService) Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.SesionResponse, error) {
	sesion, err := s.caja.CerrarSesion(req.MontoCierre, req.Observaciones)
	if err != nil {
		return nil, err
	}
	if err := s.sesiones.Update(ctx, sesion); err != nil {
		// Local close already happened; the row stays open in the DB until a
		// retry. Surface the failure, keep the in-memory state authoritative.
		log.Error().Err(err).Msg("no se pudo persistir el cierre de caja")
		return nil, err
	}
	return sesionToResponse(sesion), nil
}

// ── Actual ────────────────────────────────────────────────────────────────────

func (s *cajaService) Actual(_ context.Context) (*dto.SesionResponse, error) {
	sesion := s.caja.Sesion()
	if sesion == nil {
		return nil, nil
	}
	return sesionToResponse(sesion), nil
}

func (s *cajaService) Historial(ctx context.Context, page, limit int) ([]dto.SesionResponse, int64, error) {
	sesiones, total, err := s.sesiones.ListCerradas(ctx, s.terminalID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.SesionResponse, 0, len(sesiones))
	for i := range sesiones {
		out = append(out, *sesionToResponse(&sesiones[i]))
	}
	return out, total, nil
}

// ── Hidratar ──────────────────────────────────────────────────────────────────

func (s *cajaService) Hidratar(ctx context.Context) error {
	sesion, err := s.sesiones.FindAbiertaPorTerminal(ctx, s.terminalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // nothing to resume
		}
		return err
	}

	// The shift's completed-sales log lives in Postgres between restarts;
	// without it GET /v1/ventas/turno would come back empty mid-shift.
	completadas, err := s.ventas.ListBySesion(ctx, sesion.ID)
	if err != nil {
		log.Warn().Err(err).Msg("sesión reanudada sin el log de ventas del turno")
		completadas = nil
	}

	s.caja.Hidratar(sesion, nil, completadas)

	drafts, err := s.drafts.List(ctx, s.terminalID)
	if err != nil {
		log.Warn().Err(err).Msg("sesión reanudada sin drafts: error leyendo el espejo")
		return nil
	}
	for _, d := range drafts {
		id := s.caja.MergeDraft(d)
		log.Debug().Str("draft_id", d.ID).Int64("ventana_id", id).Msg("draft reconciliado")
	}
	log.Info().
		Str("sesion_id", sesion.ID.String()).
		Int("ventas_turno", len(completadas)).
		Int("drafts", len(drafts)).
		Msg("sesión de caja reanudada")
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func sesionToResponse(s *model.SesionCaja) *dto.SesionResponse {
	resp := &dto.SesionResponse{
		ID:                 s.ID.String(),
		TerminalID:         s.TerminalID,
		TerminalNombre:     s.TerminalNombre,
		VendedorID:         s.VendedorID,
		VendedorNombre:     s.VendedorNombre,
		MontoApertura:      s.MontoApertura,
		TotalVentas:        s.TotalVentas,
		TotalEfectivo:      s.TotalEfectivo,
		MontoCierre:        s.MontoCierre,
		DiferenciaEfectivo: s.DiferenciaEfectivo,
		Estado:             s.Estado,
		Observaciones:      s.Observaciones,
		TurnoID:            s.TurnoID,
		OpenedAt:           s.OpenedAt.Format(time.RFC3339),
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
