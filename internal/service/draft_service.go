package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"mostrador/internal/dto"
	"mostrador/internal/model"
	"mostrador/internal/pos"
	"mostrador/internal/repository"
)

// DraftService is the sync loop between the in-memory windows and the Redis
// draft mirror. Pushes are retry-by-resubmission: a failed push records
// sync_error on the window and leaves it dirty for the next pass; window
// content is never touched by a failure.
type DraftService interface {
	Push(ctx context.Context, ventanaID int64) error
	PushSucias(ctx context.Context) (*dto.SyncResponse, error)
	Listar(ctx context.Context) ([]model.Draft, error)
}

type draftService struct {
	caja       *pos.Caja
	repo       repository.DraftRepository
	terminalID string
}

func NewDraftService(caja *pos.Caja, repo repository.DraftRepository, terminalID string) DraftService {
	return &draftService{caja: caja, repo: repo, terminalID: terminalID}
}

// Push mirrors one window to Redis and marks it synced, unless it was edited
// again while the push was in flight.
func (s *draftService) Push(ctx context.Context, ventanaID int64) error {
	v, err := s.caja.Ventana(ventanaID)
	if err != nil {
		// The window was completed or removed after the job was queued.
		return nil
	}

	// The id is claimed under the container lock: a second worker pushing the
	// same window gets this same id back instead of minting an orphan draft.
	draftID, err := s.caja.ClaimDraftID(ventanaID, uuid.NewString())
	if err != nil {
		return nil
	}

	draft := pos.DraftDeVentana(v, s.terminalID, draftID)
	if err := s.repo.Save(ctx, draft); err != nil {
		if merr := s.caja.MarcarErrorSync(ventanaID, err.Error()); merr != nil {
			return merr
		}
		return err
	}
	return s.caja.MarcarSincronizada(ventanaID, draft.ID, v.ModificadoEn)
}

// PushSucias pushes every dirty window; used by the sync cron and by the
// manual POST /v1/drafts/sync endpoint.
func (s *draftService) PushSucias(ctx context.Context) (*dto.SyncResponse, error) {
	resp := &dto.SyncResponse{}
	for _, v := range s.caja.VentanasSucias() {
		if err := s.Push(ctx, v.ID); err != nil {
			log.Warn().Int64("ventana_id", v.ID).Err(err).Msg("push de draft fallido")
			resp.Fallidas++
			continue
		}
		resp.Empujadas++
	}
	return resp, nil
}

func (s *draftService) Listar(ctx context.Context) ([]model.Draft, error) {
	return s.repo.List(ctx, s.terminalID)
}
