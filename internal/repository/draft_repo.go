package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"mostrador/internal/model"
)

// DraftRepository mirrors sale-window drafts in Redis so an interrupted
// terminal can resume its open windows. Keys:
//
//	drafts:{terminal}:{draft_id} → JSON draft
//	drafts:{terminal}            → set of draft ids (index)
type DraftRepository interface {
	Save(ctx context.Context, draft model.Draft) error
	List(ctx context.Context, terminalID string) ([]model.Draft, error)
	Delete(ctx context.Context, terminalID, draftID string) error
	DeleteAll(ctx context.Context, terminalID string) error
}

type draftRepository struct {
	rdb *redis.Client
}

func NewDraftRepository(rdb *redis.Client) DraftRepository {
	return &draftRepository{rdb: rdb}
}

func draftKey(terminalID, draftID string) string {
	return fmt.Sprintf("drafts:%s:%s", terminalID, draftID)
}

func indexKey(terminalID string) string {
	return fmt.Sprintf("drafts:%s", terminalID)
}

func (r *draftRepository) Save(ctx context.Context, draft model.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, draftKey(draft.TerminalID, draft.ID), data, 0)
	pipe.SAdd(ctx, indexKey(draft.TerminalID), draft.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *draftRepository) List(ctx context.Context, terminalID string) ([]model.Draft, error) {
	ids, err := r.rdb.SMembers(ctx, indexKey(terminalID)).Result()
	if err != nil {
		return nil, err
	}

	drafts := make([]model.Draft, 0, len(ids))
	for _, id := range ids {
		raw, err := r.rdb.Get(ctx, draftKey(terminalID, id)).Result()
		if err == redis.Nil {
			// Stale index entry — drop it and move on.
			r.rdb.SRem(ctx, indexKey(terminalID), id)
			continue
		}
		if err != nil {
			return nil, err
		}
		var d model.Draft
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, fmt.Errorf("draft %s corrupto: %w", id, err)
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func (r *draftRepository) Delete(ctx context.Context, terminalID, draftID string) error {
	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, draftKey(terminalID, draftID))
	pipe.SRem(ctx, indexKey(terminalID), draftID)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *draftRepository) DeleteAll(ctx context.Context, terminalID string) error {
	ids, err := r.rdb.SMembers(ctx, indexKey(terminalID)).Result()
	if err != nil {
		return err
	}
	pipe := r.rdb.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, draftKey(terminalID, id))
	}
	pipe.Del(ctx, indexKey(terminalID))
	_, err = pipe.Exec(ctx)
	return err
}
