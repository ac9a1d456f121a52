package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueDrafts = "jobs:drafts"

// PushJob asks a worker to mirror one window to the draft store.
type PushJob struct {
	VentanaID int64 `json:"ventana_id"`
}

// PushHandler performs the actual draft push. Implemented by
// service.DraftService; the indirection keeps this package free of service
// imports.
type PushHandler interface {
	Push(ctx context.Context, ventanaID int64) error
}

// Dispatcher enqueues async draft pushes into a Redis list.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EncolarPush pushes a draft-mirror job to Redis.
func (d *Dispatcher) EncolarPush(ctx context.Context, ventanaID int64) error {
	encoded, err := json.Marshal(PushJob{VentanaID: ventanaID})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueDrafts, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the draft queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handler PushHandler, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handler, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handler PushHandler, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueDrafts).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, handler, result[1])
		}
	}
}

func processJob(ctx context.Context, handler PushHandler, raw string) {
	var job PushJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal draft job")
		return
	}
	if err := handler.Push(ctx, job.VentanaID); err != nil {
		// The window stays dirty; the sync cron re-enqueues it later.
		log.Warn().Int64("ventana_id", job.VentanaID).Err(err).Msg("draft push failed")
	}
}
