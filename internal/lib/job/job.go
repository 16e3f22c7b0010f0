// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - You enqueue tasks (producer) using asynq.Client.
//   - A server runs workers that process those tasks (consumer) using asynq.Server.
package job

import (
	"context"
	"fmt"

	"github.com/deppfellow/locallibrary/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	server *asynq.Server
	logger *zerolog.Logger

	notifier Notifier
	notifyTo string
	mirror   Mirror
	bucket   string
}

// NewJobService creates a JobService configured to use Redis from cfg.
//
// Queue weights give "critical" tasks the largest worker share.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Jobs.Concurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		Client:   asynq.NewClient(redisOpt),
		server:   server,
		logger:   logger,
		notifyTo: cfg.Integration.NotifyTo,
		bucket:   cfg.Storage.MinioBucket,
	}
}

// InitHandlers sets the dependencies the task handlers use. Either may be
// nil, in which case the matching tasks are acknowledged and dropped.
func (j *JobService) InitHandlers(notifier Notifier, mirror Mirror) {
	j.notifier = notifier
	j.mirror = mirror
}

// Mux routes task types to handlers.
func (j *JobService) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskBookAdded, j.handleBookAddedTask)
	mux.HandleFunc(TaskUploadMirror, j.handleUploadMirrorTask)
	return mux
}

// Start starts the background worker server. It does not block.
func (j *JobService) Start() error {
	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(j.Mux()); err != nil {
		return err
	}
	return nil
}

// Stop gracefully stops the job server and closes client resources.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	j.Client.Close()
}

// EnqueueBookAdded schedules a book added notification.
func (j *JobService) EnqueueBookAdded(ctx context.Context, p BookAddedPayload) error {
	task, err := NewBookAddedTask(p)
	if err != nil {
		return err
	}
	return j.enqueue(ctx, task)
}

// EnqueueUploadMirror schedules copying an uploaded file to object storage.
func (j *JobService) EnqueueUploadMirror(ctx context.Context, p UploadMirrorPayload) error {
	task, err := NewUploadMirrorTask(p)
	if err != nil {
		return err
	}
	return j.enqueue(ctx, task)
}

func (j *JobService) enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}

	j.logger.Debug().
		Str("type", task.Type()).
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("Enqueued task")
	return nil
}

func (j *JobService) mirrorLocation(name string) string {
	return j.bucket + "/" + name
}
