package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Notifier sends librarian notifications.
type Notifier interface {
	SendBookAddedEmail(to, title, authorName, bookURL string) error
	SendUploadReceivedEmail(to, fileName, location string) error
}

// Mirror copies a local file to object storage.
type Mirror interface {
	Put(ctx context.Context, key, path string) error
}

func (j *JobService) handleBookAddedTask(ctx context.Context, t *asynq.Task) error {
	var p BookAddedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal book added payload: %w: %w", err, asynq.SkipRetry)
	}

	if j.notifier == nil || j.notifyTo == "" {
		j.logger.Debug().Str("book_id", p.BookID).Msg("Notifications disabled, dropping book added task")
		return nil
	}

	j.logger.Info().
		Str("type", TaskBookAdded).
		Str("book_id", p.BookID).
		Msg("Processing book added task")

	if err := j.notifier.SendBookAddedEmail(j.notifyTo, p.Title, p.AuthorName, p.URL); err != nil {
		j.logger.Error().
			Str("type", TaskBookAdded).
			Str("book_id", p.BookID).
			Err(err).
			Msg("Failed to send book added email")
		return err
	}

	j.logger.Info().
		Str("type", TaskBookAdded).
		Str("book_id", p.BookID).
		Msg("Successfully sent book added email")
	return nil
}

func (j *JobService) handleUploadMirrorTask(ctx context.Context, t *asynq.Task) error {
	var p UploadMirrorPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal upload mirror payload: %w: %w", err, asynq.SkipRetry)
	}

	if j.mirror == nil {
		j.logger.Debug().Str("name", p.Name).Msg("Object storage disabled, dropping mirror task")
		return nil
	}

	if err := j.mirror.Put(ctx, p.Name, p.Path); err != nil {
		j.logger.Error().
			Str("type", TaskUploadMirror).
			Str("name", p.Name).
			Err(err).
			Msg("Failed to mirror upload")
		return err
	}

	j.logger.Info().
		Str("type", TaskUploadMirror).
		Str("name", p.Name).
		Msg("Mirrored upload")

	if j.notifier != nil && j.notifyTo != "" {
		if err := j.notifier.SendUploadReceivedEmail(j.notifyTo, p.Name, j.mirrorLocation(p.Name)); err != nil {
			j.logger.Warn().Err(err).Str("name", p.Name).Msg("Failed to send upload email")
		}
	}
	return nil
}
