package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskBookAdded notifies a librarian about a new catalog entry.
	TaskBookAdded = "book:added"
	// TaskUploadMirror copies an uploaded file into object storage.
	TaskUploadMirror = "upload:mirror"
)

// BookAddedPayload is the JSON payload of TaskBookAdded.
type BookAddedPayload struct {
	BookID     string `json:"book_id"`
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
	URL        string `json:"url"`
}

// UploadMirrorPayload is the JSON payload of TaskUploadMirror.
type UploadMirrorPayload struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// NewBookAddedTask builds a low priority notification task.
func NewBookAddedTask(p BookAddedPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskBookAdded,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("low"),
		asynq.Timeout(30*time.Second),
	), nil
}

// NewUploadMirrorTask builds a mirror task for a file already on disk.
func NewUploadMirrorTask(p UploadMirrorPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskUploadMirror,
		payload,
		asynq.MaxRetry(5),
		asynq.Queue("default"),
		asynq.Timeout(2*time.Minute),
	), nil
}
