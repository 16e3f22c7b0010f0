package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/deppfellow/locallibrary/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	books   []string
	uploads []string
	err     error
}

func (f *fakeNotifier) SendBookAddedEmail(to, title, authorName, bookURL string) error {
	if f.err != nil {
		return f.err
	}
	f.books = append(f.books, to+"|"+title+"|"+authorName+"|"+bookURL)
	return nil
}

func (f *fakeNotifier) SendUploadReceivedEmail(to, fileName, location string) error {
	f.uploads = append(f.uploads, to+"|"+fileName+"|"+location)
	return nil
}

type fakeMirror struct {
	puts map[string]string
	err  error
}

func (f *fakeMirror) Put(_ context.Context, key, path string) error {
	if f.err != nil {
		return f.err
	}
	f.puts[key] = path
	return nil
}

func newTestService(t *testing.T) *JobService {
	t.Helper()
	logger := zerolog.Nop()
	cfg := &config.Config{
		Redis:       config.RedisConfig{Address: "127.0.0.1:0"},
		Jobs:        config.JobsConfig{Concurrency: 1},
		Integration: config.IntegrationConfig{NotifyTo: "librarian@example.com"},
		Storage:     config.StorageConfig{MinioBucket: "uploads"},
	}
	j := NewJobService(&logger, cfg)
	t.Cleanup(func() { j.Client.Close() })
	return j
}

func TestNewBookAddedTask(t *testing.T) {
	task, err := NewBookAddedTask(BookAddedPayload{BookID: "b1", Title: "Dune"})
	require.NoError(t, err)
	assert.Equal(t, TaskBookAdded, task.Type())

	var p BookAddedPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "Dune", p.Title)
}

func TestHandleBookAddedTask(t *testing.T) {
	j := newTestService(t)
	notifier := &fakeNotifier{}
	j.InitHandlers(notifier, nil)

	task, err := NewBookAddedTask(BookAddedPayload{BookID: "b1", Title: "Dune", AuthorName: "Herbert, Frank", URL: "/catalog/book/b1"})
	require.NoError(t, err)

	require.NoError(t, j.handleBookAddedTask(context.Background(), task))
	assert.Equal(t, []string{"librarian@example.com|Dune|Herbert, Frank|/catalog/book/b1"}, notifier.books)
}

func TestHandleBookAddedTaskRetriesOnSendFailure(t *testing.T) {
	j := newTestService(t)
	j.InitHandlers(&fakeNotifier{err: errors.New("down")}, nil)

	task, _ := NewBookAddedTask(BookAddedPayload{BookID: "b1"})
	err := j.handleBookAddedTask(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleTaskBadPayloadSkipsRetry(t *testing.T) {
	j := newTestService(t)
	err := j.handleUploadMirrorTask(context.Background(), asynq.NewTask(TaskUploadMirror, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleUploadMirrorTask(t *testing.T) {
	j := newTestService(t)
	notifier := &fakeNotifier{}
	mirror := &fakeMirror{puts: map[string]string{}}
	j.InitHandlers(notifier, mirror)

	task, err := NewUploadMirrorTask(UploadMirrorPayload{Name: "a.txt", Path: "upload/a.txt"})
	require.NoError(t, err)

	require.NoError(t, j.handleUploadMirrorTask(context.Background(), task))
	assert.Equal(t, "upload/a.txt", mirror.puts["a.txt"])
	assert.Equal(t, []string{"librarian@example.com|a.txt|uploads/a.txt"}, notifier.uploads)
}

func TestHandlersWithoutDependenciesDropTasks(t *testing.T) {
	j := newTestService(t)

	book, _ := NewBookAddedTask(BookAddedPayload{BookID: "b1"})
	upload, _ := NewUploadMirrorTask(UploadMirrorPayload{Name: "a.txt"})

	assert.NoError(t, j.handleBookAddedTask(context.Background(), book))
	assert.NoError(t, j.handleUploadMirrorTask(context.Background(), upload))
}
