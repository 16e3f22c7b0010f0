package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCollectsByName(t *testing.T) {
	results, err := Run(context.Background(), Tasks{
		"books":   func(context.Context) (any, error) { return int64(3), nil },
		"authors": func(context.Context) (any, error) { return int64(2), nil },
		"genres":  func(context.Context) (any, error) { return []string{"Fantasy"}, nil },
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), Get[int64](results, "books"))
	assert.Equal(t, int64(2), Get[int64](results, "authors"))
	assert.Equal(t, []string{"Fantasy"}, Get[[]string](results, "genres"))
	assert.Equal(t, 0, Get[int](results, "missing"))
}

func TestRunEmpty(t *testing.T) {
	results, err := Run(context.Background(), Tasks{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRunIsConcurrent(t *testing.T) {
	var running, peak int32
	task := func(context.Context) (any, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return nil, nil
	}

	_, err := Run(context.Background(), Tasks{"a": task, "b": task, "c": task})
	require.NoError(t, err)
	assert.Greater(t, atomic.LoadInt32(&peak), int32(1))
}

func TestRunFirstErrorKeepsPartialResults(t *testing.T) {
	boom := errors.New("boom")

	results, err := Run(context.Background(), Tasks{
		"ok": func(context.Context) (any, error) { return "done", nil },
		"bad": func(context.Context) (any, error) {
			time.Sleep(20 * time.Millisecond)
			return nil, boom
		},
		"slow": func(ctx context.Context) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "done", Get[string](results, "ok"))
	_, hasSlow := results["slow"]
	assert.False(t, hasSlow)
}
