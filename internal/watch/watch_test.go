package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFilesDebounces(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "models.yaml")
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(target, []byte("a"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Files(ctx, []string{target}, 50*time.Millisecond, nil, func(context.Context) error {
			calls.Add(1)
			return nil
		})
	}()
	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(target, []byte{'b', byte('0' + i)}, 0o644))
	}
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestFilesLogsCallbackErrors(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "models.yaml")
	require.NoError(t, os.WriteFile(target, nil, 0o644))

	obs, logs := observer.New(zapcore.ErrorLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = Files(ctx, []string{target}, 10*time.Millisecond, zap.New(obs), func(context.Context) error {
			return assert.AnError
		})
	}()
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	assert.Eventually(t, func() bool { return logs.FilterMessage("rebuild failed").Len() > 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestFilesMissingDirectory(t *testing.T) {
	err := Files(context.Background(), []string{filepath.Join(t.TempDir(), "missing", "models.yaml")}, 0, nil, nil)
	assert.Error(t, err)
}
