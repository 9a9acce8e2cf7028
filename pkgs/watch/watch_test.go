package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.c")
	require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0o644))

	w, err := New(path, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	var fired atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx, func() { fired.Add(1) })
	}()

	// Let the watch goroutine settle before triggering it.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("int y;\n"), 0o644))

	require.Eventually(t, func() bool { return fired.Load() > 0 },
		2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.c")
	require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0o644))

	w, err := New(path, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	var fired atomic.Int32
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx, func() { fired.Add(1) })
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.c"), []byte("int z;\n"), 0o644))

	<-done
	require.Equal(t, int32(0), fired.Load())
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "input.c"))
	require.Error(t, err)
}
