package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for one writer goroutine and one reader goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchAndReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\n"), 0644))

	var out syncBuffer
	cfg := defaultConfig()
	cfg.Format = formatText
	cfg.DebounceMillis = 10
	env := &runEnv{out: &out, errW: io.Discard, cfg: cfg, log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- watchAndReport(ctx, env, path, ready) }()

	select {
	case <-ready:
	case err := <-done:
		t.Fatalf("watch exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never became ready")
	}

	// Keep rewriting until the change is reported; some platforms coalesce or delay the first event.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("a\nx\nc\nd\n"), 0644)
		return strings.Contains(out.String(), "insert 3 +1")
	}, 5*time.Second, 50*time.Millisecond)

	assert.Contains(t, out.String(), "change 1 +1\ninsert 3 +1\nspan 1 [0,1)\n")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchAndReport_MissingFile(t *testing.T) {
	cfg := defaultConfig()
	env := &runEnv{out: io.Discard, errW: io.Discard, cfg: cfg, log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	err := watchAndReport(context.Background(), env, filepath.Join(t.TempDir(), "nope.txt"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0644))

	var mu sync.Mutex
	var seen []string
	w := &fileWatcher{
		path:     path,
		debounce: 10 * time.Millisecond,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		read: func(p string) (string, error) {
			b, err := os.ReadFile(p)
			return string(b), err
		},
		onChange: func(content string) error {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, content)
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, ready) }()
	<-ready

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("ignored\n"), 0644))
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("y\n"), 0644)
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0
	}, 5*time.Second, 50*time.Millisecond)

	mu.Lock()
	for _, s := range seen {
		assert.Equal(t, "y\n", s)
	}
	mu.Unlock()

	cancel()
	require.NoError(t, <-done)
}
