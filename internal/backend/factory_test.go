package backend

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"spendlog/internal/config"
	"spendlog/internal/kv"
	"spendlog/internal/log"
)

func quietFactory(buf *bytes.Buffer) *DefaultFactory {
	return NewFactory(log.New(log.Config{Output: buf})).(*DefaultFactory)
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name      string
		config    Config
		wantReady bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"file", Config{Type: FileBackend, DataDirectory: filepath.Join(dir, "files")}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "db", "spendlog.db")}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := quietFactory(&bytes.Buffer{}).CreateBackend(ctx, tc.config)
			if err != nil {
				t.Fatalf("CreateBackend: %v", err)
			}
			defer res.Close()

			if (res.Ready != nil) != tc.wantReady {
				t.Errorf("Ready set = %v, want %v", res.Ready != nil, tc.wantReady)
			}
			if err := res.Store.Save(ctx, kv.BudgetsKey, []byte(`{}`)); err != nil {
				t.Fatalf("save: %v", err)
			}
			if _, err := res.Store.Load(ctx, kv.BudgetsKey); err != nil {
				t.Fatalf("load: %v", err)
			}
		})
	}
}

func TestCreateBackendValidation(t *testing.T) {
	tests := []Config{
		{Type: "sheets"},
		{Type: FileBackend},
		{Type: SQLiteBackend},
		{Type: PostgresBackend},
	}
	for _, c := range tests {
		if _, err := quietFactory(&bytes.Buffer{}).CreateBackend(context.Background(), c); err == nil {
			t.Errorf("expected error for %+v", c)
		}
	}
}

func TestWithRetry(t *testing.T) {
	var buf bytes.Buffer
	f := quietFactory(&buf)
	cfg := Config{Type: SQLiteBackend, OpenAttempts: 3, RetryDelay: time.Millisecond}

	calls := 0
	err := f.withRetry(context.Background(), cfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("locked")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("err=%v calls=%d, want success on third call", err, calls)
	}
	if strings.Count(buf.String(), "retrying") != 2 {
		t.Errorf("expected two retry warnings, got: %s", buf.String())
	}

	calls = 0
	err = f.withRetry(context.Background(), cfg, func() error {
		calls++
		return errors.New("still locked")
	})
	if err == nil || err.Error() != "still locked" || calls != 3 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls = 0
	_ = f.withRetry(ctx, cfg, func() error {
		calls++
		return errors.New("down")
	})
	if calls != 1 {
		t.Fatalf("cancelled context should stop retries, calls=%d", calls)
	}
}

func TestWithRetryCancelDuringDelay(t *testing.T) {
	f := quietFactory(&bytes.Buffer{})
	cfg := Config{Type: PostgresBackend, OpenAttempts: 5, RetryDelay: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	timer := time.AfterFunc(20*time.Millisecond, cancel)
	defer timer.Stop()

	calls := 0
	start := time.Now()
	err := f.withRetry(ctx, cfg, func() error {
		calls++
		return errors.New("connection refused")
	})
	if err == nil {
		t.Fatal("expected an error after cancellation")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("retry waited out the delay after cancel: %v", elapsed)
	}
}

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{
		DataBackend:         "sqlite",
		DataDir:             "./data",
		SQLiteDBPath:        filepath.Join(os.TempDir(), "x.db"),
		StorageOpenAttempts: 5,
	}
	c, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if c.Type != SQLiteBackend || c.OpenAttempts != 5 {
		t.Errorf("got %+v", c)
	}

	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}
