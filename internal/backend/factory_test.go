package backend

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"runclub/internal/config"
	"runclub/internal/ledger"
	"runclub/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	app := config.Default()
	app.DataBackend = "sqlite"
	app.SQLiteDBPath = "/tmp/runclub.db"

	cfg, err := FromAppConfig(app)
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "/tmp/runclub.db" || cfg.CacheSize != app.CacheSize {
		t.Fatalf("unexpected config %+v", cfg)
	}

	app.DataBackend = "sheets"
	if _, err := FromAppConfig(app); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"unknown type", Config{Type: "redis"}, true},
		{"cache without ttl", Config{Type: MemoryBackend, CacheSize: 4}, true},
		{"negative cache", Config{Type: MemoryBackend, CacheSize: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	ctx := context.Background()
	res, err := NewFactory(nil).CreateBackend(ctx, Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Cleanup()

	if _, ok := res.Store.(*storage.Memory); !ok {
		t.Fatalf("store is %T, want *storage.Memory", res.Store)
	}
	if res.Notifier != nil {
		t.Fatal("notifier should be nil without AMQP")
	}
}

func TestCreateCachedSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runclub.db")
	res, err := NewFactory(nil).CreateBackend(ctx, Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: path,
		CacheSize:    8,
		CacheTTL:     time.Minute,
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}

	if _, ok := res.Store.(*storage.Cached); !ok {
		t.Fatalf("store is %T, want *storage.Cached", res.Store)
	}
	if err := res.Ready(ctx); err != nil {
		t.Fatalf("Ready() error = %v", err)
	}
	if err := res.Store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	reopened, err := storage.NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if v, ok, _ := reopened.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("value not persisted: %q %v", v, ok)
	}
}

// Two processes on one database file, each with its own read cache.
func TestSharedSQLiteKeepsEveryAppend(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "runclub.db"),
		CacheSize:    8,
		CacheTTL:     time.Hour,
	}

	open := func() *BackendResult {
		t.Helper()
		res, err := NewFactory(nil).CreateBackend(ctx, cfg)
		if err != nil {
			t.Fatalf("CreateBackend() error = %v", err)
		}
		t.Cleanup(func() { _ = res.Cleanup() })
		return res
	}
	serverStore, cliStore := open().Store, open().Store
	server, cli := ledger.New(serverStore), ledger.New(cliStore)

	if _, err := server.Append(ctx, 1, "FoodBank"); err != nil {
		t.Fatal(err)
	}
	if _, err := cli.Append(ctx, 2, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := server.Append(ctx, 3, "ReliefFund"); err != nil {
		t.Fatal(err)
	}

	runs := ledger.New(open().Store).Load(ctx)
	if len(runs) != 3 {
		t.Fatalf("have %d runs, want 3: %+v", len(runs), runs)
	}
	for i, want := range []float64{3, 2, 1} {
		if runs[i].Distance != want {
			t.Errorf("runs[%d].Distance = %v, want %v", i, runs[i].Distance, want)
		}
	}
}
