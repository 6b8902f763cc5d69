package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"hygieat/internal/auth"
	"hygieat/internal/config"
	"hygieat/internal/logger"
	"hygieat/internal/storage"
)

func baseConfig() *config.Config {
	return &config.Config{
		Media: config.MediaConfig{
			Backend:       "cloudinary",
			CloudName:     "demo",
			UploadPreset:  "unsigned",
			BaseURL:       "https://api.cloudinary.com/v1_1",
			UploadTimeout: time.Second,
		},
		Store: config.StoreConfig{Backend: "memory"},
	}
}

func TestBuild_MemoryStore(t *testing.T) {
	a, err := Build(context.Background(), baseConfig(), logger.Discard())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer a.Close(context.Background())

	if _, ok := a.Uploader.(*storage.CloudinaryClient); !ok {
		t.Errorf("expected cloudinary uploader, got %T", a.Uploader)
	}
	if _, ok := a.Users.(*auth.InMemoryUserRepository); !ok {
		t.Errorf("expected in-memory users, got %T", a.Users)
	}
	if a.Vendors == nil {
		t.Error("vendor service not built")
	}
}

func TestBuild_SQLiteStore(t *testing.T) {
	cfg := baseConfig()
	cfg.Store = config.StoreConfig{
		Backend:    "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "hygieat.db"),
	}

	a, err := Build(context.Background(), cfg, logger.Discard())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := a.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestBuild_UnknownBackends(t *testing.T) {
	cfg := baseConfig()
	cfg.Media.Backend = "ftp"
	if _, err := Build(context.Background(), cfg, logger.Discard()); err == nil {
		t.Error("expected error for unknown media backend")
	}

	cfg = baseConfig()
	cfg.Store.Backend = "redis"
	if _, err := Build(context.Background(), cfg, logger.Discard()); err == nil {
		t.Error("expected error for unknown store backend")
	}
}
