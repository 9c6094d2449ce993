package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Store.Driver != DriverSQLite {
		t.Errorf("Driver = %q, want sqlite", cfg.Store.Driver)
	}
	if cfg.Store.TimeoutSec != 10 || cfg.Cache.TTLSec != 60 {
		t.Errorf("timeouts = %d/%d", cfg.Store.TimeoutSec, cfg.Cache.TTLSec)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := &AppConfig{
		UserID: "alice",
		Store: StoreConfig{
			Driver:     DriverMongo,
			MongoURI:   "mongodb://localhost:27017",
			Database:   "hub",
			TimeoutSec: 3,
		},
		Local: LocalConfig{Path: "/tmp/local.db"},
		Cache: CacheConfig{TTLSec: 30},
		Log:   LogConfig{Mode: "prod"},
	}
	if err := SaveConfig(path, want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.UserID != want.UserID || got.Store.Driver != want.Store.Driver ||
		got.Store.MongoURI != want.Store.MongoURI || got.Store.Database != want.Store.Database {
		t.Errorf("loaded %+v, want %+v", got, want)
	}
	if got.Store.Timeout().Seconds() != 3 || got.Cache.TTL().Seconds() != 30 {
		t.Errorf("durations = %v/%v", got.Store.Timeout(), got.Cache.TTL())
	}
	if got.Local.Path != "/tmp/local.db" || got.Log.Mode != "prod" {
		t.Errorf("local/log = %q/%q", got.Local.Path, got.Log.Mode)
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store:\n  driver: postgres\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig accepted unknown driver")
	}
}

func TestLoadConfigFillsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("user_id: bob\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.UserID != "bob" || cfg.Store.Driver != DriverSQLite || cfg.Store.Database != "contenthub" {
		t.Fatalf("cfg = %+v", cfg)
	}
}
