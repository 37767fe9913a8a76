package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithEnv(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load("does/not/exist.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "4000" {
		t.Errorf("default port = %s, want 4000", cfg.Server.Port)
	}
	if cfg.Mongo.Database != "drawzzl" {
		t.Errorf("default database = %s, want drawzzl", cfg.Mongo.Database)
	}
	if cfg.Addr() != ":4000" {
		t.Errorf("Addr() = %s, want :4000", cfg.Addr())
	}
}

func TestLoadRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")

	if _, err := Load("does/not/exist.yaml"); err == nil {
		t.Error("Load succeeded without MONGODB_URI")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://db.example:27017")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load("does/not/exist.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %s, want 9090", cfg.Server.Port)
	}
	if cfg.Mongo.URI != "mongodb://db.example:27017" {
		t.Errorf("mongo uri = %s", cfg.Mongo.URI)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORS.AllowedOrigins) != 2 ||
		cfg.CORS.AllowedOrigins[0] != want[0] ||
		cfg.CORS.AllowedOrigins[1] != want[1] {
		t.Errorf("origins = %v, want %v", cfg.CORS.AllowedOrigins, want)
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "8088"
mongo:
  uri: "mongodb://file.example:27017"
  database: "games"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8088" {
		t.Errorf("port = %s, want 8088", cfg.Server.Port)
	}
	if cfg.Mongo.URI != "mongodb://file.example:27017" || cfg.Mongo.Database != "games" {
		t.Errorf("mongo = %+v", cfg.Mongo)
	}
	// Unset sections keep their defaults.
	if len(cfg.CORS.AllowedOrigins) == 0 {
		t.Error("defaults lost when loading partial file")
	}
}
