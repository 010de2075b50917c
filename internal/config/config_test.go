package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GENERATION_BASE_URL", "http://rag:8000")
	t.Setenv("GENERATION_REINDEX_DELAY", "500ms")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("server.address: want=%q got=%q", ":8080", cfg.Server.Address)
	}
	if cfg.JWT.Secret != "test-secret" {
		t.Fatalf("jwt.secret: want=%q got=%q", "test-secret", cfg.JWT.Secret)
	}
	if cfg.JWT.Expiration != 24*time.Hour {
		t.Fatalf("jwt.expiration: want=%v got=%v", 24*time.Hour, cfg.JWT.Expiration)
	}
	if cfg.Generation.BaseURL != "http://rag:8000" {
		t.Fatalf("generation.base_url: want=%q got=%q", "http://rag:8000", cfg.Generation.BaseURL)
	}
	if cfg.Generation.ReindexDelay != 500*time.Millisecond {
		t.Fatalf("generation.reindex_delay: want=%v got=%v", 500*time.Millisecond, cfg.Generation.ReindexDelay)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("redis.addr: want empty got=%q", cfg.Redis.Addr)
	}
}

func TestLoadConfigMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig(t.TempDir())
	if err == nil {
		t.Fatalf("LoadConfig: expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Secret") {
		t.Fatalf("error should name the secret field, got=%v", err)
	}
}

func TestValidateAdminPasswordRequiredWithEmail(t *testing.T) {
	cfg := Config{
		Server:     ServerConfig{Address: ":8080"},
		Database:   DatabaseConfig{URI: "mongodb://localhost", Name: "db"},
		JWT:        JWTConfig{Secret: "s"},
		Generation: GenerationConfig{BaseURL: "http://localhost:8000"},
		Admin:      AdminConfig{Email: "admin@example.com"},
	}
	if err := Validate(cfg); err == nil {
		t.Fatalf("Validate: expected error for admin email without password")
	}
	cfg.Admin.Password = "Admin@123"
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestS3ConfigEnabled(t *testing.T) {
	if (S3Config{}).Enabled() {
		t.Fatalf("empty S3 config should be disabled")
	}
	if !(S3Config{BucketName: "media"}).Enabled() {
		t.Fatalf("S3 config with bucket should be enabled")
	}
}
