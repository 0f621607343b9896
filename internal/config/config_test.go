package config

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOST", "PORT", "SECRET_KEY", "DEBUG", "ALLOWED_HOSTS",
		"DATABASE_URL", "DATABASE_PATH", "MEDIA_ROOT", "STATIC_ROOT", "STATIC_SOURCE",
		"MAX_UPLOAD_SIZE", "WORKERS", "LOG_LEVEL", "PRICING_FILE",
		"EMAIL_HOST", "EMAIL_PORT", "EMAIL_USE_TLS", "EMAIL_HOST_USER", "EMAIL_HOST_PASSWORD",
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_STORAGE_BUCKET_NAME", "AWS_S3_REGION_NAME",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("ALLOWED_HOSTS", "localhost")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GetServerAddr() != "0.0.0.0:8000" {
		t.Fatalf("expected default addr 0.0.0.0:8000, got %s", cfg.GetServerAddr())
	}
	if cfg.GetMaxUploadSize() != 10*1024*1024 {
		t.Fatalf("expected default max upload size 10MB, got %d", cfg.GetMaxUploadSize())
	}
	if cfg.GetWorkers() != 3 {
		t.Fatalf("expected default 3 workers, got %d", cfg.GetWorkers())
	}
	if cfg.GetLogLevel() != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.GetLogLevel())
	}
	if cfg.GetDebug() {
		t.Fatal("expected debug to default to false")
	}
	if cfg.Email.Enabled() {
		t.Fatal("expected email to be disabled by default")
	}
	if cfg.S3.Enabled() {
		t.Fatal("expected s3 to be disabled by default")
	}
}

func TestLoad_MissingSecretKeyFailsFast(t *testing.T) {
	clearEnv(t)

	if _, err := Load(); err == nil {
		t.Fatal("expected error when SECRET_KEY is unset and DEBUG is false")
	}
}

func TestLoad_MissingAllowedHostsFailsFast(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECRET_KEY", "s")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when ALLOWED_HOSTS is unset and DEBUG is false")
	}

	t.Setenv("DEBUG", "true")
	if _, err := Load(); err != nil {
		t.Fatalf("expected empty ALLOWED_HOSTS to be accepted in debug mode: %v", err)
	}
}

func TestLoad_DebugFallbackSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetSecretKey() == "" {
		t.Fatal("expected a fallback secret in debug mode")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECRET_KEY", "s")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_HOSTS", "example.com, api.example.com")
	t.Setenv("MAX_UPLOAD_SIZE", "12345")
	t.Setenv("WORKERS", "7")
	t.Setenv("EMAIL_HOST", "smtp.example.com")
	t.Setenv("AWS_STORAGE_BUCKET_NAME", "media-bucket")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetServerAddr() != "127.0.0.1:9000" {
		t.Fatalf("expected addr 127.0.0.1:9000, got %s", cfg.GetServerAddr())
	}
	hosts := cfg.GetAllowedHosts()
	if len(hosts) != 2 || hosts[0] != "example.com" || hosts[1] != "api.example.com" {
		t.Fatalf("unexpected allowed hosts: %v", hosts)
	}
	if cfg.GetMaxUploadSize() != 12345 {
		t.Fatalf("expected max upload size 12345, got %d", cfg.GetMaxUploadSize())
	}
	if cfg.GetWorkers() != 7 {
		t.Fatalf("expected 7 workers, got %d", cfg.GetWorkers())
	}
	if !cfg.Email.Enabled() {
		t.Fatal("expected email to be enabled")
	}
	if !cfg.S3.Enabled() {
		t.Fatal("expected s3 to be enabled")
	}
}

func TestLoad_BoolParsing(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECRET_KEY", "s")
	t.Setenv("ALLOWED_HOSTS", "localhost")

	for _, val := range []string{"1", "true", "TRUE", "yes", "on"} {
		t.Setenv("DEBUG", val)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", val, err)
		}
		if !cfg.GetDebug() {
			t.Fatalf("expected DEBUG=%q to parse as true", val)
		}
	}
	for _, val := range []string{"0", "false", "no", "off", "garbage"} {
		t.Setenv("DEBUG", val)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", val, err)
		}
		if cfg.GetDebug() {
			t.Fatalf("expected DEBUG=%q to parse as false", val)
		}
	}
}

func TestLoad_WorkersFloor(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECRET_KEY", "s")
	t.Setenv("ALLOWED_HOSTS", "localhost")
	t.Setenv("WORKERS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetWorkers() != 1 {
		t.Fatalf("expected workers floor of 1, got %d", cfg.GetWorkers())
	}
}
