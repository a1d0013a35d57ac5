package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_StorageBackendValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_BACKEND", "bogus")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid STORAGE_BACKEND")
	}
}

func TestLoad_StorageBackendDefaultsToSql(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_BACKEND", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageBackend != StorageSql {
		t.Fatalf("expected default storage backend %q, got %q", StorageSql, cfg.StorageBackend)
	}
}

func TestLoad_KvObjectBackendRequiresBucket(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_BACKEND", "kvobject")
	t.Setenv("OBJECT_STORE_BUCKET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when STORAGE_BACKEND=kvobject without OBJECT_STORE_BUCKET")
	}
}

func TestLoad_KvObjectBackendWithBucket(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_BACKEND", "kvobject")
	t.Setenv("OBJECT_STORE_BUCKET", "golf-scores")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ObjectStoreBucket != "golf-scores" {
		t.Fatalf("unexpected bucket: %q", cfg.ObjectStoreBucket)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "golf-scoreboard-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "golf-scoreboard-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_UpstreamFanoutWidthDefaultsToSix(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("UPSTREAM_FANOUT_WIDTH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UpstreamFanoutWidth != 6 {
		t.Fatalf("expected default fanout width 6, got %d", cfg.UpstreamFanoutWidth)
	}
}

func TestLoad_UpstreamFanoutWidthRejectsNonPositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("UPSTREAM_FANOUT_WIDTH", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for UPSTREAM_FANOUT_WIDTH=0")
	}
}

func TestLoad_AdminAuthTokensParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("ADMIN_AUTH_TOKENS", " tok-a , tok-b ,tok-c")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := []string{"tok-a", "tok-b", "tok-c"}
	if len(cfg.AdminAuthTokens) != len(want) {
		t.Fatalf("unexpected admin tokens: %+v", cfg.AdminAuthTokens)
	}
	for i, tok := range want {
		if cfg.AdminAuthTokens[i] != tok {
			t.Fatalf("unexpected admin token at %d: got %q want %q", i, cfg.AdminAuthTokens[i], tok)
		}
	}
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}

func TestLoad_UpstreamCircuitDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UpstreamCircuitFailureCount != 5 {
		t.Fatalf("unexpected default circuit failure count: %d", cfg.UpstreamCircuitFailureCount)
	}
	if cfg.UpstreamCircuitOpenTimeout != 15*time.Second {
		t.Fatalf("unexpected default circuit open timeout: %s", cfg.UpstreamCircuitOpenTimeout)
	}
	if cfg.UpstreamCircuitHalfOpenMaxReq != 2 {
		t.Fatalf("unexpected default circuit half-open max req: %d", cfg.UpstreamCircuitHalfOpenMaxReq)
	}
}
