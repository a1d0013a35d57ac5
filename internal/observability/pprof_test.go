package observability

import (
	"testing"
	"time"

	"github.com/derekfrye/rusty-golf-sub001/internal/config"
	"github.com/derekfrye/rusty-golf-sub001/internal/platform/logging"
)

func TestStartPprofServer_Disabled(t *testing.T) {
	cfg := config.Config{PprofEnabled: false}

	srv, err := StartPprofServer(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("start pprof server: %v", err)
	}
	if srv != nil {
		t.Fatalf("expected nil server when pprof disabled")
	}
}

func TestStartPprofServer_EnabledServesIndex(t *testing.T) {
	cfg := config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}

	srv, err := StartPprofServer(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("start pprof server: %v", err)
	}
	if srv == nil {
		t.Fatalf("expected a running server when pprof enabled")
	}

	if err := StopPprofServer(srv, logging.NewNop(), 2*time.Second); err != nil {
		t.Fatalf("stop pprof server: %v", err)
	}
}

func TestStopPprofServer_NilServerIsNoop(t *testing.T) {
	if err := StopPprofServer(nil, logging.NewNop(), time.Second); err != nil {
		t.Fatalf("expected nil server stop to be a no-op, got %v", err)
	}
}
