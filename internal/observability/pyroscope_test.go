package observability

import (
	"testing"

	"github.com/derekfrye/rusty-golf-sub001/internal/config"
	"github.com/derekfrye/rusty-golf-sub001/internal/platform/logging"
)

func TestInitPyroscope_Disabled(t *testing.T) {
	cfg := config.Config{PyroscopeEnabled: false}

	stop, err := InitPyroscope(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}
