package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: "9090"
simulation:
  tick_rate: 10
  seed: 7
motion:
  speed: 0.2
encounter:
  cooldown: 2s
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Simulation.Seed != 7 || cfg.Motion.Speed != 0.2 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Encounter.Cooldown != 2*time.Second {
		t.Errorf("expected 2s cooldown, got %v", cfg.Encounter.Cooldown)
	}
	// Значения по умолчанию сохраняются
	if cfg.Motion.SlotsPerDay != 288 || cfg.Simulation.Dexterity != 10 {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.TickInterval() != 100*time.Millisecond {
		t.Errorf("unexpected tick interval %v", cfg.TickInterval())
	}
}

func TestLoadConfig_BadTickRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	_ = os.WriteFile(path, []byte("simulation:\n  tick_rate: 0\n"), 0o644)
	if _, err := LoadConfig(path); err == nil {
		t.Errorf("expected error for zero tick rate")
	}
}
