package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// LoadConfig is a process-wide singleton, so the package has a single load test.
func TestLoadConfig_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := LoadConfig(path)
	if cfg.Port != "38870" || cfg.Blocksize != 20 || cfg.Width != 20 || cfg.Height != 20 || cfg.TickInterval != 100 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	var onDisk AppConfig
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("written config is not JSON: %v", err)
	}
	if onDisk != *cfg {
		t.Fatalf("on disk %+v, in memory %+v", onDisk, *cfg)
	}

	if again := LoadConfig(filepath.Join(t.TempDir(), "other.json")); again != cfg {
		t.Fatal("LoadConfig returned a second instance")
	}

	if got := GetConfigValue("width").(int); got != 20 {
		t.Fatalf("width=%d", got)
	}
	if got := GetConfigValue("port").(string); got != "38870" {
		t.Fatalf("port=%s", got)
	}
	if got := GetConfigValue("nope"); got != "" {
		t.Fatalf("unknown key returned %v", got)
	}
	if GetConfigValue("max_width").(int) != 200 || GetConfigValue("max_height").(int) != 200 {
		t.Fatalf("grid limits=%v x %v", GetConfigValue("max_width"), GetConfigValue("max_height"))
	}
	if got := GetTickInterval(); got != 100*time.Millisecond {
		t.Fatalf("tick interval=%v", got)
	}
}

func TestLoadConfig_OverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"width": 30, "tick_interval": 50}`), 0644); err != nil {
		t.Fatal(err)
	}

	saved := instance
	defer func() { instance = saved }()

	instance = defaults()
	loadConfig(path)
	if instance.Width != 30 || instance.TickInterval != 50 {
		t.Fatalf("file values not applied: %+v", instance)
	}
	if instance.Height != 20 || instance.Port != "38870" {
		t.Fatalf("defaults lost for absent keys: %+v", instance)
	}
	if got := GetTickInterval(); got != 50*time.Millisecond {
		t.Fatalf("tick interval=%v", got)
	}
}
