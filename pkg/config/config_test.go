package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

type validated struct {
	Name string `yaml:"name"`
}

func (v *validated) Validate() error {
	if v.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "name: pagesmith\nport: 9090\n")

	var cfg sample
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "pagesmith" || cfg.Port != 9090 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("CFG_TEST_NAME", "from-env")
	path := writeConfig(t, "name: ${CFG_TEST_NAME}\n")

	var cfg sample
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "from-env" {
		t.Errorf("name = %q", cfg.Name)
	}
}

func TestLoad_Missing(t *testing.T) {
	var cfg sample
	err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	if !errors.Is(err, ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestLoad_Validation(t *testing.T) {
	path := writeConfig(t, "name: \"\"\n")

	var cfg validated
	if err := Load(path, &cfg); err == nil {
		t.Fatal("expected validation failure")
	}
}

func TestLoadIfPresent_MissingFileValidatesDefaults(t *testing.T) {
	cfg := validated{Name: "preset"}
	if err := LoadIfPresent(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err != nil {
		t.Fatalf("LoadIfPresent: %v", err)
	}
	if cfg.Name != "preset" {
		t.Errorf("name = %q, defaults should survive", cfg.Name)
	}

	empty := validated{}
	if err := LoadIfPresent(filepath.Join(t.TempDir(), "nope.yaml"), &empty); err == nil {
		t.Fatal("invalid defaults should still fail validation")
	}
}
