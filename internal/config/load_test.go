package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tendhq/tend/internal/clog"
)

func init() {
	clog.Discard()
}

func TestLoad_CreatesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Confirm.Timeout != "30s" {
		t.Errorf("Confirm.Timeout = %q, want defaults", cfg.Confirm.Timeout)
	}

	// First load writes the starter file.
	data, err := os.ReadFile(GlobalConfigPath())
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if !strings.Contains(string(data), "ruleset:") {
		t.Error("starter file missing ruleset section")
	}
}

func TestLoad_ExplicitMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load(explicit missing path) = nil, want error")
	}
}

func TestLoad_ExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	path := filepath.Join(dir, "custom.yaml")
	content := "trust_roots:\n  - ~/src\nlog:\n  audit: ~/.local/state/tend/audit.log\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := filepath.Join(home, "src"); cfg.TrustRoots[0] != want {
		t.Errorf("TrustRoots[0] = %q, want %q", cfg.TrustRoots[0], want)
	}
	if strings.HasPrefix(cfg.Log.Audit, "~") {
		t.Errorf("Log.Audit = %q, not expanded", cfg.Log.Audit)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("toolset: [warp]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load(invalid config) = nil, want error")
	}
}

func TestLoadProject_Missing(t *testing.T) {
	cfg, err := LoadProject(t.TempDir())
	if err != nil {
		t.Fatalf("LoadProject() error = %v", err)
	}
	if cfg != nil {
		t.Errorf("LoadProject(missing) = %v, want nil", cfg)
	}
}

func TestLoadProject_Valid(t *testing.T) {
	dir := t.TempDir()
	content := "ruleset:\n  bash:\n    allow:\n      - \"make *\"\n"
	if err := os.WriteFile(ProjectConfigPath(dir), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject() error = %v", err)
	}
	if cfg == nil || len(cfg.Ruleset.Bash.Allow) != 1 {
		t.Errorf("LoadProject() = %+v", cfg)
	}
}

func TestLoadProject_Invalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(ProjectConfigPath(dir), []byte("toolset: [warp]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProject(dir); err == nil {
		t.Error("LoadProject(invalid) = nil, want error")
	}
}

func TestWriteDefaultConfig_NoOverwrite(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := WriteDefaultConfig(); err != nil {
		t.Fatalf("WriteDefaultConfig() error = %v", err)
	}
	custom := []byte("confirm:\n  timeout: 5s\n")
	if err := os.WriteFile(GlobalConfigPath(), custom, 0o600); err != nil {
		t.Fatal(err)
	}

	if err := WriteDefaultConfig(); err != nil {
		t.Fatalf("second WriteDefaultConfig() error = %v", err)
	}
	data, err := os.ReadFile(GlobalConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(custom) {
		t.Error("WriteDefaultConfig() overwrote an existing file")
	}
}

func TestLoadRuleset_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strict.yaml")
	data := []byte("ruleset:\n  bash:\n    allow:\n      - \"ls*\"\n    deny:\n      - \"rm *\"\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	rs, err := LoadRuleset(path)
	if err != nil {
		t.Fatalf("LoadRuleset() error = %v", err)
	}
	if got := rs.Bash.Allow; len(got) != 1 || got[0] != "ls*" {
		t.Errorf("Bash.Allow = %v, want [ls*]", got)
	}
	if got := rs.Bash.Deny; len(got) != 1 || got[0] != "rm *" {
		t.Errorf("Bash.Deny = %v, want [rm *]", got)
	}
	if !rs.Edit.Empty() {
		t.Error("Edit rules present, want empty")
	}
}

func TestLoadRuleset_Errors(t *testing.T) {
	if _, err := LoadRuleset(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadRuleset(missing) = nil, want error")
	}

	tests := []struct {
		name string
		data string
	}{
		{"unknown field", "ruleset:\n  bash: {}\ntoolset: [bash]\n"},
		{"bad glob", "ruleset:\n  edit:\n    deny:\n      - \"[unclosed\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rules.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadRuleset(path); err == nil {
				t.Errorf("LoadRuleset(%s) = nil, want error", tt.name)
			}
		})
	}
}
