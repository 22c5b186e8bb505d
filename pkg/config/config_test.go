package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/sqlassist/internal/dialect"
	"github.com/bastiangx/sqlassist/internal/reqctx"
)

func TestDefaultConfigMatchesReqctxDefaults(t *testing.T) {
	c := DefaultConfig()
	got := c.ToReqConfig()
	want := reqctx.DefaultConfig()
	if got.SortAlphabetically != want.SortAlphabetically {
		t.Fatalf("SortAlphabetically = %v, want %v", got.SortAlphabetically, want.SortAlphabetically)
	}
	if got.AliasInsertMode != want.AliasInsertMode {
		t.Fatalf("AliasInsertMode = %v, want %v", got.AliasInsertMode, want.AliasInsertMode)
	}
	if got.MaxAttributeValueProposals != want.MaxAttributeValueProposals {
		t.Fatalf("MaxAttributeValueProposals = %v, want %v", got.MaxAttributeValueProposals, want.MaxAttributeValueProposals)
	}
}

func TestInitConfigCreatesFileWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		t.Fatalf("config file should not exist yet")
	}
	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig returned error: %v", err)
	}
	if cfg == nil {
		t.Fatalf("InitConfig returned nil config")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be created: %v", err)
	}
}

func TestLoadConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	original := DefaultConfig()
	original.Analyzer.HideDuplicates = true
	original.Analyzer.InsertCase = "UPPER"
	if err := SaveConfig(original, path); err != nil {
		t.Fatalf("SaveConfig returned error: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if !loaded.Analyzer.HideDuplicates {
		t.Fatalf("expected HideDuplicates = true after round trip")
	}
	if loaded.Analyzer.InsertCase != "UPPER" {
		t.Fatalf("InsertCase = %q, want UPPER", loaded.Analyzer.InsertCase)
	}
}

func TestTryPartialParseRecoversValidSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	// analyzer section is well-formed; dialect section is malformed
	// (wrong type for keyword_case), which would fail a strict decode.
	contents := "[analyzer]\nhide_duplicates = true\n\n[dialect]\nkeyword_case = 42\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if !cfg.Analyzer.HideDuplicates {
		t.Fatalf("expected the well-formed analyzer section to survive partial parse")
	}
}

func TestResolveDialectFallsBackToGeneric(t *testing.T) {
	c := DefaultConfig()
	c.Dialect.Name = "nonexistent"
	d := c.ResolveDialect()
	if _, ok := d.(*dialect.Generic); !ok {
		t.Fatalf("expected fallback to *dialect.Generic, got %T", d)
	}
}

func TestKeywordCaseParsesUpperAndLower(t *testing.T) {
	c := DefaultConfig()
	c.Dialect.KeywordCase = "LOWER"
	if c.KeywordCase() != dialect.CaseLower {
		t.Fatalf("KeywordCase() = %v, want CaseLower", c.KeywordCase())
	}
}

func TestGetActiveConfigPathResolvesRelative(t *testing.T) {
	got := GetActiveConfigPath("relative.toml")
	if !filepath.IsAbs(got) {
		t.Fatalf("GetActiveConfigPath(relative.toml) = %q, want an absolute path", got)
	}
}
