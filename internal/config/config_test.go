package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "program.cps"))
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if cfg.Color != nil || cfg.ContextLines != 0 || cfg.MIPS.Output != "" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromSourceDirectory(t *testing.T) {
	dir := t.TempDir()
	content := "color: false\ncontext-lines: 2\nmips:\n  output: out.asm\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(filepath.Join(dir, "program.cps"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Color == nil || *cfg.Color {
		t.Error("color should be explicitly false")
	}
	if cfg.ContextLines != 2 {
		t.Errorf("context-lines = %d", cfg.ContextLines)
	}
	if cfg.MIPS.Output != "out.asm" {
		t.Errorf("mips.output = %q", cfg.MIPS.Output)
	}
}

func TestMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("color: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(filepath.Join(dir, "program.cps")); err == nil {
		t.Error("malformed yaml should error")
	}
}

func TestSourceExtHelpers(t *testing.T) {
	if !HasSourceExt("demo.cps") || HasSourceExt("demo.go") {
		t.Error("HasSourceExt misclassifies")
	}
	if TrimSourceExt("demo.cps") != "demo" || TrimSourceExt("demo") != "demo" {
		t.Error("TrimSourceExt misbehaves")
	}
}
