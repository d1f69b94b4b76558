package persona

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWithoutPathReturnsDefault(t *testing.T) {
	catalog, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, ok := catalog["default"]
	if !ok {
		t.Fatal("default persona missing from catalog")
	}
	if got.Name != Default.Name || got.Mode != "assistant" {
		t.Fatalf("default persona = %+v", got)
	}
}

func TestLoadMissingFileFallsBackToDefault(t *testing.T) {
	catalog, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := catalog["default"]; !ok {
		t.Fatal("missing file should yield the default catalog")
	}
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yaml")
	doc := `
receptionist:
  name: Desk
  description: front-desk persona
  voice:
    style: crisp
  mode: task
paralegal:
  name: Brief
  description: legal intake persona
  voice:
    style: formal
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	catalog, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("catalog size = %d, want 2", len(catalog))
	}
	if catalog["receptionist"].Mode != "task" {
		t.Fatalf("receptionist mode = %q", catalog["receptionist"].Mode)
	}
	// an omitted mode defaults to assistant
	if catalog["paralegal"].Mode != "assistant" {
		t.Fatalf("paralegal mode = %q, want assistant", catalog["paralegal"].Mode)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for malformed catalog")
	}
}

func TestIsValidMode(t *testing.T) {
	for _, mode := range []string{"assistant", "legal", "warm", "task"} {
		if !IsValidMode(mode) {
			t.Fatalf("mode %q should be valid", mode)
		}
	}
	for _, mode := range []string{"", "pirate", "ASSISTANT"} {
		if IsValidMode(mode) {
			t.Fatalf("mode %q should be invalid", mode)
		}
	}
}
