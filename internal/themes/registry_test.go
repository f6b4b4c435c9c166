package themes

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "themes.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, `
themes:
  - key: classic
    name: Classic
    description: Clean grid layout
    previewImage: static/themes/classic.png
  - key: noir
    name: Noir
    description: Dark storefront
    previewImage: static/themes/noir.png
`)

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reg.List()) != 2 {
		t.Fatalf("expected 2 themes, got %d", len(reg.List()))
	}
	if !reg.Exists("noir") || reg.Exists("ghost") {
		t.Fatal("Exists misreports manifest keys")
	}
	if reg.DefaultKey() != "classic" {
		t.Fatalf("default should be the first manifest entry, got %q", reg.DefaultKey())
	}
	theme, ok := reg.Get("classic")
	if !ok || theme.Name != "Classic" {
		t.Fatalf("unexpected theme: %+v", theme)
	}
}

func TestLoad_EmptyManifestRejected(t *testing.T) {
	path := writeManifest(t, "themes: []\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty manifest")
	}
}

func TestLoad_DuplicateKeyRejected(t *testing.T) {
	path := writeManifest(t, `
themes:
  - key: classic
    name: Classic
  - key: classic
    name: Classic Again
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for duplicate theme key")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}
