package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/carlosaherrerap/Evidencias/internal/model"
)

func TestNormalizeSynonymGroups(t *testing.T) {
	n := Default()
	tests := []struct {
		input string
		want  string
	}{
		{"CUENTA", "cuenta"},
		{"cuenta", "cuenta"},
		{"Cuenta", "cuenta"},
		{"NOMBRE", "nombre"},
		{"contacto", "nombre"},
		{" nombres ", "nombre"},
		{"NOMBRE COMPLETO", "nombre"},
		{"DNI", "dni"},
		{"Documento", "dni"},
		{"TELEFONO", "telefono"},
		{"celular", "telefono"},
		{"TELÉFONO", "telefono"},
		{"GESTION EFECTIVA", "gestion_efectiva"},
		{"gestión efectiva", "gestion_efectiva"},
		{"GESTIÓN EFECTIVA", "gestion_efectiva"},
		{"GESTION_EFECTIVA", "gestion_efectiva"},
		{"NÚMERO DE CRÉDITO", "numero_credito"},
		{"TIPO DE GESTION", "tipo_gestion"},
	}
	for _, tt := range tests {
		if got := n.Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeSameGroupSameKey(t *testing.T) {
	n := Default()
	a, b, c := n.Normalize("NOMBRE"), n.Normalize("contacto"), n.Normalize(" nombres ")
	if a != b || b != c || a != "nombre" {
		t.Fatalf("got %q, %q, %q; want all \"nombre\"", a, b, c)
	}
}

func TestNormalizeUnmatchedPassesThrough(t *testing.T) {
	n := Default()
	key, ok := n.Lookup("  Fecha Gestión ")
	if ok {
		t.Fatal("expected no group match")
	}
	if key != "fecha gestión" {
		t.Fatalf("got %q, want %q", key, "fecha gestión")
	}
}

func TestNewEarlierGroupWins(t *testing.T) {
	n := New([]model.SynonymGroup{
		{Key: "a", Synonyms: []string{"shared"}},
		{Key: "b", Synonyms: []string{"SHARED"}},
	})
	if got := n.Normalize("Shared"); got != "a" {
		t.Fatalf("got %q, want %q", got, "a")
	}
}

func TestLoadFileExtendsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	data := []byte(`groups:
  - key: telefono
    synonyms: [movil, "nro telefono"]
  - key: agencia
    synonyms: [sucursal]
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	n, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	for in, want := range map[string]string{
		"MOVIL":        "telefono",
		"nro telefono": "telefono",
		"celular":      "telefono",
		"Sucursal":     "agencia",
		"CUENTA":       "cuenta",
	} {
		if got := n.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadFileReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	data := []byte("replace: true\ngroups:\n  - key: cuenta\n    synonyms: [nro cuenta]\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	n, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if got := n.Normalize("NRO CUENTA"); got != "cuenta" {
		t.Errorf("got %q, want cuenta", got)
	}
	if _, ok := n.Lookup("DNI"); ok {
		t.Error("default groups should be discarded with replace: true")
	}
}

func TestLoadFileRejectsEmptyKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte("groups:\n  - synonyms: [x]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for group without key")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
