package groups

import (
	"os"
	"path/filepath"
	"testing"

	appErrors "staffgroups/internal/errors"
)

func TestDecodeList(t *testing.T) {
	data := []byte(`
- id: eng
  name: Engineering
  order: 0
- id: be
  name: Backend
  parentId: eng
  order: 2
  createdAt: "2024-05-01T10:00:00Z"
- name: No id here
- id: "  "
  name: Blank id
- id: odd
  name: Odd fields
  parentId: [eng]
  order: first
`)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(got), got)
	}
	if got[1].ParentID != "eng" || got[1].Order != 2 || got[1].CreatedAt != "2024-05-01T10:00:00Z" {
		t.Fatalf("unexpected backend record: %+v", got[1])
	}
	if got[2].ParentID != "" || got[2].Order != 0 {
		t.Fatalf("expected loose fields to fall back, got %+v", got[2])
	}
}

func TestDecodeMappingUsesKeysAsIDs(t *testing.T) {
	data := []byte(`{
  "b": {"name": "Bravo", "parentId": "a", "order": 1.0},
  "a": {"name": "Alpha"},
  "key": {"id": "real", "name": "Explicit id"}
}`)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	ids := []string{}
	for _, g := range got {
		ids = append(ids, g.ID)
	}
	want := []string{"a", "b", "real"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
	if got[1].Order != 1 || got[1].ParentID != "a" {
		t.Fatalf("unexpected b record: %+v", got[1])
	}
}

func TestDecodeMappingWithNumericKeys(t *testing.T) {
	data := []byte(`
202:
  name: Payroll
  parentId: 101
101:
  name: Finance
`)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %+v", got)
	}
	if got[0].ID != "101" || got[0].Name != "Finance" {
		t.Fatalf("unexpected first record: %+v", got[0])
	}
	if got[1].ID != "202" || got[1].ParentID != "101" {
		t.Fatalf("unexpected second record: %+v", got[1])
	}
}

func TestDecodeEmptyAndInvalid(t *testing.T) {
	got, err := Decode(nil)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %v, %v", got, err)
	}
	if _, err := Decode([]byte("just a string")); !appErrors.IsCode(err, appErrors.CodeImportFailed) {
		t.Fatalf("expected import error for scalar document, got %v", err)
	}
	if _, err := Decode([]byte("- [unclosed")); !appErrors.IsCode(err, appErrors.CodeImportFailed) {
		t.Fatalf("expected import error for bad yaml, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.yaml")
	if err := os.WriteFile(path, []byte("- id: a\n  name: Alpha\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Alpha" {
		t.Fatalf("unexpected groups: %+v", got)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); !appErrors.IsCode(err, appErrors.CodeImportFailed) {
		t.Fatalf("expected import error for missing file, got %v", err)
	}
}
