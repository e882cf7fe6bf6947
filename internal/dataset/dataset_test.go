package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materials.csv")
	content := "material_name,supplier\nPork Gelatin,ACME\n\"Water, Purified\",Wells\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tbl, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	want := New(
		[]string{"material_name", "supplier"},
		[][]string{
			{"Pork Gelatin", "ACME"},
			{"Water, Purified", "Wells"},
		},
	)
	if diff := cmp.Diff(want, tbl, cmpopts.IgnoreUnexported(Table{})); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing input file")
	}
}

func TestReadFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); err == nil {
		t.Error("expected error for empty input file")
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	tbl := New(
		[]string{"material_name", "halal_status", "reason"},
		[][]string{
			{"Pork Gelatin", "HARAM", "하람 키워드 포함: pork"},
			{"Mystery", "", ""},
		},
	)

	// Parent directory does not exist yet; WriteFile must create it.
	path := filepath.Join(t.TempDir(), "out", "labeled.csv")
	if err := tbl.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loaded, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if diff := cmp.Diff(tbl, loaded, cmpopts.IgnoreUnexported(Table{})); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestColumnLookup(t *testing.T) {
	tbl := New([]string{"material_name"}, [][]string{{"Water"}})

	idx, ok := tbl.Column("material_name")
	if !ok || idx != 0 {
		t.Errorf("Column(material_name) = %d, %v; want 0, true", idx, ok)
	}
	if _, ok := tbl.Column("halal_status"); ok {
		t.Error("Column(halal_status) should not exist yet")
	}
}

func TestEnsureColumn(t *testing.T) {
	tbl := New([]string{"material_name"}, [][]string{{"Water"}, {"Salt"}})

	idx := tbl.EnsureColumn("halal_status")
	if idx != 1 {
		t.Errorf("EnsureColumn returned %d, want 1", idx)
	}
	for i, row := range tbl.Rows {
		if len(row) != 2 || row[1] != "" {
			t.Errorf("row %d not extended with empty cell: %v", i, row)
		}
	}

	// Existing columns are reused, not duplicated.
	if again := tbl.EnsureColumn("halal_status"); again != idx {
		t.Errorf("EnsureColumn returned %d on repeat, want %d", again, idx)
	}
	if len(tbl.Header) != 2 {
		t.Errorf("header grew to %v", tbl.Header)
	}
}
