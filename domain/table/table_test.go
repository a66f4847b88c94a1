package table

import (
	"testing"
	"time"
)

func TestValueConstructors(t *testing.T) {
	if !String("").IsMissing() {
		t.Error("Expected empty string cell to be missing")
	}
	if String("x").IsMissing() {
		t.Error("Expected non-empty string cell to be present")
	}
	if !Number(0).IsNumeric() {
		t.Error("Expected zero to be a valid numeric cell")
	}
	if !Null().IsMissing() {
		t.Error("Expected null cell to be missing")
	}

	ts := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	cell := Timestamp(ts)
	if !cell.IsTime() || !cell.AsTime().Equal(ts) {
		t.Error("Expected timestamp cell to round-trip")
	}
	if cell.AsString() != "2024-03-15" {
		t.Errorf("Expected time rendering 2024-03-15, got %q", cell.AsString())
	}
}

func TestAppendRowPadsAndTruncates(t *testing.T) {
	tbl := New([]string{"a", "b", "c"})

	tbl.AppendRow([]Value{String("1")})
	tbl.AppendRow([]Value{String("1"), String("2"), String("3"), String("4")})

	if tbl.RowCount() != 2 {
		t.Fatalf("Expected 2 rows, got %d", tbl.RowCount())
	}
	if !tbl.At(0, "b").IsMissing() || !tbl.At(0, "c").IsMissing() {
		t.Error("Expected short row to be padded with missing cells")
	}
	if tbl.At(1, "c").AsString() != "3" {
		t.Error("Expected long row to be truncated to declared columns")
	}
}

func TestAddColumnOverwrites(t *testing.T) {
	tbl := New([]string{"a"})
	tbl.AppendRow([]Value{String("old")})

	tbl.AddColumn("a", []Value{String("new")})
	if got := tbl.At(0, "a").AsString(); got != "new" {
		t.Errorf("Expected overwrite to replace cell, got %q", got)
	}
	if len(tbl.Columns()) != 1 {
		t.Errorf("Expected overwrite to keep 1 column, got %d", len(tbl.Columns()))
	}

	tbl.AddColumn("b", []Value{Number(42)})
	if !tbl.HasColumn("b") {
		t.Error("Expected new column to be added")
	}
	if tbl.At(0, "b").AsFloat64() != 42 {
		t.Error("Expected new column cell to be readable")
	}
}

func TestFilterKeepsOrder(t *testing.T) {
	tbl := New([]string{"n"})
	for _, v := range []string{"1", "2", "3", "4"} {
		tbl.AppendRow([]Value{String(v)})
	}

	out := tbl.Filter(func(row int) bool {
		return tbl.At(row, "n").AsString() != "2"
	})

	if out.RowCount() != 3 {
		t.Fatalf("Expected 3 rows after filter, got %d", out.RowCount())
	}
	want := []string{"1", "3", "4"}
	for i, expected := range want {
		if got := out.At(i, "n").AsString(); got != expected {
			t.Errorf("Row %d: expected %q, got %q", i, expected, got)
		}
	}
	if tbl.RowCount() != 4 {
		t.Error("Expected filter to leave the source table unchanged")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tbl := New([]string{"a"})
	tbl.AppendRow([]Value{String("original")})

	clone := tbl.Clone()
	clone.Set(0, "a", String("mutated"))
	clone.RenameColumns(map[string]string{"a": "z"})

	if tbl.At(0, "a").AsString() != "original" {
		t.Error("Expected clone mutation to leave the source cell unchanged")
	}
	if !tbl.HasColumn("a") {
		t.Error("Expected clone rename to leave the source columns unchanged")
	}
}

func TestSetColumnNamesLengthMismatch(t *testing.T) {
	tbl := New([]string{"a", "b"})
	tbl.SetColumnNames([]string{"only_one"})

	if !tbl.HasColumn("a") || !tbl.HasColumn("b") {
		t.Error("Expected mismatched rename to be a no-op")
	}
}
