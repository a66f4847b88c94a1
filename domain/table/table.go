// Package table holds the columnar container every pipeline stage produces
// and consumes. Each stage owns the table it returns; callers pass tables on
// unchanged or discard them, so accessors never expose interior slices for
// mutation across stages.
package table

// Table is an ordered set of named columns over row-major cell storage.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// New creates an empty table with the given column order
func New(columns []string) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range t.columns {
		t.index[c] = i
	}
	return t
}

// Columns returns the ordered column names
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// HasColumn reports whether the table contains the named column
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.rows)
}

// AppendRow adds a row. Short rows are padded with missing cells; long rows
// are truncated to the column count.
func (t *Table) AppendRow(row []Value) {
	fixed := make([]Value, len(t.columns))
	for i := range fixed {
		if i < len(row) {
			fixed[i] = row[i]
		} else {
			fixed[i] = Null()
		}
	}
	t.rows = append(t.rows, fixed)
}

// At returns the cell at (row, column). Unknown columns read as missing.
func (t *Table) At(row int, column string) Value {
	idx, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return Null()
	}
	return t.rows[row][idx]
}

// Set overwrites the cell at (row, column). Unknown columns are a no-op.
func (t *Table) Set(row int, column string, v Value) {
	idx, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return
	}
	t.rows[row][idx] = v
}

// Column returns all cells of the named column in row order
func (t *Table) Column(name string) []Value {
	idx, ok := t.index[name]
	if !ok {
		return nil
	}
	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}
	return out
}

// AddColumn appends a new column filled with the given cells. Extra cells are
// dropped, short columns padded with missing cells.
func (t *Table) AddColumn(name string, cells []Value) {
	if t.HasColumn(name) {
		for i := range t.rows {
			if i < len(cells) {
				t.Set(i, name, cells[i])
			}
		}
		return
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
	for i := range t.rows {
		cell := Null()
		if i < len(cells) {
			cell = cells[i]
		}
		t.rows[i] = append(t.rows[i], cell)
	}
}

// RenameColumns applies the old→new renames, leaving unnamed columns in place
func (t *Table) RenameColumns(renames map[string]string) {
	for i, c := range t.columns {
		if to, ok := renames[c]; ok {
			delete(t.index, c)
			t.columns[i] = to
			t.index[to] = i
		}
	}
}

// SetColumnNames replaces all column names, preserving cell data. The new
// list must have the same length as the current one or the call is a no-op.
func (t *Table) SetColumnNames(names []string) {
	if len(names) != len(t.columns) {
		return
	}
	t.columns = append([]string(nil), names...)
	t.index = make(map[string]int, len(names))
	for i, c := range t.columns {
		t.index[c] = i
	}
}

// Filter returns a new table containing only rows where keep returns true,
// preserving input order.
func (t *Table) Filter(keep func(row int) bool) *Table {
	out := New(t.columns)
	for i := range t.rows {
		if keep(i) {
			out.rows = append(out.rows, append([]Value(nil), t.rows[i]...))
		}
	}
	return out
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	out := New(t.columns)
	out.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		out.rows[i] = append([]Value(nil), row...)
	}
	return out
}

// IsEmpty reports whether the table has no rows
func (t *Table) IsEmpty() bool {
	return len(t.rows) == 0
}
