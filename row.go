package asqlite

// Row is an immutable snapshot of one result tuple: an ordered sequence of
// (column name, value) pairs. Column names are taken from the statement and
// are not guaranteed unique; lookup by name returns the first match.
type Row struct {
	columns []string
	values  []Value
}

// Len returns the number of columns in the row.
func (r Row) Len() int {
	return len(r.values)
}

// Columns returns the ordered column names.
func (r Row) Columns() []string {
	cols := make([]string, len(r.columns))
	copy(cols, r.columns)
	return cols
}

// Value returns the value at the given column index. It panics if the
// index is out of range, matching slice semantics.
func (r Row) Value(index int) Value {
	return r.values[index]
}

// Values returns the ordered values of the row.
func (r Row) Values() []Value {
	vals := make([]Value, len(r.values))
	copy(vals, r.values)
	return vals
}

// Column returns the value of the first column with the given name. It
// reports false when no column has that name.
func (r Row) Column(name string) (Value, bool) {
	for i, col := range r.columns {
		if col == name {
			return r.values[i], true
		}
	}
	return Value{}, false
}
