// Package frame is a small columnar table used wherever the pipeline hands tables between
// stages. Columns are ordered and hold tagged Values, so absent columns, missing cells and
// key types are all observable, which the join and backtest rules depend on.
package frame

import (
	"fmt"
	"sort"
)

// ColumnKey names a column. Flat columns only carry a Field; columns of a nested price
// frame also carry the Ticker they belong to, e.g. ("Close", "AAPL").
type ColumnKey struct {
	Field  string
	Ticker Value
}

// Nested reports whether the key is a (field, ticker) pair.
func (k ColumnKey) Nested() bool { return !k.Ticker.IsNull() }

func (k ColumnKey) String() string {
	if k.Nested() {
		return fmt.Sprintf("(%s, %s)", k.Field, k.Ticker.Text())
	}
	return k.Field
}

// Column is a named run of values.
type Column struct {
	Key    ColumnKey
	Values []Value
}

// Frame is an ordered set of equally long columns.
type Frame struct {
	cols []*Column
	rows int
}

// New returns an empty frame with the given flat columns.
func New(names ...string) *Frame {
	f := &Frame{}
	for _, name := range names {
		f.cols = append(f.cols, &Column{Key: ColumnKey{Field: name}})
	}
	return f
}

// Len is the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return f.rows
}

// Empty reports whether the frame has no rows.
func (f *Frame) Empty() bool { return f.Len() == 0 }

// Keys returns the column keys in order.
func (f *Frame) Keys() []ColumnKey {
	keys := make([]ColumnKey, len(f.cols))
	for i, c := range f.cols {
		keys[i] = c.Key
	}
	return keys
}

// Names returns the flat column names in order.
func (f *Frame) Names() []string {
	names := make([]string, 0, len(f.cols))
	for _, c := range f.cols {
		if !c.Key.Nested() {
			names = append(names, c.Key.Field)
		}
	}
	return names
}

// Nested reports whether any column is keyed by (field, ticker).
func (f *Frame) Nested() bool {
	for _, c := range f.cols {
		if c.Key.Nested() {
			return true
		}
	}
	return false
}

func (f *Frame) index(name string) int {
	for i, c := range f.cols {
		if !c.Key.Nested() && c.Key.Field == name {
			return i
		}
	}
	return -1
}

// Has reports whether a flat column exists.
func (f *Frame) Has(name string) bool { return f != nil && f.index(name) >= 0 }

// Col returns the values of a flat column, or nil when absent.
func (f *Frame) Col(name string) []Value {
	if i := f.index(name); i >= 0 {
		return f.cols[i].Values
	}
	return nil
}

// Column returns the column stored under key, or nil.
func (f *Frame) Column(key ColumnKey) *Column {
	for _, c := range f.cols {
		if c.Key.Field == key.Field && c.Key.Ticker.Equal(key.Ticker) {
			return c
		}
	}
	return nil
}

// Require fails with a DataShapeError naming every absent column.
func (f *Frame) Require(op string, names ...string) error {
	var missing []string
	for _, name := range names {
		if !f.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &DataShapeError{Op: op, Missing: missing}
	}
	return nil
}

// AddColumn appends a column. It panics when the length disagrees with the frame, as that
// is always a programming error.
func (f *Frame) AddColumn(key ColumnKey, values []Value) {
	if len(f.cols) > 0 && len(values) != f.rows {
		panic(fmt.Sprintf("frame: column %s has %d values, frame has %d rows", key, len(values), f.rows))
	}
	if len(f.cols) == 0 {
		f.rows = len(values)
	}
	f.cols = append(f.cols, &Column{Key: key, Values: values})
}

// Set replaces a flat column, appending it when absent.
func (f *Frame) Set(name string, values []Value) {
	if i := f.index(name); i >= 0 {
		if len(values) != f.rows {
			panic(fmt.Sprintf("frame: column %s has %d values, frame has %d rows", name, len(values), f.rows))
		}
		f.cols[i].Values = values
		return
	}
	f.AddColumn(ColumnKey{Field: name}, values)
}

// Rename renames a flat column. Renaming onto an existing name is a no-op.
func (f *Frame) Rename(from, to string) {
	i := f.index(from)
	if i < 0 || f.index(to) >= 0 {
		return
	}
	f.cols[i].Key.Field = to
}

// Append adds one row; values are matched to columns by position.
func (f *Frame) Append(values ...Value) {
	if len(values) != len(f.cols) {
		panic(fmt.Sprintf("frame: row has %d values, frame has %d columns", len(values), len(f.cols)))
	}
	for i, v := range values {
		f.cols[i].Values = append(f.cols[i].Values, v)
	}
	f.rows++
}

// Row returns the values of row i keyed by flat column name.
func (f *Frame) Row(i int) map[string]Value {
	row := make(map[string]Value, len(f.cols))
	for _, c := range f.cols {
		if !c.Key.Nested() {
			row[c.Key.Field] = c.Values[i]
		}
	}
	return row
}

// Clone copies the frame; values are immutable so only slices are duplicated.
func (f *Frame) Clone() *Frame {
	out := &Frame{rows: f.rows}
	for _, c := range f.cols {
		vals := make([]Value, len(c.Values))
		copy(vals, c.Values)
		out.cols = append(out.cols, &Column{Key: c.Key, Values: vals})
	}
	return out
}

// Take builds a new frame from the given row positions, in that order.
func (f *Frame) Take(rows []int) *Frame {
	out := &Frame{rows: len(rows)}
	for _, c := range f.cols {
		vals := make([]Value, len(rows))
		for j, r := range rows {
			vals[j] = c.Values[r]
		}
		out.cols = append(out.cols, &Column{Key: c.Key, Values: vals})
	}
	return out
}

// Map returns a copy with fn applied to every value of a flat column.
func (f *Frame) Map(name string, fn func(Value) Value) *Frame {
	out := f.Clone()
	i := out.index(name)
	if i < 0 {
		return out
	}
	for j, v := range out.cols[i].Values {
		out.cols[i].Values[j] = fn(v)
	}
	return out
}

// Filter keeps the rows for which keep returns true.
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	rows := make([]int, 0, f.rows)
	for i := 0; i < f.rows; i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return f.Take(rows)
}

// SortBy orders rows by the given flat columns, ascending, keeping the relative order of
// equal rows.
func (f *Frame) SortBy(names ...string) *Frame {
	cols := make([][]Value, 0, len(names))
	for _, name := range names {
		if c := f.Col(name); c != nil {
			cols = append(cols, c)
		}
	}
	rows := make([]int, f.rows)
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(a, b int) bool {
		for _, c := range cols {
			va, vb := c[rows[a]], c[rows[b]]
			if va.Less(vb) {
				return true
			}
			if vb.Less(va) {
				return false
			}
		}
		return false
	})
	return f.Take(rows)
}

// Kinds returns the set of non-null kinds present in a flat column.
func (f *Frame) Kinds(name string) []Kind {
	seen := map[Kind]bool{}
	var kinds []Kind
	for _, v := range f.Col(name) {
		if v.IsNull() || seen[v.Kind()] {
			continue
		}
		seen[v.Kind()] = true
		kinds = append(kinds, v.Kind())
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Concat stacks frames with identical flat schemas. Empty frames without columns are
// skipped, so callers can merge per-ticker results without special-casing failures.
func Concat(frames ...*Frame) (*Frame, error) {
	var out *Frame
	for _, f := range frames {
		if f == nil || len(f.cols) == 0 {
			continue
		}
		if out == nil {
			out = f.Clone()
			continue
		}
		if err := sameSchema(out, f); err != nil {
			return nil, err
		}
		for i, c := range f.cols {
			out.cols[i].Values = append(out.cols[i].Values, c.Values...)
		}
		out.rows += f.rows
	}
	if out == nil {
		return &Frame{}, nil
	}
	return out, nil
}

func sameSchema(a, b *Frame) error {
	if len(a.cols) != len(b.cols) {
		return fmt.Errorf("frame: concat of %d and %d columns", len(a.cols), len(b.cols))
	}
	for i := range a.cols {
		if a.cols[i].Key.Field != b.cols[i].Key.Field || !a.cols[i].Key.Ticker.Equal(b.cols[i].Key.Ticker) {
			return fmt.Errorf("frame: concat column %d is %s in one frame and %s in the other", i, a.cols[i].Key, b.cols[i].Key)
		}
	}
	return nil
}
