package frame

import (
	"sort"
	"strings"
)

// KeepLast is the tie-break used by DropDuplicates: of several rows sharing a key, the one
// that appears last wins, and it stays at its own position.
const KeepLast = "last"

// DropDuplicates removes rows whose key columns repeat an earlier key, keeping the last
// occurrence. Keys compare the way LeftJoin matches them, so 7 and 7.0 collide. Absent key
// columns are ignored.
func (f *Frame) DropDuplicates(keys ...string) *Frame {
	cols := f.keyColumns(keys)
	last := make(map[string]int, f.rows)
	for i := 0; i < f.rows; i++ {
		last[numericKey(cols, i)] = i
	}
	return f.Filter(func(i int) bool { return last[numericKey(cols, i)] == i })
}

func (f *Frame) keyColumns(keys []string) [][]Value {
	cols := make([][]Value, 0, len(keys))
	for _, k := range keys {
		if c := f.Col(k); c != nil || f.Has(k) {
			cols = append(cols, c)
		}
	}
	return cols
}


func hasNull(cols [][]Value, i int) bool {
	for _, c := range cols {
		if c[i].IsNull() {
			return true
		}
	}
	return false
}

// LeftJoin merges right into f on the given flat key columns. Every row of f is kept in
// order; right columns that are not keys are appended, suffixed with "_y" when the name is
// already taken. Rows with a null key never match. When a key column holds different kinds
// of values on each side a *KeyTypeMismatchError is returned and nothing is merged.
func (f *Frame) LeftJoin(right *Frame, on ...string) (*Frame, error) {
	var missing []string
	for _, k := range on {
		if !f.Has(k) || !right.Has(k) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, &DataShapeError{Op: "left join", Missing: missing}
	}
	for _, k := range on {
		lk, rk := f.Kinds(k), right.Kinds(k)
		if !compatibleKinds(lk, rk) {
			return nil, &KeyTypeMismatchError{Column: k, Left: lk, Right: rk}
		}
	}

	lcols, rcols := f.keyColumns(on), right.keyColumns(on)
	matches := make(map[string][]int, right.rows)
	for i := 0; i < right.rows; i++ {
		if hasNull(rcols, i) {
			continue
		}
		k := numericKey(rcols, i)
		matches[k] = append(matches[k], i)
	}

	var leftRows, rightRows []int
	for i := 0; i < f.rows; i++ {
		var m []int
		if !hasNull(lcols, i) {
			m = matches[numericKey(lcols, i)]
		}
		if len(m) == 0 {
			leftRows = append(leftRows, i)
			rightRows = append(rightRows, -1)
			continue
		}
		for _, r := range m {
			leftRows = append(leftRows, i)
			rightRows = append(rightRows, r)
		}
	}

	out := f.Take(leftRows)
	isKey := make(map[string]bool, len(on))
	for _, k := range on {
		isKey[k] = true
	}
	for _, c := range right.cols {
		if !c.Key.Nested() && isKey[c.Key.Field] {
			continue
		}
		vals := make([]Value, len(rightRows))
		for j, r := range rightRows {
			if r >= 0 {
				vals[j] = c.Values[r]
			}
		}
		key := c.Key
		if out.Column(key) != nil {
			key.Field += "_y"
		}
		out.cols = append(out.cols, &Column{Key: key, Values: vals})
	}
	return out, nil
}

// numericKey joins the row's key values; ints and whole floats share a spelling, so 7 and 7.0 match.
func numericKey(cols [][]Value, i int) string {
	var b strings.Builder
	for _, c := range cols {
		v := c[i]
		if f, ok := v.Float(); ok {
			b.WriteString("n:")
			b.WriteString(FloatValue(f).Text())
		} else {
			b.WriteString(v.Key())
		}
		b.WriteByte(0x1f)
	}
	return b.String()
}

type kindClass uint8

const (
	classText kindClass = iota + 1
	classNumber
	classTime
)

func classOf(k Kind) kindClass {
	switch k {
	case String:
		return classText
	case Int, Float:
		return classNumber
	case Time:
		return classTime
	}
	return 0
}

func compatibleKinds(left, right []Kind) bool {
	if len(left) == 0 || len(right) == 0 {
		return true
	}
	lc, rc := map[kindClass]bool{}, map[kindClass]bool{}
	for _, k := range left {
		lc[classOf(k)] = true
	}
	for _, k := range right {
		rc[classOf(k)] = true
	}
	if len(lc) != len(rc) {
		return false
	}
	for c := range lc {
		if !rc[c] {
			return false
		}
	}
	return true
}

// Stack turns a nested (field, ticker) frame into flat rows. Flat columns are repeated for
// every ticker, the ticker goes into tickerCol, and each field becomes a column. Rows whose
// fields are all null for a ticker are skipped. Rows come out ordered by input row, then
// ticker. A frame without nested columns is returned as a copy.
func (f *Frame) Stack(tickerCol string) *Frame {
	if !f.Nested() {
		return f.Clone()
	}
	var index []*Column
	var fields []string
	var tickers []Value
	seenField, seenTicker := map[string]bool{}, map[string]bool{}
	for _, c := range f.cols {
		if !c.Key.Nested() {
			index = append(index, c)
			continue
		}
		if !seenField[c.Key.Field] {
			seenField[c.Key.Field] = true
			fields = append(fields, c.Key.Field)
		}
		if k := c.Key.Ticker.Key(); !seenTicker[k] {
			seenTicker[k] = true
			tickers = append(tickers, c.Key.Ticker)
		}
	}
	sort.SliceStable(tickers, func(i, j int) bool { return tickers[i].Less(tickers[j]) })

	names := make([]string, 0, len(index)+1+len(fields))
	for _, c := range index {
		names = append(names, c.Key.Field)
	}
	names = append(names, tickerCol)
	names = append(names, fields...)
	out := New(names...)

	for i := 0; i < f.rows; i++ {
		for _, t := range tickers {
			row := make([]Value, 0, len(names))
			for _, c := range index {
				row = append(row, c.Values[i])
			}
			row = append(row, t)
			empty := true
			for _, field := range fields {
				v := NullValue()
				if c := f.Column(ColumnKey{Field: field, Ticker: t}); c != nil {
					v = c.Values[i]
				}
				if !v.IsNull() {
					empty = false
				}
				row = append(row, v)
			}
			if !empty {
				out.Append(row...)
			}
		}
	}
	return out
}
