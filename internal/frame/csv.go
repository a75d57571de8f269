package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadCSV reads a headed CSV table. Each column gets one kind: int when every non-empty
// cell is an integer, float when every cell is numeric, string otherwise. Empty cells and
// "nan" are null. Columns named in text (matched case-insensitively) skip inference and
// keep their cells as written, so identifiers like "0700" survive.
func ReadCSV(r io.Reader, text ...string) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Frame{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	raw := make([][]string, len(header))
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		for i := range header {
			cell := ""
			if i < len(rec) {
				cell = rec[i]
			}
			raw[i] = append(raw[i], cell)
		}
	}

	verbatim := make(map[string]bool, len(text))
	for _, name := range text {
		verbatim[strings.ToLower(strings.TrimSpace(name))] = true
	}
	out := &Frame{}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if verbatim[strings.ToLower(name)] {
			out.AddColumn(ColumnKey{Field: name}, textColumn(raw[i]))
			continue
		}
		out.AddColumn(ColumnKey{Field: name}, inferColumn(raw[i]))
	}
	if len(header) > 0 {
		out.rows = len(raw[0])
	}
	return out, nil
}

func isMissing(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null")
}

func textColumn(cells []string) []Value {
	out := make([]Value, len(cells))
	for i, c := range cells {
		if !isMissing(c) {
			out[i] = Str(c)
		}
	}
	return out
}

func inferColumn(cells []string) []Value {
	allInt, allNum := true, true
	for _, c := range cells {
		if isMissing(c) {
			continue
		}
		s := strings.TrimSpace(c)
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			allInt = false
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			allNum = false
			break
		}
	}
	out := make([]Value, len(cells))
	for i, c := range cells {
		if isMissing(c) {
			continue
		}
		switch {
		case allInt:
			n, _ := strconv.ParseInt(strings.TrimSpace(c), 10, 64)
			out[i] = IntValue(n)
		case allNum:
			x, _ := strconv.ParseFloat(strings.TrimSpace(c), 64)
			out[i] = FloatValue(x)
		default:
			out[i] = Str(c)
		}
	}
	return out
}
