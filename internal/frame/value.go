package frame

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the dynamic type held by a Value.
type Kind uint8

const (
	Null Kind = iota
	String
	Int
	Float
	Time
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Time:
		return "time"
	default:
		return "null"
	}
}

// Value is a single table cell. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	t    time.Time
}

// NullValue returns a missing cell.
func NullValue() Value { return Value{} }

// Str wraps a string.
func Str(s string) Value { return Value{kind: String, s: s} }

// IntValue wraps an integer.
func IntValue(i int64) Value { return Value{kind: Int, i: i} }

// FloatValue wraps a float. NaN is stored as null so missing numbers have one spelling.
func FloatValue(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: Float, f: f}
}

// TimeValue wraps a timestamp. The zero time is stored as null.
func TimeValue(t time.Time) Value {
	if t.IsZero() {
		return Value{}
	}
	return Value{kind: Time, t: t}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == Null }
func (v Value) Str() string { return v.s }
func (v Value) Int() int64 { return v.i }
func (v Value) Time() time.Time { return v.t }

// Float returns the numeric content of v. Ints are widened; anything else is not a number.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case Float:
		return v.f, true
	case Int:
		return float64(v.i), true
	}
	return math.NaN(), false
}

// FloatOrNaN is Float with NaN standing in for a missing number.
func (v Value) FloatOrNaN() float64 {
	f, _ := v.Float()
	return f
}

// Text renders v as a string, which is also what string coercion of a column produces.
// Null renders as the empty string.
func (v Value) Text() string {
	switch v.kind {
	case String:
		return v.s
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case Time:
		if isMidnight(v.t) {
			return v.t.Format(DateLayout)
		}
		return v.t.Format(time.RFC3339)
	}
	return ""
}

func (v Value) String() string { return v.Text() }

// Key is a kind-qualified form of v, used for hashing rows by key columns.
// Int 7 and string "7" produce different keys.
func (v Value) Key() string {
	return strconv.Itoa(int(v.kind)) + ":" + v.Text()
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case String:
		return v.s == o.s
	case Int:
		return v.i == o.i
	case Float:
		return v.f == o.f
	case Time:
		return v.t.Equal(o.t)
	}
	return false
}

// Less orders values of the same kind; nulls sort last.
func (v Value) Less(o Value) bool {
	if v.kind == Null || o.kind == Null {
		return v.kind != Null && o.kind == Null
	}
	if v.kind != o.kind {
		return v.kind < o.kind
	}
	switch v.kind {
	case String:
		return v.s < o.s
	case Int:
		return v.i < o.i
	case Float:
		return v.f < o.f
	case Time:
		return v.t.Before(o.t)
	}
	return false
}

// DateLayout is the calendar date format used for parsing and rendering.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
}

// ParseDate parses the date spellings seen in headline files and provider exports.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CivilDate drops the time of day and zone of t, keeping its wall-clock date.
// The result is midnight UTC so dates from different providers compare equal.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AsDate converts v into a calendar date value. Strings are parsed; anything that is not
// a date becomes null.
func AsDate(v Value) Value {
	switch v.kind {
	case Time:
		return TimeValue(CivilDate(v.t))
	case String:
		if t, ok := ParseDate(v.s); ok {
			return TimeValue(CivilDate(t))
		}
	}
	return NullValue()
}

func isMidnight(t time.Time) bool {
	h, m, s := t.Clock()
	return h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0
}
