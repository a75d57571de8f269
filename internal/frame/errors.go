package frame

import (
	"errors"
	"fmt"
	"strings"
)

// ErrKeyTypeMismatch is matched by KeyTypeMismatchError through errors.Is.
var ErrKeyTypeMismatch = errors.New("frame: key type mismatch")

// DataShapeError reports required columns that are absent from a table.
type DataShapeError struct {
	Op      string
	Missing []string
	Err     error
}

func (e *DataShapeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	if len(e.Missing) > 0 {
		b.WriteString("missing required columns: ")
		b.WriteString(strings.Join(e.Missing, ", "))
	} else {
		b.WriteString("unusable table shape")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DataShapeError) Unwrap() error { return e.Err }

// KeyTypeMismatchError is returned by LeftJoin when a key column holds different kinds on
// each side, for example int exchange codes on the left and string symbols on the right.
type KeyTypeMismatchError struct {
	Column string
	Left   []Kind
	Right  []Kind
}

func (e *KeyTypeMismatchError) Error() string {
	return fmt.Sprintf("frame: key column %q has kinds %v on the left and %v on the right", e.Column, e.Left, e.Right)
}

func (e *KeyTypeMismatchError) Is(target error) bool { return target == ErrKeyTypeMismatch }
