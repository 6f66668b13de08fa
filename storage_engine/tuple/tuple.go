package tuple

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Tuple is an ordered sequence of byte-string columns.
type Tuple [][]byte

// Encode concatenates the column encodings of cols.
func Encode(cols [][]byte) []byte {
	size := 0
	for _, c := range cols {
		size += EncodedSize(len(c))
	}
	out := make([]byte, 0, size)
	for _, c := range cols {
		out = EncodeColumn(out, c)
	}
	return out
}

// Decode splits b back into columns. An empty input is a tuple of no columns.
func Decode(b []byte) (Tuple, error) {
	var t Tuple
	for len(b) > 0 {
		col, rest, err := DecodeColumn(b)
		if err != nil {
			return nil, err
		}
		t = append(t, col)
		b = rest
	}
	return t, nil
}

// FromStrings is a convenience for building tuples of text columns.
func FromStrings(cols ...string) Tuple {
	t := make(Tuple, len(cols))
	for i, c := range cols {
		t[i] = []byte(c)
	}
	return t
}

// Pretty renders t on one line: Tuple("y" [79], "Bob" [42 6f 62]).
// Columns that are not valid UTF-8 show only their hex bytes.
func Pretty(t Tuple) string {
	var sb strings.Builder
	sb.WriteString("Tuple(")
	for i, col := range t {
		if i > 0 {
			sb.WriteString(", ")
		}
		if utf8.Valid(col) {
			fmt.Fprintf(&sb, "%q ", col)
		}
		fmt.Fprintf(&sb, "[% x]", col)
	}
	sb.WriteString(")")
	return sb.String()
}

func (t Tuple) String() string {
	return Pretty(t)
}
