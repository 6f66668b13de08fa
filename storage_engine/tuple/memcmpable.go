package tuple

import (
	"github.com/pkg/errors"
)

/*
Order-preserving ("memcomparable") column encoding.

A column is cut into 8 byte groups. Every group is written as 8 bytes
followed by one marker byte:

	marker == 9      another group follows
	marker == 0..8   last group, marker = number of real bytes,
	                 the rest of the group is zero padding

	"abc"        -> 61 62 63 00 00 00 00 00 | 03
	"helloworld" -> 68 65 6c 6c 6f 77 6f 72 | 09  6c 64 00 00 00 00 00 00 | 02
	""           -> 00 00 00 00 00 00 00 00 | 00

Comparing two encodings with bytes.Compare gives the same answer as
comparing the raw columns, and concatenated encodings compare like the
column sequences they came from.
*/
const (
	groupSize  = 8
	escapeSize = groupSize + 1
	markerMore = escapeSize
)

var ErrMalformed = errors.New("malformed tuple encoding")

// EncodedSize is the encoded length of an n byte column.
func EncodedSize(n int) int {
	groups := (n + groupSize - 1) / groupSize
	if groups == 0 {
		groups = 1
	}
	return groups * escapeSize
}

// EncodeColumn appends the encoding of col to dst.
func EncodeColumn(dst, col []byte) []byte {
	for {
		copyLen := min(groupSize, len(col))
		dst = append(dst, col[:copyLen]...)
		col = col[copyLen:]
		if len(col) == 0 {
			for i := copyLen; i < groupSize; i++ {
				dst = append(dst, 0)
			}
			return append(dst, byte(copyLen))
		}
		dst = append(dst, markerMore)
	}
}

// DecodeColumn reads one column from the front of src and returns it with the remaining bytes.
func DecodeColumn(src []byte) (col []byte, rest []byte, err error) {
	col = []byte{}
	for {
		if len(src) < escapeSize {
			return nil, nil, errors.Wrapf(ErrMalformed, "truncated group: %d bytes left", len(src))
		}
		marker := src[groupSize]
		if marker > markerMore {
			return nil, nil, errors.Wrapf(ErrMalformed, "bad group marker %d", marker)
		}
		n := min(groupSize, int(marker))
		col = append(col, src[:n]...)
		src = src[escapeSize:]
		if marker < markerMore {
			return col, src, nil
		}
	}
}
