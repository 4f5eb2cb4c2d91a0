package records

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/zeebo/xxh3"
)

// Fingerprint hashes the header and every cell in order. Two tables with the
// same columns and values (by type) produce the same fingerprint, which lets
// repeated runs be compared cheaply.
func (t *Table) Fingerprint() uint64 {
	h := xxh3.New()
	var buf [8]byte

	for _, c := range t.Columns {
		_, _ = h.WriteString(c)
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte{0xff})

	for _, r := range t.Rows {
		for _, c := range t.Columns {
			switch v := r[c].(type) {
			case nil:
				_, _ = h.Write([]byte{'n'})
			case float64:
				_, _ = h.Write([]byte{'f'})
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
				_, _ = h.Write(buf[:])
			case int64:
				_, _ = h.Write([]byte{'i'})
				binary.LittleEndian.PutUint64(buf[:], uint64(v))
				_, _ = h.Write(buf[:])
			case string:
				_, _ = h.Write([]byte{'s'})
				_, _ = h.WriteString(strconv.Itoa(len(v)))
				_, _ = h.WriteString(v)
			default:
				_, _ = h.Write([]byte{'?'})
				_, _ = h.WriteString(strconv.Quote(toString(v)))
			}
		}
		_, _ = h.Write([]byte{'\n'})
	}
	return h.Sum64()
}
