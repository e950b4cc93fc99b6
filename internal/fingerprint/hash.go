package fingerprint

import (
	"strconv"
	"unicode/utf16"
)

// Hash is a 32-bit multiply-add (h*31 + c) over UTF-16 code units, returned
// as the base-36 absolute value. Not cryptographic; collisions are fine.
func Hash(s string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36)
}
