package geocoder

import (
	"fmt"
	"strings"
)

// unescaped are the ASCII bytes, besides letters and digits, that pass through raw mode.
const unescaped = "-._~!#$&'()*+,/:;=?@[]"

// requote percent-encodes the bytes of s that are not allowed in a URL while keeping
// reserved characters and existing escapes intact.
func requote(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '%':
			if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
				b.WriteByte(ch)
			} else {
				b.WriteString("%25")
			}
		case isAlnum(ch) || strings.IndexByte(unescaped, ch) >= 0:
			b.WriteByte(ch)
		default:
			fmt.Fprintf(&b, "%%%02X", ch)
		}
	}
	return b.String()
}

func isAlnum(ch byte) bool {
	return ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

func isHex(ch byte) bool {
	return ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'f' || ch >= 'A' && ch <= 'F'
}
