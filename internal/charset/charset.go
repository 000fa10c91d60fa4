// Package charset wraps readers in the decoders needed for Japanese spreadsheet exports.
package charset

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewReader returns a reader that decodes r from the named encoding to UTF-8.
// An empty label means UTF-8; a UTF-8 byte order mark is dropped.
func NewReader(r io.Reader, label string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "utf-8", "utf8", "utf-8-sig":
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	case "cp932", "ms932", "windows-31j", "shift_jis", "shift-jis", "sjis":
		return japanese.ShiftJIS.NewDecoder().Reader(r), nil
	case "euc-jp", "eucjp":
		return japanese.EUCJP.NewDecoder().Reader(r), nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("charset: unsupported encoding %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(r), nil
}
