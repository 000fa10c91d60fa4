package charset

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func TestNewReader(t *testing.T) {
	sjis, err := japanese.ShiftJIS.NewEncoder().String("郵便番号,都道府県")
	require.NoError(t, err)
	eucjp, err := japanese.EUCJP.NewEncoder().String("東京都")
	require.NoError(t, err)

	tests := []struct {
		name     string
		label    string
		input    string
		expected string
	}{
		{name: "cp932", label: "cp932", input: sjis, expected: "郵便番号,都道府県"},
		{name: "shift_jis alias", label: "Shift_JIS", input: sjis, expected: "郵便番号,都道府県"},
		{name: "euc-jp", label: "euc-jp", input: eucjp, expected: "東京都"},
		{name: "utf-8 with bom", label: "utf-8", input: "\ufeff東京都", expected: "東京都"},
		{name: "empty label is utf-8", label: "", input: "東京都", expected: "東京都"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(strings.NewReader(tt.input), tt.label)
			require.NoError(t, err)

			out, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestNewReader_UnknownEncoding(t *testing.T) {
	_, err := NewReader(strings.NewReader(""), "klingon")
	assert.Error(t, err)
}
