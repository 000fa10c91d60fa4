package postcode

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"member-heatmap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

const kenAllSample = `13101,"100  ","1000000","ﾄｳｷｮｳﾄ","ﾁﾖﾀﾞｸ","ｲｶﾆｹｲｻｲｶﾞﾅｲﾊﾞｱｲ","東京都","千代田区","以下に掲載がない場合",0,0,0,0,0,0
13101,"100  ","1000001","ﾄｳｷｮｳﾄ","ﾁﾖﾀﾞｸ","ﾁﾖﾀﾞ","東京都","千代田区","千代田",0,0,0,0,0,0
13101,"100  ","1000001","ﾄｳｷｮｳﾄ","ﾁﾖﾀﾞｸ","ﾁﾖﾀﾞ","東京都","千代田区","重複",0,0,0,0,0,0
01101,"060  ","0600042","ﾎｯｶｲﾄﾞｳ","ｻｯﾎﾟﾛｼﾁｭｳｵｳｸ","ｵｵﾄﾞｵﾘﾆｼ(1ﾁｮｳﾒ)","北海道","札幌市中央区","大通西（１丁目）",1,0,1,0,0,0
short,row
`

func encodeSJIS(t *testing.T, s string) string {
	t.Helper()
	out, err := japanese.ShiftJIS.NewEncoder().String(s)
	require.NoError(t, err)
	return out
}

func TestParse(t *testing.T) {
	codes, err := Parse(strings.NewReader(encodeSJIS(t, kenAllSample)), "cp932")
	require.NoError(t, err)
	require.Len(t, codes, 4)

	assert.Equal(t, models.PostalCode{Code: "1000000", Prefecture: "東京都", Municipality: "千代田区", Town: ""}, codes[0])
	assert.Equal(t, "東京都千代田区千代田", codes[1].Address())
	assert.Equal(t, "0600042", codes[3].Code)
	assert.Equal(t, "北海道札幌市中央区大通西", codes[3].Address())
}

func TestNewTable_FirstEntryWins(t *testing.T) {
	table := NewTable([]models.PostalCode{
		{Code: "1000001", Prefecture: "東京都", Municipality: "千代田区", Town: "千代田"},
		{Code: "1000001", Prefecture: "東京都", Municipality: "千代田区", Town: "重複"},
		{Code: "600042", Prefecture: "北海道", Municipality: "札幌市中央区", Town: "大通西"},
		{Code: "bogus"},
	})

	assert.Equal(t, 2, table.Len())

	entry, ok := table.Lookup("1000001")
	require.True(t, ok)
	assert.Equal(t, "千代田", entry.Town)

	entry, ok = table.Lookup("0600042")
	require.True(t, ok)
	assert.Equal(t, "0600042", entry.Code)

	_, ok = table.Lookup("9999999")
	assert.False(t, ok)
}

func TestTable_NilLookup(t *testing.T) {
	var table *Table
	_, ok := table.Lookup("1000001")
	assert.False(t, ok)
	assert.Equal(t, 0, table.Len())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "KEN_ALL.csv")
	require.NoError(t, os.WriteFile(path, []byte(encodeSJIS(t, kenAllSample)), 0o644))

	table, err := LoadFile(path, "cp932")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"), "cp932")
	assert.Error(t, err)
}

type MockLister struct {
	mock.Mock
}

func (m *MockLister) ListPostalCodes(ctx context.Context) ([]models.PostalCode, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.PostalCode), args.Error(1)
}

func TestLoadFrom(t *testing.T) {
	lister := new(MockLister)
	lister.On("ListPostalCodes", mock.Anything).Return([]models.PostalCode{
		{Code: "1000001", Prefecture: "東京都", Municipality: "千代田区", Town: "千代田"},
	}, nil)

	table, err := LoadFrom(context.Background(), lister)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	lister.AssertExpectations(t)

	failing := new(MockLister)
	failing.On("ListPostalCodes", mock.Anything).Return([]models.PostalCode(nil), assert.AnError)
	_, err = LoadFrom(context.Background(), failing)
	assert.ErrorIs(t, err, assert.AnError)
}
