package service

import (
	"errors"
	"testing"

	"member-heatmap/internal/models"
	"member-heatmap/internal/postcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chiyodaTable() *postcode.Table {
	return postcode.NewTable([]models.PostalCode{
		{Code: "1000001", Prefecture: "東京都", Municipality: "千代田区", Town: "千代田"},
		{Code: "0600042", Prefecture: "北海道", Municipality: "札幌市中央区", Town: "大通西"},
	})
}

func TestKeyBuilder_Build_PostalCode(t *testing.T) {
	roster := models.NewRoster([]string{"会員番号", "郵便番号"}, [][]string{
		{"1", "1000001"},
		{"2", "1000001"},
	})

	targets, err := NewKeyBuilder(chiyodaTable(), models.DefaultColumns()).Build(roster, models.ModePostalCode)
	require.NoError(t, err)

	assert.Equal(t, []models.Target{
		{Key: "1000001", Address: "東京都千代田区千代田", Weight: "2"},
	}, targets)
}

func TestKeyBuilder_Build_PostalCodeNormalisesAndOrders(t *testing.T) {
	roster := models.NewRoster([]string{"郵便番号"}, [][]string{
		{"600042"},
		{"100-0001"},
		{"1000001.0"},
		{""},
		{"9999999"},
		{"060-0042"},
		{"１０００００１"},
		{"bogus"},
	})

	targets, err := NewKeyBuilder(chiyodaTable(), models.DefaultColumns()).Build(roster, models.ModePostalCode)
	require.NoError(t, err)

	assert.Equal(t, []models.Target{
		{Key: "1000001", Address: "東京都千代田区千代田", Weight: "3"},
		{Key: "0600042", Address: "北海道札幌市中央区大通西", Weight: "2"},
		{Key: "00bogus", Address: "", Weight: "1"},
		{Key: "9999999", Address: "", Weight: "1"},
	}, targets)
}

func TestKeyBuilder_Build_Address(t *testing.T) {
	roster := models.NewRoster([]string{"都道府県", "市区町村", "町域", "番地"}, [][]string{
		{"東京都", "千代田区", "千代田", "1-1"},
		{"東京都", "千代田区", "", "1-1"},
		{"北海道"},
	})

	targets, err := NewKeyBuilder(nil, models.DefaultColumns()).Build(roster, models.ModeAddress)
	require.NoError(t, err)

	assert.Equal(t, []models.Target{
		{Key: "1", Address: "東京都千代田区千代田1-1", Weight: "1"},
		{Key: "2", Address: "東京都千代田区1-1", Weight: "1"},
		{Key: "3", Address: "北海道", Weight: "1"},
	}, targets)
}

func TestKeyBuilder_Build_AddressWeightColumn(t *testing.T) {
	columns := models.DefaultColumns()
	columns.Weight = "来店回数"
	roster := models.NewRoster([]string{"都道府県", "市区町村", "町域", "番地", "来店回数"}, [][]string{
		{"東京都", "千代田区", "千代田", "1", "5"},
		{"東京都", "千代田区", "千代田", "2", "不明"},
	})

	targets, err := NewKeyBuilder(nil, columns).Build(roster, models.ModeAddress)
	require.NoError(t, err)

	require.Len(t, targets, 2)
	assert.Equal(t, "5", targets[0].Weight)
	assert.Equal(t, "不明", targets[1].Weight)
}

func TestKeyBuilder_Build_Errors(t *testing.T) {
	tests := []struct {
		name    string
		table   PostalLookup
		columns []string
		mode    models.Mode
		missing []string
		target  error
	}{
		{
			name:    "postal code column missing",
			table:   chiyodaTable(),
			columns: []string{"住所"},
			mode:    models.ModePostalCode,
			missing: []string{"郵便番号"},
		},
		{
			name:    "address columns missing",
			columns: []string{"都道府県", "町域"},
			mode:    models.ModeAddress,
			missing: []string{"市区町村", "番地"},
		},
		{
			name:    "no reference table",
			columns: []string{"郵便番号"},
			mode:    models.ModePostalCode,
			target:  ErrNoReferenceTable,
		},
		{
			name:    "unknown mode",
			columns: []string{"郵便番号"},
			mode:    models.Mode("satellite"),
			target:  models.ErrUnknownMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster := models.NewRoster(tt.columns, nil)
			var table PostalLookup
			if tt.table != nil {
				table = tt.table
			}

			_, err := NewKeyBuilder(table, models.DefaultColumns()).Build(roster, tt.mode)
			require.Error(t, err)

			if tt.missing != nil {
				var missingErr *MissingColumnsError
				require.True(t, errors.As(err, &missingErr))
				assert.Equal(t, tt.missing, missingErr.Columns)
			}
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}
