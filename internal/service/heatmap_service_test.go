package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"member-heatmap/internal/geocoder"
	"member-heatmap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockResolver is a mock implementation of the Resolver interface
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, address string) models.Resolution {
	args := m.Called(ctx, address)
	return args.Get(0).(models.Resolution)
}

func TestHeatmapService_Generate_PostalCode(t *testing.T) {
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, "東京都千代田区千代田").
		Return(models.Resolution{Address: "東京都千代田区千代田", Latitude: "35.685175", Longitude: "139.753595"})
	resolver.On("Resolve", mock.Anything, "北海道札幌市中央区大通西").
		Return(models.Resolution{Address: "北海道札幌市中央区大通西", Reason: models.ReasonHTTPStatus, StatusCode: 503})

	svc := NewHeatmapService(NewKeyBuilder(chiyodaTable(), models.DefaultColumns()), resolver)

	var progress [][2]int
	heatmap, err := svc.Generate(context.Background(), memberRoster(), Request{
		Mode:     models.ModePostalCode,
		Progress: func(done, total int) { progress = append(progress, [2]int{done, total}) },
	})
	require.NoError(t, err)

	assert.NotEmpty(t, heatmap.RunID)
	assert.Equal(t, models.ModePostalCode, heatmap.Mode)
	assert.Equal(t, []models.Point{{Latitude: 35.685175, Longitude: 139.753595, Weight: 2}}, heatmap.Points)
	assert.Equal(t, models.Viewport{Latitude: 35.685175, Longitude: 139.753595, Zoom: 12}, heatmap.View)
	assert.Equal(t, 4, heatmap.Summary.Rows)
	assert.Equal(t, 4, heatmap.Summary.Filtered)
	assert.Equal(t, 2, heatmap.Summary.Targets)
	assert.Equal(t, 1, heatmap.Summary.Unresolved[models.ReasonHTTPStatus])
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, progress)
	resolver.AssertExpectations(t)
}

func TestHeatmapService_Generate_FiltersBeforeBuilding(t *testing.T) {
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, "東京都千代田区千代田").
		Return(models.Resolution{Latitude: "35.685175", Longitude: "139.753595"})

	svc := NewHeatmapService(NewKeyBuilder(chiyodaTable(), models.DefaultColumns()), resolver)

	heatmap, err := svc.Generate(context.Background(), memberRoster(), Request{
		Mode:    models.ModePostalCode,
		Filters: models.FilterSelection{Values: map[string][]string{"店舗": {"渋谷"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, heatmap.Summary.Filtered)
	require.Len(t, heatmap.Points, 1)
	assert.Equal(t, 1, heatmap.Points[0].Weight)
	resolver.AssertNumberOfCalls(t, "Resolve", 1)
}

func TestHeatmapService_Generate_MissingColumns(t *testing.T) {
	resolver := new(MockResolver)
	svc := NewHeatmapService(NewKeyBuilder(nil, models.DefaultColumns()), resolver)

	_, err := svc.Generate(context.Background(), memberRoster(), Request{Mode: models.ModeAddress})

	var missingErr *MissingColumnsError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, []string{"都道府県", "市区町村", "町域", "番地"}, missingErr.Columns)
	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestHeatmapService_Generate_NilRoster(t *testing.T) {
	svc := NewHeatmapService(NewKeyBuilder(nil, models.DefaultColumns()), new(MockResolver))

	_, err := svc.Generate(context.Background(), nil, Request{Mode: models.ModeAddress})
	assert.Error(t, err)
}

func TestHeatmapService_Generate_ServerErrorDropsEverything(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	roster := models.NewRoster([]string{"都道府県", "市区町村", "町域", "番地"}, [][]string{
		{"東京都", "千代田区", "千代田", "1-1"},
		{"北海道", "札幌市中央区", "大通西", "1"},
	})
	svc := NewHeatmapService(
		NewKeyBuilder(nil, models.DefaultColumns()),
		geocoder.NewClient(geocoder.WithEndpoint(srv.URL)),
	)

	heatmap, err := svc.Generate(context.Background(), roster, Request{Mode: models.ModeAddress})
	require.NoError(t, err)

	assert.Empty(t, heatmap.Points)
	assert.Equal(t, 2, heatmap.Summary.Unresolved[models.ReasonHTTPStatus])
	assert.Equal(t, models.Viewport{}, heatmap.View)
}

func TestHeatmapService_Generate_ConcurrentKeepsOrder(t *testing.T) {
	var rows [][]string
	resolver := new(MockResolver)
	for i, pref := range []string{"東京都", "大阪府", "北海道", "沖縄県", "福岡県", "愛知県"} {
		rows = append(rows, []string{pref, "", "", ""})
		resolver.On("Resolve", mock.Anything, pref).
			Return(models.Resolution{Latitude: "35", Longitude: []string{"130", "131", "132", "133", "134", "135"}[i]})
	}
	roster := models.NewRoster([]string{"都道府県", "市区町村", "町域", "番地"}, rows)

	var mu sync.Mutex
	calls := 0
	svc := NewHeatmapService(NewKeyBuilder(nil, models.DefaultColumns()), resolver, WithConcurrency(3))

	heatmap, err := svc.Generate(context.Background(), roster, Request{
		Mode: models.ModeAddress,
		Progress: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			assert.Equal(t, 6, total)
		},
	})
	require.NoError(t, err)

	require.Len(t, heatmap.Points, 6)
	for i, p := range heatmap.Points {
		assert.Equal(t, float64(130+i), p.Longitude)
		assert.Equal(t, 1, p.Weight)
	}
	assert.Equal(t, 6, calls)
}

func TestHeatmapService_DescribeFilters(t *testing.T) {
	svc := NewHeatmapService(
		NewKeyBuilder(nil, models.DefaultColumns()),
		new(MockResolver),
		WithFilterColumns([]models.FilterColumn{{Name: "性別", Kind: models.FilterCategorical}}),
	)

	controls := svc.DescribeFilters(memberRoster())

	require.Len(t, controls, 1)
	assert.Equal(t, "性別", controls[0].Column)
}
