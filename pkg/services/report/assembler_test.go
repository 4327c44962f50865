package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/rps-tools/report-atlas/pkg/services/charts"
	"github.com/rps-tools/report-atlas/pkg/services/datasource"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDataSource struct {
	mock.Mock
}

func (m *mockDataSource) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *mockDataSource) FetchSnapshot(ctx context.Context, code int, period string) (*domain.Snapshot, error) {
	args := m.Called(ctx, code, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func fixedNow() time.Time { return time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC) }

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func seeded(v uint64) *uint64 { return &v }

func TestAssembler_Assemble(t *testing.T) {
	// Given
	source := datasource.NewSyntheticSource(datasource.SyntheticOptions{Seed: seeded(9), Now: fixedNow})
	a := NewAssembler(source, charts.NewRenderer(charts.DefaultPalette()), Options{Now: fixedNow})

	// When
	rc, err := a.Assemble(testContext(t), 1001, "")

	// Then
	require.NoError(t, err)
	assert.Equal(t, "Abril/2025", rc.Data.Period)
	assert.Equal(t, fixedNow(), rc.GeneratedAt)
	assert.True(t, strings.Contains(string(rc.CommentaryHTML), "<strong>"))

	for _, name := range []string{
		ChartAssetsStack, ChartLiabilitiesStack, ChartProfitability, ChartEquityVsAssets,
		ChartSales, ChartAssetsTotal, ChartTopRevenue, ChartTopQuantity,
		ChartSalesMix, ChartCosts, ChartSuppliers,
	} {
		img, ok := rc.Chart(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, img.Base64, name)
	}
	assert.Len(t, rc.Charts, 11)
	assert.Len(t, rc.Raw.Months, 6)
}

func TestAssembler_RenderChartsFromBuiltSeries(t *testing.T) {
	a := NewAssembler(&mockDataSource{}, charts.NewRenderer(charts.DefaultPalette()), Options{})

	for _, period := range []string{"Março/2025", "Dezembro/2024", "sem período"} {
		t.Run(period, func(t *testing.T) {
			// Given the monthly series shown next to a snapshot
			raw := buildSeries(period, 2025)

			// When every chart of the report is rendered
			images, err := a.renderCharts(raw)

			// Then each one decodes to a PNG
			require.NoError(t, err)
			require.Len(t, images, 11)
			for name, img := range images {
				assert.Equal(t, name, img.Name)
				data, err := img.Bytes()
				require.NoError(t, err, name)
				assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), name)
			}
		})
	}
}

func TestAssembler_UnknownCompany(t *testing.T) {
	source := datasource.NewSyntheticSource(datasource.SyntheticOptions{Seed: seeded(9)})
	a := NewAssembler(source, charts.NewRenderer(charts.DefaultPalette()), Options{})

	rc, err := a.Assemble(testContext(t), 424242, "Março/2025")

	require.NoError(t, err)
	assert.Equal(t, "Empresa 424242", rc.Data.DisplayName)
}

func TestAssembler_NoCacheRegenerates(t *testing.T) {
	source := datasource.NewSyntheticSource(datasource.SyntheticOptions{Seed: seeded(21)})
	a := NewAssembler(source, charts.NewRenderer(charts.DefaultPalette()), Options{})
	ctx := testContext(t)

	first, err := a.Assemble(ctx, 1001, "Março/2025")
	require.NoError(t, err)
	second, err := a.Assemble(ctx, 1001, "Março/2025")
	require.NoError(t, err)

	assert.NotEqual(t, first.Data.Figures.Sales, second.Data.Figures.Sales)
}

func TestAssembler_CacheUntilInvalidated(t *testing.T) {
	// Given: a source that would return different figures on every call
	source := datasource.NewSyntheticSource(datasource.SyntheticOptions{Seed: seeded(21)})
	a := NewAssembler(source, charts.NewRenderer(charts.DefaultPalette()), Options{CacheTTL: time.Hour})
	ctx := testContext(t)

	// When
	first, err := a.Assemble(ctx, 1001, "Março/2025")
	require.NoError(t, err)
	second, err := a.Assemble(ctx, 1001, "Março/2025")
	require.NoError(t, err)

	// Then
	assert.Same(t, first, second)

	a.Invalidate()
	third, err := a.Assemble(ctx, 1001, "Março/2025")
	require.NoError(t, err)
	assert.NotEqual(t, first.Data.Figures.Sales, third.Data.Figures.Sales)
}

func TestAssembler_SourceErrorPropagates(t *testing.T) {
	source := new(mockDataSource)
	source.On("FetchSnapshot", mock.Anything, 7, "Março/2025").
		Return(nil, errors.Join(datasource.ErrSourceUnavailable, errors.New("timeout")))
	a := NewAssembler(source, charts.NewRenderer(charts.DefaultPalette()), Options{})

	_, err := a.Assemble(testContext(t), 7, "Março/2025")

	assert.ErrorIs(t, err, datasource.ErrSourceUnavailable)
	source.AssertExpectations(t)
}

type failingRenderer struct {
	*charts.Renderer
	failOn string
}

func (f failingRenderer) Pie(name string, labels []string, values []float64, donut bool) (domain.Image, error) {
	if name == f.failOn {
		return domain.Image{}, charts.ErrMalformedSeries
	}
	return f.Renderer.Pie(name, labels, values, donut)
}

func TestAssembler_RendererErrorPropagates(t *testing.T) {
	source := datasource.NewSyntheticSource(datasource.SyntheticOptions{Seed: seeded(1)})
	renderer := failingRenderer{Renderer: charts.NewRenderer(charts.DefaultPalette()), failOn: ChartCosts}
	a := NewAssembler(source, renderer, Options{CacheTTL: time.Hour})
	ctx := testContext(t)

	_, err := a.Assemble(ctx, 1001, "Março/2025")
	assert.ErrorIs(t, err, charts.ErrMalformedSeries)

	// failures are not cached
	a.renderer = charts.NewRenderer(charts.DefaultPalette())
	_, err = a.Assemble(ctx, 1001, "Março/2025")
	assert.NoError(t, err)
}

func TestAssembler_ListCompaniesPassesThrough(t *testing.T) {
	source := new(mockDataSource)
	roster := []domain.Company{{Code: 1, LegalName: "Alfa"}}
	source.On("ListCompanies", mock.Anything).Return(roster, nil)
	a := NewAssembler(source, charts.NewRenderer(charts.DefaultPalette()), Options{})

	got, err := a.ListCompanies(context.Background())

	require.NoError(t, err)
	assert.Equal(t, roster, got)
}
