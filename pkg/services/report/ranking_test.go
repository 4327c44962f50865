package report

import (
	"testing"

	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopN(t *testing.T) {
	seven := []domain.RankEntry{
		{"A", 10}, {"B", 70}, {"C", 30}, {"D", 50}, {"E", 20}, {"F", 60}, {"G", 40},
	}

	tests := []struct {
		name    string
		entries []domain.RankEntry
		want    []domain.RankEntry
	}{
		{
			name:    "tail aggregated",
			entries: seven,
			want: []domain.RankEntry{
				{"B", 70}, {"F", 60}, {"D", 50}, {"G", 40}, {"C", 30}, {"Outros", 30},
			},
		},
		{
			name:    "exactly five",
			entries: seven[:5],
			want:    []domain.RankEntry{{"B", 70}, {"D", 50}, {"C", 30}, {"E", 20}, {"A", 10}},
		},
		{
			name:    "fewer than five",
			entries: []domain.RankEntry{{"A", 1}, {"B", 2}},
			want:    []domain.RankEntry{{"B", 2}, {"A", 1}},
		},
		{
			name:    "ties keep input order",
			entries: []domain.RankEntry{{"A", 5}, {"B", 5}, {"C", 5}, {"D", 5}, {"E", 5}, {"F", 5}},
			want:    []domain.RankEntry{{"A", 5}, {"B", 5}, {"C", 5}, {"D", 5}, {"E", 5}, {"Outros", 5}},
		},
		{
			name:    "empty",
			entries: nil,
			want:    []domain.RankEntry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TopN(tt.entries, 5, "Outros"))
		})
	}
}

func TestTopN_DoesNotMutateInput(t *testing.T) {
	entries := []domain.RankEntry{{"A", 1}, {"B", 2}, {"C", 3}}

	TopN(entries, 1, "Outros")

	assert.Equal(t, []domain.RankEntry{{"A", 1}, {"B", 2}, {"C", 3}}, entries)
}

func TestRowNormalize_SumsToHundred(t *testing.T) {
	raw := buildSeries("Março/2025", 2025)

	shares := RowNormalize(raw.Assets)

	require.Len(t, shares.Series, 3)
	for i, total := range shares.Totals() {
		assert.InDelta(t, 100, total, 1e-9, "period %s", shares.Labels[i])
	}
	assert.InDelta(t, 50.0/90*100, shares.Series[0].Values[0], 1e-9)
}

func TestRowNormalize_ZeroColumn(t *testing.T) {
	shares := RowNormalize(domain.Table{
		Labels: []string{"Jan"},
		Series: []domain.Series{{Name: "a", Values: []float64{0}}},
	})

	assert.Equal(t, []float64{0}, shares.Series[0].Values)
}

func TestBuildSeries_YearsFollowPeriod(t *testing.T) {
	raw := buildSeries("Março/2025", 2030)
	assert.Equal(t, "2025", raw.Sales.Series[0].Name)
	assert.Equal(t, "2024", raw.Sales.Series[1].Name)

	raw = buildSeries("not a period", 2030)
	assert.Equal(t, "2030", raw.Sales.Series[0].Name)

	assert.Len(t, raw.TopRevenue, 6)
	assert.Equal(t, "Outros", raw.TopRevenue[5].Label)
	assert.Equal(t, 9700.0+6200+3100, raw.TopRevenue[5].Value)
}
