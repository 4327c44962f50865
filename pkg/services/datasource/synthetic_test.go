package datasource

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(v uint64) *uint64 { return &v }

func fixedNow() time.Time { return time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC) }

func TestSyntheticSource_ListCompanies_SortedAndStable(t *testing.T) {
	// Given
	src := NewSyntheticSource(SyntheticOptions{Seed: seed(7), Companies: 8})
	ctx := context.Background()

	// When
	first, err := src.ListCompanies(ctx)
	require.NoError(t, err)
	second, err := src.ListCompanies(ctx)
	require.NoError(t, err)

	// Then
	require.Len(t, first, 8)
	assert.Equal(t, first, second)
	assert.True(t, sort.SliceIsSorted(first, func(i, j int) bool {
		return first[i].LegalName < first[j].LegalName
	}))
	for _, c := range first {
		assert.NotEmpty(t, c.LegalName)
		assert.GreaterOrEqual(t, c.Code, firstSyntheticCode)
	}
}

func TestSyntheticSource_ListCompanies_ReturnsCopy(t *testing.T) {
	src := NewSyntheticSource(SyntheticOptions{Seed: seed(1)})
	ctx := context.Background()

	companies, err := src.ListCompanies(ctx)
	require.NoError(t, err)
	companies[0].LegalName = "mutated"

	again, err := src.ListCompanies(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again[0].LegalName)
}

func TestSyntheticSource_SeedIsReproducible(t *testing.T) {
	ctx := context.Background()
	a := NewSyntheticSource(SyntheticOptions{Seed: seed(42), Now: fixedNow})
	b := NewSyntheticSource(SyntheticOptions{Seed: seed(42), Now: fixedNow})

	rosterA, _ := a.ListCompanies(ctx)
	rosterB, _ := b.ListCompanies(ctx)
	assert.Equal(t, rosterA, rosterB)

	snapA, err := a.FetchSnapshot(ctx, rosterA[0].Code, "")
	require.NoError(t, err)
	snapB, err := b.FetchSnapshot(ctx, rosterB[0].Code, "")
	require.NoError(t, err)
	assert.Equal(t, snapA, snapB)
}

func TestSyntheticSource_FetchSnapshot_Reconciles(t *testing.T) {
	src := NewSyntheticSource(SyntheticOptions{Seed: seed(3)})
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		s, err := src.FetchSnapshot(ctx, 1001, "Março/2025")
		require.NoError(t, err)

		f := s.Figures
		assert.GreaterOrEqual(t, f.Sales, minSales)
		assert.LessOrEqual(t, f.Sales, maxSales)
		assert.InDelta(t, f.Sales, f.Taxes+f.Purchases+f.Capex+f.Opex+f.FinancialExpenses+f.Other+f.NetProfit, 1e-6)
		assert.Equal(t, f.NetProfit, s.KPIs.NetProfitRaw)
	}
}

func TestSyntheticSource_FetchSnapshot_UnknownCode(t *testing.T) {
	src := NewSyntheticSource(SyntheticOptions{Seed: seed(3)})

	s, err := src.FetchSnapshot(context.Background(), 999999, "Março/2025")

	require.NoError(t, err)
	assert.Equal(t, "Empresa 999999", s.DisplayName)
	assert.Empty(t, s.Branches)
}

func TestSyntheticSource_FetchSnapshot_DefaultsPeriod(t *testing.T) {
	src := NewSyntheticSource(SyntheticOptions{Seed: seed(3), Now: fixedNow})

	s, err := src.FetchSnapshot(context.Background(), 1001, "")

	require.NoError(t, err)
	assert.Equal(t, "Fevereiro/2025", s.Period)
}

func TestSyntheticSource_FetchSnapshot_IsNotCached(t *testing.T) {
	src := NewSyntheticSource(SyntheticOptions{Seed: seed(11)})
	ctx := context.Background()

	first, err := src.FetchSnapshot(ctx, 1001, "Março/2025")
	require.NoError(t, err)
	second, err := src.FetchSnapshot(ctx, 1001, "Março/2025")
	require.NoError(t, err)

	assert.NotEqual(t, first.Figures.Sales, second.Figures.Sales)
}
