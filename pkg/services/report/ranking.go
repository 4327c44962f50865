package report

import (
	"sort"

	"github.com/rps-tools/report-atlas/pkg/models/domain"
)

// TopN keeps the n largest entries in descending order. When entries are dropped, one extra
// entry named rest carries their sum. Ties keep their input order.
func TopN(entries []domain.RankEntry, n int, rest string) []domain.RankEntry {
	sorted := make([]domain.RankEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value > sorted[j].Value
	})
	if n < 0 {
		n = 0
	}
	if len(sorted) <= n {
		return sorted
	}

	var tail float64
	for _, e := range sorted[n:] {
		tail += e.Value
	}
	return append(sorted[:n:n], domain.RankEntry{Label: rest, Value: tail})
}

// RowNormalize turns each label's values into percentages of that label's total.
// Labels with a zero total stay at zero.
func RowNormalize(t domain.Table) domain.Table {
	totals := t.Totals()
	out := domain.Table{
		Labels: append([]string(nil), t.Labels...),
		Series: make([]domain.Series, len(t.Series)),
	}
	for j, s := range t.Series {
		values := make([]float64, len(t.Labels))
		for i := range values {
			if i < len(s.Values) && totals[i] != 0 {
				values[i] = s.Values[i] / totals[i] * 100
			}
		}
		out.Series[j] = domain.Series{Name: s.Name, Values: values}
	}
	return out
}
