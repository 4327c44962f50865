package domain

type Series struct {
	Name   string
	Values []float64
}

// Table holds several series sharing the same ordered labels (usually periods).
type Table struct {
	Labels []string
	Series []Series
}

// Totals sums every series per label.
func (t Table) Totals() []float64 {
	totals := make([]float64, len(t.Labels))
	for _, s := range t.Series {
		for i := range totals {
			if i < len(s.Values) {
				totals[i] += s.Values[i]
			}
		}
	}
	return totals
}

type RankEntry struct {
	Label string
	Value float64
}

func RankLabels(entries []RankEntry) []string {
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
	}
	return labels
}

func RankValues(entries []RankEntry) []float64 {
	values := make([]float64, len(entries))
	for i, e := range entries {
		values[i] = e.Value
	}
	return values
}
