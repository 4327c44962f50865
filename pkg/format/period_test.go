package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "Janeiro/2025", PeriodLabel(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Março/2024", PeriodLabel(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)))
}

func TestLastPeriods_CrossesYearBoundary(t *testing.T) {
	// Given a date at the end of a long month
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

	// When
	periods := LastPeriods(now, 6)

	// Then
	assert.Equal(t, []string{
		"Março/2025", "Fevereiro/2025", "Janeiro/2025",
		"Dezembro/2024", "Novembro/2024", "Outubro/2024",
	}, periods)
}

func TestMonthAbbrev(t *testing.T) {
	assert.Equal(t, "Fev", MonthAbbrev(time.February))
	assert.Equal(t, "", MonthAbbrev(time.Month(13)))
}

func TestPeriodYear(t *testing.T) {
	year, ok := PeriodYear("Janeiro/2025")
	assert.True(t, ok)
	assert.Equal(t, 2025, year)

	_, ok = PeriodYear("2025")
	assert.False(t, ok)
}
