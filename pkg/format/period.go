package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

var monthAbbrevs = [...]string{
	"Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
	"Jul", "Ago", "Set", "Out", "Nov", "Dez",
}

// PeriodLabel renders the report period for t as "Month/Year" with Portuguese month names.
func PeriodLabel(t time.Time) string {
	return fmt.Sprintf("%s/%d", monthNames[t.Month()-1], t.Year())
}

// LastPeriods lists the n periods ending at t, most recent first.
func LastPeriods(t time.Time, n int) []string {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	periods := make([]string, 0, n)
	for i := 0; i < n; i++ {
		periods = append(periods, PeriodLabel(first.AddDate(0, -i, 0)))
	}
	return periods
}

func MonthAbbrev(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthAbbrevs[m-1]
}

// PeriodYear extracts the year of a "Month/Year" label.
func PeriodYear(period string) (int, bool) {
	_, year, ok := strings.Cut(period, "/")
	if !ok {
		return 0, false
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return 0, false
	}
	return y, true
}
