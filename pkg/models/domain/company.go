package domain

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Company struct {
	Code      int
	LegalName string
	TradeName string // optional
}

// DisplayName prefers the trade name and falls back to the legal name.
func (c Company) DisplayName() string {
	if name := strings.TrimSpace(c.TradeName); name != "" {
		return name
	}
	if name := strings.TrimSpace(c.LegalName); name != "" {
		return name
	}
	return PlaceholderName(c.Code)
}

// PlaceholderName is shown for company codes missing from the roster.
func PlaceholderName(code int) string {
	return fmt.Sprintf("Empresa %d", code)
}

// SortCompanies orders the roster by legal name in Portuguese collation, ties broken by code.
func SortCompanies(companies []Company) {
	// A Collator keeps internal buffers and is not safe for concurrent use.
	c := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	sort.SliceStable(companies, func(i, j int) bool {
		if cmp := c.CompareString(companies[i].LegalName, companies[j].LegalName); cmp != 0 {
			return cmp < 0
		}
		return companies[i].Code < companies[j].Code
	})
}

func FindCompany(companies []Company, code int) (Company, bool) {
	for _, c := range companies {
		if c.Code == code {
			return c, true
		}
	}
	return Company{}, false
}

type Branch struct {
	Code        int
	CompanyCode int
	Name        string
	City        string
}
