package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/rps-tools/report-atlas/pkg/services/export"
)

type TableConfig struct {
	CodeWidth      int
	NameWidth      int
	TradeNameWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		CodeWidth:      8,
		NameWidth:      40,
		TradeNameWidth: 24,
	}
}

// Reporter prints command results to the console.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const companiesTemplate = `
Companies ({{len .}})

{{separator}}
{{formatRow "Code" "Legal name" "Trade name"}}
{{separator}}
{{range .}}{{formatRow .Code .LegalName .TradeName}}
{{end}}{{separator}}
`

func (c *Reporter) Companies(companies []domain.Company) error {
	funcMap := template.FuncMap{
		"formatRow": func(code interface{}, name, tradeName string) string {
			return fmt.Sprintf("| %-*v | %-*s | %-*s |",
				c.config.CodeWidth, code,
				c.config.NameWidth, truncate(name, c.config.NameWidth),
				c.config.TradeNameWidth, truncate(tradeName, c.config.TradeNameWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", c.config.CodeWidth+2),
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.TradeNameWidth+2))
		},
	}

	t, err := template.New("companies").Funcs(funcMap).Parse(companiesTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, companies)
}

func (c *Reporter) Written(path string, size int) error {
	_, err := fmt.Fprintf(c.writer, "Wrote %s (%d bytes)\n", path, size)
	return err
}

func (c *Reporter) Archived(loc export.Location) error {
	_, err := fmt.Fprintf(c.writer, "Uploaded s3://%s/%s (%d bytes)\n", loc.Bucket, loc.Key, loc.Size)
	return err
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
