package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/rps-tools/report-atlas/pkg/services/export"
	"github.com/spf13/cobra"
)

const (
	FormatPDF  = "pdf"
	FormatHTML = "html"
)

type RenderCmd struct {
	company  int
	period   string
	format   string
	out      string
	load     Loader
	reporter Reporter
}

func NewRenderCmd(load Loader, reporter Reporter) *cobra.Command {
	rc := &RenderCmd{load: load, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the report of one company to a file",
		Args:  cobra.NoArgs,
		RunE:  rc.run,
	}

	cmd.Flags().IntVar(&rc.company, "company", 0, "Company code")
	cmd.Flags().StringVar(&rc.period, "period", "", "Report period, e.g. Março/2025 (default current month)")
	cmd.Flags().StringVar(&rc.format, "format", FormatPDF, "Output format: pdf or html")
	cmd.Flags().StringVar(&rc.out, "out", "", "Output file")

	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (rc *RenderCmd) run(cmd *cobra.Command, _ []string) error {
	if rc.company <= 0 {
		return fmt.Errorf("invalid company code %d", rc.company)
	}
	if rc.format != FormatPDF && rc.format != FormatHTML {
		return fmt.Errorf("unsupported format %q, expected %s or %s", rc.format, FormatPDF, FormatHTML)
	}

	ctx := cmd.Context()
	return withServices(ctx, rc.load, func(s *Services) error {
		var body []byte
		switch rc.format {
		case FormatPDF:
			pdf, err := s.Documents.PDF(ctx, rc.company, rc.period)
			if err != nil {
				return fmt.Errorf("failed to render pdf: %w", err)
			}
			body = pdf
		case FormatHTML:
			report, err := s.Reports.Assemble(ctx, rc.company, rc.period)
			if err != nil {
				return fmt.Errorf("failed to assemble report: %w", err)
			}
			var buf bytes.Buffer
			if err := s.Pages.RenderReport(&buf, report, export.ViewOptions{}); err != nil {
				return fmt.Errorf("failed to render html: %w", err)
			}
			body = buf.Bytes()
		}

		if err := os.WriteFile(rc.out, body, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", rc.out, err)
		}
		return rc.reporter.Written(rc.out, len(body))
	})
}
