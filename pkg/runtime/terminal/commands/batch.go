package commands

import (
	"fmt"
	"os"

	"github.com/rps-tools/report-atlas/pkg/services/export"
	"github.com/spf13/cobra"
)

type BatchCmd struct {
	ids      string
	period   string
	out      string
	upload   bool
	load     Loader
	reporter Reporter
}

func NewBatchCmd(load Loader, reporter Reporter) *cobra.Command {
	bc := &BatchCmd{load: load, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Export the reports of several companies as one ZIP archive",
		Args:  cobra.NoArgs,
		RunE:  bc.run,
	}

	cmd.Flags().StringVar(&bc.ids, "ids", "", "Comma separated company codes, e.g. 1001,1002")
	cmd.Flags().StringVar(&bc.period, "period", "", "Report period (default current month)")
	cmd.Flags().StringVar(&bc.out, "out", "", "Output ZIP file")
	cmd.Flags().BoolVar(&bc.upload, "upload", false, "Upload the archive to the configured bucket")

	_ = cmd.MarkFlagRequired("ids")

	return cmd
}

func (bc *BatchCmd) run(cmd *cobra.Command, _ []string) error {
	ids, err := export.ParseIDs(bc.ids)
	if err != nil {
		return err
	}
	if bc.out == "" && !bc.upload {
		return fmt.Errorf("nothing to do: set --out, --upload or both")
	}

	ctx := cmd.Context()
	return withServices(ctx, bc.load, func(s *Services) error {
		archive, err := s.Documents.ZIP(ctx, ids, bc.period)
		if err != nil {
			return fmt.Errorf("failed to export batch: %w", err)
		}

		if bc.out != "" {
			if err := os.WriteFile(bc.out, archive, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", bc.out, err)
			}
			if err := bc.reporter.Written(bc.out, len(archive)); err != nil {
				return err
			}
		}

		if bc.upload {
			loc, err := s.Documents.Upload(ctx, archive)
			if err != nil {
				return fmt.Errorf("failed to archive batch: %w", err)
			}
			return bc.reporter.Archived(loc)
		}
		return nil
	})
}
