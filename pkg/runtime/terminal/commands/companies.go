package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type CompaniesCmd struct {
	load     Loader
	reporter Reporter
}

func NewCompaniesCmd(load Loader, reporter Reporter) *cobra.Command {
	cc := &CompaniesCmd{load: load, reporter: reporter}
	return &cobra.Command{
		Use:   "companies",
		Short: "List the companies available for reporting",
		Args:  cobra.NoArgs,
		RunE:  cc.run,
	}
}

func (cc *CompaniesCmd) run(cmd *cobra.Command, _ []string) error {
	return withServices(cmd.Context(), cc.load, func(s *Services) error {
		companies, err := s.Reports.ListCompanies(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list companies: %w", err)
		}
		return cc.reporter.Companies(companies)
	})
}
