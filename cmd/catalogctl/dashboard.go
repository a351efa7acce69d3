package main

import "github.com/spf13/cobra"

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show catalog totals and products per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.catalog.Load(cmd.Context()); err != nil {
				return err
			}
			renderSummary(a.out, a.catalog.Summary())
			return nil
		},
	}
}
