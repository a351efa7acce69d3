package main

import (
	"github.com/Lixing-Zhang/catalog-manager/internal/client"
	"github.com/spf13/cobra"
)

// listFlags are shared by every list command
type listFlags struct {
	search string
	sortBy string
	order  string
	filter string
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "Server-side case-insensitive name search")
	cmd.Flags().StringVar(&f.sortBy, "sort-by", "", "Field to sort by (default createdAt)")
	cmd.Flags().StringVar(&f.order, "order", "", "Sort order: asc or desc (default desc)")
	cmd.Flags().StringVar(&f.filter, "filter", "", "Client-side filter over the fetched list")
}

func (f *listFlags) params() client.ListParams {
	return client.ListParams{Search: f.search, SortBy: f.sortBy, Order: f.order}
}
