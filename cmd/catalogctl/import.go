package main

import (
	"context"
	"fmt"

	"github.com/Lixing-Zhang/catalog-manager/internal/importer"
	"github.com/Lixing-Zhang/catalog-manager/internal/view"
	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk-create records from NDJSON files",
		Long: `Bulk-create records from newline-delimited JSON files.

Each non-blank line is one create payload, exactly as accepted by POST.
Sources may be local paths or http(s) URLs and may be gzip-compressed.
Records the API rejects are reported and do not stop the import.`,
		Example: `  catalogctl import products seed/products.ndjson.gz
  catalogctl import categories https://example.com/categories.ndjson`,
	}
	cmd.PersistentFlags().IntVar(&workers, "workers", importer.DefaultWorkers, "Concurrent create requests")

	cmd.AddCommand(&cobra.Command{
		Use:   "products <source>...",
		Short: "Import products",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), a, "products", args, workers, a.catalog.Products)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "categories <source>...",
		Short: "Import categories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), a, "categories", args, workers, a.catalog.Categories)
		},
	})
	return cmd
}

func runImport[T any, I any](ctx context.Context, a *app, plural string, sources []string, workers int, c *view.Collection[T, I]) error {
	records, err := importer.NewLoader[I](nil).Load(ctx, sources)
	if err != nil {
		return err
	}

	report, err := importer.Submit(ctx, records, workers, func(ctx context.Context, in I) (*T, error) {
		return c.Submit(ctx, &view.Form[T, I]{Input: in})
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Imported %d of %d %s\n", report.Created, report.Total, plural)
	for _, f := range report.Failures {
		fmt.Fprintf(a.out, "  %s:%d: %s\n", f.Source, f.Line, describeError(f.Err))
	}
	if len(report.Failures) > 0 {
		return fmt.Errorf("%d %s could not be imported", len(report.Failures), plural)
	}
	return nil
}
