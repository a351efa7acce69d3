package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Lixing-Zhang/catalog-manager/internal/client"
	"github.com/Lixing-Zhang/catalog-manager/internal/config"
	"github.com/Lixing-Zhang/catalog-manager/internal/view"
	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand
type app struct {
	out     io.Writer
	apiURL  string
	timeout time.Duration
	catalog *view.Catalog
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:   "catalogctl",
		Short: "Manage the product catalog",
		Long: `catalogctl lists, creates, edits and deletes products and categories
through the catalog API.

The API address is read from CATALOG_API_URL (default http://localhost:8000)
and can be overridden with --api-url.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.connect,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "Catalog API base URL (or set CATALOG_API_URL env)")
	rootCmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "Per-request timeout (or set CATALOG_API_TIMEOUT env, seconds)")

	rootCmd.AddCommand(newProductsCmd(a))
	rootCmd.AddCommand(newCategoriesCmd(a))
	rootCmd.AddCommand(newDashboardCmd(a))
	rootCmd.AddCommand(newImportCmd(a))

	return rootCmd
}

// connect resolves the client configuration and builds the catalog
func (a *app) connect(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}

	if a.apiURL != "" {
		cfg.APIBaseURL = strings.TrimRight(a.apiURL, "/")
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if a.timeout > 0 {
		timeout = a.timeout
	}

	a.catalog = view.NewCatalog(client.New(cfg.APIBaseURL, client.WithTimeout(timeout)))
	return nil
}

// describeError renders API rejections with their field messages
func describeError(err error) string {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	var b strings.Builder
	b.WriteString(apiErr.Message)
	if apiErr.Detail != "" {
		fmt.Fprintf(&b, " (%s)", apiErr.Detail)
	}
	for _, fe := range apiErr.Errors {
		fmt.Fprintf(&b, "\n  - %s: %s", fe.Field, fe.Message)
	}
	return b.String()
}
