package main

import (
	"fmt"

	"github.com/Lixing-Zhang/catalog-manager/internal/models"
	"github.com/spf13/cobra"
)

// productFlags are the editable product fields accepted by create and update
type productFlags struct {
	name        string
	price       string
	description string
	category    string
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Product name")
	cmd.Flags().StringVar(&f.price, "price", "", "Product price, e.g. 19.99")
	cmd.Flags().StringVar(&f.description, "description", "", "Product description")
	cmd.Flags().StringVar(&f.category, "category", "", "Category name")
}

// overlay copies the flags that were set on the command line onto in
func (f *productFlags) overlay(cmd *cobra.Command, in *models.ProductInput) {
	if cmd.Flags().Changed("name") {
		in.Name = f.name
	}
	if cmd.Flags().Changed("price") {
		in.Price = models.ParseAmount(f.price)
	}
	if cmd.Flags().Changed("description") {
		in.Description = f.description
	}
	if cmd.Flags().Changed("category") {
		in.Category = f.category
	}
}

func newProductsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Manage products",
	}

	cmd.AddCommand(
		newProductListCmd(a),
		newProductGetCmd(a),
		newProductCreateCmd(a),
		newProductUpdateCmd(a),
		newProductDeleteCmd(a),
	)
	return cmd
}

func newProductListCmd(a *app) *cobra.Command {
	var opts listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Long: `List products.

--search, --sort-by and --order are evaluated by the server. --filter narrows
the fetched list further, matching name, category and price text.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products := a.catalog.Products
			if err := products.Query(cmd.Context(), opts.params()); err != nil {
				return err
			}
			renderProducts(a.out, products.Filter(opts.filter))
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

func newProductGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.catalog.Products.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderProduct(a.out, p)
			return nil
		},
	}
}

func newProductCreateCmd(a *app) *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Example: `  catalogctl products create --name Dune --price 19.99 \
    --description "Frank Herbert" --category Books`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, err := a.catalog.Products.Edit(cmd.Context(), "")
			if err != nil {
				return err
			}
			f.overlay(cmd, &form.Input)

			saved, err := a.catalog.Products.Submit(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, titleStyle.Render("Product created successfully"))
			renderProduct(a.out, saved)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newProductUpdateCmd(a *app) *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product",
		Long: `Update a product. Fields that are not given keep their current value;
the full record is sent to the server.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := a.catalog.Products.Edit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			f.overlay(cmd, &form.Input)

			saved, err := a.catalog.Products.Submit(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, titleStyle.Render("Product updated successfully"))
			renderProduct(a.out, saved)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newProductDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := a.catalog.Products.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Product deleted successfully: %s (%s)\n", deleted.Name, deleted.ID)
			return nil
		},
	}
}
