package main

import (
	"fmt"

	"github.com/Lixing-Zhang/catalog-manager/internal/models"
	"github.com/spf13/cobra"
)

type categoryFlags struct {
	name        string
	description string
}

func (f *categoryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Category name")
	cmd.Flags().StringVar(&f.description, "description", "", "Category description")
}

func (f *categoryFlags) overlay(cmd *cobra.Command, in *models.CategoryInput) {
	if cmd.Flags().Changed("name") {
		in.Name = f.name
	}
	if cmd.Flags().Changed("description") {
		in.Description = f.description
	}
}

func newCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage categories",
		Long: `Manage categories.

Products refer to categories by name only. Deleting a category leaves its
products untouched.`,
	}

	cmd.AddCommand(
		newCategoryListCmd(a),
		newCategoryGetCmd(a),
		newCategoryCreateCmd(a),
		newCategoryUpdateCmd(a),
		newCategoryDeleteCmd(a),
	)
	return cmd
}

func newCategoryListCmd(a *app) *cobra.Command {
	var opts listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories := a.catalog.Categories
			if err := categories.Query(cmd.Context(), opts.params()); err != nil {
				return err
			}
			renderCategories(a.out, categories.Filter(opts.filter))
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

func newCategoryGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.catalog.Categories.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderCategory(a.out, c)
			return nil
		},
	}
}

func newCategoryCreateCmd(a *app) *cobra.Command {
	var f categoryFlags
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a category",
		Example: `  catalogctl categories create --name Books --description "Printed books"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, err := a.catalog.Categories.Edit(cmd.Context(), "")
			if err != nil {
				return err
			}
			f.overlay(cmd, &form.Input)

			saved, err := a.catalog.Categories.Submit(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, titleStyle.Render("Category created successfully"))
			renderCategory(a.out, saved)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newCategoryUpdateCmd(a *app) *cobra.Command {
	var f categoryFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := a.catalog.Categories.Edit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			f.overlay(cmd, &form.Input)

			saved, err := a.catalog.Categories.Submit(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, titleStyle.Render("Category updated successfully"))
			renderCategory(a.out, saved)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newCategoryDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := a.catalog.Categories.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Category deleted successfully: %s (%s)\n", deleted.Name, deleted.ID)
			return nil
		},
	}
}
