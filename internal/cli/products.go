package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pulseboard/pulseboard/pkg/api"
)

// newProductsCmd creates the products command tree.
func newProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage the Pulseboard product catalog",
	}
	cmd.AddCommand(newProductsListCmd())
	cmd.AddCommand(newProductsGetCmd())
	cmd.AddCommand(newProductsCreateCmd())
	cmd.AddCommand(newProductsUpdateCmd())
	cmd.AddCommand(newProductsDeleteCmd())
	cmd.AddCommand(newProductsCategoriesCmd())
	return cmd
}

func newProductsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			opts := api.ProductListOptions{}
			opts.Search, _ = cmd.Flags().GetString("search")
			opts.Category, _ = cmd.Flags().GetString("category")
			opts.MinPrice, _ = cmd.Flags().GetFloat64("min-price")
			opts.MaxPrice, _ = cmd.Flags().GetFloat64("max-price")
			opts.Page, _ = cmd.Flags().GetInt("page")
			opts.Limit, _ = cmd.Flags().GetInt("limit")

			page, env := svc.Products.List(cmd.Context(), opts)
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(page)
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
			for _, p := range page.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\n", p.ID, p.Name, p.Category, p.Price, p.Stock)
			}
			w.Flush()
			fmt.Printf("Page %d of %d (%d products)\n", page.Page, page.TotalPages, page.Total)
			return nil
		},
	}
	cmd.Flags().String("search", "", "Filter by name or description substring")
	cmd.Flags().String("category", "", "Filter by category")
	cmd.Flags().Float64("min-price", 0, "Minimum price")
	cmd.Flags().Float64("max-price", 0, "Maximum price")
	cmd.Flags().Int("page", 0, "Page number")
	cmd.Flags().Int("limit", 0, "Page size")
	return cmd
}

func newProductsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <product-id>",
		Short: "Show a single product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			product, env := svc.Products.Get(cmd.Context(), args[0])
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(product)
				return nil
			}
			fmt.Printf("ID:          %s\n", product.ID)
			fmt.Printf("Name:        %s\n", product.Name)
			fmt.Printf("Category:    %s\n", product.Category)
			fmt.Printf("Price:       %.2f\n", product.Price)
			fmt.Printf("Stock:       %d\n", product.Stock)
			if product.Description != "" {
				fmt.Printf("Description: %s\n", product.Description)
			}
			return nil
		},
	}
}

func newProductsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			req := api.ProductCreate{}
			req.Name, _ = cmd.Flags().GetString("name")
			req.Description, _ = cmd.Flags().GetString("description")
			req.Price, _ = cmd.Flags().GetFloat64("price")
			req.Stock, _ = cmd.Flags().GetInt("stock")
			req.Category, _ = cmd.Flags().GetString("category")

			product, env := svc.Products.Create(cmd.Context(), req)
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(product)
				return nil
			}
			okLabel.Printf("✓ Product %s created\n", product.ID)
			return nil
		},
	}
	cmd.Flags().String("name", "", "Product name")
	cmd.Flags().String("description", "", "Product description")
	cmd.Flags().Float64("price", 0, "Unit price")
	cmd.Flags().Int("stock", 0, "Units in stock")
	cmd.Flags().String("category", "", "Category")
	return cmd
}

func newProductsUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <product-id>",
		Short: "Update a product's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			req := api.ProductUpdate{}
			if cmd.Flags().Changed("name") {
				v, _ := cmd.Flags().GetString("name")
				req.Name = &v
			}
			if cmd.Flags().Changed("description") {
				v, _ := cmd.Flags().GetString("description")
				req.Description = &v
			}
			if cmd.Flags().Changed("price") {
				v, _ := cmd.Flags().GetFloat64("price")
				req.Price = &v
			}
			if cmd.Flags().Changed("stock") {
				v, _ := cmd.Flags().GetInt("stock")
				req.Stock = &v
			}
			if cmd.Flags().Changed("category") {
				v, _ := cmd.Flags().GetString("category")
				req.Category = &v
			}

			product, env := svc.Products.Update(cmd.Context(), args[0], req)
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(product)
				return nil
			}
			okLabel.Printf("✓ Product %s updated\n", product.ID)
			return nil
		},
	}
	cmd.Flags().String("name", "", "Product name")
	cmd.Flags().String("description", "", "Product description")
	cmd.Flags().Float64("price", 0, "Unit price")
	cmd.Flags().Int("stock", 0, "Units in stock")
	cmd.Flags().String("category", "", "Category")
	return cmd
}

func newProductsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <product-id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			env := svc.Products.Delete(cmd.Context(), args[0])
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(map[string]string{"status": "success"})
				return nil
			}
			okLabel.Println("✓ Product deleted")
			return nil
		},
	}
}

func newProductsCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the distinct product categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			categories, env := svc.Products.Categories(cmd.Context())
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(categories)
				return nil
			}
			for _, c := range categories {
				fmt.Println(c)
			}
			return nil
		},
	}
}
