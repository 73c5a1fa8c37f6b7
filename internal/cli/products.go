package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/infrastructure/api"
)

// ProductsOptions flags del comando products.
type ProductsOptions struct {
	*RootOptions
	Brand string
	Page  int
	Size  int
}

// NewProductsCommand busca en el catálogo del backend.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "products [TEXTO]",
		Short: "Buscar productos por nombre o marca",
		Long: `Consulta el catálogo del backend.

Ejemplos:
  storefront products
  storefront products thinkpad
  storefront products --brand Lenovo --format json`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(opts.RootOptions, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			repo := api.NewProductRepository(api.NewClient(cfg.API, log))

			var pg *entity.ProductPage
			switch {
			case opts.Brand != "":
				pg, err = repo.FindByBrand(ctx, opts.Brand, opts.Page, opts.Size)
			case len(args) == 1:
				pg, err = repo.SearchByName(ctx, args[0], opts.Page, opts.Size)
			default:
				pg, err = repo.List(ctx, opts.Page, opts.Size)
			}
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), pg)
			}
			return writeProducts(cmd.OutOrStdout(), pg)
		},
	}

	cmd.Flags().StringVar(&opts.Brand, "brand", "", "filtrar por marca")
	cmd.Flags().IntVar(&opts.Page, "page", 0, "página (base 0)")
	cmd.Flags().IntVar(&opts.Size, "size", 12, "productos por página")

	return cmd
}
