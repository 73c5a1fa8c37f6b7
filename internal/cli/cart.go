package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/infrastructure/api"
)

// CartOptions flags de los comandos de carrito.
type CartOptions struct {
	*RootOptions
	UserID string
}

// NewCartCommand consulta y edita el carrito de un usuario directamente en el backend.
// Sirve para soporte: no pasa por las sesiones ni por el debounce.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CartOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Consultar o editar el carrito de un usuario en el backend",
	}
	cmd.PersistentFlags().StringVar(&opts.UserID, "user", "", "ID del usuario")

	cmd.AddCommand(&cobra.Command{
		Use:          "show",
		Short:        "Mostrar el carrito",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, opts, func(ctx context.Context, repo *api.CartRepository) (*entity.Cart, error) {
				return repo.GetCart(ctx, opts.UserID)
			})
		},
	})

	var quantity int
	add := &cobra.Command{
		Use:          "add PRODUCT_ID",
		Short:        "Agregar un producto",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if opts.UserID == "" {
				return fmt.Errorf("--user es requerido")
			}
			return withCart(cmd, opts, func(ctx context.Context, repo *api.CartRepository) (*entity.Cart, error) {
				return repo.AddItem(ctx, opts.UserID, productID, entity.ClampQuantity(quantity, entity.UnknownStock))
			})
		},
	}
	add.Flags().IntVarP(&quantity, "qty", "q", 1, "cantidad")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:          "set ITEM_ID CANTIDAD",
		Short:        "Cambiar la cantidad de un ítem (acotada al stock conocido)",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID(args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("cantidad inválida %q", args[1])
			}
			return withCart(cmd, opts, func(ctx context.Context, repo *api.CartRepository) (*entity.Cart, error) {
				current, err := repo.GetCart(ctx, opts.UserID)
				if err != nil {
					return nil, err
				}
				i := current.IndexOf(itemID)
				if i < 0 {
					return nil, fmt.Errorf("el ítem %d no está en el carrito", itemID)
				}
				qty = entity.ClampQuantity(qty, current.Items[i].Product.Stock)
				updated, err := repo.UpdateItemQuantity(ctx, itemID, qty)
				if err != nil || updated != nil {
					return updated, err
				}
				return repo.GetCart(ctx, opts.UserID)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:          "rm ITEM_ID",
		Short:        "Eliminar un ítem",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withCart(cmd, opts, func(ctx context.Context, repo *api.CartRepository) (*entity.Cart, error) {
				if err := repo.RemoveItem(ctx, itemID); err != nil {
					return nil, err
				}
				return repo.GetCart(ctx, opts.UserID)
			})
		},
	})

	return cmd
}

func withCart(cmd *cobra.Command, opts *CartOptions, fn func(context.Context, *api.CartRepository) (*entity.Cart, error)) error {
	cfg, log, err := loadConfig(opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	repo := api.NewCartRepository(api.NewClient(cfg.API, log))
	c, err := fn(ctx, repo)
	if err != nil {
		return err
	}
	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), c)
	}
	return writeCart(cmd.OutOrStdout(), c)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id inválido %q", s)
	}
	return id, nil
}
