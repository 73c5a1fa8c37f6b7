// Package cli comandos del binario storefront: servidor HTTP y utilidades de operación.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/laptophub-storefront/pkg/config"
	"github.com/jhoicas/laptophub-storefront/pkg/logger"
)

// RootOptions flags globales.
type RootOptions struct {
	LogLevel string
	Format   string // "text" | "json"
}

// ValidFormats formatos de salida admitidos.
var ValidFormats = []string{"text", "json"}

// NewRootCommand comando raíz del storefront.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "LaptopHub storefront",
		Long:  "BFF del storefront de LaptopHub: carrito reconciliado, catálogo, comparador y pago.",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("formato inválido %q: use uno de %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "nivel de log (trace|debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "formato de salida (text|json)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))
	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewSessionsCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// loadConfig lee la configuración y construye el logger con el nivel de --log-level.
// Los comandos de consulta escriben los logs en stderr para no mezclarlos con la salida.
func loadConfig(opts *RootOptions, logOut io.Writer) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: opts.LogLevel, Output: logOut})
	return cfg, log, nil
}
