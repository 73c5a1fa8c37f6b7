package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/laptophub-storefront/internal/infrastructure/postgres"
)

// NewSessionsCommand mantenimiento del almacén de sesiones en PostgreSQL.
func NewSessionsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Mantenimiento de sesiones persistidas",
	}

	var olderThan time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Eliminar sesiones sin actividad",
		Long: `Elimina de PostgreSQL las sesiones cuya última actividad es anterior a --older-than.

Ejemplo:
  storefront sessions prune --older-than 720h`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than debe ser mayor que 0")
			}
			cfg, log, err := loadConfig(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return fmt.Errorf("conexión a PostgreSQL: %w", err)
			}
			defer pool.Close()

			before := time.Now().Add(-olderThan)
			n, err := postgres.NewSessionRepository(pool).DeleteIdle(ctx, before)
			if err != nil {
				return err
			}
			log.Info().Int64("eliminadas", n).Time("antes_de", before).Msg("sesiones depuradas")
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"eliminadas": n, "antesDe": before})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d sesiones eliminadas\n", n)
			return err
		},
	}
	prune.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "antigüedad mínima de la última actividad")
	cmd.AddCommand(prune)

	return cmd
}
