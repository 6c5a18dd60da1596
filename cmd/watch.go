package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roninmarket/marketbot/internal/app"
)

//nolint:gochecknoglobals // Cobra boilerplate
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the floor price watcher",
	Long: `Starts the long-running watch mode, which polls the axie floor and the
configured material floors on an interval and serves:
- GET /api/floors  latest observed floor prices
- GET /metrics     Prometheus metrics
- GET /health      liveness probe
- GET /ready       readiness probe

Material token IDs come from WATCH_MATERIAL_IDS or --materials.`,
	RunE: runWatch,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSliceP("materials", "m", nil, "Material token IDs to watch")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	materials, _ := cmd.Flags().GetStringSlice("materials")

	application, err := app.New(cfg, logger, &app.Options{
		Materials: materials,
	})
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
