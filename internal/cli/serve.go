package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/MyelinBots/vitals-go/config"
	"github.com/MyelinBots/vitals-go/internal/app"
	"github.com/MyelinBots/vitals-go/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfigOrPanic()
			logger := logging.New(cfg.LogConfig)
			if cfg.AppConfig.Env == "production" {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.StartServer(ctx, cfg, opts, logger)
		},
	}

	cmd.Flags().BoolVar(&opts.InMemory, "in-memory", false, "Keep all data in memory instead of postgres")
	return cmd
}
