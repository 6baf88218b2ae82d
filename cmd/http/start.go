package http

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/peyvandtech/darmana/config"
	apihttp "github.com/peyvandtech/darmana/internal/api/http"
	"github.com/peyvandtech/darmana/internal/api/http/router"
	"github.com/peyvandtech/darmana/internal/app"
	"github.com/peyvandtech/darmana/internal/seed"
	"github.com/peyvandtech/darmana/internal/store/memory"
	"github.com/peyvandtech/darmana/pkg/logs"
)

func NewStartCommand() *cobra.Command {
	var (
		shutdownTimeout time.Duration
		seedDemo        bool
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return err
			}

			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return err
			}

			// Set up structured logger before fx starts so all logs use it.
			slog.SetDefault(logs.New(cfg))

			opts := []fx.Option{
				fx.Supply(cfg),
				app.InfraModule,
				app.ServiceModule,
				router.Module,
				apihttp.Module,

				// Invoke *fiber.App to force its construction and
				// register the listen/shutdown lifecycle hooks.
				fx.Invoke(func(*fiber.App) {}),

				fx.StopTimeout(shutdownTimeout),
				fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
			}

			if seedDemo {
				opts = append(opts, fx.Invoke(func(mem *memory.Store) error {
					return seed.Demo(context.Background(), mem, time.Now())
				}))
			}

			fx.New(opts...).Run()
			return nil
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Maximum time to wait for graceful shutdown")
	cmd.Flags().BoolVar(&seedDemo, "seed-demo", false, "Fill the store with demo appointments on boot")

	return cmd
}
