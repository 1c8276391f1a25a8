package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/learnova/internal/assistant"
	"github.com/ziadkadry99/learnova/internal/audit"
	"github.com/ziadkadry99/learnova/internal/dashboard"
	"github.com/ziadkadry99/learnova/internal/db"
	"github.com/ziadkadry99/learnova/internal/identity"
	"github.com/ziadkadry99/learnova/internal/server"
)

var serverPort int

// activityRetention bounds how long account activity is kept.
const activityRetention = 90 * 24 * time.Hour

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Learnova web app and API",
	Long:  `Starts the Learnova HTTP server with the study dashboard, the explain/render/export API, accounts and settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := newAssistant(ctx, cfg)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		database, err := db.Open(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		activity := audit.NewStore(database, logger)
		if n, err := activity.DeleteBefore(ctx, time.Now().Add(-activityRetention)); err != nil {
			logger.Warn("pruning account activity", zap.Error(err))
		} else if n > 0 {
			logger.Info("pruned account activity", zap.Int64("entries", n))
		}

		ids, err := newIdentityStore(cfg, database, activity)
		if err != nil {
			return err
		}

		srv := server.New(server.Config{
			Port:           cfg.Server.Port,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			RequestTimeout: cfg.Generation.Timeout() + 30*time.Second,
		}, logger)
		registerAllRoutes(srv, svc, ids, activity)

		logger.Info("starting",
			zap.String("version", Version),
			zap.Int("port", cfg.Server.Port),
			zap.String("provider", string(cfg.Provider)),
			zap.String("model", cfg.Model),
			zap.String("engine", svc.Engine().Name()),
			zap.String("database", database.Path()),
			zap.Bool("google_sign_in", ids.GoogleEnabled()))

		return srv.Run(ctx)
	},
}

// registerAllRoutes wires up the feature routes.
func registerAllRoutes(srv *server.Server, svc *assistant.Service, ids *identity.Store, activity *audit.Store) {
	r := srv.Router()

	identity.RegisterRoutes(r, ids, logger)
	assistant.RegisterRoutes(r, svc)
	audit.RegisterRoutes(r, activity, ids)
	dashboard.New(svc, ids, logger).RegisterRoutes(r)
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
