package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/lead-scorer/internal/httpapi"
	"github.com/spigell/lead-scorer/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lead scoring HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default 3000 or PORT)")
	serveCmd.Flags().String("storage-dir", "", "directory for exported results")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.storage-dir", serveCmd.Flags().Lookup("storage-dir"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the lead-scorer", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	sink, err := newNotifier(config.Notify, logger)
	if err != nil {
		logger.Fatal("loading slack webhook", zap.Error(err),
			zap.String("hint", "set SLACK_WEBHOOK_URL or SLACK_WEBHOOK_URL_FILE, or notify.slack in the configuration file"),
		)
	}
	if sink == nil {
		logger.Info("slack webhook is not configured, summaries will not be forwarded")
	}

	coordinator, err := newCoordinator(ctx, config, sink, logger)
	if err != nil {
		logger.Fatal("building scoring sessions", zap.Error(err))
	}

	for _, layer := range coordinator.Scorer().Describe() {
		logger.Info("scoring layer", zap.String("layer", layer.Name), zap.Any("details", layer.Details))
	}

	srv := httpapi.NewServer(fmt.Sprintf(":%d", config.Server.Port), httpapi.Deps{
		Sessions: coordinator,
		Logger:   logger,
	})

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("serving http", zap.Error(err))
	}

	logger.Info("exiting", zap.String("reason", "shutdown completed"))
}
