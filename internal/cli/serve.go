package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coachai/internal/config"
	"coachai/internal/planner"
	"coachai/internal/server"
)

var (
	serveAddr  string
	serveModel string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the plan service",
	Long:  `Run the HTTP plan service that powers the clarifying conversation and plan generation. Requires GEMINI_API_KEY.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&serveModel, "model", "", "Gemini model name (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveModel != "" {
		cfg.Server.Model = serveModel
	}

	apiKey := config.GeminiAPIKey()
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set")
	}

	logger, err := zap.NewProductionConfig().Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := planner.New(ctx, apiKey, cfg.Server.Model, logger)
	if err != nil {
		return fmt.Errorf("failed to create planner: %w", err)
	}

	srv := server.New(p, logger)
	logger.Info("starting plan service", zap.String("addr", cfg.Server.Addr))
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
