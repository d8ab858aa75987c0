package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/soocke/pagewarp-go/app"
	"github.com/soocke/pagewarp-go/config"
)

func main() {
	var (
		cfgPath string
		debug   bool
	)
	root := &cobra.Command{
		Use:   "pagewarp",
		Short: "Straighten photographed pages and read their tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// .env may hold GOOGLE_APPLICATION_CREDENTIALS; it is optional.
			_ = godotenv.Load()

			cfg, err := config.Load(cfgPath)
			level := slog.LevelInfo
			if debug || cfg.Debug {
				cfg.Debug = true
				level = slog.LevelDebug
			}
			logger := NewLogger(level)
			if err != nil {
				logger.Warn("config load failed, using defaults", "path", cfgPath, "error", err)
			}

			application := app.NewApp("Perspective Correction & Handwritten Table OCR", cfg, cfgPath, logger)
			application.Start()
			return nil
		},
	}
	root.Flags().StringVar(&cfgPath, "config", config.DefaultPath(), "path to the JSON config file")
	root.Flags().BoolVar(&debug, "debug", false, "enable debug logging and runtime stats")
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
