// Command pagewarp is the headless counterpart of the desktop app: it
// straightens a page from given corners and reads tables from images.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/soocke/pagewarp-go/config"
)

type globalFlags struct {
	cfgPath string
	debug   bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:          "pagewarp",
		Short:        "Perspective correction and table OCR from the command line",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&g.cfgPath, "config", config.DefaultPath(), "path to the JSON config file")
	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable debug logging")
	root.AddCommand(newReshapeCmd(g), newOCRCmd(g))
	return root
}

// setup loads the config and builds a logger writing to the command's error
// stream, so stdout stays clean for CSV output.
func (g *globalFlags) setup(cmd *cobra.Command) (*config.Config, *slog.Logger) {
	cfg, err := config.Load(g.cfgPath)
	level := slog.LevelWarn
	if g.debug || cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", g.cfgPath, "error", err)
	}
	return cfg, logger
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
