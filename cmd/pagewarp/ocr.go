package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/soocke/pagewarp-go/domain/imageio"
	"github.com/soocke/pagewarp-go/domain/ocr"
	"github.com/soocke/pagewarp-go/domain/ocr/engines"
)

func newOCRCmd(g *globalFlags) *cobra.Command {
	var (
		engine    string
		csvPath   string
		columns   int
		languages []string
		timeout   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "ocr IMAGE",
		Short: "Read a table from IMAGE and print it as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := g.setup(cmd)
			if engine == "" {
				engine = cfg.OCREngine
			}
			if columns <= 0 {
				columns = cfg.TableColumns
			}
			if len(languages) == 0 {
				languages = cfg.OCRLanguages
			}
			if timeout == 0 && cfg.OCRTimeoutSeconds > 0 {
				timeout = time.Duration(cfg.OCRTimeoutSeconds) * time.Second
			}
			eng, err := engines.NewFactory(cfg, logger).New(engine)
			if err != nil {
				return err
			}
			img, err := imageio.Load(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			table, err := ocr.Recognize(ctx, eng, img, ocr.Options{
				Languages: languages,
				Layout:    ocr.LayoutOptions{Columns: columns, LineTolerance: cfg.LineTolerancePx},
			})
			if err != nil {
				return err
			}
			logger.Debug("ocr", "engine", eng.Name(), "rows", len(table.Rows), "columns", table.Columns())
			if csvPath == "" || csvPath == "-" {
				return table.WriteCSV(cmd.OutOrStdout())
			}
			f, err := os.Create(csvPath)
			if err != nil {
				return err
			}
			if err := table.WriteCSV(f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			printf(cmd, "%s (%d rows)\n", csvPath, len(table.Rows))
			return nil
		},
	}
	cmd.Flags().StringVar(&engine, "engine", "", "OCR engine: vision or tesseract (default from config)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the table to FILE instead of stdout")
	cmd.Flags().IntVar(&columns, "columns", 0, "number of table columns (default from config)")
	cmd.Flags().StringSliceVar(&languages, "lang", nil, "language hints, e.g. en,de")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "abort the request after this long")
	return cmd
}
