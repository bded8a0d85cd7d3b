package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/edvin/kitcatalog/internal/core"
	"github.com/edvin/kitcatalog/internal/events"
	"github.com/edvin/kitcatalog/internal/model"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import products from a spreadsheet",
		Long: `Import products from the first sheet of an xlsx workbook.

The header row names the columns (name, sku, base_price, stock_quantity, ...).
List columns such as sample_type take comma-separated values. Rows that fail
validation are reported and skipped; the rest are imported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			pool, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			var publisher core.EventPublisher = events.Noop{}
			if cfg.AMQPURL != "" {
				p, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange, logger)
				if err != nil {
					return err
				}
				defer p.Close()
				publisher = p
			}

			importer := core.NewImportService(core.NewProductService(pool, publisher))
			result, err := importer.ImportXLSX(logger.WithContext(ctx), f)
			if err != nil {
				return err
			}

			printImportResult(cmd.OutOrStdout(), result)
			if result.Failed > 0 {
				return fmt.Errorf("%d of %d rows failed", result.Failed, result.Total)
			}
			return nil
		},
	}
}

func printImportResult(w io.Writer, result *model.ImportResult) {
	fmt.Fprintf(w, "Imported %d of %d rows\n", result.Imported, result.Total)
	for _, e := range result.Errors {
		if e.SKU != "" {
			fmt.Fprintf(w, "  row %d (%s): %s\n", e.Row, e.SKU, e.Error)
		} else {
			fmt.Fprintf(w, "  row %d: %s\n", e.Row, e.Error)
		}
	}
}
