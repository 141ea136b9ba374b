// Package main provides the CLI entry point for xlgallery.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ukaji3/xlgallery-go/internal/config"
	"github.com/ukaji3/xlgallery-go/internal/server"
	"github.com/ukaji3/xlgallery-go/internal/storage"
	"github.com/ukaji3/xlgallery-go/pkg/xlgallery"
	"github.com/ukaji3/xlgallery-go/pkg/xlgallery/output"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(log)

	if err := newRootCmd(cfg, log).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config, log *slog.Logger) *cobra.Command {
	var (
		inputPath  string
		outputPath string
		pretty     bool
		dbPath     string
		sheetPath  string
	)

	rootCmd := &cobra.Command{
		Use:   "xlgallery",
		Short: "Convert a workbook into gallery records",
		Long: `xlgallery reads the first worksheet of an xlsx file, attaches to each row
the picture anchored on it, and writes the records as a JSON array.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := xlgallery.DefaultOptions()
			opts.Logger = log
			opts.SheetPath = sheetPath

			res, err := xlgallery.Extract(inputPath, opts)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}

			if err := output.WriteFile(outputPath, res.Records, pretty); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			log.Info("records written", "path", outputPath, "records", len(res.Records))

			if dbPath != "" {
				if err := saveRun(dbPath, inputPath, res, log); err != nil {
					return fmt.Errorf("failed to store run: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s (%s)\n", len(res.Records), outputPath, res.Diagnostics.String())
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&inputPath, "input", "i", cfg.Input, "Input xlsx path")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", cfg.Output, "Output JSON path")
	rootCmd.Flags().BoolVar(&pretty, "pretty", cfg.Pretty, "Pretty-print JSON output")
	rootCmd.Flags().StringVar(&dbPath, "db", cfg.DBPath, "Also store the run in this SQLite database")
	rootCmd.Flags().StringVar(&sheetPath, "sheet", "", "Worksheet part to read (default: first sheet)")

	rootCmd.AddCommand(newServeCmd(cfg, log))
	return rootCmd
}

func newServeCmd(cfg config.Config, log *slog.Logger) *cobra.Command {
	var (
		addr     string
		dataPath string
		dataURL  string
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the records and the gallery page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := server.New(server.Options{
				DataPath: dataPath,
				DataURL:  dataURL,
				Logger:   log,
			})
			return srv.Run(addr)
		},
	}

	serveCmd.Flags().StringVar(&addr, "addr", cfg.Addr, "Listen address")
	serveCmd.Flags().StringVar(&dataPath, "data", cfg.Output, "JSON file served at "+server.DataRoute)
	serveCmd.Flags().StringVar(&dataURL, "data-url", cfg.DataURL, "URL the gallery loads records from (default: same origin)")
	return serveCmd
}

func saveRun(dbPath, inputPath string, res *xlgallery.Result, log *slog.Logger) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runID, err := db.SaveRun(inputPath, res.Records, res.Diagnostics)
	if err != nil {
		return err
	}
	log.Info("run stored", "db", dbPath, "run", runID)
	return nil
}
