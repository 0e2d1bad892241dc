package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattiaTagliente/epub-to-pdf/internal/config"
	"github.com/mattiaTagliente/epub-to-pdf/internal/converter"
	"github.com/mattiaTagliente/epub-to-pdf/internal/engine"
	"github.com/mattiaTagliente/epub-to-pdf/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "epub-to-pdf",
	Short: "Convert EPUB files to PDF, optimized for OCR processing",
	Long: `epub-to-pdf converts EPUB ebooks to PDF using whichever conversion
engine is installed on this machine (Prince XML, Vivliostyle CLI, calibre,
pandoc, or the built-in MuPDF renderer).

By default it tries engines in a fixed preference order until one succeeds.`,
	SilenceUsage: true,
}

var convertCmd = &cobra.Command{
	Use:   "convert <file.epub>",
	Short: "Convert an EPUB file to PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputPath, _ := cmd.Flags().GetString("output")
		methodName, _ := cmd.Flags().GetString("method")

		method, err := engine.ParseMethod(methodName)
		if err != nil {
			return err
		}

		conv, log, err := buildConverter()
		if err != nil {
			return err
		}
		defer log.Close()

		dest, err := conv.Convert(cmd.Context(), converter.Request{
			SourcePath: args[0],
			DestPath:   outputPath,
			Method:     method,
			Progress: func(msg string) {
				fmt.Fprintln(cmd.OutOrStdout(), msg)
			},
		})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "See the log for details: %s\n", log.Path)
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Done: %s\n", dest)
		return nil
	},
}

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List the conversion engines available on this machine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conv, log, err := buildConverter()
		if err != nil {
			return err
		}
		defer log.Close()

		available := conv.AvailableMethods()
		if len(available) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No conversion engines available.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Available engines (in preference order):")
			for _, m := range available {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", m)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Log file: %s\n", log.Path)
		return nil
	},
}

// buildConverter wires config, the daily log file, and the engine table.
func buildConverter() (*converter.Converter, *logging.Log, error) {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := logging.Open()
	if err != nil {
		return nil, nil, err
	}

	opts := engine.Options{
		Logger:  log.Logger,
		Timeout: cfg.Timeout(),
		Paths:   cfg.Paths(),
	}

	engines := cfg.EngineOrder(engine.Table(opts))
	return converter.NewWithEngines(log.Logger, engines), log, nil
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "Output file path (default: input with .pdf extension)")
	convertCmd.Flags().StringP("method", "m", "auto", "Conversion method: prince, vivliostyle, calibre, pandoc, mupdf, or auto")
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(enginesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
