package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carlosaherrerap/Evidencias/internal/config"
	"github.com/carlosaherrerap/Evidencias/internal/engine/schema"
	"github.com/carlosaherrerap/Evidencias/internal/logging"
	"github.com/carlosaherrerap/Evidencias/internal/source"

	// Register spreadsheet readers.
	_ "github.com/carlosaherrerap/Evidencias/internal/source/csv"
	_ "github.com/carlosaherrerap/Evidencias/internal/source/xlsx"
)

var (
	cfg        config.Config
	configFile string
	logLevel   string
	logFormat  string
	schemaFile string
)

var rootCmd = &cobra.Command{
	Use:   "evidencias",
	Short: "Generate per-client collections evidence packages",
	Long: `evidencias joins a client list with management, SMS and call-recording
sources and writes one folder per client holding the spreadsheets and audio
that prove each outreach channel (IVR, SMS, CALL) was executed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configFile != "" {
			cfg, err = config.LoadFile(configFile)
			if err != nil {
				return err
			}
		} else {
			cfg = config.Load()
		}

		flags := cmd.Flags()
		if flags.Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		if flags.Changed("log-format") {
			cfg.Log.Format = logFormat
		}
		if flags.Changed("schema") {
			cfg.Schema.File = schemaFile
		}
		applyRunFlags(cmd)
		cfg.Normalize()

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration:\n%w", err)
		}
		logging.Init(cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (overrides EVIDENCIAS_* env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format on stderr: text, json")
	rootCmd.PersistentFlags().StringVar(&schemaFile, "schema", "", "YAML file with extra header synonyms")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLoader builds the loader with the configured synonym table.
func newLoader() (*source.Loader, error) {
	if cfg.Schema.File == "" {
		return source.NewLoader(schema.Default()), nil
	}
	n, err := schema.LoadFile(cfg.Schema.File)
	if err != nil {
		return nil, err
	}
	return source.NewLoader(n), nil
}
