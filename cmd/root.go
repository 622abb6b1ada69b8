// =============================================================================
// Addenda Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (addenda)
//   ├── generateCmd (addenda generate)
//   ├── validateCmd (addenda validate)
//   ├── inspectCmd  (addenda inspect)
//   ├── formCmd     (addenda form)
//   ├── themeCmd    (addenda theme)
//   └── versionCmd  (addenda version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the configuration (--config, addenda.yaml, ADDENDA_* variables)
//   2. Applies --log-level / --verbose on top of it
//   3. Sets up logging on stderr
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/soriana-addenda/addenda-generator/internal/config"
	"github.com/soriana-addenda/addenda-generator/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// Empty means addenda.yaml in the working directory, if present.
var cfgFile string

// logLevel overrides the configured log level when set.
var logLevel string

// verbose is a shortcut for --log-level debug.
var verbose bool

// appConfig and logger are ready once PersistentPreRunE has run.
var (
	appConfig *config.Config
	logger    *slog.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "addenda",
	Short: "Addenda Generator - Build Soriana addendas from CFDI 4.0 invoices",
	Long: `Addenda Generator reads a CFDI 4.0 invoice, combines it with the logistics
data of a filled-in form (supplier, store, delivery, pallets and product
codes) and writes the Soriana DSCargaRemisionProv addenda.

Typical workflow:
  addenda form --xml factura.xml --out captura.xlsx     # Blank form for the invoice
  addenda validate --xml factura.xml --form captura.xlsx
  addenda generate --xml factura.xml --form captura.xlsx --output salida/

Output shapes:
  Consolidada   Pallet sections, appointment (Cita) required
  NotaEntrada   Incoming note folio (FolioNotaEntrada) required`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the configuration file (default is "+config.DefaultConfigFile+" if present)",
	)

	rootCmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		"",
		"Log level: debug, info, warn, error (overrides the configuration)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging (same as --log-level debug)",
	)
}

// initConfig loads the configuration and sets up logging.
func initConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	appConfig = cfg
	logger = logging.Setup(cfg.LogLevel, cfg.LogFormat)
	logger.Debug("configuration loaded", "config", cfgFile, "output_dir", cfg.OutputDir)
	return nil
}
