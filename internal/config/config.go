// =============================================================================
// Addenda Generator - Configuration Module
// =============================================================================
//
// This module loads the application configuration.
//
// SOURCES (later wins):
//   1. Built-in defaults
//   2. YAML file (addenda.yaml in the working directory unless --config is
//      given; a missing default file is not an error)
//   3. ADDENDA_* environment variables, e.g. ADDENDA_LOG_LEVEL=debug
//      (field name split on word boundaries, never the unprefixed name)
//
// The merged result is validated before it is returned.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/soriana-addenda/addenda-generator/internal/types"
)

// DefaultConfigFile is read when no explicit path is given.
const DefaultConfigFile = "addenda.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ADDENDA"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where generated addendas go when the output target is a
	// directory or not given.
	// Default: "."
	OutputDir string `yaml:"output_dir" split_words:"true" validate:"required"`

	// OutputFileFormat names generated files.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {remision}  - Remision of the invoice ("A-123")
	// Default: "addenda_{remision}_{timestamp}.xml"
	OutputFileFormat string `yaml:"output_file_format" split_words:"true" validate:"required"`

	// LegacyUnescapedText writes form and invoice text without XML
	// escaping, like the earlier web generator did.
	// Default: false
	LegacyUnescapedText bool `yaml:"legacy_unescaped_text" split_words:"true"`

	// WriteErrorLog writes an error log next to the output when validation
	// blocks generation.
	// Default: false
	WriteErrorLog bool `yaml:"write_error_log" split_words:"true"`

	// =========================================================================
	// FORM SETTINGS
	// =========================================================================

	// DefaultAddendaType applies when neither the form nor the command line
	// selects one.
	// Valid values: "Consolidada", "NotaEntrada"
	// Default: "Consolidada"
	DefaultAddendaType string `yaml:"default_addenda_type" split_words:"true" validate:"oneof=Consolidada NotaEntrada"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" split_words:"true" validate:"oneof=debug info warn error"`

	// LogFormat selects the slog handler.
	// Valid values: "text", "json"
	// Default: "text"
	LogFormat string `yaml:"log_format" split_words:"true" validate:"oneof=text json"`

	// =========================================================================
	// PREFERENCES
	// =========================================================================

	// PreferencesFile stores the light/dark presentation preference.
	// Default: <user config dir>/addenda/preferences.yaml
	PreferencesFile string `yaml:"preferences_file" split_words:"true" validate:"required"`
}

// AddendaType returns DefaultAddendaType as a types.AddendaType.
func (c *Config) AddendaType() types.AddendaType {
	return types.ParseAddendaType(c.DefaultAddendaType)
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration.
//
// PARAMETERS:
//   - configPath: The YAML file to read. Empty means DefaultConfigFile,
//     which may be absent.
//
// RETURNS:
//   - The merged and validated configuration.
//   - An error if an explicit file cannot be read, any source cannot be
//     parsed, or the result is invalid.
func Load(configPath string) (*Config, error) {
	optional := configPath == ""
	if optional {
		configPath = DefaultConfigFile
	}

	var config Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
		// Defaults and environment only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Environment variables override the file.
	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	var config Config
	applyDefaults(&config)
	return &config
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.OutputDir == "" {
		config.OutputDir = "."
	}
	if config.OutputFileFormat == "" {
		config.OutputFileFormat = "addenda_{remision}_{timestamp}.xml"
	}
	if config.DefaultAddendaType == "" {
		config.DefaultAddendaType = string(types.Consolidated)
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
	if config.PreferencesFile == "" {
		config.PreferencesFile = defaultPreferencesFile()
	}
}

func defaultPreferencesFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".addenda-preferences.yaml"
	}
	return filepath.Join(dir, "addenda", "preferences.yaml")
}

// validateConfig validates the merged configuration.
func validateConfig(config *Config) error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: value %q does not satisfy %q", fe.Field(), fmt.Sprint(fe.Value()), fe.Tag())
		}
		return err
	}
	return nil
}
