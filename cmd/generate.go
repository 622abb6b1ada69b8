// =============================================================================
// Addenda Generator - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, the main command of the tool.
//
// COMMAND USAGE:
//   addenda generate --xml factura.xml --form captura.yaml [flags]
//
// FLAGS:
//   --xml               : CFDI 4.0 invoice to read
//   --form              : Filled-in form (.yaml, .yml or .xlsx)
//   --type              : Consolidada or NotaEntrada (overrides the form)
//   --output            : "-" for stdout, a directory, or a file path
//   --legacy-unescaped  : Write text values without XML escaping
//
// PROCESSING PIPELINE:
//   1. Load the invoice into a new session
//   2. Load the form
//   3. Validate and build the addenda
//   4. Write the output, or print the validation errors and fail
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soriana-addenda/addenda-generator/internal/converter"
	"github.com/soriana-addenda/addenda-generator/internal/forms"
	"github.com/soriana-addenda/addenda-generator/internal/session"
	"github.com/soriana-addenda/addenda-generator/internal/types"
	"github.com/soriana-addenda/addenda-generator/internal/validation"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	xmlPath         string
	formPath        string
	addendaType     string
	outputPath      string
	legacyUnescaped bool
)

// =============================================================================
// GENERATE COMMAND DEFINITION
// =============================================================================

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the addenda for an invoice",
	Long: `The generate command reads the invoice and the form, validates the form
against the invoice and writes the addenda.

Only products with a code in the form are included. When validation fails
nothing is written: every problem is listed and the command exits non-zero.

Output:
  (none)       The configured output directory, named by output_file_format
  -            Standard output
  <directory>  A generated file name inside that directory
  <file>       Exactly that file`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	addInvoiceFlags(generateCmd)
	addFormFlags(generateCmd)

	generateCmd.Flags().StringVarP(
		&outputPath,
		"output",
		"o",
		"",
		"Output target: - for stdout, a directory, or a file (default is the configured output directory)",
	)

	generateCmd.Flags().BoolVar(
		&legacyUnescaped,
		"legacy-unescaped",
		false,
		"Write text values without XML escaping (the output may not be well-formed)",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runGenerate(cmd *cobra.Command) error {
	if legacyUnescaped {
		appConfig.LegacyUnescapedText = true
	}

	// =========================================================================
	// STEP 1-2: LOAD INVOICE AND FORM
	// =========================================================================

	conv, form, err := loadInvoiceAndForm()
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 3: VALIDATE AND BUILD
	// =========================================================================

	result, err := conv.Generate(form)
	if err != nil {
		return err
	}
	if !result.Success {
		return reportBlocked(cmd, result)
	}

	// =========================================================================
	// STEP 4: WRITE OUTPUT
	// =========================================================================

	path, err := conv.WriteOutput(result, outputPath, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if path != converter.StdoutTarget {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ %s (%s, %d productos) -> %s\n",
			result.Remision, result.AddendaType, result.Stats.CodedProducts, path)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// addInvoiceFlags registers --xml on cmd.
func addInvoiceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&xmlPath, "xml", "", "Path to the CFDI 4.0 invoice (required)")
	_ = cmd.MarkFlagRequired("xml")
}

// addFormFlags registers --form and --type on cmd.
func addFormFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&formPath, "form", "", "Path to the filled-in form: .yaml, .yml or .xlsx (required)")
	_ = cmd.MarkFlagRequired("form")
	addTypeFlag(cmd)
}

// addTypeFlag registers --type on cmd.
func addTypeFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&addendaType,
		"type",
		"",
		"Addenda type: Consolidada or NotaEntrada (default is the form's, then the configured one)",
	)
}

// parseTypeFlag checks --type. An empty flag returns "".
func parseTypeFlag(value string) (types.AddendaType, error) {
	switch value {
	case "":
		return "", nil
	case string(types.Consolidated):
		return types.Consolidated, nil
	case string(types.DeliveryNote):
		return types.DeliveryNote, nil
	}
	return "", fmt.Errorf("invalid --type %q: expected %s or %s", value, types.Consolidated, types.DeliveryNote)
}

// loadInvoiceAndForm loads --xml into a fresh session and reads --form,
// applying --type.
func loadInvoiceAndForm() (*converter.Converter, *forms.Form, error) {
	override, err := parseTypeFlag(addendaType)
	if err != nil {
		return nil, nil, err
	}

	conv := converter.New(appConfig, session.New(), logger)
	if err := conv.Load(xmlPath); err != nil {
		return nil, nil, err
	}

	form, err := forms.Load(formPath)
	if err != nil {
		return nil, nil, err
	}
	if override != "" {
		form.Type = override
	}

	return conv, form, nil
}

// reportBlocked prints the validation errors and returns the command error.
func reportBlocked(cmd *cobra.Command, result *converter.Result) error {
	fmt.Fprintln(cmd.ErrOrStderr(), validation.FormatErrors(result.Errors))
	if result.ErrorLogFile != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "\nErrors have been logged to %s\n", result.ErrorLogFile)
	}
	return fmt.Errorf("%s: %d validation error(s)", result.Remision, len(result.Errors))
}
