// =============================================================================
// Addenda Generator - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   addenda validate --xml factura.xml --form captura.xlsx [--type T]
//
// Runs the same checks as 'generate' without writing anything. Prints "OK"
// or the numbered list of problems (and exits non-zero). On success the
// number of coded products goes to stderr.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a form against an invoice without generating",
	RunE: func(cmd *cobra.Command, args []string) error {
		conv, form, err := loadInvoiceAndForm()
		if err != nil {
			return err
		}

		result, err := conv.Generate(form)
		if err != nil {
			return err
		}
		if !result.Success {
			return reportBlocked(cmd, result)
		}

		model, err := conv.Model()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "OK")
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ %s: %d de %d productos con código\n",
			result.Remision, form.CountCoded(model.LineItems), len(model.LineItems))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	addInvoiceFlags(validateCmd)
	addFormFlags(validateCmd)
}
