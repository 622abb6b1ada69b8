// =============================================================================
// Addenda Generator - Form Command
// =============================================================================
//
// COMMAND USAGE:
//   addenda form --xml factura.xml --out captura.xlsx [--type T]
//
// Writes a blank form for the invoice: every product listed with an empty
// code, plus one empty pallet. The format follows the --out extension
// (.yaml, .yml or .xlsx).
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soriana-addenda/addenda-generator/internal/converter"
	"github.com/soriana-addenda/addenda-generator/internal/forms"
	"github.com/soriana-addenda/addenda-generator/internal/session"
)

var formOut string

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Write a blank form for an invoice",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseTypeFlag(addendaType)
		if err != nil {
			return err
		}
		if t == "" {
			t = appConfig.AddendaType()
		}

		conv := converter.New(appConfig, session.New(), logger)
		if err := conv.Load(xmlPath); err != nil {
			return err
		}
		model, err := conv.Model()
		if err != nil {
			return err
		}

		if err := forms.WriteTemplate(formOut, model, t); err != nil {
			return err
		}

		logger.Info("form template written", "path", formOut, "type", t, "line_items", len(model.LineItems))
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ %s (%s, %d productos)\n", formOut, t, len(model.LineItems))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formCmd)

	addInvoiceFlags(formCmd)
	addTypeFlag(formCmd)
	formCmd.Flags().StringVar(&formOut, "out", "", "Form file to write: .yaml, .yml or .xlsx (required)")
	_ = formCmd.MarkFlagRequired("out")
}
