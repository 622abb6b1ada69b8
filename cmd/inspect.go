// =============================================================================
// Addenda Generator - Inspect Command
// =============================================================================
//
// COMMAND USAGE:
//   addenda inspect --xml factura.xml [--json]
//
// Prints what was extracted from the invoice: header, totals and the merged
// product list, as a table or as JSON.
//
// =============================================================================

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/soriana-addenda/addenda-generator/internal/converter"
	"github.com/soriana-addenda/addenda-generator/internal/session"
	"github.com/soriana-addenda/addenda-generator/internal/types"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the data extracted from an invoice",
	RunE: func(cmd *cobra.Command, args []string) error {
		conv := converter.New(appConfig, session.New(), logger)
		if err := conv.Load(xmlPath); err != nil {
			return err
		}
		model, err := conv.Model()
		if err != nil {
			return err
		}

		if inspectJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(model)
		}
		return printModel(cmd.OutOrStdout(), model)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	addInvoiceFlags(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Print the extracted model as JSON")
}

// printModel writes the header block and the product table.
func printModel(w io.Writer, model types.InvoiceModel) error {
	c := model.Comprobante
	fmt.Fprintf(w, "Remision:  %s-%s\n", c.Series, c.Folio)
	fmt.Fprintf(w, "Fecha:     %s\n", c.IssueDate)
	fmt.Fprintf(w, "Moneda:    %s\n", c.Currency)
	fmt.Fprintf(w, "Subtotal:  %s\n", c.Subtotal)
	fmt.Fprintf(w, "IVA:       %s\n", model.Taxes.IvaRate)
	fmt.Fprintf(w, "Total:     %s\n", c.Total)
	fmt.Fprintf(w, "Productos: %d\n\n", len(model.LineItems))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tDescripcion\tCantidad\tValor unitario\tImporte\tIVA %\t")
	for _, item := range model.LineItems {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			item.Index, item.Description, item.Quantity, item.UnitValue, item.Amount, item.IvaRate)
	}
	return tw.Flush()
}
