// =============================================================================
// Addenda Generator - CFDI Extractor
// =============================================================================
//
// This module reads a CFDI 4.0 invoice and produces the normalized
// InvoiceModel the rest of the pipeline works with.
//
// WHAT IS READ:
//   Comprobante                      Serie, Folio, Fecha, SubTotal, Total, Moneda
//   Comprobante/Impuestos/Traslados  child with Impuesto="002" -> Importe
//   Concepto (anywhere, in order)    Descripcion, Cantidad, ValorUnitario,
//                                    Importe, first nested Traslado/TasaOCuota
//
// Elements are matched by local name, so "cfdi:Concepto", "Concepto" and a
// default-namespaced Concepto are all the same thing.
//
// DUPLICATES:
//   Conceptos sharing a Descripcion are merged into one LineItem: quantity
//   and amount are summed, everything else comes from the first occurrence.
//
// =============================================================================

package cfdiparser

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/soriana-addenda/addenda-generator/internal/types"
	"github.com/soriana-addenda/addenda-generator/pkg/utils"
)

// Tax code for IVA (VAT) in the SAT catalog.
const ivaTaxCode = "002"

// Element local names.
const (
	tagComprobante = "Comprobante"
	tagImpuestos   = "Impuestos"
	tagTraslados   = "Traslados"
	tagTraslado    = "Traslado"
	tagConcepto    = "Concepto"
)

// =============================================================================
// ENTRY POINTS
// =============================================================================

// Extract parses CFDI text into an InvoiceModel.
//
// RETURNS:
//   - The normalized model.
//   - A *ParseError when the text is not well-formed XML or has no
//     Comprobante element.
func Extract(xmlText string) (types.InvoiceModel, error) {
	return ExtractReader(strings.NewReader(xmlText))
}

// ExtractReader is Extract for an io.Reader. The whole document is read
// before any extraction starts.
func ExtractReader(r io.Reader) (types.InvoiceModel, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader

	if _, err := doc.ReadFrom(r); err != nil {
		return types.InvoiceModel{}, wrapSyntax(err)
	}
	switch roots := len(doc.ChildElements()); {
	case roots == 0:
		return types.InvoiceModel{}, &ParseError{Msg: msgInvalidXML, Err: errNoRoot}
	case roots > 1:
		return types.InvoiceModel{}, &ParseError{Msg: msgInvalidXML, Err: errManyRoots}
	}

	root := findFirst(&doc.Element, tagComprobante)
	if root == nil {
		return types.InvoiceModel{}, &ParseError{Msg: msgNotCFDI}
	}

	return types.InvoiceModel{
		Comprobante: readComprobante(root),
		Taxes:       readTaxes(root),
		LineItems:   readLineItems(root),
	}, nil
}

// charsetReader decodes documents declaring a non-UTF-8 encoding, such as
// ISO-8859-1 or windows-1252 invoices produced by older billing systems.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

// =============================================================================
// SECTIONS
// =============================================================================

func readComprobante(root *etree.Element) types.Comprobante {
	return types.Comprobante{
		Series:    root.SelectAttrValue("Serie", ""),
		Folio:     root.SelectAttrValue("Folio", ""),
		IssueDate: root.SelectAttrValue("Fecha", ""),
		Subtotal:  utils.ToFixed(root.SelectAttrValue("SubTotal", ""), 6),
		Total:     root.SelectAttrValue("Total", ""),
		Currency:  root.SelectAttrValue("Moneda", ""),
	}
}

// readTaxes looks only at Comprobante > Impuestos > Traslados. The per-line
// Impuestos blocks inside each Concepto are ignored here.
func readTaxes(root *etree.Element) types.Taxes {
	taxes := types.Taxes{IvaRate: "0.00"}

	impuestos := firstChild(root, tagImpuestos)
	if impuestos == nil {
		return taxes
	}
	traslados := firstChild(impuestos, tagTraslados)
	if traslados == nil {
		return taxes
	}

	for _, t := range traslados.ChildElements() {
		if t.SelectAttrValue("Impuesto", "") != ivaTaxCode {
			continue
		}
		if importe := t.SelectAttrValue("Importe", ""); importe != "" {
			taxes.IvaRate = utils.ToFixed(importe, 2)
		}
		break
	}
	return taxes
}

// readLineItems collects every Concepto in document order and merges those
// sharing a description.
func readLineItems(root *etree.Element) []types.LineItem {
	items := []types.LineItem{}
	byDescription := make(map[string]int)

	for i, c := range findAll(root, tagConcepto) {
		description := c.SelectAttrValue("Descripcion", "")
		quantity := c.SelectAttrValue("Cantidad", "")
		amount := c.SelectAttrValue("Importe", "")

		if pos, ok := byDescription[description]; ok {
			existing := &items[pos]
			existing.Quantity = utils.FormatFixed(utils.ParseFloat(existing.Quantity)+utils.ParseFloat(quantity), 2)
			existing.Amount = utils.FormatFixed(utils.ParseFloat(existing.Amount)+utils.ParseFloat(amount), 6)
			continue
		}

		ivaRate := "0.00"
		if t := findFirst(c, tagTraslado); t != nil {
			ivaRate = utils.FormatFixed(utils.ParseFloat(t.SelectAttrValue("TasaOCuota", ""))*100, 2)
		}

		byDescription[description] = len(items)
		items = append(items, types.LineItem{
			Index:       i,
			Description: description,
			Quantity:    utils.ToFixed(quantity, 2),
			UnitValue:   utils.ToFixed(c.SelectAttrValue("ValorUnitario", ""), 6),
			Amount:      utils.ToFixed(amount, 6),
			IvaRate:     ivaRate,
		})
	}

	return items
}

// =============================================================================
// TREE HELPERS
// =============================================================================

// findFirst returns the first descendant of e (depth-first, document order)
// with the given local name. e itself is not considered.
func findFirst(e *etree.Element, tag string) *etree.Element {
	for _, child := range e.ChildElements() {
		if child.Tag == tag {
			return child
		}
		if found := findFirst(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every descendant of e with the given local name in
// document order.
func findAll(e *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range e.ChildElements() {
		if child.Tag == tag {
			out = append(out, child)
		}
		out = append(out, findAll(child, tag)...)
	}
	return out
}

// firstChild returns the first direct child of e with the given local name.
func firstChild(e *etree.Element, tag string) *etree.Element {
	for _, child := range e.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}
