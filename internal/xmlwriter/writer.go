// =============================================================================
// Addenda Generator - XML Writer Module
// =============================================================================
//
// This module builds the Soriana DSCargaRemisionProv addenda from the invoice
// model and the validated form data.
//
// XML STRUCTURE:
//
//   <cfdi:Addenda>
//       <DSCargaRemisionProv>
//           <Remision Id="Remision0" RowOrder="0">...</Remision>
//           <Pedidos Id="Pedidos0" RowOrder="0">...</Pedidos>
//           <Articulos Id="Articulos0" RowOrder="0">...</Articulos>         <!-- one per coded product -->
//           <CajasTarimas Id="CajaTarima0" RowOrder="0">...</CajasTarimas>  <!-- Consolidada only -->
//           <ArticulosPorCajaTarima ...>...</ArticulosPorCajaTarima>        <!-- Consolidada only -->
//       </DSCargaRemisionProv>
//   </cfdi:Addenda>
//
// The two addenda shapes differ only in the tail of the Remision block and
// in the pallet sections. Each shape is a Layout; everything else is shared.
//
// RowOrder and the Id suffix of repeating blocks are the position in the
// list being written (coded products or pallets), starting at 0. They are
// not the invoice line-item index.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/soriana-addenda/addenda-generator/internal/types"
	"github.com/soriana-addenda/addenda-generator/pkg/utils"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// Options controls how the addenda text is rendered.
type Options struct {
	// Indent is the string used for one level of indentation.
	// Default: four spaces
	Indent string

	// EscapeText escapes & < > " ' in element text.
	// Default: true
	//
	// Set it to false only when a downstream system needs byte-for-byte
	// output of the older generator, which copied text unescaped. A value
	// such as "A&B" then produces a document that is not well-formed.
	EscapeText bool
}

// DefaultOptions returns the default rendering options.
func DefaultOptions() Options {
	return Options{
		Indent:     "    ",
		EscapeText: true,
	}
}

// Fixed values of the Remision block.
const (
	consecutivo       = "0"
	tipoMoneda        = "1"
	tipoBulto         = "1"
	cumpleReqFiscales = "true"
	zeroAmount        = "0.00"
	cantidadPedidos   = "1"
)

// =============================================================================
// INPUT
// =============================================================================

// Input is everything one addenda is built from. Callers are expected to
// have validated it; the builder does not check anything.
type Input struct {
	Model    types.InvoiceModel
	Global   types.GlobalFormData
	Pallets  []types.Pallet
	Products []types.EnrichedProduct
}

// Remision is "{serie}-{folio}". An empty series leaves the leading hyphen.
func (in Input) Remision() string {
	return in.Model.Comprobante.Series + "-" + in.Model.Comprobante.Folio
}

// FechaRemision is the date part of the invoice timestamp.
func (in Input) FechaRemision() string {
	fecha := in.Model.Comprobante.IssueDate
	if len(fecha) > 10 {
		return fecha[:10]
	}
	return fecha
}

// TotalArticulos counts invoice line items, coded or not.
func (in Input) TotalArticulos() int {
	return len(in.Model.LineItems)
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Build renders the addenda with DefaultOptions.
func Build(model types.InvoiceModel, global types.GlobalFormData, pallets []types.Pallet, products []types.EnrichedProduct, t types.AddendaType) string {
	return BuildWithOptions(Input{
		Model:    model,
		Global:   global,
		Pallets:  pallets,
		Products: products,
	}, t, DefaultOptions())
}

// BuildWithOptions renders the addenda for in using the layout of t.
//
// RETURNS:
//   - The addenda text, starting at <cfdi:Addenda> with no XML declaration
//     and no trailing newline.
func BuildWithOptions(in Input, t types.AddendaType, options Options) string {
	doc := buildDocument(in, LayoutFor(t))

	var buffer bytes.Buffer
	writeElement(&buffer, doc, options, 0)
	return strings.TrimRight(buffer.String(), "\n")
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLElement is a node of the addenda tree. An element has either a Value
// or Children.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []XMLElement
}

// buildDocument assembles the full tree in output order.
func buildDocument(in Input, layout Layout) XMLElement {
	sections := []XMLElement{
		buildRemision(in, layout),
		buildPedidos(in),
	}
	sections = append(sections, buildArticulos(in)...)
	sections = append(sections, layout.PalletSections(in)...)

	return XMLElement{
		XMLName: xml.Name{Local: "cfdi:Addenda"},
		Children: []XMLElement{{
			XMLName:  xml.Name{Local: "DSCargaRemisionProv"},
			Children: sections,
		}},
	}
}

func buildRemision(in Input, layout Layout) XMLElement {
	g := in.Global
	fields := []XMLElement{
		createSimpleElement("Proveedor", g.SupplierCode),
		createSimpleElement("Remision", in.Remision()),
		createSimpleElement("Consecutivo", consecutivo),
		createSimpleElement("FechaRemision", in.FechaRemision()),
		createSimpleElement("Tienda", g.StoreCode),
		createSimpleElement("TipoMoneda", tipoMoneda),
		createSimpleElement("TipoBulto", tipoBulto),
		createSimpleElement("EntregaMercancia", g.DeliveryLocation),
		createSimpleElement("CumpleReqFiscales", cumpleReqFiscales),
		createSimpleElement("CantidadBultos", g.BultosCount),
		createSimpleElement("Subtotal", in.Model.Comprobante.Subtotal),
		createSimpleElement("Descuentos", zeroAmount),
		createSimpleElement("IEPS", zeroAmount),
		createSimpleElement("IVA", in.Model.Taxes.IvaRate),
		createSimpleElement("OtrosImpuestos", zeroAmount),
		createSimpleElement("Total", in.Model.Comprobante.Total),
		createSimpleElement("CantidadPedidos", cantidadPedidos),
		createSimpleElement("FechaEntregaMercancia", g.DeliveryDate),
	}
	fields = append(fields, layout.RemisionFields(in)...)

	return createRowElement("Remision", "Remision", 0, fields)
}

func buildPedidos(in Input) XMLElement {
	return createRowElement("Pedidos", "Pedidos", 0, []XMLElement{
		createSimpleElement("Proveedor", in.Global.SupplierCode),
		createSimpleElement("Remision", in.Remision()),
		createSimpleElement("FolioPedido", in.Global.OrderFolio),
		createSimpleElement("Tienda", in.Global.StoreCode),
		createSimpleElement("CantidadArticulos", strconv.Itoa(in.TotalArticulos())),
	})
}

// buildArticulos emits one block per coded product.
func buildArticulos(in Input) []XMLElement {
	out := make([]XMLElement, 0, len(in.Products))
	for i, p := range in.Products {
		out = append(out, createRowElement("Articulos", "Articulos", i, []XMLElement{
			createSimpleElement("Proveedor", in.Global.SupplierCode),
			createSimpleElement("Remision", in.Remision()),
			createSimpleElement("FolioPedido", in.Global.OrderFolio),
			createSimpleElement("Tienda", in.Global.StoreCode),
			createSimpleElement("Codigo", p.Code),
			createSimpleElement("CantidadUnidadCompra", p.Quantity),
			createSimpleElement("CostoNetoUnidadCompra", p.UnitValue),
			createSimpleElement("PorcentajeIEPS", zeroAmount),
			createSimpleElement("PorcentajeIVA", p.IvaRate),
		}))
	}
	return out
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// createSimpleElement creates a simple XML element with a text value.
func createSimpleElement(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

// createRowElement creates a repeating block carrying Id="{prefix}{row}"
// and RowOrder="{row}".
func createRowElement(name, idPrefix string, row int, children []XMLElement) XMLElement {
	r := strconv.Itoa(row)
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Attributes: []xml.Attr{
			{Name: xml.Name{Local: "Id"}, Value: idPrefix + r},
			{Name: xml.Name{Local: "RowOrder"}, Value: r},
		},
		Children: children,
	}
}

// writeElement writes an element and its subtree, one element per line.
// Elements without children always get an explicit closing tag, even when
// their value is empty.
func writeElement(buffer *bytes.Buffer, element XMLElement, options Options, level int) {
	indent := strings.Repeat(options.Indent, level)

	buffer.WriteString(indent)
	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)
	for _, attr := range element.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name.Local, utils.EscapeXML(attr.Value)))
	}
	buffer.WriteString(">")

	if len(element.Children) == 0 {
		value := element.Value
		if options.EscapeText {
			value = utils.EscapeXML(value)
		}
		buffer.WriteString(value)
	} else {
		buffer.WriteString("\n")
		for _, child := range element.Children {
			writeElement(buffer, child, options, level+1)
		}
		buffer.WriteString(indent)
	}

	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}
