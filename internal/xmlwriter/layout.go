package xmlwriter

import (
	"strconv"

	"github.com/soriana-addenda/addenda-generator/internal/types"
)

// Layout is one addenda shape. It supplies the parts that differ between
// shapes; the rest of the document is shared.
type Layout interface {
	// Type is the addenda type this layout renders.
	Type() types.AddendaType

	// RemisionFields are appended after FechaEntregaMercancia.
	RemisionFields(in Input) []XMLElement

	// PalletSections follow the Articulos blocks.
	PalletSections(in Input) []XMLElement
}

// LayoutFor returns the layout for t. Anything other than Consolidated is
// rendered as a delivery note.
func LayoutFor(t types.AddendaType) Layout {
	if t.IsConsolidated() {
		return ConsolidatedLayout{}
	}
	return DeliveryNoteLayout{}
}

// =============================================================================
// CONSOLIDATED
// =============================================================================

// ConsolidatedLayout ships goods on pallets against an appointment (cita).
type ConsolidatedLayout struct{}

func (ConsolidatedLayout) Type() types.AddendaType { return types.Consolidated }

func (ConsolidatedLayout) RemisionFields(in Input) []XMLElement {
	return []XMLElement{
		createSimpleElement("EmpaqueEnCajas", "true"),
		createSimpleElement("EmpaqueEnTarimas", "true"),
		createSimpleElement("CantidadCajasTarimas", strconv.Itoa(len(in.Pallets))),
		createSimpleElement("Cita", in.Global.AppointmentID),
	}
}

// PalletSections emits every CajasTarimas block, then every
// ArticulosPorCajaTarima block.
func (ConsolidatedLayout) PalletSections(in Input) []XMLElement {
	remision := in.Remision()
	g := in.Global
	out := make([]XMLElement, 0, len(in.Pallets)+len(in.Products))

	for i, p := range in.Pallets {
		out = append(out, createRowElement("CajasTarimas", "CajaTarima", i, []XMLElement{
			createSimpleElement("Proveedor", g.SupplierCode),
			createSimpleElement("Remision", remision),
			createSimpleElement("NumeroCajaTarima", p.Number),
			createSimpleElement("CodigoBarraCajaTarima", p.Barcode),
			createSimpleElement("SucursalDistribuir", g.DeliveryLocation),
			createSimpleElement("CantidadArticulos", strconv.Itoa(in.TotalArticulos())),
		}))
	}

	for i, p := range in.Products {
		out = append(out, createRowElement("ArticulosPorCajaTarima", "ArticulosPorCajaTarima", i, []XMLElement{
			createSimpleElement("Proveedor", g.SupplierCode),
			createSimpleElement("Remision", remision),
			createSimpleElement("FolioPedido", g.OrderFolio),
			createSimpleElement("NumeroCajaTarima", p.PalletNumber),
			createSimpleElement("SucursalDistribuir", g.DeliveryLocation),
			createSimpleElement("Codigo", p.Code),
			createSimpleElement("CantidadUnidadCompra", p.Quantity),
		}))
	}

	return out
}

// =============================================================================
// DELIVERY NOTE
// =============================================================================

// DeliveryNoteLayout references an incoming note folio and has no pallets.
type DeliveryNoteLayout struct{}

func (DeliveryNoteLayout) Type() types.AddendaType { return types.DeliveryNote }

func (DeliveryNoteLayout) RemisionFields(in Input) []XMLElement {
	return []XMLElement{
		createSimpleElement("FolioNotaEntrada", in.Global.IncomingNoteFolio),
	}
}

func (DeliveryNoteLayout) PalletSections(Input) []XMLElement {
	return nil
}
