// =============================================================================
// Addenda Generator - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - cfdiparser  (produces InvoiceModel)
//   - session     (owns the current InvoiceModel)
//   - forms       (produces GlobalFormData, Pallet, EnrichedProduct)
//   - validation
//   - xmlwriter
//
// All numeric values are kept as fixed-decimal strings exactly as they will
// appear in the generated addenda. See pkg/utils for the formatting rules.
//
// =============================================================================

package types

// =============================================================================
// INVOICE MODEL
// =============================================================================

// InvoiceModel is the normalized view of a CFDI 4.0 invoice.
// It is replaced wholesale every time a new document is loaded.
type InvoiceModel struct {
	// Comprobante holds the invoice-level attributes.
	Comprobante Comprobante `json:"comprobante" yaml:"comprobante"`

	// Taxes holds the invoice-level VAT figure.
	Taxes Taxes `json:"taxes" yaml:"taxes"`

	// LineItems is ordered by first appearance in the source document.
	// At most one entry exists per distinct Description.
	LineItems []LineItem `json:"lineItems" yaml:"line_items"`
}

// Comprobante holds the attributes read from the cfdi:Comprobante root.
type Comprobante struct {
	// Series is the invoice series. Empty when the attribute is absent.
	Series string `json:"serie" yaml:"serie"`

	// Folio is the invoice number within the series.
	Folio string `json:"folio" yaml:"folio"`

	// IssueDate is the ISO timestamp from the Fecha attribute.
	IssueDate string `json:"fecha" yaml:"fecha"`

	// Subtotal is rendered with 6 fractional digits.
	Subtotal string `json:"subTotal" yaml:"subtotal"`

	// Total is copied as found in the source document.
	Total string `json:"total" yaml:"total"`

	// Currency is the Moneda attribute (e.g. "MXN").
	Currency string `json:"moneda" yaml:"moneda"`
}

// Taxes holds the invoice-level tax figures.
type Taxes struct {
	// IvaRate is the Importe of the "002" (IVA) transfer, 2 fractional digits.
	// Defaults to "0.00" when no such transfer exists.
	IvaRate string `json:"tasaIVA" yaml:"tasa_iva"`
}

// LineItem is a single Concepto after duplicate merging.
type LineItem struct {
	// Index is the position of the first source node with this description.
	Index int `json:"index" yaml:"index"`

	// Description is the merge key.
	Description string `json:"descripcion" yaml:"descripcion"`

	// Quantity has 2 fractional digits.
	Quantity string `json:"cantidad" yaml:"cantidad"`

	// UnitValue has 6 fractional digits.
	UnitValue string `json:"valorUnitario" yaml:"valor_unitario"`

	// Amount has 6 fractional digits.
	Amount string `json:"importe" yaml:"importe"`

	// IvaRate is the VAT percentage (TasaOCuota * 100), 2 fractional digits.
	IvaRate string `json:"tasaIVA" yaml:"tasa_iva"`
}

// =============================================================================
// FORM DATA
// =============================================================================

// GlobalFormData is the logistics metadata entered once per addenda.
// It is rebuilt on every generation attempt and never cached.
type GlobalFormData struct {
	SupplierCode      string // Proveedor
	StoreCode         string // Tienda
	DeliveryLocation  string // EntregaMercancia / SucursalDistribuir
	AppointmentID     string // Cita, Consolidated only
	IncomingNoteFolio string // FolioNotaEntrada, non-Consolidated only
	BultosCount       string // CantidadBultos, emitted verbatim
	OrderFolio        string // FolioPedido
	DeliveryDate      string // FechaEntregaMercancia
}

// Pallet (tarima) is a physical shipping unit.
type Pallet struct {
	// Number is a positive integer rendered as a string, contiguous 1..N.
	Number string

	// Barcode is the SSCC code printed on the pallet.
	Barcode string
}

// EnrichedProduct is a LineItem the user assigned a product code to.
type EnrichedProduct struct {
	LineItem

	// Code is the SKU/EAN entered by the user.
	Code string

	// PalletNumber is only set in Consolidated mode.
	PalletNumber string
}

// =============================================================================
// ADDENDA TYPE
// =============================================================================

// AddendaType selects one of the two output shapes.
type AddendaType string

const (
	// Consolidated requires pallets and an appointment (Cita).
	Consolidated AddendaType = "Consolidada"

	// DeliveryNote requires an incoming note folio (FolioNotaEntrada).
	DeliveryNote AddendaType = "NotaEntrada"
)

// ParseAddendaType maps a user choice to an AddendaType.
// Only the exact value "Consolidada" selects Consolidated.
func ParseAddendaType(value string) AddendaType {
	if value == string(Consolidated) {
		return Consolidated
	}
	return DeliveryNote
}

// IsConsolidated reports whether t is the Consolidated shape.
func (t AddendaType) IsConsolidated() bool {
	return t == Consolidated
}
