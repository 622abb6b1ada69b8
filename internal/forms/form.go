// =============================================================================
// Addenda Generator - Form Data Collector
// =============================================================================
//
// The pipeline never reads a user interface directly. Everything a person
// types (logistics data, pallets, product codes) reaches it through the
// Source interface below.
//
// IMPLEMENTATIONS:
//   - Form built as a struct literal (tests, embedding programs)
//   - Form loaded from a YAML file (LoadYAML)
//   - Form loaded from an XLSX workbook (LoadXLSX)
//
// Every call to a Source method recomputes its result from the current form
// contents. Nothing is cached between generation attempts.
//
// =============================================================================

package forms

import (
	"strings"

	"github.com/soriana-addenda/addenda-generator/internal/types"
)

// DefaultPalletNumber is used for coded products with no pallet assigned.
const DefaultPalletNumber = "1"

// Source supplies form data to the pipeline.
type Source interface {
	// AddendaType is the selected output shape.
	AddendaType() types.AddendaType

	// GlobalData returns the trimmed logistics fields.
	GlobalData() types.GlobalFormData

	// Pallets returns the pallets numbered 1..N.
	Pallets() []types.Pallet

	// Products returns the line items the user coded, in model order.
	Products(items []types.LineItem) []types.EnrichedProduct
}

// TypeDefaulter is implemented by sources whose addenda type may be left
// unset until generation.
type TypeDefaulter interface {
	DefaultType(t types.AddendaType)
}

// =============================================================================
// FORM
// =============================================================================

// Form is the in-memory form. It implements Source.
type Form struct {
	// Type selects Consolidated or DeliveryNote output.
	Type types.AddendaType

	// Global holds the raw (untrimmed) logistics fields.
	Global GlobalFields

	// PalletList holds the tarimas in entry order.
	PalletList PalletList

	// Entries holds the per-product codes.
	Entries []ProductEntry
}

// GlobalFields is the raw global section of a form.
type GlobalFields struct {
	SupplierCode      string `yaml:"supplier_code"`
	StoreCode         string `yaml:"store_code"`
	DeliveryLocation  string `yaml:"delivery_location"`
	AppointmentID     string `yaml:"appointment_id"`
	IncomingNoteFolio string `yaml:"incoming_note_folio"`
	BultosCount       string `yaml:"bultos_count"`
	OrderFolio        string `yaml:"order_folio"`
	DeliveryDate      string `yaml:"delivery_date"`
}

// ProductEntry is the code a user typed for one invoice line item.
//
// An entry applies to the line item whose Index matches, or when Index is
// nil, to the line item with the same Description.
type ProductEntry struct {
	Index        *int   `yaml:"index,omitempty"`
	Description  string `yaml:"description,omitempty"`
	Quantity     string `yaml:"quantity,omitempty"` // informational only
	Code         string `yaml:"code"`
	PalletNumber string `yaml:"pallet_number,omitempty"`
}

// NewForm returns an empty form of the given type.
func NewForm(t types.AddendaType) *Form {
	return &Form{Type: t}
}

// AddendaType implements Source.
func (f *Form) AddendaType() types.AddendaType {
	return f.Type
}

// DefaultType implements TypeDefaulter. An already selected type is kept.
func (f *Form) DefaultType(t types.AddendaType) {
	if f.Type == "" {
		f.Type = t
	}
}

// GlobalData implements Source. The appointment is only reported for
// Consolidated forms and the incoming note folio only for the others.
func (f *Form) GlobalData() types.GlobalFormData {
	g := f.Global
	data := types.GlobalFormData{
		SupplierCode:     strings.TrimSpace(g.SupplierCode),
		StoreCode:        strings.TrimSpace(g.StoreCode),
		DeliveryLocation: strings.TrimSpace(g.DeliveryLocation),
		BultosCount:      strings.TrimSpace(g.BultosCount),
		OrderFolio:       strings.TrimSpace(g.OrderFolio),
		DeliveryDate:     strings.TrimSpace(g.DeliveryDate),
	}

	if f.Type.IsConsolidated() {
		data.AppointmentID = strings.TrimSpace(g.AppointmentID)
	} else {
		data.IncomingNoteFolio = strings.TrimSpace(g.IncomingNoteFolio)
	}
	return data
}

// Pallets implements Source.
func (f *Form) Pallets() []types.Pallet {
	return f.PalletList.Items()
}

// Products implements Source.
//
// Line items are walked in model order. Items without a matching entry, or
// whose entry has a blank code, are left out. PalletNumber is only filled in
// Consolidated mode and defaults to DefaultPalletNumber.
func (f *Form) Products(items []types.LineItem) []types.EnrichedProduct {
	consolidated := f.Type.IsConsolidated()
	out := make([]types.EnrichedProduct, 0, len(items))

	for _, item := range items {
		entry, ok := f.entryFor(item)
		if !ok {
			continue
		}
		code := strings.TrimSpace(entry.Code)
		if code == "" {
			continue
		}

		product := types.EnrichedProduct{LineItem: item, Code: code}
		if consolidated {
			product.PalletNumber = strings.TrimSpace(entry.PalletNumber)
			if product.PalletNumber == "" {
				product.PalletNumber = DefaultPalletNumber
			}
		}
		out = append(out, product)
	}

	return out
}

// CountCoded returns how many of items the form has a code for.
func (f *Form) CountCoded(items []types.LineItem) int {
	return len(f.Products(items))
}

// entryFor finds the entry for item. Index matches take precedence over
// description matches.
func (f *Form) entryFor(item types.LineItem) (ProductEntry, bool) {
	for _, e := range f.Entries {
		if e.Index != nil && *e.Index == item.Index {
			return e, true
		}
	}
	for _, e := range f.Entries {
		if e.Index == nil && e.Description == item.Description {
			return e, true
		}
	}
	return ProductEntry{}, false
}
