// =============================================================================
// Addenda Generator - Validation Engine
// =============================================================================
//
// This module checks that the form data is complete before an addenda is
// built. It never fails with an error value: every check appends a
// user-facing message to a Result, and the caller decides whether to block.
//
// CHECK ORDER:
//   Messages come out in a fixed order so the user sees the same list for
//   the same form every time.
//   1. Global data: proveedor, tienda, entrega, cita (Consolidated),
//      folio de pedido, folio de nota de entrada (non-Consolidated), fecha
//   2. Pallets (Consolidated only)
//   3. Products
//
// Messages are in Spanish; they are shown verbatim to the people filling in
// the form.
//
// =============================================================================

package validation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/soriana-addenda/addenda-generator/internal/types"
	"github.com/soriana-addenda/addenda-generator/pkg/utils"
)

// =============================================================================
// MESSAGES
// =============================================================================

const (
	MsgSupplierRequired     = "El número de proveedor es requerido"
	MsgStoreRequired        = "El número de tienda es requerido"
	MsgDeliveryRequired     = "El lugar de entrega es requerido"
	MsgAppointmentRequired  = "El número de cita es requerido"
	MsgOrderFolioRequired   = "El folio de pedido es requerido"
	MsgIncomingNoteRequired = "El folio de nota de entrada es requerido"
	MsgDeliveryDateInvalid  = "La fecha de entrega es requerida y debe ser válida"
	MsgNoPallets            = "Debe haber al menos una tarima"
	MsgNoProducts           = "No hay productos para validar"

	msgPalletBarcode = "La tarima %d necesita un código de barras válido"
	msgProductCode   = "El producto %d necesita un código válido"
	msgProductPallet = "El producto %d necesita un número de tarima válido"
)

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Result is the outcome of one or more checks.
type Result struct {
	// Valid is true when Errors is empty.
	Valid bool

	// Errors holds the messages in check order. Never nil.
	Errors []string
}

func newResult(errs []string) Result {
	if errs == nil {
		errs = []string{}
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// =============================================================================
// VALIDATORS
// =============================================================================

// ValidateGlobal checks the logistics fields. The appointment is required
// only when isConsolidated, the incoming note folio only when it is not.
func ValidateGlobal(data types.GlobalFormData, isConsolidated bool) Result {
	var errs []string

	if isBlank(data.SupplierCode) {
		errs = append(errs, MsgSupplierRequired)
	}
	if isBlank(data.StoreCode) {
		errs = append(errs, MsgStoreRequired)
	}
	if isBlank(data.DeliveryLocation) {
		errs = append(errs, MsgDeliveryRequired)
	}
	if isConsolidated && isBlank(data.AppointmentID) {
		errs = append(errs, MsgAppointmentRequired)
	}
	if isBlank(data.OrderFolio) {
		errs = append(errs, MsgOrderFolioRequired)
	}
	if !isConsolidated && isBlank(data.IncomingNoteFolio) {
		errs = append(errs, MsgIncomingNoteRequired)
	}
	if !IsValidDate(data.DeliveryDate) {
		errs = append(errs, MsgDeliveryDateInvalid)
	}

	return newResult(errs)
}

// ValidatePallets requires at least one pallet and a barcode on each.
func ValidatePallets(pallets []types.Pallet) Result {
	if len(pallets) == 0 {
		return newResult([]string{MsgNoPallets})
	}

	var errs []string
	for i, p := range pallets {
		if isBlank(p.Barcode) {
			errs = append(errs, fmt.Sprintf(msgPalletBarcode, i+1))
		}
	}
	return newResult(errs)
}

// ValidateProducts requires at least one coded product. In Consolidated
// mode every product also needs a positive pallet number.
func ValidateProducts(products []types.EnrichedProduct, isConsolidated bool) Result {
	if len(products) == 0 {
		return newResult([]string{MsgNoProducts})
	}

	var errs []string
	for i, p := range products {
		if isBlank(p.Code) {
			errs = append(errs, fmt.Sprintf(msgProductCode, i+1))
		}
		if isConsolidated && !isPositive(p.PalletNumber) {
			errs = append(errs, fmt.Sprintf(msgProductPallet, i+1))
		}
	}
	return newResult(errs)
}

// ValidateAll runs every check for the given addenda type and concatenates
// the messages global -> pallets -> products. Pallets are only checked for
// Consolidated addendas, the only shape that emits them.
func ValidateAll(global types.GlobalFormData, pallets []types.Pallet, products []types.EnrichedProduct, t types.AddendaType) Result {
	consolidated := t.IsConsolidated()

	errs := ValidateGlobal(global, consolidated).Errors
	if consolidated {
		errs = append(errs, ValidatePallets(pallets).Errors...)
	}
	errs = append(errs, ValidateProducts(products, consolidated).Errors...)

	return newResult(errs)
}

// =============================================================================
// FIELD CHECKS
// =============================================================================

// dateLayouts are tried in order. The first is what date pickers and the
// form templates produce.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
}

// IsValidDate reports whether s is a real calendar date in one of the
// accepted layouts. "2024-02-30" is rejected.
func IsValidDate(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// isPositive uses the same lenient parse as the numeric fields.
func isPositive(s string) bool {
	f := utils.ParseFloat(s)
	return !math.IsNaN(f) && f > 0
}

// =============================================================================
// REPORTING
// =============================================================================

// FormatErrors formats messages for display, one numbered line each.
func FormatErrors(errs []string) string {
	if len(errs) == 0 {
		return "Sin errores de validación."
	}

	var builder strings.Builder
	builder.WriteString("Se encontraron los siguientes errores:\n\n")
	for i, e := range errs {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, e))
	}
	return builder.String()
}
