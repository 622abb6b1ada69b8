package forms

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/soriana-addenda/addenda-generator/internal/types"
)

// =============================================================================
// WORKBOOK LAYOUT
// =============================================================================
//
//   Datos      | Campo              | Valor      | Descripcion            |
//              | tipo               | Consolidada| Tipo de addenda        |
//              | proveedor          | 12345      | Numero de proveedor    |
//              | ...                                                        |
//
//   Tarimas    | Numero | CodigoBarras |
//
//   Productos  | Indice | Descripcion | Cantidad | Codigo | Tarima |
//
// Row 1 of every sheet is a header. Tarimas and Productos are optional.
//
// =============================================================================

const (
	sheetGlobal   = "Datos"
	sheetPallets  = "Tarimas"
	sheetProducts = "Productos"
)

// Keys of the Datos sheet, in the order the template writes them.
var globalKeys = []struct {
	key   string
	label string
	field func(*Form) *string
}{
	{"proveedor", "Numero de proveedor", func(f *Form) *string { return &f.Global.SupplierCode }},
	{"tienda", "Numero de tienda", func(f *Form) *string { return &f.Global.StoreCode }},
	{"entrega", "Lugar de entrega", func(f *Form) *string { return &f.Global.DeliveryLocation }},
	{"cita", "Numero de cita (Consolidada)", func(f *Form) *string { return &f.Global.AppointmentID }},
	{"folio_nota_entrada", "Folio de nota de entrada", func(f *Form) *string { return &f.Global.IncomingNoteFolio }},
	{"bultos", "Cantidad de bultos", func(f *Form) *string { return &f.Global.BultosCount }},
	{"folio_pedido", "Folio de pedido", func(f *Form) *string { return &f.Global.OrderFolio }},
	{"fecha_entrega", "Fecha de entrega (AAAA-MM-DD)", func(f *Form) *string { return &f.Global.DeliveryDate }},
}

const keyAddendaType = "tipo"

// Columns the template formats as text ("@") so typed codes are kept as
// strings rather than converted to numbers.
var textColumns = map[string]string{
	sheetGlobal:   "B",
	sheetPallets:  "B",
	sheetProducts: "D",
}

// numFmtText is the built-in "@" number format.
const numFmtText = 49

// scientific matches a number Excel rendered in exponent form, such as an
// 18-digit SSCC typed into a General column.
var scientific = regexp.MustCompile(`^[+-]?\d+(\.\d+)?[eE][+-]?\d+$`)

// =============================================================================
// READING
// =============================================================================

// LoadXLSX reads a form from a workbook laid out as above.
func LoadXLSX(path string) (*Form, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open form workbook: %w", err)
	}
	defer x.Close()

	form := &Form{}

	rows, err := sheetRows(x, sheetGlobal)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		return nil, fmt.Errorf("form workbook %s has no %q sheet", path, sheetGlobal)
	}
	for _, row := range rows {
		key := strings.ToLower(cell(row, 0))
		value := cell(row, 1)
		if key == keyAddendaType {
			if value != "" {
				form.Type = types.ParseAddendaType(value)
			}
			continue
		}
		for _, g := range globalKeys {
			if g.key == key {
				*g.field(form) = value
				break
			}
		}
	}

	rows, err = sheetRows(x, sheetPallets)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if isRowEmpty(row) {
			continue
		}
		barcode, err := codeCell(x, sheetPallets, i+2, 1, cell(row, 1))
		if err != nil {
			return nil, err
		}
		form.PalletList.Add(barcode)
	}

	rows, err = sheetRows(x, sheetProducts)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if isRowEmpty(row) {
			continue
		}
		code, err := codeCell(x, sheetProducts, i+2, 3, cell(row, 3))
		if err != nil {
			return nil, err
		}
		entry := ProductEntry{
			Description:  cell(row, 1),
			Quantity:     cell(row, 2),
			Code:         code,
			PalletNumber: cell(row, 4),
		}
		if s := cell(row, 0); s != "" {
			index, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("sheet %s row %d: invalid index %q", sheetProducts, i+2, s)
			}
			entry.Index = &index
		}
		form.Entries = append(form.Entries, entry)
	}

	return form, nil
}

// sheetRows returns the data rows of a sheet (header dropped), or nil when
// the sheet does not exist.
func sheetRows(x *excelize.File, sheet string) ([][]string, error) {
	idx, err := x.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, nil
	}
	rows, err := x.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) <= 1 {
		return [][]string{}, nil
	}
	return rows[1:], nil
}

// cell returns the trimmed cell at index, or "" past the end of the row.
func cell(row []string, index int) string {
	if index < len(row) {
		return strings.TrimSpace(row[index])
	}
	return ""
}

// codeCell checks a barcode or product code read from row (1-based) and
// col (0-based). A value shown in exponent form is replaced by the stored
// value when that still holds every digit. Otherwise the digits are gone
// and the cell is rejected.
func codeCell(x *excelize.File, sheet string, row, col int, value string) (string, error) {
	if !scientific.MatchString(value) {
		return value, nil
	}

	axis, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return "", err
	}
	raw, err := x.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", fmt.Errorf("failed to read sheet %s cell %s: %w", sheet, axis, err)
	}
	raw = strings.TrimSpace(raw)
	if isDigits(raw) {
		return raw, nil
	}

	return "", fmt.Errorf("sheet %s cell %s: code %q was stored as a number and lost digits; format the column as text and type it again",
		sheet, axis, value)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isRowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// TEMPLATE
// =============================================================================

// WriteXLSXTemplate writes a blank form workbook for model.
func WriteXLSXTemplate(path string, model types.InvoiceModel, t types.AddendaType) error {
	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName(x.GetSheetName(0), sheetGlobal); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for _, name := range []string{sheetPallets, sheetProducts} {
		if _, err := x.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	rows := map[string][][]interface{}{
		sheetGlobal:   {{"Campo", "Valor", "Descripcion"}, {keyAddendaType, string(t), "Tipo de addenda (Consolidada / NotaEntrada)"}},
		sheetPallets:  {{"Numero", "CodigoBarras"}, {1, ""}},
		sheetProducts: {{"Indice", "Descripcion", "Cantidad", "Codigo", "Tarima"}},
	}
	for _, g := range globalKeys {
		rows[sheetGlobal] = append(rows[sheetGlobal], []interface{}{g.key, "", g.label})
	}
	for _, e := range templateEntries(model.LineItems, t) {
		rows[sheetProducts] = append(rows[sheetProducts],
			[]interface{}{*e.Index, e.Description, e.Quantity, "", e.PalletNumber})
	}

	for sheet, data := range rows {
		for i, r := range data {
			axis, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return err
			}
			if err := x.SetSheetRow(sheet, axis, &r); err != nil {
				return fmt.Errorf("failed to write sheet %s: %w", sheet, err)
			}
		}
	}

	textStyle, err := x.NewStyle(&excelize.Style{NumFmt: numFmtText})
	if err != nil {
		return fmt.Errorf("failed to create text style: %w", err)
	}
	for sheet, col := range textColumns {
		if err := x.SetColStyle(sheet, col, textStyle); err != nil {
			return fmt.Errorf("failed to format sheet %s column %s: %w", sheet, col, err)
		}
	}

	if err := x.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save form workbook: %w", err)
	}
	return nil
}
