package forms

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/soriana-addenda/addenda-generator/internal/types"
)

func intPtr(i int) *int { return &i }

func lineItems() []types.LineItem {
	return []types.LineItem{
		{Index: 0, Description: "Producto A", Quantity: "5.00", UnitValue: "5.000000", Amount: "25.000000", IvaRate: "16.00"},
		{Index: 1, Description: "Producto B", Quantity: "1.50", UnitValue: "100.000000", Amount: "150.000000", IvaRate: "0.00"},
		{Index: 3, Description: "Producto C", Quantity: "2.00", UnitValue: "1.000000", Amount: "2.000000", IvaRate: "16.00"},
	}
}

func TestGlobalData_TrimsAndSelectsModeField(t *testing.T) {
	global := GlobalFields{
		SupplierCode:      " 123 ",
		StoreCode:         "45\t",
		DeliveryLocation:  " CEDIS ",
		AppointmentID:     " C-9 ",
		IncomingNoteFolio: " NE-1 ",
		BultosCount:       " 10 ",
		OrderFolio:        " P-77 ",
		DeliveryDate:      "2024-03-20",
	}

	consolidated := &Form{Type: types.Consolidated, Global: global}
	assert.Equal(t, types.GlobalFormData{
		SupplierCode:     "123",
		StoreCode:        "45",
		DeliveryLocation: "CEDIS",
		AppointmentID:    "C-9",
		BultosCount:      "10",
		OrderFolio:       "P-77",
		DeliveryDate:     "2024-03-20",
	}, consolidated.GlobalData())

	note := &Form{Type: types.DeliveryNote, Global: global}
	data := note.GlobalData()
	assert.Equal(t, "", data.AppointmentID)
	assert.Equal(t, "NE-1", data.IncomingNoteFolio)
}

func TestProducts_MatchesByIndexThenDescription(t *testing.T) {
	form := &Form{
		Type: types.Consolidated,
		Entries: []ProductEntry{
			{Index: intPtr(3), Code: " SKU-C ", PalletNumber: "2"},
			{Description: "Producto A", Code: "SKU-A"},
			{Index: intPtr(1), Code: "   "},
		},
	}

	products := form.Products(lineItems())
	require.Len(t, products, 2)

	assert.Equal(t, "Producto A", products[0].Description)
	assert.Equal(t, "SKU-A", products[0].Code)
	assert.Equal(t, DefaultPalletNumber, products[0].PalletNumber)

	assert.Equal(t, 3, products[1].Index)
	assert.Equal(t, "SKU-C", products[1].Code)
	assert.Equal(t, "2", products[1].PalletNumber)
	assert.Equal(t, "2.00", products[1].Quantity)

	assert.Equal(t, 2, form.CountCoded(lineItems()))
}

func TestProducts_NoPalletOutsideConsolidated(t *testing.T) {
	form := &Form{
		Type:    types.DeliveryNote,
		Entries: []ProductEntry{{Index: intPtr(0), Code: "X", PalletNumber: "4"}},
	}

	products := form.Products(lineItems())
	require.Len(t, products, 1)
	assert.Equal(t, "", products[0].PalletNumber)
}

func TestProducts_NothingCoded(t *testing.T) {
	form := NewForm(types.Consolidated)
	assert.Empty(t, form.Products(lineItems()))
	assert.Equal(t, 0, form.CountCoded(lineItems()))
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	content := `addenda_type: Consolidada
global:
  supplier_code: "123"
  store_code: "45"
  delivery_location: CEDIS
  appointment_id: C-9
  bultos_count: "10"
  order_folio: P-77
  delivery_date: "2024-03-20"
pallets:
  - barcode: "0001"
  - barcode: ""
products:
  - index: 0
    code: "750100"
    pallet_number: "2"
  - description: Producto B
    code: "750200"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	form, err := LoadYAML(path)
	require.NoError(t, err)

	assert.Equal(t, types.Consolidated, form.AddendaType())
	assert.Equal(t, "C-9", form.GlobalData().AppointmentID)
	assert.Equal(t, []types.Pallet{{Number: "1", Barcode: "0001"}, {Number: "2", Barcode: ""}}, form.Pallets())

	products := form.Products(lineItems())
	require.Len(t, products, 2)
	assert.Equal(t, "750100", products[0].Code)
	assert.Equal(t, "2", products[0].PalletNumber)
	assert.Equal(t, "750200", products[1].Code)
}

func TestLoadYAML_Errors(t *testing.T) {
	_, err := LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("global: [unclosed"), 0644))
	_, err = LoadYAML(path)
	assert.Error(t, err)
}

func TestLoadYAML_MissingTypeStaysEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	require.NoError(t, os.WriteFile(path, []byte("global:\n  supplier_code: \"1\"\n"), 0644))

	form, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, types.AddendaType(""), form.Type)
}

func TestWriteYAMLTemplate_RoundTrip(t *testing.T) {
	model := types.InvoiceModel{
		Comprobante: types.Comprobante{Series: "A", Folio: "123"},
		LineItems:   lineItems(),
	}
	path := filepath.Join(t.TempDir(), "template.yaml")

	require.NoError(t, WriteYAMLTemplate(path, model, types.Consolidated))

	form, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, types.Consolidated, form.Type)
	assert.Equal(t, 1, form.PalletList.Len())
	require.Len(t, form.Entries, 3)
	require.NotNil(t, form.Entries[2].Index)
	assert.Equal(t, 3, *form.Entries[2].Index)
	assert.Equal(t, "Producto C", form.Entries[2].Description)
	assert.Equal(t, DefaultPalletNumber, form.Entries[2].PalletNumber)

	// Nothing is coded yet.
	assert.Empty(t, form.Products(model.LineItems))
}

func TestXLSXTemplate_FillAndLoad(t *testing.T) {
	model := types.InvoiceModel{LineItems: lineItems()}
	path := filepath.Join(t.TempDir(), "form.xlsx")

	require.NoError(t, WriteXLSXTemplate(path, model, types.Consolidated))

	// Fill the workbook the way a user would.
	x, err := excelize.OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, x.SetCellValue(sheetGlobal, "B3", "999"))      // proveedor
	require.NoError(t, x.SetCellValue(sheetGlobal, "B6", "CITA-1"))   // cita
	require.NoError(t, x.SetCellValue(sheetPallets, "B2", "SSCC-01")) // tarima 1
	require.NoError(t, x.SetSheetRow(sheetPallets, "A3", &[]interface{}{2, "SSCC-02"}))
	require.NoError(t, x.SetCellValue(sheetProducts, "D3", "SKU-B")) // Producto B
	require.NoError(t, x.SetCellValue(sheetProducts, "E3", "2"))
	require.NoError(t, x.SaveAs(path))
	require.NoError(t, x.Close())

	form, err := LoadXLSX(path)
	require.NoError(t, err)

	assert.Equal(t, types.Consolidated, form.Type)
	assert.Equal(t, "999", form.GlobalData().SupplierCode)
	assert.Equal(t, "CITA-1", form.GlobalData().AppointmentID)
	assert.Equal(t, []types.Pallet{{Number: "1", Barcode: "SSCC-01"}, {Number: "2", Barcode: "SSCC-02"}}, form.Pallets())

	products := form.Products(model.LineItems)
	require.Len(t, products, 1)
	assert.Equal(t, "Producto B", products[0].Description)
	assert.Equal(t, "SKU-B", products[0].Code)
	assert.Equal(t, "2", products[0].PalletNumber)
}

func TestXLSXTemplate_CodeColumnsAreText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.xlsx")
	require.NoError(t, WriteXLSXTemplate(path, types.InvoiceModel{LineItems: lineItems()}, types.Consolidated))

	x, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer x.Close()

	for sheet, col := range map[string]string{sheetGlobal: "B", sheetPallets: "B", sheetProducts: "D"} {
		id, err := x.GetColStyle(sheet, col)
		require.NoError(t, err)
		style, err := x.GetStyle(id)
		require.NoError(t, err)
		assert.Equal(t, 49, style.NumFmt, "%s!%s", sheet, col)
	}
}

// fillXLSX writes the template, lets fill edit it and returns the path.
func fillXLSX(t *testing.T, fill func(x *excelize.File)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "form.xlsx")
	require.NoError(t, WriteXLSXTemplate(path, types.InvoiceModel{LineItems: lineItems()}, types.Consolidated))

	x, err := excelize.OpenFile(path)
	require.NoError(t, err)
	fill(x)
	require.NoError(t, x.SaveAs(path))
	require.NoError(t, x.Close())
	return path
}

func TestLoadXLSX_NumericCodesKeepDigits(t *testing.T) {
	path := fillXLSX(t, func(x *excelize.File) {
		require.NoError(t, x.SetCellValue(sheetPallets, "B2", int64(123456789012345678))) // SSCC
		require.NoError(t, x.SetCellValue(sheetProducts, "D2", int64(7501234567890)))     // EAN-13
	})

	form, err := LoadXLSX(path)
	require.NoError(t, err)

	assert.Equal(t, []types.Pallet{{Number: "1", Barcode: "123456789012345678"}}, form.Pallets())
	products := form.Products(lineItems())
	require.Len(t, products, 1)
	assert.Equal(t, "7501234567890", products[0].Code)
}

func TestLoadXLSX_RejectsCodesWithLostDigits(t *testing.T) {
	tests := []struct {
		name  string
		sheet string
		axis  string
	}{
		{"pallet barcode", sheetPallets, "B2"},
		{"product code", sheetProducts, "D3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := fillXLSX(t, func(x *excelize.File) {
				require.NoError(t, x.SetCellValue(tt.sheet, tt.axis, "1.23456789012346E+17"))
			})

			_, err := LoadXLSX(path)
			assert.ErrorContains(t, err, "sheet "+tt.sheet+" cell "+tt.axis)
		})
	}
}

func TestLoadXLSX_MissingGlobalSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	x := excelize.NewFile()
	require.NoError(t, x.SaveAs(path))
	require.NoError(t, x.Close())

	_, err := LoadXLSX(path)
	assert.Error(t, err)
}
