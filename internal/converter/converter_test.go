package converter

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soriana-addenda/addenda-generator/internal/cfdiparser"
	"github.com/soriana-addenda/addenda-generator/internal/config"
	"github.com/soriana-addenda/addenda-generator/internal/forms"
	"github.com/soriana-addenda/addenda-generator/internal/logging"
	"github.com/soriana-addenda/addenda-generator/internal/session"
	"github.com/soriana-addenda/addenda-generator/internal/types"
	"github.com/soriana-addenda/addenda-generator/internal/validation"
)

const testCFDI = `<?xml version="1.0" encoding="UTF-8"?>
<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/4" Version="4.0"
    Serie="A" Folio="123" Fecha="2024-03-15T10:30:00" SubTotal="40" Total="46.40" Moneda="MXN">
  <cfdi:Conceptos>
    <cfdi:Concepto Descripcion="Jabon &amp; Cia" Cantidad="2" ValorUnitario="10" Importe="20"/>
    <cfdi:Concepto Descripcion="Cloro" Cantidad="4" ValorUnitario="5" Importe="20"/>
  </cfdi:Conceptos>
  <cfdi:Impuestos>
    <cfdi:Traslados>
      <cfdi:Traslado Impuesto="002" TasaOCuota="0.160000" Importe="6.40"/>
    </cfdi:Traslados>
  </cfdi:Impuestos>
</cfdi:Comprobante>`

func newTestConverter(t *testing.T) (*Converter, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	return New(cfg, session.New(), logging.Discard()), cfg
}

func writeCFDI(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "factura.xml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func completeForm() *forms.Form {
	form := forms.NewForm(types.Consolidated)
	form.Global = forms.GlobalFields{
		SupplierCode:     " 12345 ",
		StoreCode:        "678",
		DeliveryLocation: "Bodega & Sur",
		AppointmentID:    "CITA-9",
		BultosCount:      "3",
		OrderFolio:       "P-100",
		DeliveryDate:     "2024-03-20",
	}
	form.PalletList.Add("SSCC-1")
	form.Entries = []forms.ProductEntry{
		{Description: "Jabon & Cia", Code: "SKU-1"},
		{Description: "Cloro", Code: "SKU-2", PalletNumber: "1"},
	}
	return form
}

func TestLoad_StoresModel(t *testing.T) {
	c, _ := newTestConverter(t)

	require.NoError(t, c.Load(writeCFDI(t, testCFDI)))
	assert.True(t, c.Session().IsLoaded())

	model, err := c.Model()
	require.NoError(t, err)
	assert.Equal(t, "123", model.Comprobante.Folio)
	assert.Len(t, model.LineItems, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	c, _ := newTestConverter(t)
	require.NoError(t, c.LoadText(testCFDI))

	err := c.Load(filepath.Join(t.TempDir(), "nope.xml"))

	var re *ReadError
	require.True(t, errors.As(err, &re))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, c.Session().IsLoaded(), "a failed load must leave the session empty")
}

func TestLoad_InvalidXMLResetsSession(t *testing.T) {
	c, _ := newTestConverter(t)
	require.NoError(t, c.LoadText(testCFDI))

	err := c.Load(writeCFDI(t, "<Comprobante"))

	var pe *cfdiparser.ParseError
	require.True(t, errors.As(err, &pe))
	assert.False(t, c.Session().IsLoaded())

	_, err = c.Model()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestGenerate_NotLoaded(t *testing.T) {
	c, _ := newTestConverter(t)

	result, err := c.Generate(completeForm())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestGenerate_Success(t *testing.T) {
	c, _ := newTestConverter(t)
	require.NoError(t, c.LoadText(testCFDI))

	result, err := c.Generate(completeForm())
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.Equal(t, types.Consolidated, result.AddendaType)
	assert.Equal(t, "A-123", result.Remision)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.Stats.LineItems)
	assert.Equal(t, 2, result.Stats.CodedProducts)
	assert.Equal(t, 1, result.Stats.Pallets)

	assert.Contains(t, result.XML, "<Proveedor>12345</Proveedor>")
	assert.Contains(t, result.XML, "<Remision>A-123</Remision>")
	assert.Contains(t, result.XML, "<Cita>CITA-9</Cita>")
	assert.Contains(t, result.XML, "<Codigo>SKU-1</Codigo>")
	assert.Contains(t, result.XML, "<EntregaMercancia>Bodega &amp; Sur</EntregaMercancia>")
}

func TestGenerate_LegacyUnescaped(t *testing.T) {
	c, cfg := newTestConverter(t)
	cfg.LegacyUnescapedText = true
	require.NoError(t, c.LoadText(testCFDI))

	result, err := c.Generate(completeForm())
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Contains(t, result.XML, "<EntregaMercancia>Bodega & Sur</EntregaMercancia>")
}

func TestGenerate_ValidationBlocks(t *testing.T) {
	c, cfg := newTestConverter(t)
	require.NoError(t, c.LoadText(testCFDI))

	form := completeForm()
	form.Global.SupplierCode = "  "
	form.PalletList.Clear()

	result, err := c.Generate(form)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.XML)
	assert.Equal(t, []string{validation.MsgSupplierRequired, validation.MsgNoPallets}, result.Errors)
	assert.Empty(t, result.ErrorLogFile)

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerate_ValidationWritesErrorLog(t *testing.T) {
	c, cfg := newTestConverter(t)
	cfg.WriteErrorLog = true
	require.NoError(t, c.Load(writeCFDI(t, testCFDI)))

	form := completeForm()
	form.Entries = nil

	result, err := c.Generate(form)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.NotEmpty(t, result.ErrorLogFile)

	data, err := os.ReadFile(result.ErrorLogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), validation.MsgNoProducts)
	assert.Contains(t, string(data), "factura.xml")
}

func TestGenerate_DefaultTypeFromConfig(t *testing.T) {
	c, cfg := newTestConverter(t)
	cfg.DefaultAddendaType = string(types.DeliveryNote)
	require.NoError(t, c.LoadText(testCFDI))

	form := completeForm()
	form.Type = ""
	form.Global.IncomingNoteFolio = "NE-7"

	result, err := c.Generate(form)
	require.NoError(t, err)
	require.True(t, result.Success, "errors: %v", result.Errors)
	assert.Equal(t, types.DeliveryNote, result.AddendaType)
	assert.Contains(t, result.XML, "<FolioNotaEntrada>NE-7</FolioNotaEntrada>")
	assert.NotContains(t, result.XML, "<Cita>")
}

func TestGenerate_UnsetTypeKeepsConsolidatedFields(t *testing.T) {
	c, _ := newTestConverter(t)
	require.NoError(t, c.LoadText(testCFDI))

	form := completeForm()
	form.Type = ""

	result, err := c.Generate(form)
	require.NoError(t, err)
	require.True(t, result.Success, "errors: %v", result.Errors)
	assert.Equal(t, types.Consolidated, form.Type)
	assert.Contains(t, result.XML, "<Cita>CITA-9</Cita>")
}

func TestGenerate_RecomputesEachAttempt(t *testing.T) {
	c, _ := newTestConverter(t)
	require.NoError(t, c.LoadText(testCFDI))

	form := completeForm()
	form.Global.OrderFolio = ""

	first, err := c.Generate(form)
	require.NoError(t, err)
	assert.False(t, first.Success)

	form.Global.OrderFolio = "P-200"
	second, err := c.Generate(form)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Contains(t, second.XML, "P-200")
}

func TestWriteOutput_Targets(t *testing.T) {
	c, cfg := newTestConverter(t)
	require.NoError(t, c.LoadText(testCFDI))

	result, err := c.Generate(completeForm())
	require.NoError(t, err)
	require.True(t, result.Success)

	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		path, err := c.WriteOutput(result, StdoutTarget, &buf)
		require.NoError(t, err)
		assert.Equal(t, StdoutTarget, path)
		assert.Equal(t, result.XML+"\n", buf.String())
	})

	t.Run("configured directory", func(t *testing.T) {
		path, err := c.WriteOutput(result, "", nil)
		require.NoError(t, err)
		assert.Equal(t, cfg.OutputDir, filepath.Dir(path))
		assert.True(t, strings.HasPrefix(filepath.Base(path), "addenda_A-123_"))
		assert.True(t, strings.HasSuffix(path, ".xml"))
	})

	t.Run("explicit directory", func(t *testing.T) {
		dir := t.TempDir()
		path, err := c.WriteOutput(result, dir, nil)
		require.NoError(t, err)
		assert.Equal(t, dir, filepath.Dir(path))
	})

	t.Run("exact path", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "sub", "salida.xml")
		path, err := c.WriteOutput(result, target, nil)
		require.NoError(t, err)
		assert.Equal(t, target, path)

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, result.XML+"\n", string(data))
	})
}

func TestWriteOutput_RejectsBlocked(t *testing.T) {
	c, _ := newTestConverter(t)

	_, err := c.WriteOutput(&Result{Success: false}, StdoutTarget, &bytes.Buffer{})
	assert.Error(t, err)
}
