package forms

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soriana-addenda/addenda-generator/internal/types"
)

func TestLoad_DispatchesByExtension(t *testing.T) {
	model := types.InvoiceModel{LineItems: lineItems()}
	dir := t.TempDir()

	for _, name := range []string{"form.yaml", "form.YML", "form.xlsx"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, WriteTemplate(path, model, types.Consolidated))

			form, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, types.Consolidated, form.Type)
			assert.Len(t, form.Entries, len(model.LineItems))
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "form.csv"))
	assert.ErrorContains(t, err, "unsupported form file")

	err = WriteTemplate(filepath.Join(t.TempDir(), "form.txt"), types.InvoiceModel{}, types.Consolidated)
	assert.ErrorContains(t, err, "unsupported form file")
}
