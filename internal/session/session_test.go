package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soriana-addenda/addenda-generator/internal/types"
)

func sampleModel() types.InvoiceModel {
	return types.InvoiceModel{
		Comprobante: types.Comprobante{Series: "A", Folio: "1"},
		Taxes:       types.Taxes{IvaRate: "16.00"},
		LineItems: []types.LineItem{
			{Index: 0, Description: "Uno", Quantity: "1.00"},
		},
	}
}

func TestNew_IsEmpty(t *testing.T) {
	s := New()

	assert.False(t, s.IsLoaded())
	m := s.Model()
	assert.Equal(t, types.Comprobante{}, m.Comprobante)
	assert.Equal(t, types.Taxes{}, m.Taxes)
	assert.NotNil(t, m.LineItems)
	assert.Empty(t, m.LineItems)
}

func TestZeroValue_IsNotLoaded(t *testing.T) {
	var s Session
	assert.False(t, s.IsLoaded())
	assert.Empty(t, s.Model().LineItems)
}

func TestSetModel_ThenReset(t *testing.T) {
	s := New()

	s.SetModel(sampleModel())
	require.True(t, s.IsLoaded())
	assert.Equal(t, "A", s.Model().Comprobante.Series)

	s.Reset()
	assert.False(t, s.IsLoaded())
	assert.Empty(t, s.Model().LineItems)
	assert.Equal(t, "", s.Model().Comprobante.Folio)
}

func TestSetModel_ReplacesWholesale(t *testing.T) {
	s := New()
	s.SetModel(sampleModel())

	s.SetModel(types.InvoiceModel{Comprobante: types.Comprobante{Folio: "2"}})

	m := s.Model()
	assert.Equal(t, "2", m.Comprobante.Folio)
	assert.Equal(t, "", m.Comprobante.Series)
	assert.Empty(t, m.LineItems)
	assert.Equal(t, "", m.Taxes.IvaRate)
}

func TestModel_ReturnsCopy(t *testing.T) {
	s := New()
	in := sampleModel()
	s.SetModel(in)

	in.LineItems[0].Quantity = "99.00"
	out := s.Model()
	out.LineItems[0].Description = "changed"

	assert.Equal(t, "1.00", s.Model().LineItems[0].Quantity)
	assert.Equal(t, "Uno", s.Model().LineItems[0].Description)
}
