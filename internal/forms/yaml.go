package forms

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/soriana-addenda/addenda-generator/internal/types"
)

// formFile is the on-disk YAML layout of a form.
//
//	addenda_type: Consolidada
//	global:
//	  supplier_code: "12345"
//	  ...
//	pallets:
//	  - barcode: "000123456789012345"
//	products:
//	  - index: 0
//	    description: Producto A
//	    code: "7501234567890"
//	    pallet_number: "1"
type formFile struct {
	AddendaType string         `yaml:"addenda_type"`
	Global      GlobalFields   `yaml:"global"`
	Pallets     []palletEntry  `yaml:"pallets"`
	Products    []ProductEntry `yaml:"products"`
}

type palletEntry struct {
	Barcode string `yaml:"barcode"`
}

// LoadYAML reads a form from a YAML file. An absent addenda_type leaves
// Form.Type empty so the caller can apply its default.
func LoadYAML(path string) (*Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form file: %w", err)
	}

	var ff formFile
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("failed to parse form file %s: %w", path, err)
	}

	form := &Form{
		Global:  ff.Global,
		Entries: ff.Products,
	}
	if t := strings.TrimSpace(ff.AddendaType); t != "" {
		form.Type = types.ParseAddendaType(t)
	}
	for _, p := range ff.Pallets {
		form.PalletList.Add(p.Barcode)
	}

	return form, nil
}

// WriteYAMLTemplate writes a blank form for model: every line item listed
// with an empty code, plus one empty pallet.
func WriteYAMLTemplate(path string, model types.InvoiceModel, t types.AddendaType) error {
	ff := formFile{
		AddendaType: string(t),
		Pallets:     []palletEntry{{}},
		Products:    templateEntries(model.LineItems, t),
	}

	data, err := yaml.Marshal(&ff)
	if err != nil {
		return fmt.Errorf("failed to encode form template: %w", err)
	}

	header := fmt.Sprintf("# Addenda Soriana - remision %s-%s\n", model.Comprobante.Series, model.Comprobante.Folio)
	if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("failed to write form template: %w", err)
	}
	return nil
}

// templateEntries lists every line item with a blank code.
func templateEntries(items []types.LineItem, t types.AddendaType) []ProductEntry {
	entries := make([]ProductEntry, 0, len(items))
	for _, item := range items {
		index := item.Index
		entry := ProductEntry{
			Index:       &index,
			Description: item.Description,
			Quantity:    item.Quantity,
		}
		if t.IsConsolidated() {
			entry.PalletNumber = DefaultPalletNumber
		}
		entries = append(entries, entry)
	}
	return entries
}
