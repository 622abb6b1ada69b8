package forms

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/soriana-addenda/addenda-generator/internal/types"
)

// Load reads a form, choosing the reader by file extension.
func Load(path string) (*Form, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".xlsx":
		return LoadXLSX(path)
	}
	return nil, fmt.Errorf("unsupported form file %s: expected .yaml, .yml or .xlsx", path)
}

// WriteTemplate writes a blank form for model, choosing the format by file
// extension.
func WriteTemplate(path string, model types.InvoiceModel, t types.AddendaType) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return WriteYAMLTemplate(path, model, t)
	case ".xlsx":
		return WriteXLSXTemplate(path, model, t)
	}
	return fmt.Errorf("unsupported form file %s: expected .yaml, .yml or .xlsx", path)
}
