// =============================================================================
// Addenda Generator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Addenda Generator CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   addenda generate   - Build the addenda for an invoice and a filled-in form
//   addenda validate   - Check a form without generating
//   addenda inspect    - Show the data extracted from an invoice
//   addenda form       - Write a blank form for an invoice
//   addenda theme      - Show or change the presentation preference
//   addenda version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : Cobra command definitions
//   - internal/  : Extraction, forms, validation, XML building, pipeline
//   - pkg/       : Shared formatting and file utilities
//
// =============================================================================

package main

import (
	"github.com/soriana-addenda/addenda-generator/cmd"
)

func main() {
	cmd.Execute()
}
