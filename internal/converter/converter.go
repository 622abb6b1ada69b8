// =============================================================================
// Addenda Generator - Converter Module
// =============================================================================
//
// This module orchestrates the pipeline for one invoice at a time.
//
// LOAD:
//   1. Reset the session
//   2. Read the CFDI file (ReadError on failure)
//   3. Extract the InvoiceModel (ParseError on failure)
//   4. Store the model in the session
//   A failed load leaves the session empty.
//
// GENERATE:
//   1. Refuse with ErrNotLoaded when nothing is loaded
//   2. Collect global data, pallets and coded products from the form
//   3. Validate; any message blocks generation and is returned, not raised
//   4. Build the addenda XML
//
// WRITE:
//   The generated text goes to stdout, a directory (named by the configured
//   output file format) or an exact path.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/soriana-addenda/addenda-generator/internal/cfdiparser"
	"github.com/soriana-addenda/addenda-generator/internal/config"
	"github.com/soriana-addenda/addenda-generator/internal/forms"
	"github.com/soriana-addenda/addenda-generator/internal/session"
	"github.com/soriana-addenda/addenda-generator/internal/types"
	"github.com/soriana-addenda/addenda-generator/internal/validation"
	"github.com/soriana-addenda/addenda-generator/internal/xmlwriter"
	"github.com/soriana-addenda/addenda-generator/pkg/utils"
)

// StdoutTarget as an output destination writes to the given writer.
const StdoutTarget = "-"

// =============================================================================
// ERRORS
// =============================================================================

// ErrNotLoaded is returned when generation is attempted before a CFDI was
// loaded successfully.
var ErrNotLoaded = errors.New("no CFDI loaded: load a valid XML file first")

// ReadError reports a CFDI file that could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one generation attempt.
type Result struct {
	// Success is false when validation blocked generation.
	Success bool

	// AddendaType is the shape that was validated and built.
	AddendaType types.AddendaType

	// Remision identifies the invoice ("A-123").
	Remision string

	// XML is the generated addenda. Empty when blocked.
	XML string

	// Errors holds the validation messages, global -> pallets -> products.
	Errors []string

	// ErrorLogFile is set when a blocked attempt was written to a log file.
	ErrorLogFile string

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about a generation attempt.
type ProcessingStats struct {
	// LineItems is the number of invoice line items after merging.
	LineItems int

	// CodedProducts is the number of line items the form gave a code.
	CodedProducts int

	// Pallets is the number of pallets on the form.
	Pallets int

	// ProcessingTime is the time taken to validate and build.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the load and generate steps against one session.
type Converter struct {
	cfg     *config.Config
	session *session.Session
	logger  *slog.Logger

	// sourcePath is the last file passed to Load.
	sourcePath string
}

// New creates a Converter. A nil session or logger gets a fresh session or
// the default slog logger.
func New(cfg *config.Config, sess *session.Session, logger *slog.Logger) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	if sess == nil {
		sess = session.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{
		cfg:     cfg,
		session: sess,
		logger:  logger,
	}
}

// Session returns the session the converter works on.
func (c *Converter) Session() *session.Session {
	return c.session
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads and extracts the CFDI at path.
//
// RETURNS:
//   - A *ReadError if the file cannot be read.
//   - A *cfdiparser.ParseError if it is not a usable CFDI.
//
// The session is reset before reading and stays reset on any failure.
func (c *Converter) Load(path string) error {
	c.session.Reset()
	c.sourcePath = path

	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Error("failed to read CFDI", "path", path, "error", err)
		return &ReadError{Path: path, Err: err}
	}

	return c.load(string(data))
}

// LoadText extracts a CFDI that is already in memory.
func (c *Converter) LoadText(text string) error {
	c.session.Reset()
	c.sourcePath = ""
	return c.load(text)
}

func (c *Converter) load(text string) error {
	model, err := cfdiparser.Extract(text)
	if err != nil {
		c.session.Reset()
		c.logger.Error("failed to parse CFDI", "path", c.sourcePath, "error", err)
		return err
	}

	c.session.SetModel(model)
	c.logger.Info("CFDI loaded",
		"path", c.sourcePath,
		"remision", model.Comprobante.Series+"-"+model.Comprobante.Folio,
		"line_items", len(model.LineItems),
	)
	return nil
}

// Model returns the loaded invoice, or ErrNotLoaded.
func (c *Converter) Model() (types.InvoiceModel, error) {
	if !c.session.IsLoaded() {
		return types.InvoiceModel{}, ErrNotLoaded
	}
	return c.session.Model(), nil
}

// =============================================================================
// GENERATE
// =============================================================================

// Generate validates the form against the loaded invoice and builds the
// addenda.
//
// RETURNS:
//   - ErrNotLoaded before any validation when nothing is loaded.
//   - A Result with Success false and the messages when validation fails.
//   - A Result with the XML otherwise.
func (c *Converter) Generate(src forms.Source) (*Result, error) {
	model, err := c.Model()
	if err != nil {
		return nil, err
	}
	start := time.Now()

	addendaType := src.AddendaType()
	if addendaType == "" {
		addendaType = c.cfg.AddendaType()
		if d, ok := src.(forms.TypeDefaulter); ok {
			d.DefaultType(addendaType)
		}
	}

	// Recomputed on every attempt from the current form contents.
	global := src.GlobalData()
	pallets := src.Pallets()
	products := src.Products(model.LineItems)

	in := xmlwriter.Input{
		Model:    model,
		Global:   global,
		Pallets:  pallets,
		Products: products,
	}
	result := &Result{
		AddendaType: addendaType,
		Remision:    in.Remision(),
		Stats: ProcessingStats{
			LineItems:     len(model.LineItems),
			CodedProducts: len(products),
			Pallets:       len(pallets),
		},
	}
	c.logger.Debug("form collected",
		"type", addendaType,
		"line_items", result.Stats.LineItems,
		"coded_products", result.Stats.CodedProducts,
		"pallets", result.Stats.Pallets,
	)

	check := validation.ValidateAll(global, pallets, products, addendaType)
	if !check.Valid {
		for _, msg := range check.Errors {
			c.logger.Warn("validation error", "remision", result.Remision, "message", msg)
		}
		result.Errors = check.Errors
		result.Stats.ProcessingTime = time.Since(start)

		if c.cfg.WriteErrorLog {
			c.writeErrorLog(result)
		}
		return result, nil
	}

	options := xmlwriter.DefaultOptions()
	options.EscapeText = !c.cfg.LegacyUnescapedText
	if !options.EscapeText {
		c.logger.Debug("writing text unescaped (legacy mode)")
	}

	result.XML = xmlwriter.BuildWithOptions(in, addendaType, options)
	result.Errors = []string{}
	result.Success = true
	result.Stats.ProcessingTime = time.Since(start)

	c.logger.Info("addenda generated", "remision", result.Remision, "type", addendaType)
	return result, nil
}

// writeErrorLog records a blocked attempt. Failures are logged only; the
// validation messages are already in the result.
func (c *Converter) writeErrorLog(result *Result) {
	now := time.Now()
	entries := make([]utils.ErrorLogEntry, 0, len(result.Errors))
	for _, msg := range result.Errors {
		entries = append(entries, utils.ErrorLogEntry{
			Timestamp: now,
			FileName:  filepath.Base(c.sourcePath),
			Remision:  result.Remision,
			Message:   msg,
		})
	}

	path, err := utils.WriteErrorLog(entries, c.cfg.OutputDir)
	if err != nil {
		c.logger.Warn("failed to write error log", "error", err)
		return
	}
	result.ErrorLogFile = path
	c.logger.Info("error log written", "path", path)
}

// =============================================================================
// WRITE
// =============================================================================

// WriteOutput writes a successful result.
//
// PARAMETERS:
//   - result: A result with Success true.
//   - dest: StdoutTarget, a directory, a file path, or "" for the
//     configured output directory.
//   - stdout: Where StdoutTarget writes.
//
// RETURNS:
//   - The path written (StdoutTarget for stdout).
func (c *Converter) WriteOutput(result *Result, dest string, stdout io.Writer) (string, error) {
	if result == nil || !result.Success {
		return "", errors.New("nothing to write: generation did not succeed")
	}

	if dest == StdoutTarget {
		if _, err := io.WriteString(stdout, result.XML+"\n"); err != nil {
			return "", fmt.Errorf("failed to write output: %w", err)
		}
		return StdoutTarget, nil
	}

	dir, name := dest, ""
	switch {
	case dest == "":
		dir = c.cfg.OutputDir
	case utils.IsDir(dest):
	default:
		dir, name = filepath.Dir(dest), filepath.Base(dest)
	}
	if name == "" {
		name = utils.GenerateOutputFileName(c.cfg.OutputFileFormat, map[string]string{
			"remision": result.Remision,
		})
	}

	path, err := utils.WriteOutputFile(dir, name, []byte(result.XML+"\n"))
	if err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}

	c.logger.Info("wrote output", "path", path)
	return path, nil
}
