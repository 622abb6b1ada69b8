package cfdiparser

import (
	"encoding/xml"
	"errors"
	"fmt"
)

// Messages carried by ParseError.
const (
	msgInvalidXML = "invalid XML"
	msgNotCFDI    = "not a CFDI 4.0 document"
)

// Document shape failures the decoder itself lets through.
var (
	errNoRoot    = errors.New("no root element")
	errManyRoots = errors.New("more than one root element")
)

// ParseError reports a document that is not well-formed XML or has no
// Comprobante element.
type ParseError struct {
	Msg  string
	Line int   // 0 when unknown
	Err  error // underlying decoder error, if any
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("cfdi: %s at line %d: %v", e.Msg, e.Line, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("cfdi: %s: %v", e.Msg, e.Err)
	}
	return "cfdi: " + e.Msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// wrapSyntax turns a decoder failure into a ParseError, keeping the line
// number when encoding/xml reported one.
func wrapSyntax(err error) error {
	if err == nil {
		return nil
	}

	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}

	var se *xml.SyntaxError
	if errors.As(err, &se) {
		return &ParseError{Msg: msgInvalidXML, Line: se.Line, Err: err}
	}

	return &ParseError{Msg: msgInvalidXML, Err: err}
}
