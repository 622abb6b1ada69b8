// Package session holds the invoice currently loaded into the generator.
//
// A Session is owned by whoever drives the pipeline (the converter, a CLI
// command, a test) and is passed around explicitly. It is either empty or
// holds exactly one successfully extracted InvoiceModel.
package session

import (
	"sync"

	"github.com/soriana-addenda/addenda-generator/internal/types"
)

// Session is the current-invoice store. The zero value is an empty,
// not-loaded session ready to use.
type Session struct {
	mu     sync.RWMutex
	model  types.InvoiceModel
	loaded bool
}

// New returns an empty session.
func New() *Session {
	s := &Session{}
	s.Reset()
	return s
}

// SetModel replaces the stored model wholesale and marks the session loaded.
func (s *Session) SetModel(model types.InvoiceModel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.model = cloneModel(model)
	s.loaded = true
}

// Reset empties the session. Call it before surfacing any load failure.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.model = types.InvoiceModel{LineItems: []types.LineItem{}}
	s.loaded = false
}

// Model returns a copy of the stored model. Mutating the copy does not
// affect the session.
func (s *Session) Model() types.InvoiceModel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneModel(s.model)
}

// IsLoaded reports whether a successful extraction happened since the last
// Reset.
func (s *Session) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loaded
}

func cloneModel(m types.InvoiceModel) types.InvoiceModel {
	items := make([]types.LineItem, len(m.LineItems))
	copy(items, m.LineItems)
	m.LineItems = items
	return m
}
