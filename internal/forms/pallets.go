package forms

import (
	"strconv"
	"strings"

	"github.com/soriana-addenda/addenda-generator/internal/types"
)

// PalletList is the ordered list of tarimas on a form. Pallet numbers are
// always contiguous 1..N in entry order.
type PalletList struct {
	barcodes []string
}

// Add appends a pallet and returns it with its assigned number.
func (l *PalletList) Add(barcode string) types.Pallet {
	l.barcodes = append(l.barcodes, barcode)
	return types.Pallet{
		Number:  strconv.Itoa(len(l.barcodes)),
		Barcode: barcode,
	}
}

// Remove deletes pallet number n. The pallets after it move up one number
// and keep their barcodes. Returns false when n is out of range.
func (l *PalletList) Remove(n int) bool {
	if n < 1 || n > len(l.barcodes) {
		return false
	}
	l.barcodes = append(l.barcodes[:n-1], l.barcodes[n:]...)
	return true
}

// SetBarcode replaces the barcode of pallet number n.
func (l *PalletList) SetBarcode(n int, barcode string) bool {
	if n < 1 || n > len(l.barcodes) {
		return false
	}
	l.barcodes[n-1] = barcode
	return true
}

// Clear removes every pallet; the next Add is number 1 again.
func (l *PalletList) Clear() {
	l.barcodes = nil
}

// Len returns the number of pallets.
func (l *PalletList) Len() int {
	return len(l.barcodes)
}

// Items returns the pallets with their current numbers and trimmed
// barcodes. Blank barcodes are kept so validation can point at them.
func (l *PalletList) Items() []types.Pallet {
	out := make([]types.Pallet, 0, len(l.barcodes))
	for i, b := range l.barcodes {
		out = append(out, types.Pallet{
			Number:  strconv.Itoa(i + 1),
			Barcode: strings.TrimSpace(b),
		})
	}
	return out
}
