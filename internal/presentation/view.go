// Package presentation derives interactive bill-list UI state.
//
// A View is an ephemeral projection of one rendered message: the bill set
// shown to the viewer plus the current selection. Transitions are pure
// functions from (view, event) to the next view; nothing here touches
// storage or blocks. The Presenter wires views to the settlement engine.
package presentation

import (
	"fmt"
	"time"

	"github.com/okanebot/okane/internal/models"
)

// View is the state of one rendered bill list: Listing when SelectedID
// is zero, Selected(bill) otherwise.
type View struct {
	CommunityID string
	DebtorID    string
	Bills       []models.Bill

	// SelectedID is the bill currently picked in the selector, or 0.
	SelectedID int64
}

// NewView returns a Listing-state view over the debtor's bills.
func NewView(communityID, debtorID string, bills []models.Bill) View {
	return View{
		CommunityID: communityID,
		DebtorID:    debtorID,
		Bills:       bills,
	}
}

// Pick returns the view with billID selected. Picking an ID that is not
// in the bill set (a stale selection) clears the selection. Pick is pure
// and idempotent: repeated picks of the same ID yield the same view.
func (v View) Pick(billID int64) View {
	next := v
	next.SelectedID = 0
	for _, bill := range v.Bills {
		if bill.ID == billID {
			next.SelectedID = billID
			break
		}
	}
	return next
}

// Deselect returns the view back in Listing state.
func (v View) Deselect() View {
	next := v
	next.SelectedID = 0
	return next
}

// Total is the sum of all listed bill amounts.
func (v View) Total() int64 {
	var total int64
	for _, bill := range v.Bills {
		total += bill.Amount
	}
	return total
}

// Entry is one selectable row in the bill selector.
type Entry struct {
	BillID int64

	// Label describes the bill: claimant and amount, plus the deadline
	// when the claimant set one.
	Label string

	// Default marks the entry currently picked.
	Default bool
}

// Affordances is the full renderable component state derived from a view.
type Affordances struct {
	Entries []Entry

	// SelectedID is the bill the pay-selected button is bound to, or 0.
	SelectedID int64

	// PaySelectedEnabled is true only while a bill is selected.
	PaySelectedEnabled bool

	// PayAllEnabled is true while any bill is outstanding.
	PayAllEnabled bool
}

// Affordances recomputes the component state from the bill set and the
// current selection. The derivation is pure: the same view always yields
// the same affordances.
func (v View) Affordances() Affordances {
	entries := make([]Entry, len(v.Bills))
	for i, bill := range v.Bills {
		entries[i] = Entry{
			BillID:  bill.ID,
			Label:   billLabel(bill),
			Default: bill.ID == v.SelectedID,
		}
	}
	return Affordances{
		Entries:            entries,
		SelectedID:         v.SelectedID,
		PaySelectedEnabled: v.SelectedID != 0,
		PayAllEnabled:      len(v.Bills) > 0,
	}
}

func billLabel(bill models.Bill) string {
	label := fmt.Sprintf("#%d: %d VTD to %s", bill.ID, bill.Amount, bill.ClaimantID)
	if bill.Deadline > 0 {
		label += fmt.Sprintf(" (due %s)", time.Unix(bill.Deadline, 0).UTC().Format("Jan 2, 2006"))
	}
	return label
}
