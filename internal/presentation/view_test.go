package presentation

import (
	"reflect"
	"strings"
	"testing"

	"github.com/okanebot/okane/internal/models"
)

func testBills() []models.Bill {
	return []models.Bill{
		{ID: 1, CommunityID: "g1", ClaimantID: "alice", DebtorID: "bob", Amount: 30},
		{ID: 2, CommunityID: "g1", ClaimantID: "carol", DebtorID: "bob", Amount: 70, Deadline: 1735689600},
	}
}

func TestListingAffordances(t *testing.T) {
	view := NewView("g1", "bob", testBills())
	aff := view.Affordances()

	if len(aff.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(aff.Entries))
	}
	if aff.PaySelectedEnabled {
		t.Error("pay-selected should be disabled with no selection")
	}
	if !aff.PayAllEnabled {
		t.Error("pay-all should be enabled while bills are outstanding")
	}
	for _, entry := range aff.Entries {
		if entry.Default {
			t.Errorf("entry %d marked default with no selection", entry.BillID)
		}
	}

	if !strings.Contains(aff.Entries[0].Label, "30 VTD") || !strings.Contains(aff.Entries[0].Label, "alice") {
		t.Errorf("label %q should name the amount and claimant", aff.Entries[0].Label)
	}
	if !strings.Contains(aff.Entries[1].Label, "due") {
		t.Errorf("label %q should mention the deadline", aff.Entries[1].Label)
	}
	if strings.Contains(aff.Entries[0].Label, "due") {
		t.Errorf("label %q should not mention a deadline that was never set", aff.Entries[0].Label)
	}
}

func TestEmptyListing(t *testing.T) {
	aff := NewView("g1", "bob", nil).Affordances()
	if len(aff.Entries) != 0 {
		t.Errorf("got %d entries, want 0", len(aff.Entries))
	}
	if aff.PayAllEnabled || aff.PaySelectedEnabled {
		t.Error("no affordance should be enabled for an empty list")
	}
}

func TestPick(t *testing.T) {
	view := NewView("g1", "bob", testBills())

	t.Run("marks exactly the picked entry and enables pay-selected", func(t *testing.T) {
		aff := view.Pick(2).Affordances()
		if aff.SelectedID != 2 || !aff.PaySelectedEnabled {
			t.Errorf("affordances = %+v, want selection 2 enabled", aff)
		}
		for _, entry := range aff.Entries {
			if entry.Default != (entry.BillID == 2) {
				t.Errorf("entry %d default = %v", entry.BillID, entry.Default)
			}
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		once := view.Pick(1)
		twice := once.Pick(1)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("repeated pick changed the view: %+v vs %+v", once, twice)
		}
		if !reflect.DeepEqual(once.Affordances(), twice.Affordances()) {
			t.Error("repeated pick changed the affordances")
		}
	})

	t.Run("re-picking another bill moves the default", func(t *testing.T) {
		aff := view.Pick(1).Pick(2).Affordances()
		if aff.SelectedID != 2 {
			t.Errorf("SelectedID = %d, want 2", aff.SelectedID)
		}
		for _, entry := range aff.Entries {
			if entry.Default != (entry.BillID == 2) {
				t.Errorf("entry %d default = %v", entry.BillID, entry.Default)
			}
		}
	})

	t.Run("stale pick clears the selection", func(t *testing.T) {
		aff := view.Pick(1).Pick(999).Affordances()
		if aff.SelectedID != 0 || aff.PaySelectedEnabled {
			t.Errorf("affordances = %+v, want cleared selection", aff)
		}
	})

	t.Run("deselect returns to listing state", func(t *testing.T) {
		aff := view.Pick(1).Deselect().Affordances()
		if aff.SelectedID != 0 || aff.PaySelectedEnabled {
			t.Errorf("affordances = %+v, want no selection", aff)
		}
	})
}

func TestTotal(t *testing.T) {
	if got := NewView("g1", "bob", testBills()).Total(); got != 100 {
		t.Errorf("Total = %d, want 100", got)
	}
	if got := NewView("g1", "bob", nil).Total(); got != 0 {
		t.Errorf("Total = %d, want 0", got)
	}
}
