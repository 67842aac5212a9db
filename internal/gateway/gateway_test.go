package gateway

import (
	"errors"
	"testing"
)

func TestClickEvent(t *testing.T) {
	t.Run("pick", func(t *testing.T) {
		click := &Click{CustomID: "bills.pick:tok123", Values: []string{"42"}}
		event, err := click.Event()
		if err != nil {
			t.Fatalf("Event failed: %v", err)
		}
		pick, ok := event.(PickEvent)
		if !ok {
			t.Fatalf("event = %T, want PickEvent", event)
		}
		if pick.Token != "tok123" || pick.BillID != 42 {
			t.Errorf("pick = %+v, want tok123/42", pick)
		}
	})

	t.Run("settle variants", func(t *testing.T) {
		for customID, want := range map[string]Event{
			"bills.paysel:tok": SettleSelectedEvent{Token: "tok"},
			"bills.payall:tok": SettleAllEvent{Token: "tok"},
			"bills.payone:tok": SettleOneEvent{Token: "tok"},
		} {
			event, err := (&Click{CustomID: customID}).Event()
			if err != nil {
				t.Fatalf("Event(%q) failed: %v", customID, err)
			}
			if event != want {
				t.Errorf("Event(%q) = %+v, want %+v", customID, event, want)
			}
		}
	})

	t.Run("malformed clicks are rejected", func(t *testing.T) {
		for _, click := range []*Click{
			{CustomID: "bills.pick:tok"},                             // no value
			{CustomID: "bills.pick:tok", Values: []string{"nope"}},   // non-numeric value
			{CustomID: "bills.pick:"},                                // empty token
			{CustomID: "noprefix"},                                   // no separator
			{CustomID: "what.ever:tok"},                              // unknown prefix
		} {
			if _, err := click.Event(); !errors.Is(err, ErrBadInteraction) {
				t.Errorf("Event(%q) error = %v, want ErrBadInteraction", click.CustomID, err)
			}
		}
	})
}

func TestComponentBuilders(t *testing.T) {
	menu := SelectMenu("tok", []Option{{Label: "a", Value: "1"}})
	if menu.Kind != "select" || menu.CustomID != "bills.pick:tok" {
		t.Errorf("unexpected select menu: %+v", menu)
	}

	pay := PaySelectedButton("tok", false)
	if pay.CustomID != "bills.paysel:tok" || !pay.Disabled {
		t.Errorf("unexpected pay-selected button: %+v", pay)
	}

	all := PayAllButton("tok", true)
	if all.CustomID != "bills.payall:tok" || all.Disabled {
		t.Errorf("unexpected pay-all button: %+v", all)
	}

	now := PayNowButton("tok")
	if now.CustomID != "bills.payone:tok" || now.Disabled {
		t.Errorf("unexpected pay-now button: %+v", now)
	}

	// Every custom ID must decode back to its own event type.
	for _, element := range []Element{menu, pay, all, now} {
		click := &Click{CustomID: element.CustomID, Values: []string{"1"}}
		if _, err := click.Event(); err != nil {
			t.Errorf("custom id %q does not decode: %v", element.CustomID, err)
		}
	}
}
