// Package gateway speaks the chat-platform boundary: it decodes
// interaction webhooks (slash commands and component clicks) into typed
// values and encodes replies back into message payloads.
//
// Component custom IDs are parsed exactly once, here, into a tagged
// event union; nothing past this package dispatches on ID strings.
package gateway

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Interaction kinds.
const (
	KindCommand   = "command"
	KindComponent = "component"
)

// Custom ID prefixes for the bill-list components.
const (
	customIDPick           = "bills.pick"
	customIDSettleSelected = "bills.paysel"
	customIDSettleAll      = "bills.payall"
	customIDSettleOne      = "bills.payone"
)

var (
	// ErrBadInteraction rejects payloads the gateway cannot make sense of.
	ErrBadInteraction = errors.New("malformed interaction")
)

// Member identifies the acting principal and carries the permission
// flags the platform resolved for them in this community.
type Member struct {
	ID    string `json:"id"`
	Admin bool   `json:"admin,omitempty"`
	Owner bool   `json:"owner,omitempty"`
}

// Command is a slash-command invocation with its decoded options.
type Command struct {
	Name string `json:"name"`

	// Amount is the VTD amount for pay/request/give/confiscation.
	Amount int64 `json:"amount,omitempty"`

	// Member is the counterparty principal for pay/request/give/confiscation.
	Member string `json:"member,omitempty"`

	// User is the optional target of the balance command.
	User string `json:"user,omitempty"`

	// DueDays is the optional request deadline, in days from now.
	DueDays int64 `json:"due_days,omitempty"`
}

// Click is a component interaction: the custom ID of the clicked element
// and, for selectors, the chosen values.
type Click struct {
	CustomID string   `json:"custom_id"`
	Values   []string `json:"values,omitempty"`
}

// Interaction is one unit of work forwarded by the platform gateway.
// Identity and permissions arrive already resolved.
type Interaction struct {
	Kind        string   `json:"kind"`
	CommunityID string   `json:"community_id"`
	Actor       Member   `json:"actor"`
	Command     *Command `json:"command,omitempty"`
	Click       *Click   `json:"click,omitempty"`
}

// Event is the tagged union of component interactions.
type Event interface{ isEvent() }

// PickEvent selects a bill in the list selector.
type PickEvent struct {
	Token  string
	BillID int64
}

// SettleSelectedEvent pays the bill bound to the view's selection.
type SettleSelectedEvent struct {
	Token string
}

// SettleAllEvent pays every outstanding bill of the view's debtor.
type SettleAllEvent struct {
	Token string
}

// SettleOneEvent pays the single bill bound to a request message's
// pay-now button.
type SettleOneEvent struct {
	Token string
}

func (PickEvent) isEvent()           {}
func (SettleSelectedEvent) isEvent() {}
func (SettleAllEvent) isEvent()      {}
func (SettleOneEvent) isEvent()      {}

// Event decodes the click into its tagged variant.
func (c *Click) Event() (Event, error) {
	prefix, token, ok := strings.Cut(c.CustomID, ":")
	if !ok || token == "" {
		return nil, fmt.Errorf("%w: custom id %q", ErrBadInteraction, c.CustomID)
	}

	switch prefix {
	case customIDPick:
		if len(c.Values) != 1 {
			return nil, fmt.Errorf("%w: pick without a value", ErrBadInteraction)
		}
		billID, err := strconv.ParseInt(c.Values[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: pick value %q", ErrBadInteraction, c.Values[0])
		}
		return PickEvent{Token: token, BillID: billID}, nil
	case customIDSettleSelected:
		return SettleSelectedEvent{Token: token}, nil
	case customIDSettleAll:
		return SettleAllEvent{Token: token}, nil
	case customIDSettleOne:
		return SettleOneEvent{Token: token}, nil
	default:
		return nil, fmt.Errorf("%w: unknown custom id %q", ErrBadInteraction, c.CustomID)
	}
}

// Option is one selector entry in a reply.
type Option struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Default bool   `json:"default,omitempty"`
}

// Element is one interactive component in a reply.
type Element struct {
	Kind     string   `json:"kind"` // "select" or "button"
	CustomID string   `json:"custom_id"`
	Label    string   `json:"label,omitempty"`
	Disabled bool     `json:"disabled,omitempty"`
	Options  []Option `json:"options,omitempty"`
}

// Reply is the message sent back through the gateway.
type Reply struct {
	Content string `json:"content"`

	// Ephemeral replies are visible only to the acting principal.
	Ephemeral bool `json:"ephemeral,omitempty"`

	Elements []Element `json:"elements,omitempty"`
}

// SelectMenu builds a bill selector element.
func SelectMenu(token string, options []Option) Element {
	return Element{
		Kind:     "select",
		CustomID: customIDPick + ":" + token,
		Options:  options,
	}
}

// PaySelectedButton builds the pay-selected button.
func PaySelectedButton(token string, enabled bool) Element {
	return Element{
		Kind:     "button",
		CustomID: customIDSettleSelected + ":" + token,
		Label:    "Pay selected",
		Disabled: !enabled,
	}
}

// PayAllButton builds the pay-all button.
func PayAllButton(token string, enabled bool) Element {
	return Element{
		Kind:     "button",
		CustomID: customIDSettleAll + ":" + token,
		Label:    "Pay all",
		Disabled: !enabled,
	}
}

// PayNowButton builds the pay-now button attached to a request message.
func PayNowButton(token string) Element {
	return Element{
		Kind:     "button",
		CustomID: customIDSettleOne + ":" + token,
		Label:    "Pay now",
	}
}
