package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/okanebot/okane/internal/gateway"
	"github.com/okanebot/okane/internal/presentation"
)

// handleComponent decodes the click into its tagged event and routes it.
// Every component reply is ephemeral: the bill list and its outcomes are
// the viewer's business only.
func (s *Service) handleComponent(ctx context.Context, inter *gateway.Interaction) (*gateway.Reply, error) {
	event, err := inter.Click.Event()
	if err != nil {
		return nil, err
	}

	var (
		name  string
		reply *gateway.Reply
	)
	switch ev := event.(type) {
	case gateway.PickEvent:
		name = "pick"
		reply, err = s.onPick(ctx, ev)
	case gateway.SettleSelectedEvent:
		name = "settle_selected"
		reply, err = s.onSettle(ctx, func() (*presentation.Outcome, error) {
			return s.presenter.OnSettleSelected(ctx, ev.Token, inter.Actor.ID)
		})
	case gateway.SettleOneEvent:
		name = "settle_one"
		reply, err = s.onSettle(ctx, func() (*presentation.Outcome, error) {
			return s.presenter.OnSettleOne(ctx, ev.Token, inter.Actor.ID)
		})
	case gateway.SettleAllEvent:
		name = "settle_all"
		reply, err = s.onSettleAll(ctx, ev, inter.Actor.ID)
	default:
		return nil, fmt.Errorf("%w: unhandled event", gateway.ErrBadInteraction)
	}

	if msg, ok := rejectionMessage(err); ok {
		observeComponent(name, outcomeRejected)
		return ephemeral(msg), nil
	}
	if err != nil {
		observeComponent(name, outcomeError)
		return nil, err
	}
	observeComponent(name, outcomeOK)
	return reply, nil
}

func (s *Service) onPick(ctx context.Context, ev gateway.PickEvent) (*gateway.Reply, error) {
	rendered, err := s.presenter.OnPick(ctx, ev.Token, ev.BillID)
	if err != nil {
		return nil, err
	}
	return listReply(rendered), nil
}

func (s *Service) onSettle(_ context.Context, settle func() (*presentation.Outcome, error)) (*gateway.Reply, error) {
	outcome, err := settle()
	if err != nil {
		return nil, err
	}
	if outcome.AlreadySettled {
		reply := listReply(outcome.Rendered)
		reply.Content = "That bill has already been settled.\n" + reply.Content
		return reply, nil
	}
	bill := outcome.Settlement.Bills[0]
	reply := listReply(outcome.Rendered)
	reply.Content = fmt.Sprintf("Paid %d VTD to <@%s>.\n", bill.Amount, bill.ClaimantID) + reply.Content
	return reply, nil
}

func (s *Service) onSettleAll(ctx context.Context, ev gateway.SettleAllEvent, actorID string) (*gateway.Reply, error) {
	outcome, err := s.presenter.OnSettleAll(ctx, ev.Token, actorID)
	if err != nil {
		return nil, err
	}
	if len(outcome.Settlement.Bills) == 0 {
		return ephemeral("You have no outstanding bills."), nil
	}
	reply := listReply(outcome.Rendered)
	reply.Content = fmt.Sprintf("Paid %d bill(s) totaling %d VTD.\n",
		len(outcome.Settlement.Bills), outcome.Settlement.Total) + reply.Content
	return reply, nil
}

// listReply turns a rendered view into message components: the selector,
// the pay-selected button bound to the current selection, and pay-all.
func listReply(rendered *presentation.Rendered) *gateway.Reply {
	aff := rendered.Affordances
	if len(aff.Entries) == 0 {
		return ephemeral("You have no outstanding bills.")
	}

	options := make([]gateway.Option, len(aff.Entries))
	for i, entry := range aff.Entries {
		options[i] = gateway.Option{
			Label:   entry.Label,
			Value:   strconv.FormatInt(entry.BillID, 10),
			Default: entry.Default,
		}
	}

	return &gateway.Reply{
		Content: fmt.Sprintf("You have %d outstanding bill(s) totaling %d VTD.",
			len(rendered.View.Bills), rendered.View.Total()),
		Ephemeral: true,
		Elements: []gateway.Element{
			gateway.SelectMenu(rendered.Token, options),
			gateway.PaySelectedButton(rendered.Token, aff.PaySelectedEnabled),
			gateway.PayAllButton(rendered.Token, aff.PayAllEnabled),
		},
	}
}
