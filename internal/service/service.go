// Package service is the command layer: it maps gateway interactions to
// settlement engine and presenter calls and words the replies. It holds
// no ledger state and performs no mutation itself.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/okanebot/okane/internal/auth"
	"github.com/okanebot/okane/internal/gateway"
	"github.com/okanebot/okane/internal/ledger"
	"github.com/okanebot/okane/internal/presentation"
)

// ErrUnauthorized rejects admin commands from principals the oracle does
// not recognize as an admin or the community owner.
var ErrUnauthorized = errors.New("admin or owner required")

// Service implements gateway.InteractionHandler.
type Service struct {
	engine    *ledger.Engine
	presenter *presentation.Presenter
	oracle    auth.Oracle
}

// New creates the command layer. The oracle supplements the permission
// flags the gateway resolves per interaction.
func New(engine *ledger.Engine, presenter *presentation.Presenter, oracle auth.Oracle) *Service {
	return &Service{engine: engine, presenter: presenter, oracle: oracle}
}

var _ gateway.InteractionHandler = (*Service)(nil)

// HandleInteraction routes one interaction. Business-rule violations are
// returned as ephemeral replies; only store and transport failures come
// back as errors.
func (s *Service) HandleInteraction(ctx context.Context, inter *gateway.Interaction) (*gateway.Reply, error) {
	switch inter.Kind {
	case gateway.KindCommand:
		if inter.Command == nil {
			return nil, gateway.ErrBadInteraction
		}
		return s.handleCommand(ctx, inter)
	case gateway.KindComponent:
		if inter.Click == nil {
			return nil, gateway.ErrBadInteraction
		}
		return s.handleComponent(ctx, inter)
	default:
		return nil, fmt.Errorf("%w: kind %q", gateway.ErrBadInteraction, inter.Kind)
	}
}

func (s *Service) handleCommand(ctx context.Context, inter *gateway.Interaction) (*gateway.Reply, error) {
	cmd := inter.Command
	var (
		reply *gateway.Reply
		err   error
	)
	switch cmd.Name {
	case "balance":
		reply, err = s.balance(ctx, inter)
	case "pay":
		reply, err = s.pay(ctx, inter)
	case "request":
		reply, err = s.request(ctx, inter)
	case "bills":
		reply, err = s.bills(ctx, inter)
	case "payall":
		reply, err = s.payAll(ctx, inter)
	case "give":
		reply, err = s.give(ctx, inter)
	case "confiscation":
		reply, err = s.confiscate(ctx, inter)
	default:
		err = fmt.Errorf("%w: command %q", gateway.ErrBadInteraction, cmd.Name)
	}

	if msg, ok := rejectionMessage(err); ok {
		observeCommand(cmd.Name, outcomeRejected)
		return ephemeral(msg), nil
	}
	if err != nil {
		observeCommand(cmd.Name, outcomeError)
		return nil, err
	}
	observeCommand(cmd.Name, outcomeOK)
	return reply, nil
}

func (s *Service) balance(ctx context.Context, inter *gateway.Interaction) (*gateway.Reply, error) {
	target := inter.Command.User
	if target == "" {
		target = inter.Actor.ID
	}
	balance, err := s.engine.Balance(ctx, inter.CommunityID, target)
	if err != nil {
		return nil, err
	}
	return &gateway.Reply{Content: fmt.Sprintf("<@%s> has %d VTD.", target, balance)}, nil
}

func (s *Service) pay(ctx context.Context, inter *gateway.Interaction) (*gateway.Reply, error) {
	cmd := inter.Command
	if err := s.engine.Transfer(ctx, inter.CommunityID, inter.Actor.ID, cmd.Member, cmd.Amount); err != nil {
		return nil, err
	}
	return &gateway.Reply{
		Content: fmt.Sprintf("<@%s> paid %d VTD to <@%s>.", inter.Actor.ID, cmd.Amount, cmd.Member),
	}, nil
}

func (s *Service) request(ctx context.Context, inter *gateway.Interaction) (*gateway.Reply, error) {
	cmd := inter.Command
	var deadline int64
	if cmd.DueDays > 0 {
		deadline = time.Now().Add(time.Duration(cmd.DueDays) * 24 * time.Hour).Unix()
	}

	billID, err := s.engine.IssueBill(ctx, inter.CommunityID, inter.Actor.ID, cmd.Member, cmd.Amount, deadline)
	if err != nil {
		return nil, err
	}

	token, err := s.presenter.BillToken(inter.CommunityID, cmd.Member, billID)
	if err != nil {
		return nil, err
	}
	return &gateway.Reply{
		Content: fmt.Sprintf("<@%s>, <@%s> is requesting %d VTD from you. (bill #%d)",
			cmd.Member, inter.Actor.ID, cmd.Amount, billID),
		Elements: []gateway.Element{gateway.PayNowButton(token)},
	}, nil
}

func (s *Service) bills(ctx context.Context, inter *gateway.Interaction) (*gateway.Reply, error) {
	rendered, err := s.presenter.RenderList(ctx, inter.CommunityID, inter.Actor.ID)
	if err != nil {
		return nil, err
	}
	return listReply(rendered), nil
}

func (s *Service) payAll(ctx context.Context, inter *gateway.Interaction) (*gateway.Reply, error) {
	settlement, err := s.engine.SettleAll(ctx, inter.CommunityID, inter.Actor.ID)
	if err != nil {
		return nil, err
	}
	if len(settlement.Bills) == 0 {
		return ephemeral("You have no outstanding bills."), nil
	}
	return &gateway.Reply{
		Content: fmt.Sprintf("<@%s> paid %d bill(s) totaling %d VTD.",
			inter.Actor.ID, len(settlement.Bills), settlement.Total),
	}, nil
}

func (s *Service) give(ctx context.Context, inter *gateway.Interaction) (*gateway.Reply, error) {
	if err := s.authorize(ctx, inter); err != nil {
		return nil, err
	}
	cmd := inter.Command
	if err := s.engine.Grant(ctx, inter.CommunityID, cmd.Member, cmd.Amount); err != nil {
		return nil, err
	}
	return &gateway.Reply{
		Content: fmt.Sprintf("<@%s> gave %d VTD to <@%s>.", inter.Actor.ID, cmd.Amount, cmd.Member),
	}, nil
}

func (s *Service) confiscate(ctx context.Context, inter *gateway.Interaction) (*gateway.Reply, error) {
	if err := s.authorize(ctx, inter); err != nil {
		return nil, err
	}
	cmd := inter.Command
	err := s.engine.Confiscate(ctx, inter.CommunityID, cmd.Member, cmd.Amount)
	if errors.Is(err, ledger.ErrInsufficientFunds) {
		// Reworded: it is the target who is short, not the actor.
		return ephemeral("The target user doesn't have enough VTD."), nil
	}
	if err != nil {
		return nil, err
	}
	return &gateway.Reply{
		Content: fmt.Sprintf("<@%s> confiscated %d VTD from <@%s>.", inter.Actor.ID, cmd.Amount, cmd.Member),
	}, nil
}

// authorize enforces the admin-or-owner requirement for grant and
// confiscate. The gateway's resolved flags are trusted first; the oracle
// covers operator-configured overrides.
func (s *Service) authorize(ctx context.Context, inter *gateway.Interaction) error {
	if inter.Actor.Admin || inter.Actor.Owner {
		return nil
	}
	if ok, err := s.oracle.IsAdmin(ctx, inter.CommunityID, inter.Actor.ID); err != nil {
		return err
	} else if ok {
		return nil
	}
	if ok, err := s.oracle.IsOwner(ctx, inter.CommunityID, inter.Actor.ID); err != nil {
		return err
	} else if ok {
		return nil
	}
	slog.Warn("admin command rejected",
		"community_id", inter.CommunityID,
		"actor_id", inter.Actor.ID,
		"command", inter.Command.Name,
	)
	return ErrUnauthorized
}

// rejectionMessage maps business-rule violations to the ephemeral
// message shown to the actor. Store failures are not rejections and
// return false.
func rejectionMessage(err error) (string, bool) {
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, ledger.ErrInvalidAmount):
		return "The amount must be a positive integer.", true
	case errors.Is(err, ledger.ErrSelfTransfer):
		return "You can't pay yourself.", true
	case errors.Is(err, ledger.ErrSelfBill):
		return "You can't bill yourself.", true
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "You don't have enough VTD.", true
	case errors.Is(err, ledger.ErrBillNotFound):
		return "That bill has already been settled.", true
	case errors.Is(err, ledger.ErrNotYourBill):
		return "That bill isn't yours to pay.", true
	case errors.Is(err, auth.ErrInvalidToken):
		return "This message has expired. Run /bills to get a fresh list.", true
	case errors.Is(err, ErrUnauthorized):
		return "Only server admins or the owner can do that.", true
	default:
		return "", false
	}
}

func ephemeral(content string) *gateway.Reply {
	return &gateway.Reply{Content: content, Ephemeral: true}
}
