package presentation

import (
	"context"
	"errors"

	"github.com/okanebot/okane/internal/auth"
	"github.com/okanebot/okane/internal/ledger"
)

// Rendered is a bill-list view ready to be turned into message
// components: the derived affordances plus a signed token binding the
// message to its viewer and selection.
type Rendered struct {
	View        View
	Affordances Affordances
	Token       string
}

// Outcome is the result of a settlement-triggering interaction.
type Outcome struct {
	// Settlement is what was paid. Nil when AlreadySettled.
	Settlement *ledger.Settlement

	// AlreadySettled is set when the interaction referenced a bill that
	// no longer exists: the race loser's view, surfaced as a notice
	// instead of an error.
	AlreadySettled bool

	// Rendered is the refreshed bill list for the actor.
	Rendered *Rendered
}

// Presenter connects bill-list views to the settlement engine. Business
// errors from the engine (ErrNotYourBill, ErrInsufficientFunds, token
// errors) propagate to the caller; a stale selection becomes an
// AlreadySettled outcome per the UI contract.
type Presenter struct {
	engine *ledger.Engine
	tokens *auth.StateTokens
}

// NewPresenter creates a Presenter over the engine and token signer.
func NewPresenter(engine *ledger.Engine, tokens *auth.StateTokens) *Presenter {
	return &Presenter{engine: engine, tokens: tokens}
}

// RenderList builds the viewer's current bill list in Listing state.
func (p *Presenter) RenderList(ctx context.Context, communityID, viewerID string) (*Rendered, error) {
	bills, err := p.engine.ListBills(ctx, communityID, viewerID)
	if err != nil {
		return nil, err
	}
	return p.render(NewView(communityID, viewerID, bills))
}

// BillToken signs a token binding a single bill to its debtor, for the
// pay-now button attached to a request message.
func (p *Presenter) BillToken(communityID, debtorID string, billID int64) (string, error) {
	return p.tokens.Sign(communityID, debtorID, billID)
}

// OnPick re-renders the list with billID selected. The bill set is
// re-read so entries for bills settled since the last render disappear;
// a pick of a vanished bill simply clears the selection.
func (p *Presenter) OnPick(ctx context.Context, token string, billID int64) (*Rendered, error) {
	claims, err := p.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	bills, err := p.engine.ListBills(ctx, claims.CommunityID, claims.DebtorID)
	if err != nil {
		return nil, err
	}
	return p.render(NewView(claims.CommunityID, claims.DebtorID, bills).Pick(billID))
}

// OnSettleSelected settles the bill bound to the token's selection.
func (p *Presenter) OnSettleSelected(ctx context.Context, token, actorID string) (*Outcome, error) {
	claims, err := p.verifyActor(token, actorID)
	if err != nil {
		return nil, err
	}
	if claims.BillID == 0 {
		// A pay-selected click can only arrive from a rendered selection;
		// a token without one is stale or hand-built.
		return nil, auth.ErrInvalidToken
	}
	return p.settleOne(ctx, claims.CommunityID, claims.BillID, actorID)
}

// OnSettleOne settles the single bill bound to the token (the pay-now
// button on a request message).
func (p *Presenter) OnSettleOne(ctx context.Context, token, actorID string) (*Outcome, error) {
	claims, err := p.verifyActor(token, actorID)
	if err != nil {
		return nil, err
	}
	return p.settleOne(ctx, claims.CommunityID, claims.BillID, actorID)
}

// OnSettleAll settles every outstanding bill of the token's debtor.
func (p *Presenter) OnSettleAll(ctx context.Context, token, actorID string) (*Outcome, error) {
	claims, err := p.verifyActor(token, actorID)
	if err != nil {
		return nil, err
	}
	settlement, err := p.engine.SettleAll(ctx, claims.CommunityID, actorID)
	if err != nil {
		return nil, err
	}
	rendered, err := p.RenderList(ctx, claims.CommunityID, actorID)
	if err != nil {
		return nil, err
	}
	return &Outcome{Settlement: settlement, Rendered: rendered}, nil
}

func (p *Presenter) settleOne(ctx context.Context, communityID string, billID int64, actorID string) (*Outcome, error) {
	settlement, err := p.engine.SettleOne(ctx, billID, actorID)
	alreadySettled := errors.Is(err, ledger.ErrBillNotFound)
	if err != nil && !alreadySettled {
		return nil, err
	}
	rendered, renderErr := p.RenderList(ctx, communityID, actorID)
	if renderErr != nil {
		return nil, renderErr
	}
	return &Outcome{
		Settlement:     settlement,
		AlreadySettled: alreadySettled,
		Rendered:       rendered,
	}, nil
}

// verifyActor checks both the token signature and that the clicker is
// the debtor the view was rendered for.
func (p *Presenter) verifyActor(token, actorID string) (*auth.ViewClaims, error) {
	claims, err := p.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	if claims.DebtorID != actorID {
		return nil, ledger.ErrNotYourBill
	}
	return claims, nil
}

func (p *Presenter) render(view View) (*Rendered, error) {
	token, err := p.tokens.Sign(view.CommunityID, view.DebtorID, view.SelectedID)
	if err != nil {
		return nil, err
	}
	return &Rendered{
		View:        view,
		Affordances: view.Affordances(),
		Token:       token,
	}, nil
}
