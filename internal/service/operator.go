package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/okanebot/okane/internal/auth"
	"github.com/okanebot/okane/internal/ledger"
)

// OperatorHandler exposes grant and confiscate over HTTP for operators
// working outside chat (seeding economies, support corrections). Guarded
// by the bcrypt-hashed operator token.
type OperatorHandler struct {
	engine *ledger.Engine
	token  *auth.OperatorToken
}

// NewOperatorHandler creates the operator endpoints.
func NewOperatorHandler(engine *ledger.Engine, token *auth.OperatorToken) *OperatorHandler {
	return &OperatorHandler{engine: engine, token: token}
}

// Register mounts the operator endpoints on mux.
func (h *OperatorHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/operator/grant", h.handle(h.engine.Grant))
	mux.HandleFunc("/operator/confiscate", h.handle(h.engine.Confiscate))
}

type operatorRequest struct {
	CommunityID string `json:"community_id"`
	PrincipalID string `json:"principal_id"`
	Amount      int64  `json:"amount"`
}

type operatorResponse struct {
	Balance int64 `json:"balance"`
}

type balanceOp func(ctx context.Context, communityID, principalID string, amount int64) error

func (h *OperatorHandler) handle(op balanceOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := h.token.Check(bearerToken(r)); err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req operatorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed request", http.StatusBadRequest)
			return
		}
		if req.CommunityID == "" || req.PrincipalID == "" {
			http.Error(w, "missing community or principal", http.StatusBadRequest)
			return
		}

		err := op(r.Context(), req.CommunityID, req.PrincipalID, req.Amount)
		switch {
		case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrInsufficientFunds):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		case err != nil:
			slog.Error("operator op failed",
				"community_id", req.CommunityID,
				"principal_id", req.PrincipalID,
				"error", err,
			)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		balance, err := h.engine.Balance(r.Context(), req.CommunityID, req.PrincipalID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(operatorResponse{Balance: balance})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return token
}
