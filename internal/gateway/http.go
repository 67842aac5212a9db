package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// InteractionHandler is implemented by the command layer.
type InteractionHandler interface {
	HandleInteraction(ctx context.Context, inter *Interaction) (*Reply, error)
}

// Handler returns the webhook endpoint the platform gateway posts
// interactions to. Business outcomes, including rejections, come back as
// replies with status 200; only transport and persistence failures
// surface as HTTP errors.
func Handler(svc InteractionHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var inter Interaction
		if err := json.NewDecoder(r.Body).Decode(&inter); err != nil {
			http.Error(w, "malformed interaction", http.StatusBadRequest)
			return
		}
		if inter.CommunityID == "" || inter.Actor.ID == "" {
			http.Error(w, "missing community or actor", http.StatusBadRequest)
			return
		}

		reply, err := svc.HandleInteraction(r.Context(), &inter)
		if err != nil {
			slog.Error("interaction failed",
				"kind", inter.Kind,
				"community_id", inter.CommunityID,
				"actor_id", inter.Actor.ID,
				"error", err,
			)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(reply); err != nil {
			slog.Error("failed to encode reply", "error", err)
		}
	})
}
