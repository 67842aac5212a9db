// Package auth provides the authorization oracle, signed component-state
// tokens, and the operator token check.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken covers expired, malformed, and tampered state tokens.
	ErrInvalidToken = errors.New("invalid or expired state token")
)

// ViewClaims binds a rendered bill-list message to its viewer. The token
// travels inside component custom IDs, so a click on a stale or forged
// component cannot act on another user's view.
type ViewClaims struct {
	CommunityID string `json:"community_id"`
	DebtorID    string `json:"debtor_id"`

	// BillID is the bill bound to the component: the current selection
	// for a list view, or the billed amount's ID for a pay-now button.
	// Zero when nothing is selected.
	BillID int64 `json:"bill_id,omitempty"`

	jwt.RegisteredClaims
}

// StateTokens signs and verifies view-state tokens.
type StateTokens struct {
	secretKey []byte
	ttl       time.Duration
}

// NewStateTokens creates a token manager. secretKey should be a strong
// random string; ttl bounds how long a rendered message stays actionable.
func NewStateTokens(secretKey string, ttl time.Duration) *StateTokens {
	return &StateTokens{
		secretKey: []byte(secretKey),
		ttl:       ttl,
	}
}

// Sign creates a token for a rendered view.
func (m *StateTokens) Sign(communityID, debtorID string, billID int64) (string, error) {
	claims := &ViewClaims{
		CommunityID: communityID,
		DebtorID:    debtorID,
		BillID:      billID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign state token: %w", err)
	}
	return tokenString, nil
}

// Verify parses and validates a state token, returning its claims.
func (m *StateTokens) Verify(tokenString string) (*ViewClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&ViewClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*ViewClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
