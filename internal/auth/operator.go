package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadOperatorToken rejects operator requests with a missing or wrong token.
var ErrBadOperatorToken = errors.New("invalid operator token")

// OperatorToken guards the out-of-band operator endpoints (grant and
// confiscate over HTTP). The service is configured with a bcrypt hash so
// the plaintext token never lives in the environment.
type OperatorToken struct {
	hash []byte
}

// NewOperatorToken creates a checker from a bcrypt hash of the token.
func NewOperatorToken(bcryptHash string) *OperatorToken {
	return &OperatorToken{hash: []byte(bcryptHash)}
}

// HashToken produces a bcrypt hash suitable for NewOperatorToken. Used by
// deploy tooling and tests.
func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Check compares a presented token against the configured hash.
func (t *OperatorToken) Check(token string) error {
	if token == "" {
		return ErrBadOperatorToken
	}
	if err := bcrypt.CompareHashAndPassword(t.hash, []byte(token)); err != nil {
		return ErrBadOperatorToken
	}
	return nil
}
