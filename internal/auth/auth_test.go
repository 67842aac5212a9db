package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestStateTokens(t *testing.T) {
	tokens := NewStateTokens("test-secret", time.Minute)

	t.Run("round trip", func(t *testing.T) {
		token, err := tokens.Sign("g1", "bob", 42)
		if err != nil {
			t.Fatalf("Sign failed: %v", err)
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if claims.CommunityID != "g1" || claims.DebtorID != "bob" || claims.BillID != 42 {
			t.Errorf("claims = %+v, want g1/bob/42", claims)
		}
		if claims.ID == "" {
			t.Error("expected a token ID to be set")
		}
	})

	t.Run("tampered token is rejected", func(t *testing.T) {
		token, err := tokens.Sign("g1", "bob", 42)
		if err != nil {
			t.Fatalf("Sign failed: %v", err)
		}
		tampered := token[:len(token)-2] + "xx"
		if _, err := tokens.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		other := NewStateTokens("other-secret", time.Minute)
		token, err := other.Sign("g1", "bob", 42)
		if err != nil {
			t.Fatalf("Sign failed: %v", err)
		}
		if _, err := tokens.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := NewStateTokens("test-secret", -time.Minute)
		token, err := expired.Sign("g1", "bob", 42)
		if err != nil {
			t.Fatalf("Sign failed: %v", err)
		}
		if _, err := tokens.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		if _, err := tokens.Verify(strings.Repeat("a", 40)); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify error = %v, want ErrInvalidToken", err)
		}
	})
}

func TestStaticOracle(t *testing.T) {
	ctx := context.Background()
	oracle := NewStaticOracle([]string{"admin1", ""}, map[string]string{"g1": "owner1"})

	if ok, _ := oracle.IsAdmin(ctx, "g1", "admin1"); !ok {
		t.Error("admin1 should be an admin")
	}
	if ok, _ := oracle.IsAdmin(ctx, "g1", "someone"); ok {
		t.Error("someone should not be an admin")
	}
	if ok, _ := oracle.IsAdmin(ctx, "g1", ""); ok {
		t.Error("the empty principal should never be an admin")
	}
	if ok, _ := oracle.IsOwner(ctx, "g1", "owner1"); !ok {
		t.Error("owner1 should own g1")
	}
	if ok, _ := oracle.IsOwner(ctx, "g2", "owner1"); ok {
		t.Error("owner1 should not own g2")
	}
}

func TestOperatorToken(t *testing.T) {
	hash, err := HashToken("hunter2")
	if err != nil {
		t.Fatalf("HashToken failed: %v", err)
	}
	checker := NewOperatorToken(hash)

	if err := checker.Check("hunter2"); err != nil {
		t.Errorf("Check rejected the right token: %v", err)
	}
	if err := checker.Check("wrong"); !errors.Is(err, ErrBadOperatorToken) {
		t.Errorf("Check error = %v, want ErrBadOperatorToken", err)
	}
	if err := checker.Check(""); !errors.Is(err, ErrBadOperatorToken) {
		t.Errorf("Check error = %v, want ErrBadOperatorToken", err)
	}
}
