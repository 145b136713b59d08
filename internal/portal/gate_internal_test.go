package portal

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// A malformed guard hash would make the compare bail out early and bring
// back the unknown-email timing difference, so pin that it parses as a
// real bcrypt hash at a real cost.
func TestLoginGuardHashIsRealBcrypt(t *testing.T) {
	err := bcrypt.CompareHashAndPassword([]byte(loginGuardHash), []byte("not-the-preimage"))
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		t.Fatalf("guard hash must be structurally valid bcrypt, got %v", err)
	}

	cost, err := bcrypt.Cost([]byte(loginGuardHash))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost < bcrypt.DefaultCost {
		t.Fatalf("guard hash cost %d is cheaper than the default %d", cost, bcrypt.DefaultCost)
	}
}
