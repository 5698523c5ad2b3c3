package registry

import (
	"testing"

	"cargoflow/internal/models"
)

func TestItemHappyPath(t *testing.T) {
	r := New()

	cases := []struct {
		from, to string
		want     bool
	}{
		{"PENDING", "READY_FOR_SHIPPING", true},
		{"PENDING", "FLAGGED", true},
		{"PENDING", "CANCELLED", true},
		{"PENDING", "SHIPPED", false},
		{"READY_FOR_SHIPPING", "SHIPPED", true},
		{"READY_FOR_SHIPPING", "PENDING", false},
		{"FLAGGED", "READY_FOR_SHIPPING", true},
		{"FLAGGED", "PENDING", true},
		{"FLAGGED", "CANCELLED", true},
		{"SHIPPED", "READY_FOR_DELIVERY", false}, // origin side has no delivery states
		{"CANCELLED", "PENDING", false},
	}

	for _, c := range cases {
		if got := r.IsValidTransition(KindItem, c.from, c.to); got != c.want {
			t.Errorf("IsValidTransition(item, %s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestDestinationSideDeliveryStates(t *testing.T) {
	r := NewDestination()

	if !r.IsValidTransition(KindItem, "SHIPPED", "READY_FOR_DELIVERY") {
		t.Error("destination side should allow SHIPPED -> READY_FOR_DELIVERY")
	}
	if !r.IsValidTransition(KindItem, "READY_FOR_DELIVERY", "DELIVERED") {
		t.Error("destination side should allow READY_FOR_DELIVERY -> DELIVERED")
	}
	if !r.IsValidTransition(KindItem, "FLAGGED", "READY_FOR_DELIVERY") {
		t.Error("destination side should allow flag recovery to READY_FOR_DELIVERY")
	}
	if r.IsValidTransition(KindItem, "DELIVERED", "FLAGGED") {
		t.Error("DELIVERED must be terminal")
	}
}

func TestContainerFlagRecovery(t *testing.T) {
	r := New()

	for _, from := range []string{"pending", "processing", "ready_for_delivery"} {
		if !r.IsValidTransition(KindContainer, from, "flagged") {
			t.Errorf("container %s -> flagged should be valid", from)
		}
		if !r.IsValidTransition(KindContainer, "flagged", from) {
			t.Errorf("container flagged -> %s should be valid", from)
		}
	}
	if r.IsValidTransition(KindContainer, "delivered", "flagged") {
		t.Error("delivered containers cannot be flagged")
	}
	if r.IsValidTransition(KindContainer, "pending", "ready_for_delivery") {
		t.Error("container status must not skip processing")
	}
}

func TestClaimTransitions(t *testing.T) {
	r := New()

	if !r.IsValidTransition(KindClaim, "PENDING", "UNDER_REVIEW") {
		t.Error("PENDING -> UNDER_REVIEW should be valid")
	}
	if !r.IsValidTransition(KindClaim, "APPROVED", "RESOLVED") {
		t.Error("APPROVED -> RESOLVED should be valid")
	}
	if r.IsValidTransition(KindClaim, "REJECTED", "UNDER_REVIEW") {
		t.Error("REJECTED is final")
	}
	if r.IsValidTransition(KindClaim, "RESOLVED", "APPROVED") {
		t.Error("RESOLVED is final")
	}
}

// No entity may "transition" to its own current state, and terminal states
// have no outgoing edges at all.
func TestReflexiveFalseAndTerminals(t *testing.T) {
	for _, r := range []*Registry{New(), NewDestination()} {
		for _, kind := range []EntityKind{KindItem, KindContainer, KindClaim} {
			for _, state := range r.States(kind) {
				if r.IsValidTransition(kind, state, state) {
					t.Errorf("%s: self-transition allowed for %s", kind, state)
				}
			}
			for terminal := range r.TerminalStates(kind) {
				if next := r.NextStates(kind, terminal); next != nil {
					t.Errorf("%s: terminal state %s has outgoing transitions %v", kind, terminal, next)
				}
			}
		}
	}
}

func TestInitialStates(t *testing.T) {
	r := New()

	if got := r.InitialState(KindItem); got != string(models.ItemStatusPending) {
		t.Errorf("InitialState(item) = %q, want PENDING", got)
	}
	if got := r.InitialState(KindContainer); got != string(models.ContainerStatusPending) {
		t.Errorf("InitialState(container) = %q, want pending", got)
	}
	if got := r.InitialState(KindClaim); got != string(models.ClaimStatusPending) {
		t.Errorf("InitialState(claim) = %q, want PENDING", got)
	}
}

func TestValidateError(t *testing.T) {
	r := New()

	err := r.Validate(KindItem, "SHIPPED", "PENDING")
	if err == nil {
		t.Fatal("Validate should reject SHIPPED -> PENDING")
	}
	te, ok := err.(*InvalidTransitionError)
	if !ok {
		t.Fatalf("Validate returned %T, want *InvalidTransitionError", err)
	}
	if te.From != "SHIPPED" || te.To != "PENDING" {
		t.Errorf("error carries %s -> %s, want SHIPPED -> PENDING", te.From, te.To)
	}
}
