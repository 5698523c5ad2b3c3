// Package registry defines the lifecycle state machines for warehouse
// items, containers and claims. It is pure lookup: it answers whether a
// transition is legal and never mutates anything itself.
package registry

import (
	"fmt"

	"cargoflow/internal/models"
)

// EntityKind selects which transition table applies.
type EntityKind string

const (
	KindItem      EntityKind = "item"
	KindContainer EntityKind = "container"
	KindClaim     EntityKind = "claim"
)

// InvalidTransitionError reports a transition the registry does not allow.
type InvalidTransitionError struct {
	Kind EntityKind
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition: %s -> %s", e.Kind, e.From, e.To)
}

// Registry holds per-kind transition tables. Item tables differ by
// warehouse side: destination-side items additionally move through
// delivery states.
type Registry struct {
	transitions map[EntityKind]map[string][]string
	initial     map[EntityKind]string
}

// New returns a registry for origin-side warehouses (China sea/air intake).
func New() *Registry {
	return newRegistry(false)
}

// NewDestination returns a registry for destination-side warehouses, where
// items can additionally become ready for delivery and delivered.
func NewDestination() *Registry {
	return newRegistry(true)
}

func newRegistry(destination bool) *Registry {
	items := map[string][]string{
		string(models.ItemStatusPending): {
			string(models.ItemStatusReadyForShipping),
			string(models.ItemStatusFlagged),
			string(models.ItemStatusCancelled),
		},
		string(models.ItemStatusReadyForShipping): {
			string(models.ItemStatusShipped),
			string(models.ItemStatusFlagged),
			string(models.ItemStatusCancelled),
		},
		// A flag is always recoverable.
		string(models.ItemStatusFlagged): {
			string(models.ItemStatusReadyForShipping),
			string(models.ItemStatusPending),
			string(models.ItemStatusCancelled),
		},
		string(models.ItemStatusShipped):   {},
		string(models.ItemStatusCancelled): {},
	}
	if destination {
		items[string(models.ItemStatusShipped)] = []string{
			string(models.ItemStatusReadyForDelivery),
			string(models.ItemStatusFlagged),
		}
		items[string(models.ItemStatusReadyForDelivery)] = []string{
			string(models.ItemStatusDelivered),
			string(models.ItemStatusFlagged),
		}
		items[string(models.ItemStatusDelivered)] = []string{}
		items[string(models.ItemStatusFlagged)] = append(
			items[string(models.ItemStatusFlagged)],
			string(models.ItemStatusReadyForDelivery),
		)
	}

	// Containers advance linearly; flagged is reachable from any
	// non-terminal state and recoverable back to any of them.
	containers := map[string][]string{
		string(models.ContainerStatusPending): {
			string(models.ContainerStatusProcessing),
			string(models.ContainerStatusFlagged),
		},
		string(models.ContainerStatusProcessing): {
			string(models.ContainerStatusReadyForDelivery),
			string(models.ContainerStatusFlagged),
		},
		string(models.ContainerStatusReadyForDelivery): {
			string(models.ContainerStatusDelivered),
			string(models.ContainerStatusFlagged),
		},
		string(models.ContainerStatusFlagged): {
			string(models.ContainerStatusPending),
			string(models.ContainerStatusProcessing),
			string(models.ContainerStatusReadyForDelivery),
		},
		string(models.ContainerStatusDelivered): {},
	}

	claims := map[string][]string{
		string(models.ClaimStatusPending): {
			string(models.ClaimStatusUnderReview),
			string(models.ClaimStatusApproved),
			string(models.ClaimStatusRejected),
			string(models.ClaimStatusResolved),
		},
		string(models.ClaimStatusUnderReview): {
			string(models.ClaimStatusApproved),
			string(models.ClaimStatusRejected),
			string(models.ClaimStatusResolved),
		},
		string(models.ClaimStatusApproved): {
			string(models.ClaimStatusResolved),
		},
		string(models.ClaimStatusRejected): {},
		string(models.ClaimStatusResolved): {},
	}

	return &Registry{
		transitions: map[EntityKind]map[string][]string{
			KindItem:      items,
			KindContainer: containers,
			KindClaim:     claims,
		},
		initial: map[EntityKind]string{
			KindItem:      string(models.ItemStatusPending),
			KindContainer: string(models.ContainerStatusPending),
			KindClaim:     string(models.ClaimStatusPending),
		},
	}
}

// IsValidTransition reports whether from -> to is legal for the kind.
// Self-transitions are never valid.
func (r *Registry) IsValidTransition(kind EntityKind, from, to string) bool {
	if from == to {
		return false
	}
	next, ok := r.transitions[kind][from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// Validate returns an InvalidTransitionError when from -> to is not legal.
func (r *Registry) Validate(kind EntityKind, from, to string) error {
	if !r.IsValidTransition(kind, from, to) {
		return &InvalidTransitionError{Kind: kind, From: from, To: to}
	}
	return nil
}

// InitialState returns the state new entities of the kind start in.
func (r *Registry) InitialState(kind EntityKind) string {
	return r.initial[kind]
}

// TerminalStates returns the states of the kind with no outgoing
// transitions.
func (r *Registry) TerminalStates(kind EntityKind) map[string]bool {
	terminal := make(map[string]bool)
	for state, next := range r.transitions[kind] {
		if len(next) == 0 {
			terminal[state] = true
		}
	}
	return terminal
}

// NextStates returns the legal targets from the given state, nil when the
// state is unknown or terminal.
func (r *Registry) NextStates(kind EntityKind, from string) []string {
	next := r.transitions[kind][from]
	if len(next) == 0 {
		return nil
	}
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// States returns every state the kind defines.
func (r *Registry) States(kind EntityKind) []string {
	table := r.transitions[kind]
	out := make([]string, 0, len(table))
	for state := range table {
		out = append(out, state)
	}
	return out
}
