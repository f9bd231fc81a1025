package domain

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusAccepted   OrderStatus = "accepted"
	StatusInProgress OrderStatus = "in_progress"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// AllStatuses lists every status in lifecycle order.
func AllStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled}
}

// transitions is the authoritative status machine. Terminal states have no entry.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, v := range AllStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s in one step.
func NextStatuses(s OrderStatus) []OrderStatus {
	return append([]OrderStatus(nil), transitions[s]...)
}

// CanTransition returns nil when from -> to is allowed. Staying on the
// same status is allowed so partial updates can carry the current value.
func CanTransition(from, to OrderStatus) error {
	if from == to {
		return nil
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%s -> %s not allowed; valid from %s: %s", from, to, from, describeNext(from))
}

func describeNext(s OrderStatus) string {
	next := transitions[s]
	if len(next) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(next))
	for i, n := range next {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}

// ParseOrderStatus parses s (case-insensitive, "-" or " " accepted for "_").
// Unknown input yields an error naming the closest status.
func ParseOrderStatus(s string) (OrderStatus, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	st := OrderStatus(norm)
	if st.Valid() {
		return st, nil
	}
	best, bestDist := OrderStatus(""), -1
	for _, cand := range AllStatuses() {
		d := levenshtein.ComputeDistance(norm, string(cand))
		if bestDist < 0 || d < bestDist {
			best, bestDist = cand, d
		}
	}
	if bestDist >= 0 && bestDist <= 3 {
		return "", fmt.Errorf("unknown status %q, did you mean %q?", s, best)
	}
	return "", fmt.Errorf("unknown status %q", s)
}
