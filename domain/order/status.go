package order

import "strings"

// Status Order status enum
type Status string

const (
	StatusPending        Status = "pending"
	StatusValidated      Status = "validated"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// transitions is the only source of legal status changes.
// Anything not listed here is an IllegalTransition.
var transitions = map[Status][]Status{
	StatusPending:        {StatusValidated, StatusCancelled},
	StatusValidated:      {StatusPreparing},
	StatusPreparing:      {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
}

// ParseStatus parses a status name, accepting any letter case.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusValidated, StatusPreparing,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return st, true
	}
	return "", false
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s.
func NextStatuses(s Status) []Status {
	next := make([]Status, len(transitions[s]))
	copy(next, transitions[s])
	return next
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// AllowsItemEdits items and delivery type are frozen once the order leaves pending.
func (s Status) AllowsItemEdits() bool {
	return s == StatusPending
}

// AllowsDetailEdits notes and due date stay editable up through delivered.
func (s Status) AllowsDetailEdits() bool {
	return s != StatusCancelled
}

// AllowsPayments cancelled orders never take payments.
func (s Status) AllowsPayments() bool {
	return s != StatusCancelled
}
