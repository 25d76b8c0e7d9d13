package devices

import "github.com/netorganizer/netorg/pkg/constants"

// Predicate selects records from a table.
type Predicate func(Record) bool

// Known selects devices listed in the classification file.
func Known(r Record) bool { return r.Known }

// Reserved selects devices with a fixed-IP reservation.
func Reserved(r Record) bool { return r.Reserved }

// Active selects devices currently seen as clients.
func Active(r Record) bool { return r.Active }

// HasIP selects devices with an address.
func HasIP(r Record) bool { return r.IP != "" }

// Unclassified selects devices without a curated group.
func Unclassified(r Record) bool { return r.GroupName() == constants.UnclassifiedGroup }

// StaleReservation selects devices that only exist because of a leftover
// reservation: not known, reserved, and not active.
func StaleReservation(r Record) bool {
	return !r.Known && r.Reserved && !r.Active
}

// Not negates a predicate.
func Not(p Predicate) Predicate {
	return func(r Record) bool { return !p(r) }
}

// All combines predicates with logical and. No predicates selects everything.
func All(preds ...Predicate) Predicate {
	return func(r Record) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}
