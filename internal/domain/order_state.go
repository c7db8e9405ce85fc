package domain

import "strings"

// OrderState is derived from the three fulfillment flags and only moves forward.
type OrderState int

const (
	StatePlaced OrderState = iota
	StateDispatched
	StateOnTheWay
	StateDelivered
)

var stateNames = [...]string{"PLACED", "DISPATCHED", "ON_THE_WAY", "DELIVERED"}

func (s OrderState) String() string {
	if s < StatePlaced || s > StateDelivered {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// ParseOrderState accepts the upper-case names produced by String.
func ParseOrderState(v string) (OrderState, bool) {
	v = strings.ToUpper(strings.TrimSpace(v))
	for i, n := range stateNames {
		if n == v {
			return OrderState(i), true
		}
	}
	return 0, false
}

func (o Order) State() OrderState {
	switch {
	case o.Delivered:
		return StateDelivered
	case o.OnTheWay:
		return StateOnTheWay
	case o.Dispatched:
		return StateDispatched
	default:
		return StatePlaced
	}
}

// CanEdit reports whether address and notes may still change.
func (o Order) CanEdit() bool { return !o.OnTheWay && !o.Delivered }

// CanCancel reports whether the customer may still delete the order.
func (o Order) CanCancel() bool { return !o.Dispatched && !o.Delivered }

// Advance sets the flags for target. Earlier flags are implied, so a
// delivered order is also dispatched and on the way.
func (o *Order) Advance(target OrderState) error {
	if target <= o.State() {
		return BusinessRule(ReasonStateBackwards)
	}
	o.Dispatched = target >= StateDispatched
	o.OnTheWay = target >= StateOnTheWay
	o.Delivered = target >= StateDelivered
	return nil
}
