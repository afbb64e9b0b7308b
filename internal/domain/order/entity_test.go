// internal/domain/order/entity_test.go
package order

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		// Forward one step at a time
		{StatusPending, StatusConfirmed, true},
		{StatusConfirmed, StatusAwaitingPayment, true},
		{StatusAwaitingPayment, StatusReadyToShip, true},
		{StatusReadyToShip, StatusFulfilled, true},

		// Skipping ahead is forbidden
		{StatusPending, StatusAwaitingPayment, false},
		{StatusPending, StatusFulfilled, false},
		{StatusConfirmed, StatusReadyToShip, false},
		{StatusConfirmed, StatusFulfilled, false},

		// Reverting to any earlier non-terminal step is allowed
		{StatusReadyToShip, StatusPending, true},
		{StatusReadyToShip, StatusConfirmed, true},
		{StatusAwaitingPayment, StatusPending, true},
		{StatusConfirmed, StatusPending, true},

		// Cancellation from any non-terminal state
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusAwaitingPayment, StatusCancelled, true},
		{StatusReadyToShip, StatusCancelled, true},

		// Terminal states have no outgoing transitions
		{StatusFulfilled, StatusPending, false},
		{StatusFulfilled, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusFulfilled, false},

		// Self-transitions and unknown targets
		{StatusPending, StatusPending, false},
		{StatusPending, "shipped", false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusConfirmed, StatusAwaitingPayment, StatusReadyToShip} {
		if s.IsTerminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
	for _, s := range []OrderStatus{StatusFulfilled, StatusCancelled} {
		if !s.IsTerminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
}

func TestIsValid(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusConfirmed, StatusAwaitingPayment, StatusReadyToShip, StatusFulfilled, StatusCancelled} {
		if !s.IsValid() {
			t.Errorf("%s must be valid", s)
		}
	}
	if OrderStatus("shipped").IsValid() {
		t.Error("unknown status must not be valid")
	}
}
