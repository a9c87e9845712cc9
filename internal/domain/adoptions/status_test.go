package adoptions

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusInInterview},
		{StatusPending, StatusScheduled},
		{StatusPending, StatusRejected},
		{StatusPending, StatusCancelled},
		{StatusInInterview, StatusInterviewApproved},
		{StatusInInterview, StatusInterviewRejected},
		{StatusInInterview, StatusRejected},
		{StatusInInterview, StatusCancelled},
		{StatusInterviewApproved, StatusScheduled},
		{StatusInterviewApproved, StatusCompleted},
		{StatusInterviewApproved, StatusCancelled},
		{StatusScheduled, StatusCompleted},
		{StatusScheduled, StatusCancelled},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("%s -> %s deveria ser permitido", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to Status }{
		{StatusPending, StatusCompleted},
		{StatusPending, StatusInterviewApproved},
		{StatusInInterview, StatusCompleted},
		{StatusScheduled, StatusInInterview},
		{StatusCompleted, StatusCancelled},
		{StatusRejected, StatusPending},
		{StatusCancelled, StatusScheduled},
		{StatusInterviewRejected, StatusInterviewApproved},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("%s -> %s deveria ser negado", tc.from, tc.to)
		}
	}
}

func TestTerminal(t *testing.T) {
	terminal := []Status{StatusInterviewRejected, StatusCompleted, StatusRejected, StatusCancelled}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s deveria ser terminal", s)
		}
		if len(transitions[s]) != 0 {
			t.Errorf("%s terminal mas tem transições de saída", s)
		}
	}

	open := []Status{StatusPending, StatusInInterview, StatusInterviewApproved, StatusScheduled}
	for _, s := range open {
		if s.Terminal() {
			t.Errorf("%s não deveria ser terminal", s)
		}
	}
}

func TestInvalidTransitionError(t *testing.T) {
	r := Request{Status: StatusCompleted}
	err := transition(&r, StatusCancelled)
	if err == nil {
		t.Fatal("transição de estado terminal deveria falhar")
	}
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("errors.Is(ErrInvalidTransition) = false: %v", err)
	}

	var ite *InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("esperado *InvalidTransitionError, veio %T", err)
	}
	if ite.From != StatusCompleted || ite.Attempted != StatusCancelled {
		t.Errorf("From=%s Attempted=%s", ite.From, ite.Attempted)
	}
	if r.Status != StatusCompleted {
		t.Errorf("status mudou após transição inválida: %s", r.Status)
	}
}
