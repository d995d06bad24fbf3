package domain

import "testing"

func TestParseIssueState(t *testing.T) {
	for _, raw := range []string{"NEW", "OPEN", "PENDING", "RESOLVED", "CLOSED"} {
		state, err := ParseIssueState(raw)
		if err != nil {
			t.Fatalf("expected %q to parse, got %v", raw, err)
		}
		if string(state) != raw {
			t.Fatalf("expected %q, got %q", raw, state)
		}
	}
}

func TestParseIssueStateRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "new", "DONE", "IN_PROGRESS"} {
		if _, err := ParseIssueState(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestSenderForRole(t *testing.T) {
	if SenderForRole(RoleGuest) != SenderCustomer {
		t.Fatal("guest messages must record sender CUSTOMER")
	}
	if SenderForRole(RoleSupport) != SenderSupport {
		t.Fatal("support messages must record sender SUPPORT")
	}
	if SenderForRole(RoleAdmin) != SenderSupport {
		t.Fatal("admin messages must record sender SUPPORT")
	}
}
