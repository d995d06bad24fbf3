package domain

import (
	"fmt"
	"time"
)

// IssueState enumerates lifecycle states for issues.
type IssueState string

const (
	IssueStateNew      IssueState = "NEW"
	IssueStateOpen     IssueState = "OPEN"
	IssueStatePending  IssueState = "PENDING"
	IssueStateResolved IssueState = "RESOLVED"
	IssueStateClosed   IssueState = "CLOSED"
)

var issueStates = map[IssueState]struct{}{
	IssueStateNew:      {},
	IssueStateOpen:     {},
	IssueStatePending:  {},
	IssueStateResolved: {},
	IssueStateClosed:   {},
}

// ParseIssueState validates a raw state string against the known enum.
func ParseIssueState(raw string) (IssueState, error) {
	state := IssueState(raw)
	if _, ok := issueStates[state]; !ok {
		return "", fmt.Errorf("unknown issue state %q", raw)
	}
	return state, nil
}

// Issue is the aggregate for customer support tickets.
type Issue struct {
	ID            string
	CompanyID     string
	CompanyName   string
	CustomerEmail string
	Subject       string
	Title         string
	State         IssueState
	Created       time.Time
	Latest        time.Time
}
