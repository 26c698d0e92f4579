// Package status holds the purchase-request state machine.
package status

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

type Status string

const (
	Draft          Status = "DRAFT"
	Submitted      Status = "SUBMITTED"
	Approved       Status = "APPROVED"
	Rejected       Status = "REJECTED"
	RevisionNeeded Status = "REVISION_NEEDED"
	Completed      Status = "COMPLETED"
)

type Role string

const (
	RoleRequester Role = "requester"
	RoleApprover  Role = "approver"
	RolePurchaser Role = "purchaser"
	RoleAdmin     Role = "admin"
)

var (
	ErrUnknownStatus        = errors.New("unknown status")
	ErrTransitionNotAllowed = errors.New("transition not allowed")
	ErrRoleNotAllowed       = errors.New("role not allowed to perform transition")
)

// transitions is the whole state machine. APPROVED -> SUBMITTED is the
// cancel-approve path.
var transitions = map[Status][]Status{
	Draft:          {Submitted},
	Submitted:      {Approved, Rejected, RevisionNeeded},
	Approved:       {Completed, Submitted},
	Rejected:       {Submitted},
	RevisionNeeded: {Submitted},
	Completed:      {},
}

type edge struct {
	from, to Status
}

var roleEdges = map[Role][]edge{
	RoleRequester: {
		{Draft, Submitted},
		{Rejected, Submitted},
		{RevisionNeeded, Submitted},
	},
	RoleApprover: {
		{Submitted, Approved},
		{Submitted, Rejected},
		{Submitted, RevisionNeeded},
		{Approved, Submitted},
	},
	RolePurchaser: {
		{Approved, Completed},
	},
}

func Parse(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := transitions[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Targets lists the statuses reachable from s.
func Targets(from Status) []Status {
	return append([]Status(nil), transitions[from]...)
}

func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

// IsCancelApprove reports the APPROVED -> SUBMITTED edge, which undoes an
// approval instead of submitting anew.
func IsCancelApprove(from, to Status) bool {
	return from == Approved && to == Submitted
}

type TransitionError struct {
	From, To Status
	Role     Role
	err      error
}

func (e *TransitionError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("%s cannot move request from %s to %s", e.Role, e.From, e.To)
	}
	return fmt.Sprintf("cannot move request from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return e.err }

// Conflict reports a transition that was valid when checked but lost to a
// concurrent change of the request's status.
func Conflict(from, to Status) *TransitionError {
	return &TransitionError{From: from, To: to, err: ErrTransitionNotAllowed}
}

func Check(from, to Status) error {
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to, err: ErrTransitionNotAllowed}
	}
	return nil
}

// CheckRole runs Check and then verifies the role owns the edge.
func CheckRole(role Role, from, to Status) error {
	if err := Check(from, to); err != nil {
		return err
	}
	if role == RoleAdmin {
		return nil
	}
	if !slices.Contains(roleEdges[role], edge{from, to}) {
		return &TransitionError{From: from, To: to, Role: role, err: ErrRoleNotAllowed}
	}
	return nil
}

// TargetsFor lists the statuses role may move a request to from s.
func TargetsFor(role Role, from Status) []Status {
	var out []Status
	for _, to := range transitions[from] {
		if CheckRole(role, from, to) == nil {
			out = append(out, to)
		}
	}
	return out
}
