package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var all = []Status{Draft, Submitted, Approved, Rejected, RevisionNeeded, Completed}

func TestCanTransition_Table(t *testing.T) {
	allowed := map[Status][]Status{
		Draft:          {Submitted},
		Submitted:      {Approved, Rejected, RevisionNeeded},
		Approved:       {Completed, Submitted},
		Rejected:       {Submitted},
		RevisionNeeded: {Submitted},
		Completed:      nil,
	}
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	assert.True(t, Completed.Terminal())
	assert.Empty(t, Targets(Completed))
	for _, s := range all[:len(all)-1] {
		assert.False(t, s.Terminal(), s)
	}
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check(Draft, Submitted))

	err := Check(Draft, Approved)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransitionNotAllowed))

	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, Draft, te.From)
	assert.Equal(t, Approved, te.To)
}

func TestCheckRole(t *testing.T) {
	assert.NoError(t, CheckRole(RoleRequester, Draft, Submitted))
	assert.NoError(t, CheckRole(RoleApprover, Submitted, Approved))
	assert.NoError(t, CheckRole(RoleApprover, Approved, Submitted))
	assert.NoError(t, CheckRole(RolePurchaser, Approved, Completed))
	assert.NoError(t, CheckRole(RoleAdmin, Submitted, Rejected))

	assert.ErrorIs(t, CheckRole(RoleRequester, Submitted, Approved), ErrRoleNotAllowed)
	assert.ErrorIs(t, CheckRole(RolePurchaser, Submitted, Approved), ErrRoleNotAllowed)
	assert.ErrorIs(t, CheckRole(Role("guest"), Draft, Submitted), ErrRoleNotAllowed)

	// the table is checked before the role
	assert.ErrorIs(t, CheckRole(RoleAdmin, Completed, Draft), ErrTransitionNotAllowed)
}

func TestTargetsFor(t *testing.T) {
	assert.Equal(t, []Status{Approved, Rejected, RevisionNeeded}, TargetsFor(RoleApprover, Submitted))
	assert.Empty(t, TargetsFor(RoleRequester, Submitted))
	assert.Equal(t, []Status{Completed}, TargetsFor(RolePurchaser, Approved))
	assert.Equal(t, []Status{Completed, Submitted}, TargetsFor(RoleAdmin, Approved))
}

func TestTargetsReturnsCopy(t *testing.T) {
	got := Targets(Submitted)
	got[0] = Completed
	assert.Equal(t, Approved, Targets(Submitted)[0])
}

func TestParse(t *testing.T) {
	s, err := Parse(" revision_needed ")
	require.NoError(t, err)
	assert.Equal(t, RevisionNeeded, s)

	_, err = Parse("archived")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestIsCancelApprove(t *testing.T) {
	assert.True(t, IsCancelApprove(Approved, Submitted))
	assert.False(t, IsCancelApprove(Rejected, Submitted))
}
