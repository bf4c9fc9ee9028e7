package groups_test

import (
	"testing"

	"github.com/deskops/helpdesk-groups/pkg/app/handlers/groups"
	"github.com/deskops/helpdesk-groups/pkg/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestDeleteGroupWithoutTickets(t *testing.T) {
	assert := require.New(t)

	f := newFixture(t, []*model.Group{{ID: "g1", Name: "Support"}}, nil)

	err := f.handler.Delete(t.Context(), "g1")
	assert.NoError(err)

	assert.NotContains(f.groups.groups, "g1")
	assert.Equal([]string{"FindByID", "Delete"}, f.groups.calls)
	assert.Equal([]string{"Deleted Group - g1"}, f.warnings(t))
	assert.Equal([]groups.ErrorKind{groups.KindNone}, f.kinds.kinds)
}

func TestDeleteGroupWithTickets(t *testing.T) {
	assert := require.New(t)

	f := newFixture(t,
		[]*model.Group{{ID: "g2", Name: "Billing"}},
		[]*model.Ticket{{ID: "t1", Group: "g2"}},
	)

	err := f.handler.Delete(t.Context(), "g2")
	assert.Error(err)
	assert.Equal("Cannot delete a group with tickets.", err.Error())
	assert.Equal(groups.ReferentialIntegrityViolation, groups.KindOf(err))

	assert.Contains(f.groups.groups, "g2")
	assert.False(f.groups.called("FindByID"))
	assert.False(f.groups.called("Delete"))
	assert.Empty(f.warnings(t))
}

func TestDeleteGroupIgnoresDeletedTickets(t *testing.T) {
	assert := require.New(t)

	f := newFixture(t,
		[]*model.Group{{ID: "g3", Name: "Archive"}},
		[]*model.Ticket{{ID: "t1", Group: "g3", Deleted: true}, {ID: "t2", Group: "other"}},
	)

	assert.NoError(f.handler.Delete(t.Context(), "g3"))
	assert.NotContains(f.groups.groups, "g3")
}

func TestDeleteMissingGroup(t *testing.T) {
	assert := require.New(t)

	f := newFixture(t, []*model.Group{{ID: "g1", Name: "Support"}}, nil)

	err := f.handler.Delete(t.Context(), "nope")
	assert.Error(err)
	assert.Equal(groups.NotFound, groups.KindOf(err))
	assert.True(errors.Is(err, model.ErrGroupNotFound))

	assert.False(f.groups.called("Delete"))
	assert.Contains(f.groups.groups, "g1")
	assert.Empty(f.warnings(t))
}

func TestDeleteEmptyID(t *testing.T) {
	for _, id := range []string{"", "   "} {
		t.Run("id="+id, func(t *testing.T) {
			assert := require.New(t)

			f := newFixture(t, []*model.Group{{ID: "g1", Name: "Support"}}, nil)

			err := f.handler.Delete(t.Context(), id)
			assert.Error(err)
			assert.Equal(groups.PreconditionFailed, groups.KindOf(err))

			assert.Zero(f.tickets.calls)
			assert.Empty(f.groups.calls)
			assert.Equal([]groups.ErrorKind{groups.PreconditionFailed}, f.kinds.kinds)
		})
	}
}

func TestDeleteTicketLookupFails(t *testing.T) {
	assert := require.New(t)

	f := newFixture(t, []*model.Group{{ID: "g1", Name: "Support"}}, nil)
	f.tickets.err = errors.New("connection reset")

	err := f.handler.Delete(t.Context(), "g1")
	assert.Error(err)
	assert.Equal(groups.LookupFailed, groups.KindOf(err))
	assert.Equal("connection reset", err.Error())

	assert.Empty(f.groups.calls)
	assert.Contains(f.groups.groups, "g1")
}

func TestDeleteFetchFails(t *testing.T) {
	assert := require.New(t)

	f := newFixture(t, []*model.Group{{ID: "g1", Name: "Support"}}, nil)
	f.groups.findErr = errors.New("server selection timeout")

	err := f.handler.Delete(t.Context(), "g1")
	assert.Equal(groups.NotFound, groups.KindOf(err))
	assert.False(f.groups.called("Delete"))
}

func TestDeleteRemovalFails(t *testing.T) {
	assert := require.New(t)

	f := newFixture(t, []*model.Group{{ID: "g1", Name: "Support"}}, nil)
	f.groups.delErr = errors.New("write concern error")

	err := f.handler.Delete(t.Context(), "g1")
	assert.Equal(groups.RemovalFailed, groups.KindOf(err))
	assert.Equal("write concern error", err.Error())
	assert.Empty(f.warnings(t))
	assert.Equal([]groups.ErrorKind{groups.RemovalFailed}, f.kinds.kinds)
}

func TestKindOf(t *testing.T) {
	assert := require.New(t)

	assert.Equal(groups.KindNone, groups.KindOf(nil))
	assert.Equal(groups.StorageFailed, groups.KindOf(errors.New("boom")))
	assert.Equal("referential_integrity_violation", groups.ReferentialIntegrityViolation.String())
}
