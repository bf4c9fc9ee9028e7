package groups_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"testing"

	"github.com/deskops/helpdesk-groups/pkg/app/handlers/groups"
	"github.com/deskops/helpdesk-groups/pkg/model"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type memGroups struct {
	groups  map[string]*model.Group
	nextID  int
	calls   []string
	findErr error
	delErr  error
	saveErr error
}

func newMemGroups(groups ...*model.Group) *memGroups {
	m := &memGroups{groups: map[string]*model.Group{}}
	for _, grp := range groups {
		m.groups[grp.ID] = grp.Clone()
	}

	return m
}

func (m *memGroups) FindByID(_ context.Context, id string) (*model.Group, error) {
	m.calls = append(m.calls, "FindByID")
	if m.findErr != nil {
		return nil, m.findErr
	}

	grp, ok := m.groups[id]
	if !ok {
		return nil, model.ErrGroupNotFound
	}

	return grp.Clone(), nil
}

func (m *memGroups) FindAll(_ context.Context) ([]*model.Group, error) {
	m.calls = append(m.calls, "FindAll")
	if m.findErr != nil {
		return nil, m.findErr
	}

	result := make([]*model.Group, 0, len(m.groups))
	for _, grp := range m.groups {
		result = append(result, grp.Clone())
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })

	return result, nil
}

func (m *memGroups) Insert(_ context.Context, grp *model.Group) error {
	m.calls = append(m.calls, "Insert")
	if m.saveErr != nil {
		return m.saveErr
	}

	for _, existing := range m.groups {
		if existing.Name == grp.Name {
			return errors.Wrapf(model.ErrGroupExists, "name %q", grp.Name)
		}
	}

	m.nextID++
	grp.ID = fmt.Sprintf("new%d", m.nextID)
	m.groups[grp.ID] = grp.Clone()

	return nil
}

func (m *memGroups) Update(_ context.Context, grp *model.Group) error {
	m.calls = append(m.calls, "Update")
	if m.saveErr != nil {
		return m.saveErr
	}

	if _, ok := m.groups[grp.ID]; !ok {
		return model.ErrGroupNotFound
	}

	m.groups[grp.ID] = grp.Clone()

	return nil
}

func (m *memGroups) Delete(_ context.Context, id string) error {
	m.calls = append(m.calls, "Delete")
	if m.delErr != nil {
		return m.delErr
	}

	if _, ok := m.groups[id]; !ok {
		return model.ErrGroupNotFound
	}

	delete(m.groups, id)

	return nil
}

func (m *memGroups) called(name string) bool {
	for _, call := range m.calls {
		if call == name {
			return true
		}
	}

	return false
}

type memTickets struct {
	tickets []*model.Ticket
	err     error
	calls   int
}

func (m *memTickets) FindByGroups(_ context.Context, groupIDs []string) ([]*model.Ticket, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	result := []*model.Ticket{}
	for _, ticket := range m.tickets {
		for _, id := range groupIDs {
			if ticket.Group == id && !ticket.Deleted {
				result = append(result, ticket)
			}
		}
	}

	return result, nil
}

type kindRecorder struct {
	kinds []groups.ErrorKind
}

func (k *kindRecorder) ObserveDelete(kind groups.ErrorKind) {
	k.kinds = append(k.kinds, kind)
}

type fixture struct {
	handler *groups.GroupHandler
	groups  *memGroups
	tickets *memTickets
	logs    *bytes.Buffer
	kinds   *kindRecorder
}

func newFixture(t *testing.T, grps []*model.Group, tickets []*model.Ticket) *fixture {
	t.Helper()

	logs := &bytes.Buffer{}
	logger := zerolog.New(logs).Level(zerolog.TraceLevel)

	f := &fixture{
		groups:  newMemGroups(grps...),
		tickets: &memTickets{tickets: tickets},
		logs:    logs,
		kinds:   &kindRecorder{},
	}
	f.handler = groups.NewGroupHandler(&logger, f.groups, f.tickets, groups.WithObserver(f.kinds))

	return f
}

// warnings returns the messages of all warn level log entries.
func (f *fixture) warnings(t *testing.T) []string {
	t.Helper()

	var messages []string

	scanner := bufio.NewScanner(bytes.NewReader(f.logs.Bytes()))
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", scanner.Text(), err)
		}

		if entry["level"] == "warn" {
			messages = append(messages, entry["message"].(string))
		}
	}

	return messages
}
