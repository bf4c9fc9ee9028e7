package app_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/deskops/helpdesk-groups/pkg/app"
	"github.com/deskops/helpdesk-groups/pkg/app/handlers/groups"
	"github.com/deskops/helpdesk-groups/pkg/config"
	"github.com/deskops/helpdesk-groups/pkg/model"
	"github.com/gavv/httpexpect/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type memGroups struct {
	mu     sync.Mutex
	groups map[string]*model.Group
	nextID int
}

func (m *memGroups) FindByID(_ context.Context, id string) (*model.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	grp, ok := m.groups[id]
	if !ok {
		return nil, errors.Wrapf(model.ErrGroupNotFound, "id %q", id)
	}

	return grp.Clone(), nil
}

func (m *memGroups) FindAll(_ context.Context) ([]*model.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*model.Group, 0, len(m.groups))
	for _, grp := range m.groups {
		result = append(result, grp.Clone())
	}

	return result, nil
}

func (m *memGroups) Insert(_ context.Context, grp *model.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.groups {
		if existing.Name == grp.Name {
			return errors.Wrapf(model.ErrGroupExists, "name %q", grp.Name)
		}
	}

	m.nextID++
	grp.ID = fmt.Sprintf("%024x", m.nextID)
	m.groups[grp.ID] = grp.Clone()

	return nil
}

func (m *memGroups) Update(_ context.Context, grp *model.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.groups[grp.ID]; !ok {
		return model.ErrGroupNotFound
	}

	m.groups[grp.ID] = grp.Clone()

	return nil
}

func (m *memGroups) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.groups[id]; !ok {
		return model.ErrGroupNotFound
	}

	delete(m.groups, id)

	return nil
}

type memTickets struct {
	tickets []*model.Ticket
}

func (m *memTickets) FindByGroups(_ context.Context, groupIDs []string) ([]*model.Ticket, error) {
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

type pinger struct {
	err error
}

func (p pinger) Ping(context.Context) error {
	return p.err
}

type testServer struct {
	expect *httpexpect.Expect
	groups *memGroups
}

type serverOption func(*app.RouterConfig)

func withAuth(auth *config.AuthConfig) serverOption {
	return func(cfg *app.RouterConfig) {
		cfg.Auth = auth
	}
}

func withPinger(p app.Pinger) serverOption {
	return func(cfg *app.RouterConfig) {
		cfg.Pinger = p
	}
}

func newTestServer(t *testing.T, grps []*model.Group, tickets []*model.Ticket, opts ...serverOption) *testServer {
	t.Helper()

	logger := zerolog.Nop()
	registry := prometheus.NewRegistry()
	metrics := app.NewMetrics(registry)

	store := &memGroups{groups: map[string]*model.Group{}}
	for _, grp := range grps {
		store.groups[grp.ID] = grp.Clone()
	}

	handler := groups.NewGroupHandler(&logger, store, &memTickets{tickets: tickets}, groups.WithObserver(metrics))

	cfg := &app.RouterConfig{
		Logger:   &logger,
		Handler:  handler,
		SCIM:     true,
		Metrics:  metrics,
		Gatherer: registry,
		Pinger:   pinger{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	router, err := app.NewRouter(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{
		expect: httpexpect.Default(t, srv.URL),
		groups: store,
	}
}
