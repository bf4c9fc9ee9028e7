package groups

import (
	"context"

	"github.com/deskops/helpdesk-groups/pkg/model"
	"github.com/rs/zerolog"
)

// Repository persists groups.
type Repository interface {
	FindByID(ctx context.Context, id string) (*model.Group, error)
	FindAll(ctx context.Context) ([]*model.Group, error)
	Insert(ctx context.Context, grp *model.Group) error
	Update(ctx context.Context, grp *model.Group) error
	Delete(ctx context.Context, id string) error
}

// TicketFinder looks up tickets referencing groups.
type TicketFinder interface {
	FindByGroups(ctx context.Context, groupIDs []string) ([]*model.Ticket, error)
}

// Observer is notified of every deletion attempt. kind is KindNone on success.
type Observer interface {
	ObserveDelete(kind ErrorKind)
}

type Option func(*GroupHandler)

func WithObserver(observer Observer) Option {
	return func(g *GroupHandler) {
		g.observer = observer
	}
}

type GroupHandler struct {
	logger   *zerolog.Logger
	groups   Repository
	tickets  TicketFinder
	observer Observer
}

func NewGroupHandler(logger *zerolog.Logger, groups Repository, tickets TicketFinder, opts ...Option) *GroupHandler {
	groupLogger := logger.With().Str("component", "groups-handler").Logger()

	handler := &GroupHandler{
		logger:  &groupLogger,
		groups:  groups,
		tickets: tickets,
	}

	for _, opt := range opts {
		opt(handler)
	}

	return handler
}
