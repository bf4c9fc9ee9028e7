package groups

import (
	"context"
	"sort"
	"strings"

	"github.com/deskops/helpdesk-groups/pkg/model"
	"github.com/pkg/errors"
)

func (g GroupHandler) Get(ctx context.Context, id string) (*model.Group, error) {
	logger := g.logger.With().Str("method", "Get").Str("id", id).Logger()
	logger.Info().Msg("get group")

	if strings.TrimSpace(id) == "" {
		return nil, newError(PreconditionFailed, "Invalid Group Id")
	}

	grp, err := g.groups.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrGroupNotFound) {
			return nil, wrapError(NotFound, err)
		}

		logger.Error().Err(err).Msg("failed to get group")

		return nil, wrapError(StorageFailed, err)
	}

	return grp, nil
}

func (g GroupHandler) List(ctx context.Context) ([]*model.Group, error) {
	logger := g.logger.With().Str("method", "List").Logger()
	logger.Info().Msg("getting all groups")

	groups, err := g.groups.FindAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read groups")
		return nil, wrapError(StorageFailed, err)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Name != groups[j].Name {
			return groups[i].Name < groups[j].Name
		}
		return groups[i].ID < groups[j].ID
	})

	logger.Trace().Int("total_results", len(groups)).Msg("groups read")

	return groups, nil
}
