package groups

import (
	"context"

	"github.com/deskops/helpdesk-groups/pkg/model"
	"github.com/pkg/errors"
)

// Update replaces name, members and sendMailTo of the group with id.
func (g GroupHandler) Update(ctx context.Context, id string, input *GroupInput) (*model.Group, error) {
	logger := g.logger.With().Str("method", "Update").Str("id", id).Logger()
	logger.Info().Msg("update group")

	if err := input.Validate(); err != nil {
		return nil, err
	}

	grp, err := g.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	input.apply(grp)

	if err := g.groups.Update(ctx, grp); err != nil {
		logger.Error().Err(err).Msg("failed to update group")

		switch {
		case errors.Is(err, model.ErrGroupNotFound):
			return nil, wrapError(NotFound, err)
		case errors.Is(err, model.ErrGroupExists):
			return nil, wrapError(InvalidInput, err)
		default:
			return nil, wrapError(StorageFailed, err)
		}
	}

	logger.Trace().Any("group", grp).Msg("group updated")

	return grp, nil
}
