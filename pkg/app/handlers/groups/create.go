package groups

import (
	"context"

	"github.com/deskops/helpdesk-groups/pkg/model"
	"github.com/pkg/errors"
)

func (g GroupHandler) Create(ctx context.Context, input *GroupInput) (*model.Group, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	logger := g.logger.With().Str("method", "Create").Str("name", input.Name).Logger()
	logger.Info().Msg("create group")

	grp := &model.Group{}
	input.apply(grp)

	if err := g.groups.Insert(ctx, grp); err != nil {
		logger.Error().Err(err).Msg("failed to create group")

		if errors.Is(err, model.ErrGroupExists) {
			return nil, wrapError(InvalidInput, err)
		}

		return nil, wrapError(StorageFailed, err)
	}

	logger.Trace().Any("group", grp).Msg("group created")

	return grp, nil
}
