package groups

import (
	"context"
	"strings"
)

// Delete removes a group that no ticket references. The steps run in order and the
// first failure ends the request, so removal only happens after the ticket check
// and the group lookup both succeeded.
func (g GroupHandler) Delete(ctx context.Context, id string) error {
	err := g.delete(ctx, id)

	if g.observer != nil {
		g.observer.ObserveDelete(KindOf(err))
	}

	return err
}

func (g GroupHandler) delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return newError(PreconditionFailed, "Invalid Group Id")
	}

	logger := g.logger.With().Str("method", "Delete").Str("id", id).Logger()
	logger.Info().Msg("delete group")

	tickets, err := g.tickets.FindByGroups(ctx, []string{id})
	if err != nil {
		logger.Error().Err(err).Msg("failed to look up tickets")
		return wrapError(LookupFailed, err)
	}

	if len(tickets) > 0 {
		logger.Info().Int("tickets", len(tickets)).Msg("group still has tickets")
		return newError(ReferentialIntegrityViolation, msgGroupHasTickets)
	}

	grp, err := g.groups.FindByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msg("failed to get group")
		return wrapError(NotFound, err)
	}

	if err := g.groups.Delete(ctx, grp.ID); err != nil {
		logger.Error().Err(err).Msg("failed to delete group")
		return wrapError(RemovalFailed, err)
	}

	// audit entry
	g.logger.Warn().Str("id", grp.ID).Msgf("Deleted Group - %s", grp.ID)

	return nil
}
