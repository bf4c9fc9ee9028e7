package store

import (
	"context"

	"github.com/deskops/helpdesk-groups/pkg/model"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ticketDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	UID     int64              `bson:"uid"`
	Subject string             `bson:"subject"`
	Group   interface{}        `bson:"group"`
	Deleted bool               `bson:"deleted"`
}

// TicketRepository reads tickets owned by the helpdesk. This service never writes them.
type TicketRepository struct {
	collection *mongo.Collection
	logger     *zerolog.Logger
}

func NewTicketRepository(db *Mongo, logger *zerolog.Logger) *TicketRepository {
	repoLogger := logger.With().Str("component", "ticket-repository").Logger()

	return &TicketRepository{
		collection: db.Collection(ticketsCollection),
		logger:     &repoLogger,
	}
}

// FindByGroups returns the non-deleted tickets assigned to any of groupIDs.
func (r *TicketRepository) FindByGroups(ctx context.Context, groupIDs []string) ([]*model.Ticket, error) {
	filter := bson.M{
		"group":   bson.M{"$in": groupReferences(groupIDs)},
		"deleted": bson.M{"$ne": true},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find tickets")
	}
	defer cursor.Close(ctx)

	var docs []ticketDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "failed to decode tickets")
	}

	r.logger.Trace().Strs("groups", groupIDs).Int("count", len(docs)).Msg("tickets read")

	tickets := make([]*model.Ticket, len(docs))
	for i, doc := range docs {
		tickets[i] = &model.Ticket{
			ID:      doc.ID.Hex(),
			UID:     doc.UID,
			Subject: doc.Subject,
			Group:   groupReference(doc.Group),
			Deleted: doc.Deleted,
		}
	}

	return tickets, nil
}

// groupReferences lists every stored form of the given group ids. Tickets written by the
// helpdesk reference their group as an ObjectId, older imports as a hex string.
func groupReferences(groupIDs []string) bson.A {
	refs := make(bson.A, 0, 2*len(groupIDs))

	for _, id := range groupIDs {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			refs = append(refs, oid)
		}

		refs = append(refs, id)
	}

	return refs
}

func groupReference(value interface{}) string {
	switch ref := value.(type) {
	case primitive.ObjectID:
		return ref.Hex()
	case string:
		return ref
	default:
		return ""
	}
}
