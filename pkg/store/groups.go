package store

import (
	"context"

	"github.com/deskops/helpdesk-groups/pkg/model"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type groupDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Members    []string           `bson:"members"`
	SendMailTo []string           `bson:"sendMailTo"`
}

// GroupRepository stores groups in the "groups" collection.
type GroupRepository struct {
	collection *mongo.Collection
	logger     *zerolog.Logger
}

func NewGroupRepository(db *Mongo, logger *zerolog.Logger) *GroupRepository {
	repoLogger := logger.With().Str("component", "group-repository").Logger()

	return &GroupRepository{
		collection: db.Collection(groupsCollection),
		logger:     &repoLogger,
	}
}

// FindByID returns model.ErrGroupNotFound when no group has the id,
// including when id is not a valid ObjectID.
func (r *GroupRepository) FindByID(ctx context.Context, id string) (*model.Group, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.Wrapf(model.ErrGroupNotFound, "invalid group id %q", id)
	}

	var doc groupDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrGroupNotFound
		}

		return nil, errors.Wrap(err, "failed to find group")
	}

	return documentToGroup(&doc), nil
}

// FindAll returns every group sorted by name.
func (r *GroupRepository) FindAll(ctx context.Context) ([]*model.Group, error) {
	cursor, err := r.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find groups")
	}
	defer cursor.Close(ctx)

	var docs []groupDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "failed to decode groups")
	}

	groups := make([]*model.Group, len(docs))
	for i := range docs {
		groups[i] = documentToGroup(&docs[i])
	}

	return groups, nil
}

// Insert stores a new group and sets grp.ID to the generated ObjectID.
func (r *GroupRepository) Insert(ctx context.Context, grp *model.Group) error {
	doc := groupToDocument(grp)
	doc.ID = primitive.NilObjectID

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Wrapf(model.ErrGroupExists, "name %q", grp.Name)
		}

		return errors.Wrap(err, "failed to insert group")
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		grp.ID = oid.Hex()
	}

	r.logger.Debug().Str("id", grp.ID).Str("name", grp.Name).Msg("group inserted")

	return nil
}

// Update replaces name, members and sendMailTo of an existing group.
func (r *GroupRepository) Update(ctx context.Context, grp *model.Group) error {
	oid, err := primitive.ObjectIDFromHex(grp.ID)
	if err != nil {
		return errors.Wrapf(model.ErrGroupNotFound, "invalid group id %q", grp.ID)
	}

	doc := groupToDocument(grp)
	update := bson.M{"$set": bson.M{
		"name":       doc.Name,
		"members":    doc.Members,
		"sendMailTo": doc.SendMailTo,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Wrapf(model.ErrGroupExists, "name %q", grp.Name)
		}

		return errors.Wrap(err, "failed to update group")
	}

	if result.MatchedCount == 0 {
		return model.ErrGroupNotFound
	}

	r.logger.Debug().Str("id", grp.ID).Str("name", grp.Name).Msg("group updated")

	return nil
}

// Delete removes the group with the given id.
func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrapf(model.ErrGroupNotFound, "invalid group id %q", id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "failed to delete group")
	}

	if result.DeletedCount == 0 {
		return model.ErrGroupNotFound
	}

	return nil
}

func documentToGroup(doc *groupDocument) *model.Group {
	return &model.Group{
		ID:         doc.ID.Hex(),
		Name:       doc.Name,
		Members:    model.UserRefSet(doc.Members),
		SendMailTo: model.UserRefSet(doc.SendMailTo),
	}
}

func groupToDocument(grp *model.Group) *groupDocument {
	doc := &groupDocument{
		Name:       grp.Name,
		Members:    model.UserRefSet(grp.Members),
		SendMailTo: model.UserRefSet(grp.SendMailTo),
	}

	if oid, err := primitive.ObjectIDFromHex(grp.ID); err == nil {
		doc.ID = oid
	}

	return doc
}
