package store

import (
	"testing"

	"github.com/deskops/helpdesk-groups/pkg/model"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDocumentToGroupDefaultsSets(t *testing.T) {
	assert := require.New(t)

	oid := primitive.NewObjectID()
	grp := documentToGroup(&groupDocument{ID: oid, Name: "Support"})

	assert.Equal(oid.Hex(), grp.ID)
	assert.Equal("Support", grp.Name)
	assert.NotNil(grp.Members)
	assert.NotNil(grp.SendMailTo)
	assert.Empty(grp.Members)
}

func TestGroupToDocument(t *testing.T) {
	assert := require.New(t)

	oid := primitive.NewObjectID()
	doc := groupToDocument(&model.Group{
		ID:      oid.Hex(),
		Name:    "Support",
		Members: []string{"u1", "u1", "u2"},
	})

	assert.Equal(oid, doc.ID)
	assert.Equal([]string{"u1", "u2"}, doc.Members)
	assert.NotNil(doc.SendMailTo)
}

func TestGroupToDocumentWithoutID(t *testing.T) {
	assert := require.New(t)

	doc := groupToDocument(&model.Group{Name: "New"})

	assert.True(doc.ID.IsZero())
}
