// Package store persists helpdesk groups and reads tickets from MongoDB.
package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	groupsCollection  = "groups"
	ticketsCollection = "tickets"
)

// Config contains the MongoDB connection settings.
type Config struct {
	URI            string        `json:"uri"`
	Database       string        `json:"database"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
	PingTimeout    time.Duration `json:"ping_timeout"`
}

// Mongo holds the client and the helpdesk database handle.
type Mongo struct {
	client   *mongo.Client
	database *mongo.Database
	cfg      *Config
	logger   *zerolog.Logger
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Mongo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to mongodb")
	}

	m := &Mongo{
		client:   client,
		database: client.Database(cfg.Database),
		cfg:      cfg,
		logger:   logger,
	}

	if err := m.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logger.Info().Str("database", cfg.Database).Msg("connected to mongodb")

	return m, nil
}

// Ping checks that the server is reachable within the configured ping timeout.
func (m *Mongo) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, m.cfg.PingTimeout)
	defer cancel()

	if err := m.client.Ping(pingCtx, nil); err != nil {
		return errors.Wrap(err, "failed to ping mongodb")
	}

	return nil
}

// EnsureIndexes creates the indexes the repositories rely on.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.database.Collection(groupsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create groups.name index")
	}

	_, err = m.database.Collection(ticketsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "group", Value: 1}, {Key: "deleted", Value: 1}},
	})
	if err != nil {
		return errors.Wrap(err, "failed to create tickets.group index")
	}

	return nil
}

// Close disconnects from MongoDB.
func (m *Mongo) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}

	return m.client.Disconnect(ctx)
}

// Collection returns a collection of the helpdesk database.
func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.database.Collection(name)
}
