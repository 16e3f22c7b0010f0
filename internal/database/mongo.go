package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/locallibrary/internal/config"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo wraps the MongoDB client and the catalog database.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
	log    *zerolog.Logger
}

// NewMongo connects to cfg.Database.MongoURI and pings the primary so
// startup fails fast when the server is unreachable.
func NewMongo(cfg *config.Config, logger *zerolog.Logger) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(cfg.Database.MongoURI).
		SetTimeout(cfg.Database.QueryTimeout())
	if cfg.Database.MaxOpenConns > 0 {
		opts.SetMaxPoolSize(uint64(cfg.Database.MaxOpenConns))
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info().
		Str("driver", config.DriverMongo).
		Str("database", cfg.Database.Name).
		Msg("connected to the database")

	return &Mongo{
		Client: client,
		DB:     client.Database(cfg.Database.Name),
		log:    logger,
	}, nil
}

// Ping checks that the primary is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	m.log.Info().Msg("closing mongo connection")
	return m.Client.Disconnect(ctx)
}
