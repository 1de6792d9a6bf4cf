package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/yigit/edurecords/internal/config"
	"github.com/yigit/edurecords/internal/pkg/helpers"
	"github.com/yigit/edurecords/internal/pkg/logger"
)

// MongoDB holds a connected client and the application database
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongoDB connects to MongoDB and verifies the connection with a ping
func NewMongoDB(ctx context.Context, cfg *config.Config) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().ApplyURI(cfg.Database.MongoURI)
	if cfg.Database.MaxOpenConns > 0 {
		opts.SetMaxPoolSize(uint64(cfg.Database.MaxOpenConns))
	}
	if cfg.Database.MaxIdleConns > 0 {
		opts.SetMinPoolSize(uint64(cfg.Database.MaxIdleConns))
	}
	opts.SetMaxConnIdleTime(helpers.DurationOr(cfg.Database.ConnMaxLifetime, time.Hour))

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info().Str("database", cfg.Database.MongoDatabase).Msg("Connected to MongoDB")

	return &MongoDB{
		Client:   client,
		Database: client.Database(cfg.Database.MongoDatabase),
	}, nil
}

// Ping checks that the server is reachable
func (db *MongoDB) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, nil)
}

// Close disconnects the client
func (db *MongoDB) Close(ctx context.Context) error {
	if db.Client == nil {
		return nil
	}
	return db.Client.Disconnect(ctx)
}

// WithTransaction runs fn inside a multi-document transaction. Requires a replica set.
func (db *MongoDB) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := db.Client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc context.Context) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
