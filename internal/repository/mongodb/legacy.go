// Package mongodb reads the legacy document store the service was migrated from.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/legacy"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

type legacySource struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens the legacy database and pings the primary.
func Connect(ctx context.Context, uri, dbName string) (legacy.Source, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(connectTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to legacy MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping legacy MongoDB: %w", err)
	}

	slog.Info("Connected to legacy MongoDB", "database", dbName)
	return &legacySource{client: client, db: client.Database(dbName)}, nil
}

func (s *legacySource) Count(ctx context.Context, collection string) (int64, error) {
	n, err := s.db.Collection(collection).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return n, nil
}

// Each streams the collection in _id order.
func (s *legacySource) Each(ctx context.Context, collection string, fn func(legacy.Document) error) error {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return fmt.Errorf("failed to decode %s document: %w", collection, err)
		}
		if err := fn(legacy.Document(doc)); err != nil {
			return err
		}
	}
	return cursor.Err()
}

func (s *legacySource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
