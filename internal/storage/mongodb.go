package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ceylonworkforce/jobboard/internal/config"
)

// MongoDBStorage implements Storage with one MongoDB collection per collection.
// Documents carry their id in the bson "_id" field.
type MongoDBStorage struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDBStorage connects to MongoDB and verifies the connection
func NewMongoDBStorage(cfg config.StorageConfig) (*MongoDBStorage, error) {
	if cfg.MongoDBURI == "" {
		return nil, errors.New("MONGODB_URI is required for mongodb storage")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.MongoDBURI).
		SetConnectTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBStorage{
		client: client,
		db:     client.Database(cfg.MongoDBName),
	}, nil
}

func (m *MongoDBStorage) Collection(name string) Collection {
	return &mongoCollection{coll: m.db.Collection(name)}
}

func (m *MongoDBStorage) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoDBStorage) Close() error {
	return m.client.Disconnect(context.Background())
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) Put(ctx context.Context, id string, doc any) error {
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to store document %s: %w", id, err)
	}
	return nil
}

func (c *mongoCollection) Get(ctx context.Context, id string, dst any) error {
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(dst)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get document %s: %w", id, err)
	}
	return nil
}

func (c *mongoCollection) Delete(ctx context.Context, id string) error {
	result, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection) List(ctx context.Context, dst any) error {
	cursor, err := c.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", c.coll.Name(), err)
	}
	if err := cursor.All(ctx, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", c.coll.Name(), err)
	}
	return nil
}
