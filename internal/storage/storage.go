package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ceylonworkforce/jobboard/internal/config"
)

// ErrNotFound is returned when a document does not exist
var ErrNotFound = errors.New("document not found")

// Collection is a schema-less set of documents addressed by string id.
// Documents are structs whose "id" field mirrors the id they are stored under.
type Collection interface {
	Put(ctx context.Context, id string, doc any) error
	Get(ctx context.Context, id string, dst any) error
	Delete(ctx context.Context, id string) error
	// List decodes every document into dst, which must point to a slice.
	List(ctx context.Context, dst any) error
}

// Storage interface defines the contract for data storage
type Storage interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close() error
}

// NewStorage creates a new storage instance based on configuration.
// Backends that need tables or indexes prepare one per collection.
func NewStorage(cfg config.StorageConfig, collections []string) (Storage, error) {
	switch cfg.Type {
	case "memory", "":
		return NewMemoryStorage(), nil
	case "dynamodb":
		return NewDynamoDBStorage(cfg, collections)
	case "mongodb":
		return NewMongoDBStorage(cfg)
	case "postgresql":
		return NewPostgreSQLStorage(cfg, collections)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// decodeList decodes raw JSON documents into dst as a single array
func decodeList(raw [][]byte, dst any) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, doc := range raw {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(doc)
	}
	buf.WriteByte(']')
	if err := json.Unmarshal(buf.Bytes(), dst); err != nil {
		return fmt.Errorf("failed to decode documents: %w", err)
	}
	return nil
}
