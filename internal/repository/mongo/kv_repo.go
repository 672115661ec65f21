// internal/repository/mongo/kv_repo.go
package mongo

import (
	"alcyxob/runrep/internal/repository"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const kvCollectionName = "kv_entries"

// kvDocument is one stored key. Value holds the JSON text as written.
type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	Origin    string    `bson:"origin"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// changeEvent is the subset of a change stream event we read.
type changeEvent struct {
	OperationType string      `bson:"operationType"`
	FullDocument  *kvDocument `bson:"fullDocument"`
}

// KeyValueRepository implements repository.KeyValueRepository and repository.Watcher.
type KeyValueRepository struct {
	collection *mongo.Collection
}

// NewMongoKeyValueRepository creates a new key-value repository.
func NewMongoKeyValueRepository(db *mongo.Database) *KeyValueRepository {
	return &KeyValueRepository{
		collection: db.Collection(kvCollectionName),
	}
}

// Get retrieves the value stored under key.
func (r *KeyValueRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, repository.ErrEmptyKey
	}
	var doc kvDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return []byte(doc.Value), nil
}

// Set upserts the value for key.
func (r *KeyValueRepository) Set(ctx context.Context, key string, value []byte, origin string) error {
	if key == "" {
		return repository.ErrEmptyKey
	}
	doc := kvDocument{
		Key:       key,
		Value:     string(value),
		Origin:    origin,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrUpdateFailed, err)
	}
	return nil
}

// Delete removes key.
func (r *KeyValueRepository) Delete(ctx context.Context, key string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrDeleteFailed, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Watch opens a change stream filtered to key. Change streams need a replica
// set; on a standalone server this returns the driver error.
func (r *KeyValueRepository) Watch(ctx context.Context, key string) (<-chan repository.Change, error) {
	if key == "" {
		return nil, repository.ErrEmptyKey
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: key}}}},
	}
	streamOptions := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := r.collection.Watch(ctx, pipeline, streamOptions)
	if err != nil {
		return nil, err
	}

	out := make(chan repository.Change)
	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			var ev changeEvent
			if err := stream.Decode(&ev); err != nil {
				log.Printf("WARN: Failed to decode change event for '%s': %v", key, err)
				continue
			}
			change := repository.Change{Key: key, UpdatedAt: time.Now().UTC()}
			switch ev.OperationType {
			case "delete":
			case "insert", "replace", "update":
				if ev.FullDocument == nil {
					continue
				}
				change.Value = []byte(ev.FullDocument.Value)
				change.Origin = ev.FullDocument.Origin
				change.UpdatedAt = ev.FullDocument.UpdatedAt
			default:
				continue
			}
			select {
			case out <- change:
			case <-ctx.Done():
				return
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			log.Printf("ERROR: Change stream for '%s' stopped: %v", key, err)
		}
	}()
	return out, nil
}

// EnsureKeyValueIndexes creates necessary indexes. Call during startup.
func EnsureKeyValueIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "updatedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}

// KeyValueCollection returns the key-value collection, for index setup.
func KeyValueCollection(db *mongo.Database) *mongo.Collection {
	return db.Collection(kvCollectionName)
}
