package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nhle/content-hub/internal/model"
)

// MongoStore implements DocumentStore on a hosted MongoDB database. The
// document id is kept in _id and stripped from returned documents.
type MongoStore struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewMongoStore connects to uri, verifies the connection and selects the
// named database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10).
		SetMaxConnIdleTime(30 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	return &MongoStore{
		client:   client,
		database: client.Database(database),
	}, nil
}

// Close disconnects the client.
func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// EnsureIndexes creates the owner index used by filtered listings.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	for _, coll := range []string{CollectionConcepts, CollectionBusinesses} {
		_, err := m.database.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: model.FieldUserID, Value: 1}},
		})
		if err != nil {
			return fmt.Errorf("creating %s index: %w", coll, err)
		}
	}
	return nil
}

// ListAll returns the documents of a collection.
func (m *MongoStore) ListAll(
	ctx context.Context,
	collection string,
	filter *Filter,
) ([]Record, error) {
	query := bson.M{}
	if filter != nil {
		query[filter.Field] = filter.Value
	}

	cursor, err := m.database.Collection(collection).Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var records []Record
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding %s document: %w", collection, err)
		}
		id := idString(raw["_id"])
		records = append(records, Record{ID: id, Data: plainDocument(raw)})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", collection, err)
	}
	return records, nil
}

// GetOne retrieves a single document by ID.
func (m *MongoStore) GetOne(
	ctx context.Context,
	collection, id string,
) (model.Document, error) {
	var raw bson.M
	err := m.database.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("getting %s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s/%s: %w", collection, id, err)
	}
	return plainDocument(raw), nil
}

// SetMerge upserts the document with the patch fields set.
func (m *MongoStore) SetMerge(
	ctx context.Context,
	collection, id string,
	patch model.Document,
) error {
	coll := m.database.Collection(collection)
	if len(patch) == 0 {
		_, err := coll.InsertOne(ctx, bson.M{"_id": id})
		if err != nil && !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("creating %s/%s: %w", collection, id, err)
		}
		return nil
	}

	_, err := coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M(patch)},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("merging %s/%s: %w", collection, id, err)
	}
	return nil
}

// UpdateFields sets the patch fields on an existing document.
func (m *MongoStore) UpdateFields(
	ctx context.Context,
	collection, id string,
	patch model.Document,
) error {
	coll := m.database.Collection(collection)
	if len(patch) == 0 {
		_, err := m.GetOne(ctx, collection, id)
		return err
	}

	result, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(patch)})
	if err != nil {
		return fmt.Errorf("updating %s/%s: %w", collection, id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("updating %s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

// Delete removes a document by ID.
func (m *MongoStore) Delete(ctx context.Context, collection, id string) error {
	_, err := m.database.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", collection, id, err)
	}
	return nil
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case primitive.ObjectID:
		return id.Hex()
	default:
		return fmt.Sprint(id)
	}
}

// plainDocument converts decoded BSON into plain Go maps and slices and
// drops the _id field.
func plainDocument(raw bson.M) model.Document {
	doc := make(model.Document, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		doc[k] = plainValue(v)
	}
	return doc
}

func plainValue(v any) any {
	switch val := v.(type) {
	case primitive.M:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = plainValue(item)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = plainValue(e.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plainValue(item)
		}
		return out
	case primitive.DateTime:
		return val.Time().UTC()
	default:
		return v
	}
}
