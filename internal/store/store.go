package store

import (
	"context"
	"errors"

	"github.com/nhle/content-hub/internal/model"
)

// Collection names.
const (
	CollectionConcepts   = "concepts"
	CollectionBusinesses = "businesses"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Filter restricts a listing to documents whose Field equals Value.
type Filter struct {
	Field string
	Value string
}

// Record is a document together with its identifier.
type Record struct {
	ID   string
	Data model.Document
}

// DocumentStore is the schema-less document service the application
// persists concepts and businesses in. Writes are last-write-wins.
type DocumentStore interface {
	// ListAll returns every document in collection, optionally restricted
	// to those matching filter.
	ListAll(ctx context.Context, collection string, filter *Filter) ([]Record, error)

	// GetOne returns a single document or ErrNotFound.
	GetOne(ctx context.Context, collection, id string) (model.Document, error)

	// SetMerge creates the document if needed and merges patch into it.
	SetMerge(ctx context.Context, collection, id string, patch model.Document) error

	// UpdateFields merges patch into an existing document, returning
	// ErrNotFound when it does not exist.
	UpdateFields(ctx context.Context, collection, id string, patch model.Document) error

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error
}

// LocalStorage is a synchronous string key-value store local to one client.
type LocalStorage interface {
	// GetItem returns the value for key and whether it exists.
	GetItem(key string) (string, bool, error)

	// SetItem stores value under key, replacing any previous value.
	SetItem(key, value string) error
}
