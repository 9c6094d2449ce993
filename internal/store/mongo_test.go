package store

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nhle/content-hub/internal/model"
)

func TestPlainDocument(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	raw := bson.M{
		"_id":    "c1",
		"status": "idea",
		"tasks": primitive.A{
			primitive.M{"id": "t1", "status": "done"},
			primitive.D{{Key: "id", Value: "t2"}, {Key: "status", Value: "todo"}},
		},
		"createdAt": primitive.NewDateTimeFromTime(ts),
	}

	got := plainDocument(raw)
	want := model.Document{
		"status": "idea",
		"tasks": []any{
			map[string]any{"id": "t1", "status": "done"},
			map[string]any{"id": "t2", "status": "todo"},
		},
		"createdAt": ts,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("plainDocument() =\n%#v\nwant\n%#v", got, want)
	}
}

// TestMongoStoreIntegration runs against a live server when
// CONTENTHUB_TEST_MONGO_URI is set.
func TestMongoStoreIntegration(t *testing.T) {
	uri := os.Getenv("CONTENTHUB_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("CONTENTHUB_TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	dbName := "contenthub_test_" + uuid.NewString()[:8]
	m, err := NewMongoStore(ctx, uri, dbName)
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	t.Cleanup(func() {
		_ = m.database.Drop(context.Background())
		_ = m.Close()
	})

	if err := m.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	if err := m.UpdateFields(ctx, CollectionConcepts, "c1", model.Document{"a": "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateFields missing = %v, want ErrNotFound", err)
	}
	if err := m.SetMerge(ctx, CollectionConcepts, "c1", model.Document{"userId": "alice", "status": "idea"}); err != nil {
		t.Fatalf("SetMerge: %v", err)
	}
	if err := m.UpdateFields(ctx, CollectionConcepts, "c1", model.Document{"status": "brainstorming"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	doc, err := m.GetOne(ctx, CollectionConcepts, "c1")
	if err != nil {
		t.Fatalf("GetOne: %v", err)
	}
	if doc["status"] != "brainstorming" || doc["userId"] != "alice" {
		t.Fatalf("doc = %v", doc)
	}

	records, err := m.ListAll(ctx, CollectionConcepts, &Filter{Field: "userId", Value: "alice"})
	if err != nil || len(records) != 1 || records[0].ID != "c1" {
		t.Fatalf("ListAll = %v, %v", records, err)
	}

	if err := m.Delete(ctx, CollectionConcepts, "c1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.GetOne(ctx, CollectionConcepts, "c1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetOne after delete = %v", err)
	}
}
