package concept

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/nhle/content-hub/internal/checkpoint"
	"github.com/nhle/content-hub/internal/logging"
	"github.com/nhle/content-hub/internal/model"
	"github.com/nhle/content-hub/internal/normalize"
	"github.com/nhle/content-hub/internal/stage"
	"github.com/nhle/content-hub/internal/store"
	"github.com/nhle/content-hub/internal/testutil"
)

var fixedNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

// flakyStore wraps a DocumentStore and can fail or stall writes.
type flakyStore struct {
	store.DocumentStore
	failUpdate bool
	stall      bool
	lists      int
	onUpdate   func()
}

func (f *flakyStore) ListAll(ctx context.Context, coll string, filter *store.Filter) ([]store.Record, error) {
	f.lists++
	return f.DocumentStore.ListAll(ctx, coll, filter)
}

func (f *flakyStore) UpdateFields(ctx context.Context, coll, id string, patch model.Document) error {
	if f.onUpdate != nil {
		f.onUpdate()
	}
	if f.stall {
		<-ctx.Done()
		return ctx.Err()
	}
	if f.failUpdate {
		return errors.New("network unreachable")
	}
	return f.DocumentStore.UpdateFields(ctx, coll, id, patch)
}

type fixture struct {
	svc   *Service
	docs  *flakyStore
	marks *checkpoint.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestStore(t)
	docs := &flakyStore{DocumentStore: db}
	marks := checkpoint.New(testutil.NewTestStore(t), logging.Nop())
	svc := NewService(docs, marks, Options{
		Timeout: 200 * time.Millisecond,
		Now:     func() time.Time { return fixedNow },
	})
	return &fixture{svc: svc, docs: docs, marks: marks}
}

func (f *fixture) seed(t *testing.T, id string, doc model.Document) {
	t.Helper()
	if err := f.docs.SetMerge(context.Background(), store.CollectionConcepts, id, doc); err != nil {
		t.Fatalf("seeding %s: %v", id, err)
	}
}

func ideaCheckpoints() []string {
	s, _ := stage.Get(model.StatusIdea)
	return s.CheckpointIDs()
}

func TestFetchAllNormalizesAndFilters(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "c1", model.Document{"userId": "alice", "status": "finalPublished", "appName": "One"})
	f.seed(t, "c2", model.Document{"userId": "bob", "status": "bogus"})
	f.seed(t, "c3", model.Document{"userId": "alice"})

	got, err := f.svc.FetchAll(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	byID := map[string]model.Concept{}
	for _, c := range got {
		byID[c.ID] = c
	}
	if byID["c1"].Status != model.StatusPublished || byID["c1"].Progress != 100 {
		t.Errorf("c1 = %q/%d", byID["c1"].Status, byID["c1"].Progress)
	}
	if byID["c3"].Status != model.StatusIdea {
		t.Errorf("c3 status = %q, want idea", byID["c3"].Status)
	}
}

func TestFetchAllUsesCacheUntilMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "c1", model.Document{"userId": "alice"})

	if _, err := f.svc.FetchAll(ctx, "alice"); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if _, err := f.svc.FetchAll(ctx, "alice"); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if f.docs.lists != 1 {
		t.Fatalf("store listed %d times, want 1", f.docs.lists)
	}

	if err := f.svc.Update(ctx, "c1", model.Patch{"description": "x"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := f.svc.FetchAll(ctx, "alice")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if f.docs.lists != 2 {
		t.Fatalf("store listed %d times after mutation, want 2", f.docs.lists)
	}
	if got[0].Description != "x" {
		t.Fatalf("Description = %q", got[0].Description)
	}
}

func TestUpdateDropsComputedFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "c1", model.Document{"status": "idea"})

	err := f.svc.Update(ctx, "c1", model.Patch{
		"name": "stale", "progress": 99, "healthScore": 1, "description": "fresh",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	doc, _ := f.docs.GetOne(ctx, store.CollectionConcepts, "c1")
	for _, k := range []string{"name", "progress", "healthScore"} {
		if _, ok := doc[k]; ok {
			t.Errorf("computed field %q persisted", k)
		}
	}
	if doc["description"] != "fresh" {
		t.Errorf("description = %v", doc["description"])
	}
	if doc["updatedAt"] != normalize.FormatTime(fixedNow) {
		t.Errorf("updatedAt = %v", doc["updatedAt"])
	}
}

func TestChangeStageResetsCheckpoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "c1", model.Document{"status": "idea"})
	if err := f.marks.SaveForConcept("c1", ideaCheckpoints()[:2]); err != nil {
		t.Fatalf("SaveForConcept: %v", err)
	}

	if err := f.svc.ChangeStage(ctx, "c1", model.StatusBrainstorming); err != nil {
		t.Fatalf("ChangeStage: %v", err)
	}

	if got := f.marks.GetForConcept("c1"); len(got) != 0 {
		t.Fatalf("GetForConcept = %v, want empty", got)
	}
	c, err := f.svc.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.Status != model.StatusBrainstorming {
		t.Fatalf("Status = %q", c.Status)
	}
}

func TestChangeStageWritesRawVocabulary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "c1", model.Document{"status": "prototyping"})

	if err := f.svc.ChangeStage(ctx, "c1", model.StatusFinal); err != nil {
		t.Fatalf("ChangeStage: %v", err)
	}
	doc, _ := f.docs.GetOne(ctx, store.CollectionConcepts, "c1")
	if doc["status"] != "finalHidden" {
		t.Fatalf("raw status = %v, want finalHidden", doc["status"])
	}
}

func TestChangeStageRestoresCheckpointsOnFailure(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "c1", model.Document{"status": "idea"})
	before := ideaCheckpoints()[:2]
	_ = f.marks.SaveForConcept("c1", before)

	f.docs.failUpdate = true
	if err := f.svc.ChangeStage(context.Background(), "c1", model.StatusBrainstorming); err == nil {
		t.Fatal("ChangeStage succeeded with failing store")
	}
	if got := f.marks.GetForConcept("c1"); !reflect.DeepEqual(got, before) {
		t.Fatalf("checkpoints = %v, want restored %v", got, before)
	}
}

func TestChangeStageRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "c1", model.Document{"status": "idea"})
	err := f.svc.ChangeStage(context.Background(), "c1", "shipped")
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("ChangeStage = %v, want ErrUnknownStatus", err)
	}
}

func TestStoreCallsTimeOut(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "c1", model.Document{"status": "idea"})
	f.docs.stall = true

	err := f.svc.Update(context.Background(), "c1", model.Patch{"description": "x"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Update = %v, want deadline exceeded", err)
	}
}

func TestArchiveAndSoftDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "c1", model.Document{"status": "prototyping"})
	f.seed(t, "c2", model.Document{"status": "finalPublished"})

	if err := f.svc.ArchiveConcept(ctx, "c1"); err != nil {
		t.Fatalf("ArchiveConcept: %v", err)
	}
	if err := f.svc.DeleteConcept(ctx, "c2"); err != nil {
		t.Fatalf("DeleteConcept: %v", err)
	}

	for _, id := range []string{"c1", "c2"} {
		c, err := f.svc.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get(%s) after archive: %v", id, err)
		}
		if c.Status != model.StatusArchived || c.Progress != 0 {
			t.Errorf("%s = %q/%d, want archived/0", id, c.Status, c.Progress)
		}
	}
}

func TestAdvanceStage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "c1", model.Document{"status": "idea"})

	_ = f.marks.SaveForConcept("c1", ideaCheckpoints()[:2])
	if _, err := f.svc.AdvanceStage(ctx, "c1"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("AdvanceStage partial = %v, want ErrNotReady", err)
	}

	_ = f.marks.SaveForConcept("c1", ideaCheckpoints())
	next, err := f.svc.AdvanceStage(ctx, "c1")
	if err != nil {
		t.Fatalf("AdvanceStage: %v", err)
	}
	if next != model.StatusBrainstorming {
		t.Fatalf("next = %q", next)
	}
	if got := f.svc.Checkpoints("c1"); len(got) != 0 {
		t.Fatalf("checkpoints after advance = %v", got)
	}

	// Ids of the previous stage do not count toward the new one.
	_ = f.marks.SaveForConcept("c1", ideaCheckpoints())
	if _, err := f.svc.AdvanceStage(ctx, "c1"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("AdvanceStage with stale ids = %v, want ErrNotReady", err)
	}
}

func TestAdvanceStageStopsAtLastStage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "c1", model.Document{"status": "finalHidden"})
	f.seed(t, "c2", model.Document{"status": "archived"})

	final, _ := stage.Get(model.StatusFinal)
	_ = f.marks.SaveForConcept("c1", final.CheckpointIDs())

	for _, id := range []string{"c1", "c2"} {
		if _, err := f.svc.AdvanceStage(ctx, id); !errors.Is(err, ErrFinalStage) {
			t.Errorf("AdvanceStage(%s) = %v, want ErrFinalStage", id, err)
		}
	}
}

func TestToggleCheckpoint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "c1", model.Document{"status": "idea"})

	got, err := f.svc.ToggleCheckpoint(ctx, "c1", "problem-defined")
	if err != nil || !reflect.DeepEqual(got, []string{"problem-defined"}) {
		t.Fatalf("ToggleCheckpoint = %v, %v", got, err)
	}
	if _, err := f.svc.ToggleCheckpoint(ctx, "c1", "mvp-scoped"); !errors.Is(err, ErrUnknownCheckpoint) {
		t.Fatalf("ToggleCheckpoint other stage = %v, want ErrUnknownCheckpoint", err)
	}
}

func TestSetField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "c1", model.Document{"status": "idea"})

	if err := f.svc.SetField(ctx, "c1", stage.FieldTargetUser, "indie devs"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	c, _ := f.svc.Get(ctx, "c1")
	if v, ok := stage.FieldTargetUser.Get(&c); !ok || v != "indie devs" {
		t.Fatalf("TargetUser = %q, %v", v, ok)
	}

	if err := f.svc.SetField(ctx, "c1", stage.FieldTargetUser, ""); err != nil {
		t.Fatalf("SetField clear: %v", err)
	}
	c, _ = f.svc.Get(ctx, "c1")
	if c.TargetUser != nil {
		t.Fatalf("TargetUser = %v, want nil", *c.TargetUser)
	}

	if err := f.svc.SetField(ctx, "c1", "secret", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("SetField unknown = %v, want ErrUnknownField", err)
	}
}

func TestDuplicateConcept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "c1", model.Document{
		"userId":  "alice",
		"slug":    "habit-garden",
		"status":  "prototyping",
		"appName": "Habit Garden",
		"tasks": []any{
			map[string]any{"id": "t1", "title": "Design", "status": "done", "priority": "high"},
			map[string]any{"id": "t2", "title": "Build", "status": "in_progress"},
			map[string]any{"id": "t3", "title": "Later", "status": "parked"},
		},
		"validationCheckpoints": []any{"mvp-scoped"},
		"mvpScope":              "streaks",
	})

	orig, err := f.svc.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	dup, err := f.svc.DuplicateConcept(ctx, orig)
	if err != nil {
		t.Fatalf("DuplicateConcept: %v", err)
	}

	if dup.ID == orig.ID || !strings.HasPrefix(dup.ID, "c1-copy-") {
		t.Errorf("dup ID = %q", dup.ID)
	}
	if dup.Status != model.StatusIdea {
		t.Errorf("dup Status = %q, want idea", dup.Status)
	}
	if dup.Name != "Habit Garden (Copy)" {
		t.Errorf("dup Name = %q", dup.Name)
	}
	if len(dup.Tasks) != len(orig.Tasks) {
		t.Fatalf("dup has %d tasks, want %d", len(dup.Tasks), len(orig.Tasks))
	}
	for i, task := range dup.Tasks {
		if task.Status != model.ConceptTaskTodo {
			t.Errorf("dup task %d status = %q, want todo", i, task.Status)
		}
		if task.ID == orig.Tasks[i].ID {
			t.Errorf("dup task %d kept id %q", i, task.ID)
		}
		if task.Title != orig.Tasks[i].Title {
			t.Errorf("dup task %d title = %q", i, task.Title)
		}
	}
	if len(dup.ValidationCheckpoints) != 0 {
		t.Errorf("dup ValidationCheckpoints = %v", dup.ValidationCheckpoints)
	}
	if dup.MVPScope == nil || *dup.MVPScope != "streaks" {
		t.Errorf("dup MVPScope = %v", dup.MVPScope)
	}

	stored, err := f.svc.Get(ctx, dup.ID)
	if err != nil {
		t.Fatalf("Get duplicate: %v", err)
	}
	if stored.Status != model.StatusIdea || len(stored.Tasks) != 3 {
		t.Errorf("stored duplicate = %q with %d tasks", stored.Status, len(stored.Tasks))
	}

	again, err := f.svc.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("Get original: %v", err)
	}
	if !reflect.DeepEqual(again, orig) {
		t.Errorf("original changed:\n%#v\n%#v", orig, again)
	}
}

func TestDuplicateIDFallsBackOnCollision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "c1", model.Document{"appName": "A"})
	taken := fmt.Sprintf("c1-copy-%d", fixedNow.UnixMilli())
	f.seed(t, taken, model.Document{})

	orig, _ := f.svc.Get(ctx, "c1")
	dup, err := f.svc.DuplicateConcept(ctx, orig)
	if err != nil {
		t.Fatalf("DuplicateConcept: %v", err)
	}
	if dup.ID == taken || !strings.HasPrefix(dup.ID, "c1-copy-") {
		t.Fatalf("dup ID = %q", dup.ID)
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, "alice", "  Habit Garden 2.0! ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Slug != "habit-garden-2-0" {
		t.Errorf("Slug = %q", c.Slug)
	}
	if c.Status != model.StatusIdea || c.HealthScore != 50 || c.Progress != 10 {
		t.Errorf("new concept = %q/%d/%d", c.Status, c.HealthScore, c.Progress)
	}

	list, err := f.svc.FetchAll(ctx, "alice")
	if err != nil || len(list) != 1 || list[0].ID != c.ID {
		t.Fatalf("FetchAll = %v, %v", list, err)
	}

	if _, err := f.svc.Create(ctx, "alice", "   "); err == nil {
		t.Fatal("Create with blank name succeeded")
	}
}

func TestAllTasksFlattens(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "c1", model.Document{
		"userId": "alice",
		"tasks": []any{
			map[string]any{"id": "t1", "status": "parked"},
			map[string]any{"id": "t2", "status": "done"},
		},
	})

	tasks, err := f.svc.AllTasks(context.Background(), "alice")
	if err != nil {
		t.Fatalf("AllTasks: %v", err)
	}
	if len(tasks) != 2 || tasks[0].Status != model.TaskStatusTodo || tasks[1].Status != model.TaskStatusCompleted {
		t.Fatalf("tasks = %+v", tasks)
	}
}

func TestBusinesses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	err := f.docs.SetMerge(ctx, store.CollectionBusinesses, "b1", model.Document{
		"userId":       "alice",
		"businessName": "Acme",
		"palette":      map[string]any{"primary": map[string]any{"hex": "#111111"}},
	})
	if err != nil {
		t.Fatalf("seeding business: %v", err)
	}

	list, err := f.svc.ListBusinesses(ctx, "alice")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListBusinesses = %v, %v", list, err)
	}
	b, err := f.svc.GetBusiness(ctx, "b1")
	if err != nil {
		t.Fatalf("GetBusiness: %v", err)
	}
	if b.Name != "Acme" || b.Color != "#111111" {
		t.Fatalf("business = %+v", b)
	}
	if _, err := f.svc.GetBusiness(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetBusiness missing = %v", err)
	}
}

func TestReloadBypassesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "c1", model.Document{"userId": "alice"})

	if _, err := f.svc.FetchAll(ctx, "alice"); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	// Written behind the service's back, so the cache is not invalidated.
	f.seed(t, "c2", model.Document{"userId": "alice"})

	cached, _ := f.svc.FetchAll(ctx, "alice")
	if len(cached) != 1 {
		t.Fatalf("cached len = %d, want 1", len(cached))
	}
	fresh, err := f.svc.Reload(ctx, "alice")
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if len(fresh) != 2 {
		t.Fatalf("Reload len = %d, want 2", len(fresh))
	}
}

func TestFetchAllResultsDoNotShareCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "c1", model.Document{
		"userId":             "alice",
		"tasks":              []any{map[string]any{"id": "t1", "status": "todo"}},
		"keyQuestionAnswers": map[string]any{"who": "devs"},
		"targetUser":         "indie devs",
	})

	first, err := f.svc.FetchAll(ctx, "alice")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	first[0].Tasks[0].Status = model.ConceptTaskDone
	first[0].KeyQuestionAnswers["who"] = "changed"
	*first[0].TargetUser = "changed"

	second, err := f.svc.FetchAll(ctx, "alice")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if f.docs.lists != 1 {
		t.Fatalf("store listed %d times, want cached read", f.docs.lists)
	}
	c := second[0]
	if c.Tasks[0].Status != model.ConceptTaskTodo {
		t.Errorf("cached task status = %q, want todo", c.Tasks[0].Status)
	}
	if c.KeyQuestionAnswers["who"] != "devs" {
		t.Errorf("cached answer = %q", c.KeyQuestionAnswers["who"])
	}
	if *c.TargetUser != "indie devs" {
		t.Errorf("cached TargetUser = %q", *c.TargetUser)
	}
}

func TestListBusinessesResultsDoNotShareCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	err := f.docs.SetMerge(ctx, store.CollectionBusinesses, "b1", model.Document{
		"userId": "alice", "toneKeywords": []any{"calm"},
	})
	if err != nil {
		t.Fatalf("seeding business: %v", err)
	}

	first, _ := f.svc.ListBusinesses(ctx, "alice")
	first[0].ToneKeywords[0] = "loud"
	second, _ := f.svc.ListBusinesses(ctx, "alice")
	if second[0].ToneKeywords[0] != "calm" {
		t.Fatalf("cached keyword = %q, want calm", second[0].ToneKeywords[0])
	}
}

func TestChangeStageFailureKeepsTicksAddedMeanwhile(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "c1", model.Document{"status": "idea"})
	before := ideaCheckpoints()[:1]
	_ = f.marks.SaveForConcept("c1", before)

	f.docs.failUpdate = true
	f.docs.onUpdate = func() {
		// A tick landing while the status write is in flight.
		_, _ = f.marks.Toggle("c1", ideaCheckpoints()[2])
	}
	if err := f.svc.ChangeStage(context.Background(), "c1", model.StatusBrainstorming); err == nil {
		t.Fatal("ChangeStage succeeded with failing store")
	}
	want := []string{ideaCheckpoints()[0], ideaCheckpoints()[2]}
	if got := f.marks.GetForConcept("c1"); !reflect.DeepEqual(got, want) {
		t.Fatalf("checkpoints = %v, want %v", got, want)
	}
}
