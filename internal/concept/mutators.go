package concept

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/nhle/content-hub/internal/model"
	"github.com/nhle/content-hub/internal/normalize"
	"github.com/nhle/content-hub/internal/stage"
	"github.com/nhle/content-hub/internal/store"
)

// Create writes a new idea-stage concept owned by userID.
func (s *Service) Create(ctx context.Context, userID, appName string) (model.Concept, error) {
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return model.Concept{}, fmt.Errorf("concept name must not be empty")
	}

	now := s.timestamp()
	c := model.Concept{
		ID:        uuid.NewString(),
		Slug:      slugify(appName),
		UserID:    userID,
		Status:    model.StatusIdea,
		AppName:   appName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.write(ctx, c)
}

// write persists a whole concept as a new document and returns it as it
// will read back.
func (s *Service) write(ctx context.Context, c model.Concept) (model.Concept, error) {
	doc := normalize.Denormalize(normalize.ConceptPatch(c))
	err := s.call(ctx, func(ctx context.Context) error {
		return s.docs.SetMerge(ctx, store.CollectionConcepts, c.ID, doc)
	})
	if err != nil {
		return model.Concept{}, fmt.Errorf("writing concept %s: %w", c.ID, err)
	}
	s.invalidate(conceptsKeyPrefix)
	return s.norm.Concept(c.ID, doc), nil
}

// SetField writes one checkpoint-bound field. An empty value clears it.
func (s *Service) SetField(ctx context.Context, id string, field stage.Field, value string) error {
	if !field.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	var v any = value
	if value == "" {
		v = nil
	}
	return s.Update(ctx, id, model.Patch{string(field): v})
}

// ChangeStage moves a concept to status and clears its checkpoint record.
//
// Both effects belong to one operation: the current checkpoint set is
// swapped for an empty one and the status is written. If the write fails
// the old set is restored together with any ticks added in between.
func (s *Service) ChangeStage(ctx context.Context, id string, status model.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	previous, err := s.checkpoints.Swap(id, []string{})
	if err != nil {
		return fmt.Errorf("clearing checkpoints of %s: %w", id, err)
	}

	if err := s.Update(ctx, id, model.Patch{model.FieldStatus: status}); err != nil {
		if restoreErr := s.checkpoints.Restore(id, previous); restoreErr != nil {
			s.log.Error("restoring checkpoints failed",
				"concept_id", id, "error", restoreErr)
		}
		return fmt.Errorf("changing stage of %s: %w", id, err)
	}

	s.log.Info("stage changed", "concept_id", id, "status", status)
	return nil
}

// ArchiveConcept moves a concept to archived from any stage.
func (s *Service) ArchiveConcept(ctx context.Context, id string) error {
	return s.ChangeStage(ctx, id, model.StatusArchived)
}

// DeleteConcept is a soft delete: the concept is archived, not removed.
func (s *Service) DeleteConcept(ctx context.Context, id string) error {
	return s.ArchiveConcept(ctx, id)
}

// AdvanceStage moves a concept to the next forward stage. It fails with
// ErrNotReady while any checkpoint of the current stage is open and with
// ErrFinalStage when there is no next stage.
func (s *Service) AdvanceStage(ctx context.Context, id string) (model.Status, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	next, ok := stage.Next(c.Status)
	if !ok {
		return "", fmt.Errorf("advancing %s from %s: %w", id, c.Status, ErrFinalStage)
	}
	if !stage.ReadyToAdvance(c.Status, s.checkpoints.GetForConcept(id)) {
		return "", fmt.Errorf("advancing %s from %s: %w", id, c.Status, ErrNotReady)
	}

	if err := s.ChangeStage(ctx, id, next); err != nil {
		return "", err
	}
	return next, nil
}

// Checkpoints returns the completed checkpoint ids of a concept.
func (s *Service) Checkpoints(id string) []string {
	return s.checkpoints.GetForConcept(id)
}

// ToggleCheckpoint flips a checkpoint of the concept's current stage and
// returns the new completed set.
func (s *Service) ToggleCheckpoint(ctx context.Context, id, checkpointID string) ([]string, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	st, ok := stage.Get(c.Status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, c.Status)
	}
	if _, ok := st.Checkpoint(checkpointID); !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrUnknownCheckpoint, checkpointID, c.Status)
	}
	return s.checkpoints.Toggle(id, checkpointID)
}

// DuplicateConcept writes a copy of c as a new idea-stage concept. Tasks
// get fresh ids and restart as todo; the legacy validationCheckpoints list
// is emptied. The original is not modified.
func (s *Service) DuplicateConcept(ctx context.Context, c model.Concept) (model.Concept, error) {
	id, err := s.duplicateID(ctx, c.ID)
	if err != nil {
		return model.Concept{}, err
	}

	name := c.Name
	if name == "" {
		name = c.AppName
	}
	now := s.timestamp()

	dup := c
	dup.ID = id
	dup.AppName = name + " (Copy)"
	if c.Slug != "" {
		dup.Slug = c.Slug + "-copy"
	}
	dup.Status = model.StatusIdea
	dup.ValidationCheckpoints = []string{}
	dup.CreatedAt = now
	dup.UpdatedAt = now

	dup.Tasks = make([]model.ConceptTask, len(c.Tasks))
	for i, t := range c.Tasks {
		t.ID = uuid.NewString()
		t.Status = model.ConceptTaskTodo
		dup.Tasks[i] = t
	}
	dup.EnabledFeatures = append([]model.EnabledFeature(nil), c.EnabledFeatures...)
	dup.Links = append([]model.ConceptLink(nil), c.Links...)
	if c.KeyQuestionAnswers != nil {
		dup.KeyQuestionAnswers = make(map[string]string, len(c.KeyQuestionAnswers))
		for k, v := range c.KeyQuestionAnswers {
			dup.KeyQuestionAnswers[k] = v
		}
	}

	out, err := s.write(ctx, dup)
	if err != nil {
		return model.Concept{}, err
	}
	s.log.Info("concept duplicated", "source_id", c.ID, "concept_id", out.ID)
	return out, nil
}

// duplicateID derives "<id>-copy-<unix millis>" and falls back to a random
// suffix when that id is already taken.
func (s *Service) duplicateID(ctx context.Context, sourceID string) (string, error) {
	candidate := fmt.Sprintf("%s-copy-%d", sourceID, s.now().UnixMilli())

	err := s.call(ctx, func(ctx context.Context) error {
		_, err := s.docs.GetOne(ctx, store.CollectionConcepts, candidate)
		return err
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return candidate, nil
	case err != nil:
		return "", fmt.Errorf("checking duplicate id: %w", err)
	default:
		return fmt.Sprintf("%s-copy-%s", sourceID, uuid.NewString()), nil
	}
}

// slugify lowercases s and joins its alphanumeric runs with dashes.
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
