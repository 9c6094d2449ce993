// Package normalize translates between raw store documents and the typed
// application model. Reads never fail: every missing or mistyped field falls
// back to a default.
package normalize

import (
	"time"

	"github.com/nhle/content-hub/internal/model"
	"github.com/nhle/content-hub/internal/stage"
)

// Raw document field names that differ from the application model.
const (
	rawBusinessID = "businessDNAId"
)

// defaultHealthScore is used when a concept has no tasks.
const defaultHealthScore = 50

// Normalizer converts raw documents into typed records. The zero value uses
// the wall clock.
type Normalizer struct {
	// Now supplies the time substituted for missing timestamps.
	Now func() time.Time
}

func (n Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

// Concept builds a typed concept from a raw document.
func (n Normalizer) Concept(id string, raw model.Document) model.Concept {
	status := AppStatus(asString(raw[model.FieldStatus]))

	c := model.Concept{
		ID:            id,
		Slug:          asString(raw[model.FieldSlug]),
		UserID:        asString(raw[model.FieldUserID]),
		BusinessID:    asString(raw[rawBusinessID]),
		Status:        status,
		AppName:       asString(raw[model.FieldAppName]),
		Description:   asString(raw[model.FieldDescription]),
		ColorOverride: asString(raw[model.FieldColorOverride]),
		PrimaryColor:  asString(raw[model.FieldPrimaryColor]),

		Tasks:                 conceptTasks(raw[model.FieldTasks]),
		EnabledFeatures:       enabledFeatures(raw[model.FieldEnabledFeatures]),
		Links:                 links(raw[model.FieldLinks]),
		ValidationCheckpoints: asStrings(raw[model.FieldValidationCheckpoints]),
		KeyQuestionAnswers:    stringMap(raw[model.FieldKeyQuestionAnswers]),

		CreatedAt: timestamp(raw[model.FieldCreatedAt], n.now),
		UpdatedAt: timestamp(raw[model.FieldUpdatedAt], n.now),

		Phase:    Phase(status),
		Progress: Progress(status),
	}
	if c.BusinessID == "" {
		c.BusinessID = asString(raw[model.FieldBusinessID])
	}

	for _, f := range stage.Fields() {
		f.Set(&c, asStringPtr(raw[string(f)]))
	}

	if hs, ok := asFloat(raw[model.FieldHealthScore]); ok {
		c.HealthScore = round(max(0, min(100, hs)))
	} else {
		c.HealthScore = healthScore(c.Tasks)
	}

	c.Name = c.AppName
	switch {
	case c.ColorOverride != "":
		c.Color = c.ColorOverride
	case c.PrimaryColor != "":
		c.Color = c.PrimaryColor
	}

	return c
}

// Concept normalizes with the wall clock.
func Concept(id string, raw model.Document) model.Concept {
	return Normalizer{}.Concept(id, raw)
}

// healthScore is the percentage of done tasks, or 50 with no tasks.
func healthScore(tasks []model.ConceptTask) int {
	if len(tasks) == 0 {
		return defaultHealthScore
	}
	done := 0
	for _, t := range tasks {
		if t.Status == model.ConceptTaskDone {
			done++
		}
	}
	return round(float64(done) / float64(len(tasks)) * 100)
}

func conceptTasks(v any) []model.ConceptTask {
	items := asSlice(v)
	tasks := make([]model.ConceptTask, 0, len(items))
	for _, item := range items {
		m := asMap(item)
		if m == nil {
			continue
		}
		status := asString(m["status"])
		if status == "" {
			status = model.ConceptTaskTodo
		}
		priority := asString(m["priority"])
		if priority == "" {
			priority = model.PriorityMedium
		}
		tasks = append(tasks, model.ConceptTask{
			ID:       asString(m["id"]),
			Title:    asString(m["title"]),
			Status:   status,
			Priority: priority,
		})
	}
	return tasks
}

func enabledFeatures(v any) []model.EnabledFeature {
	items := asSlice(v)
	features := make([]model.EnabledFeature, 0, len(items))
	for _, item := range items {
		m := asMap(item)
		if m == nil {
			continue
		}
		features = append(features, model.EnabledFeature{
			ID:       asString(m["id"]),
			Name:     asString(m["name"]),
			Enabled:  asBool(m["enabled"]),
			Excluded: asBool(m["excluded"]),
		})
	}
	return features
}

func links(v any) []model.ConceptLink {
	items := asSlice(v)
	out := make([]model.ConceptLink, 0, len(items))
	for _, item := range items {
		m := asMap(item)
		if m == nil {
			continue
		}
		out = append(out, model.ConceptLink{
			Title: asString(m["title"]),
			URL:   asString(m["url"]),
		})
	}
	return out
}

func stringMap(v any) map[string]string {
	m := asMap(v)
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}

// Tasks flattens a concept's embedded tasks into the shared task
// vocabulary. The mapping is lossy: parked and todo both become todo.
func Tasks(c model.Concept) []model.Task {
	out := make([]model.Task, 0, len(c.Tasks))
	for _, t := range c.Tasks {
		out = append(out, model.Task{
			ID:          t.ID,
			ConceptID:   c.ID,
			ConceptName: c.Name,
			Title:       t.Title,
			Status:      flattenTaskStatus(t.Status),
			Priority:    t.Priority,
		})
	}
	return out
}
