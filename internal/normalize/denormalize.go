package normalize

import (
	"github.com/nhle/content-hub/internal/model"
	"github.com/nhle/content-hub/internal/stage"
)

// computedFields are re-derived on every read and never persisted.
var computedFields = []string{
	model.FieldName,
	model.FieldColor,
	model.FieldPhase,
	model.FieldProgress,
	model.FieldHealthScore,
}

// Denormalize converts an application patch into the document patch the
// store expects: status values are mapped to their raw spelling, businessId
// is mirrored under its historical raw name, and computed fields are
// dropped.
func Denormalize(patch model.Patch) model.Document {
	doc := make(model.Document, len(patch)+1)
	for k, v := range patch {
		doc[k] = v
	}

	if v, ok := patch[model.FieldStatus]; ok {
		switch s := v.(type) {
		case model.Status:
			doc[model.FieldStatus] = RawStatus(s)
		case string:
			doc[model.FieldStatus] = RawStatus(model.Status(s))
		}
	}

	if v, ok := patch[model.FieldBusinessID]; ok {
		doc[rawBusinessID] = v
	}

	for _, f := range computedFields {
		delete(doc, f)
	}

	return doc
}

// ConceptPatch expresses every persisted field of c as a patch. Computed
// fields are left out; unset checkpoint fields are omitted.
func ConceptPatch(c model.Concept) model.Patch {
	p := model.Patch{
		model.FieldSlug:                  c.Slug,
		model.FieldUserID:                c.UserID,
		model.FieldStatus:                c.Status,
		model.FieldAppName:               c.AppName,
		model.FieldDescription:           c.Description,
		model.FieldTasks:                 TasksValue(c.Tasks),
		model.FieldEnabledFeatures:       featuresValue(c.EnabledFeatures),
		model.FieldLinks:                 linksValue(c.Links),
		model.FieldValidationCheckpoints: stringsValue(c.ValidationCheckpoints),
		model.FieldCreatedAt:             c.CreatedAt,
		model.FieldUpdatedAt:             c.UpdatedAt,
	}
	if c.BusinessID != "" {
		p[model.FieldBusinessID] = c.BusinessID
	}
	if c.ColorOverride != "" {
		p[model.FieldColorOverride] = c.ColorOverride
	}
	if c.PrimaryColor != "" {
		p[model.FieldPrimaryColor] = c.PrimaryColor
	}
	if len(c.KeyQuestionAnswers) > 0 {
		answers := make(map[string]any, len(c.KeyQuestionAnswers))
		for k, v := range c.KeyQuestionAnswers {
			answers[k] = v
		}
		p[model.FieldKeyQuestionAnswers] = answers
	}
	for _, f := range stage.Fields() {
		if v, ok := f.Get(&c); ok {
			p[string(f)] = v
		}
	}
	return p
}

// TasksValue renders embedded tasks in their stored shape.
func TasksValue(tasks []model.ConceptTask) []any {
	out := make([]any, len(tasks))
	for i, t := range tasks {
		out[i] = map[string]any{
			"id":       t.ID,
			"title":    t.Title,
			"status":   t.Status,
			"priority": t.Priority,
		}
	}
	return out
}

func featuresValue(features []model.EnabledFeature) []any {
	out := make([]any, len(features))
	for i, f := range features {
		out[i] = map[string]any{
			"id":       f.ID,
			"name":     f.Name,
			"enabled":  f.Enabled,
			"excluded": f.Excluded,
		}
	}
	return out
}

func linksValue(links []model.ConceptLink) []any {
	out := make([]any, len(links))
	for i, l := range links {
		out[i] = map[string]any{"title": l.Title, "url": l.URL}
	}
	return out
}

func stringsValue(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
