package stage

import "github.com/nhle/content-hub/internal/model"

// Field names a checkpoint-bound content field on a concept. The string
// value is the document field name.
type Field string

// Checkpoint-bound concept fields.
const (
	FieldProblemStatement   Field = "problemStatement"
	FieldTargetUser         Field = "targetUser"
	FieldValueProposition   Field = "valueProposition"
	FieldCompetitorAnalysis Field = "competitorAnalysis"
	FieldCoreFeatures       Field = "coreFeatures"
	FieldMonetization       Field = "monetization"
	FieldMVPScope           Field = "mvpScope"
	FieldPrototypeURL       Field = "prototypeUrl"
	FieldUserFeedback       Field = "userFeedback"
	FieldLaunchPlan         Field = "launchPlan"
	FieldLandingPageURL     Field = "landingPageUrl"
	FieldStoreListingURL    Field = "storeListingUrl"
)

// FieldType controls which input a checkpoint field is edited with.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeURL      FieldType = "url"
)

// fieldRefs maps each field to the address of its slot on a concept.
var fieldRefs = map[Field]func(c *model.Concept) **string{
	FieldProblemStatement:   func(c *model.Concept) **string { return &c.ProblemStatement },
	FieldTargetUser:         func(c *model.Concept) **string { return &c.TargetUser },
	FieldValueProposition:   func(c *model.Concept) **string { return &c.ValueProposition },
	FieldCompetitorAnalysis: func(c *model.Concept) **string { return &c.CompetitorAnalysis },
	FieldCoreFeatures:       func(c *model.Concept) **string { return &c.CoreFeatures },
	FieldMonetization:       func(c *model.Concept) **string { return &c.Monetization },
	FieldMVPScope:           func(c *model.Concept) **string { return &c.MVPScope },
	FieldPrototypeURL:       func(c *model.Concept) **string { return &c.PrototypeURL },
	FieldUserFeedback:       func(c *model.Concept) **string { return &c.UserFeedback },
	FieldLaunchPlan:         func(c *model.Concept) **string { return &c.LaunchPlan },
	FieldLandingPageURL:     func(c *model.Concept) **string { return &c.LandingPageURL },
	FieldStoreListingURL:    func(c *model.Concept) **string { return &c.StoreListingURL },
}

// Fields returns every checkpoint-bound field.
func Fields() []Field {
	out := make([]Field, 0, len(fieldRefs))
	for _, s := range catalog {
		for _, cp := range s.Checkpoints {
			out = append(out, cp.Field)
		}
	}
	return out
}

// Valid reports whether f names a known concept field.
func (f Field) Valid() bool {
	_, ok := fieldRefs[f]
	return ok
}

// Get returns the field's value on c and whether it is set.
func (f Field) Get(c *model.Concept) (string, bool) {
	ref, ok := fieldRefs[f]
	if !ok || c == nil {
		return "", false
	}
	v := *ref(c)
	if v == nil {
		return "", false
	}
	return *v, true
}

// Set assigns value to the field on c. A nil value clears the field.
// Unknown fields are ignored.
func (f Field) Set(c *model.Concept, value *string) {
	ref, ok := fieldRefs[f]
	if !ok || c == nil {
		return
	}
	*ref(c) = value
}
