package model

// Document is a raw, schema-less record as held by the document store.
// Any field may be missing or carry an unexpected type.
type Document map[string]any

// Patch is a partial update expressed in application field names. Only the
// keys present are written.
type Patch map[string]any

// Application-level field names used in patches.
const (
	FieldStatus                = "status"
	FieldBusinessID            = "businessId"
	FieldUserID                = "userId"
	FieldSlug                  = "slug"
	FieldAppName               = "appName"
	FieldDescription           = "description"
	FieldColorOverride         = "colorOverride"
	FieldPrimaryColor          = "primaryColor"
	FieldTasks                 = "tasks"
	FieldEnabledFeatures       = "enabledFeatures"
	FieldLinks                 = "links"
	FieldValidationCheckpoints = "validationCheckpoints"
	FieldKeyQuestionAnswers    = "keyQuestionAnswers"
	FieldCreatedAt             = "createdAt"
	FieldUpdatedAt             = "updatedAt"

	// Computed-only fields. These never reach the document store.
	FieldName        = "name"
	FieldColor       = "color"
	FieldPhase       = "phase"
	FieldProgress    = "progress"
	FieldHealthScore = "healthScore"
)
