package model

import (
	"maps"
	"slices"
)

// Status is the lifecycle stage of a concept as seen by the application.
type Status string

// Concept lifecycle statuses. The forward order is idea, brainstorming,
// prototyping, final, published; archived is reachable from any stage.
const (
	StatusIdea          Status = "idea"
	StatusBrainstorming Status = "brainstorming"
	StatusPrototyping   Status = "prototyping"
	StatusFinal         Status = "final"
	StatusPublished     Status = "published"
	StatusArchived      Status = "archived"
)

// AllStatuses returns every concept status in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		StatusIdea,
		StatusBrainstorming,
		StatusPrototyping,
		StatusFinal,
		StatusPublished,
		StatusArchived,
	}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range AllStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// Embedded task statuses as stored on a concept document.
const (
	ConceptTaskTodo       = "todo"
	ConceptTaskInProgress = "in_progress"
	ConceptTaskDone       = "done"
	ConceptTaskParked     = "parked"
)

// Embedded task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ConceptTask is a task embedded in a concept document.
type ConceptTask struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// EnabledFeature is a feature toggle attached to a concept.
type EnabledFeature struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
	Excluded bool   `json:"excluded"`
}

// ConceptLink is a titled URL attached to a concept.
type ConceptLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Concept is one app idea tracked through the lifecycle.
//
// Phase, Progress, HealthScore, Name and Color are computed by the
// normalizer and are never written back to the document store.
type Concept struct {
	ID         string `json:"id"`
	Slug       string `json:"slug"`
	UserID     string `json:"userId"`
	BusinessID string `json:"businessId,omitempty"`
	Status     Status `json:"status"`

	AppName       string `json:"appName"`
	Description   string `json:"description"`
	ColorOverride string `json:"colorOverride,omitempty"`
	PrimaryColor  string `json:"primaryColor,omitempty"`

	// Checkpoint-bound content fields, one per validation checkpoint.
	ProblemStatement   *string `json:"problemStatement,omitempty"`
	TargetUser         *string `json:"targetUser,omitempty"`
	ValueProposition   *string `json:"valueProposition,omitempty"`
	CompetitorAnalysis *string `json:"competitorAnalysis,omitempty"`
	CoreFeatures       *string `json:"coreFeatures,omitempty"`
	Monetization       *string `json:"monetization,omitempty"`
	MVPScope           *string `json:"mvpScope,omitempty"`
	PrototypeURL       *string `json:"prototypeUrl,omitempty"`
	UserFeedback       *string `json:"userFeedback,omitempty"`
	LaunchPlan         *string `json:"launchPlan,omitempty"`
	LandingPageURL     *string `json:"landingPageUrl,omitempty"`
	StoreListingURL    *string `json:"storeListingUrl,omitempty"`

	Tasks           []ConceptTask    `json:"tasks"`
	EnabledFeatures []EnabledFeature `json:"enabledFeatures"`
	Links           []ConceptLink    `json:"links"`

	// ValidationCheckpoints is a legacy per-document list of completed
	// checkpoint ids, unrelated to the checkpoint store.
	ValidationCheckpoints []string `json:"validationCheckpoints"`

	// KeyQuestionAnswers maps a stage key question to the concept's answer.
	KeyQuestionAnswers map[string]string `json:"keyQuestionAnswers,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`

	Phase       string `json:"phase"`
	Progress    int    `json:"progress"`
	HealthScore int    `json:"healthScore"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
}

// Clone returns a copy of c that shares no slices, maps or field pointers
// with it.
func (c Concept) Clone() Concept {
	c.Tasks = slices.Clone(c.Tasks)
	c.EnabledFeatures = slices.Clone(c.EnabledFeatures)
	c.Links = slices.Clone(c.Links)
	c.ValidationCheckpoints = slices.Clone(c.ValidationCheckpoints)
	c.KeyQuestionAnswers = maps.Clone(c.KeyQuestionAnswers)

	for _, f := range []**string{
		&c.ProblemStatement, &c.TargetUser, &c.ValueProposition,
		&c.CompetitorAnalysis, &c.CoreFeatures, &c.Monetization,
		&c.MVPScope, &c.PrototypeURL, &c.UserFeedback,
		&c.LaunchPlan, &c.LandingPageURL, &c.StoreListingURL,
	} {
		if *f != nil {
			v := **f
			*f = &v
		}
	}
	return c
}
