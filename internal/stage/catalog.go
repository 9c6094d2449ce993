// Package stage holds the static lifecycle catalog: the ordered stages a
// concept moves through and the validation checkpoints of each stage.
package stage

import "github.com/nhle/content-hub/internal/model"

// Checkpoint is one condition that must be satisfied before a concept can
// leave its stage. Each checkpoint edits exactly one concept field.
type Checkpoint struct {
	ID          string
	Label       string
	Description string
	CTALabel    string
	Field       Field
	FieldType   FieldType
	Placeholder string
}

// Stage is one lifecycle phase.
type Stage struct {
	ID            model.Status
	Label         string
	Description   string
	Color         string
	KeyActivities []string
	KeyQuestions  []string
	Checkpoints   []Checkpoint
}

// CheckpointIDs returns the ids of the stage's checkpoints in order.
func (s *Stage) CheckpointIDs() []string {
	ids := make([]string, len(s.Checkpoints))
	for i, cp := range s.Checkpoints {
		ids[i] = cp.ID
	}
	return ids
}

// Checkpoint looks up a checkpoint of this stage by id.
func (s *Stage) Checkpoint(id string) (Checkpoint, bool) {
	for _, cp := range s.Checkpoints {
		if cp.ID == id {
			return cp, true
		}
	}
	return Checkpoint{}, false
}

// forward is the only legal advance path.
var forward = []model.Status{
	model.StatusIdea,
	model.StatusBrainstorming,
	model.StatusPrototyping,
	model.StatusFinal,
}

var catalog = []Stage{
	{
		ID:          model.StatusIdea,
		Label:       "Idea",
		Description: "Capture the raw idea and the problem it solves.",
		Color:       "#868E96",
		KeyActivities: []string{
			"Write down the problem in one sentence",
			"Describe who has this problem",
			"Sketch why this app is better than the status quo",
		},
		KeyQuestions: []string{
			"What problem does this solve?",
			"Who experiences this problem most often?",
			"Why now?",
		},
		Checkpoints: []Checkpoint{
			{
				ID:          "problem-defined",
				Label:       "Problem defined",
				Description: "The problem is stated clearly enough to test.",
				CTALabel:    "Define problem",
				Field:       FieldProblemStatement,
				FieldType:   FieldTypeTextarea,
				Placeholder: "People who ... struggle to ...",
			},
			{
				ID:          "target-user",
				Label:       "Target user identified",
				Description: "A specific primary user is named.",
				CTALabel:    "Add target user",
				Field:       FieldTargetUser,
				FieldType:   FieldTypeText,
				Placeholder: "Freelance designers juggling 5+ clients",
			},
			{
				ID:          "value-proposition",
				Label:       "Value proposition",
				Description: "One line on why users would switch.",
				CTALabel:    "Write value proposition",
				Field:       FieldValueProposition,
				FieldType:   FieldTypeTextarea,
				Placeholder: "Unlike X, this app ...",
			},
		},
	},
	{
		ID:          model.StatusBrainstorming,
		Label:       "Brainstorming",
		Description: "Explore the market, features and business model.",
		Color:       "#5B9BD5",
		KeyActivities: []string{
			"Survey competing apps",
			"List candidate features and cut to the core",
			"Pick a monetization model",
		},
		KeyQuestions: []string{
			"Who else solves this and how?",
			"Which features are essential for launch?",
			"How will this make money?",
		},
		Checkpoints: []Checkpoint{
			{
				ID:          "competitors-reviewed",
				Label:       "Competitors reviewed",
				Description: "At least three alternatives are compared.",
				CTALabel:    "Add competitor notes",
				Field:       FieldCompetitorAnalysis,
				FieldType:   FieldTypeTextarea,
				Placeholder: "App A does ..., App B lacks ...",
			},
			{
				ID:          "core-features",
				Label:       "Core features listed",
				Description: "The must-have feature set is written down.",
				CTALabel:    "List core features",
				Field:       FieldCoreFeatures,
				FieldType:   FieldTypeTextarea,
				Placeholder: "1. ...\n2. ...\n3. ...",
			},
			{
				ID:          "monetization",
				Label:       "Monetization chosen",
				Description: "The revenue model is decided.",
				CTALabel:    "Choose monetization",
				Field:       FieldMonetization,
				FieldType:   FieldTypeText,
				Placeholder: "Freemium with monthly subscription",
			},
		},
	},
	{
		ID:          model.StatusPrototyping,
		Label:       "Prototyping",
		Description: "Build the smallest usable version and put it in front of users.",
		Color:       "#FFA94D",
		KeyActivities: []string{
			"Scope the MVP",
			"Ship a clickable prototype",
			"Collect feedback from real users",
		},
		KeyQuestions: []string{
			"What is the smallest thing worth shipping?",
			"Do users understand it without help?",
			"What did users ask for that is missing?",
		},
		Checkpoints: []Checkpoint{
			{
				ID:          "mvp-scoped",
				Label:       "MVP scoped",
				Description: "The MVP boundary is written down.",
				CTALabel:    "Scope MVP",
				Field:       FieldMVPScope,
				FieldType:   FieldTypeTextarea,
				Placeholder: "In: ... Out: ...",
			},
			{
				ID:          "prototype-live",
				Label:       "Prototype live",
				Description: "A prototype is reachable by testers.",
				CTALabel:    "Add prototype link",
				Field:       FieldPrototypeURL,
				FieldType:   FieldTypeURL,
				Placeholder: "https://",
			},
			{
				ID:          "feedback-collected",
				Label:       "Feedback collected",
				Description: "Feedback from at least five users is recorded.",
				CTALabel:    "Record feedback",
				Field:       FieldUserFeedback,
				FieldType:   FieldTypeTextarea,
				Placeholder: "Users liked ..., users struggled with ...",
			},
		},
	},
	{
		ID:          model.StatusFinal,
		Label:       "Final",
		Description: "Polish the product and prepare the launch.",
		Color:       "#CC5DE8",
		KeyActivities: []string{
			"Write the launch plan",
			"Publish a landing page",
			"Submit the store listing",
		},
		KeyQuestions: []string{
			"Where will the first hundred users come from?",
			"Is the listing ready for review?",
		},
		Checkpoints: []Checkpoint{
			{
				ID:          "launch-plan",
				Label:       "Launch plan ready",
				Description: "Channels and dates for launch are set.",
				CTALabel:    "Write launch plan",
				Field:       FieldLaunchPlan,
				FieldType:   FieldTypeTextarea,
				Placeholder: "Week 1: ...",
			},
			{
				ID:          "landing-page",
				Label:       "Landing page live",
				Description: "A public landing page exists.",
				CTALabel:    "Add landing page",
				Field:       FieldLandingPageURL,
				FieldType:   FieldTypeURL,
				Placeholder: "https://",
			},
			{
				ID:          "store-listing",
				Label:       "Store listing submitted",
				Description: "The app store listing is submitted.",
				CTALabel:    "Add store listing",
				Field:       FieldStoreListingURL,
				FieldType:   FieldTypeURL,
				Placeholder: "https://apps.apple.com/...",
			},
		},
	},
	{
		ID:          model.StatusPublished,
		Label:       "Published",
		Description: "The app is live.",
		Color:       "#6BCB77",
	},
	{
		ID:          model.StatusArchived,
		Label:       "Archived",
		Description: "No longer pursued.",
		Color:       "#495057",
	},
}

// Get returns a copy of the catalog entry for id, or false for an unknown id.
func Get(id model.Status) (*Stage, bool) {
	for i := range catalog {
		if catalog[i].ID == id {
			s := catalog[i].clone()
			return &s, true
		}
	}
	return nil, false
}

// Stages returns the forward-advance stages in order. Published and
// archived sit outside the forward path and are not included.
func Stages() []Stage {
	out := make([]Stage, 0, len(forward))
	for _, id := range forward {
		s, _ := Get(id)
		out = append(out, *s)
	}
	return out
}

// All returns a copy of every catalog entry, forward stages first.
func All() []Stage {
	out := make([]Stage, len(catalog))
	for i := range catalog {
		out[i] = catalog[i].clone()
	}
	return out
}

// clone copies s including its slices, so callers cannot reach the catalog.
func (s Stage) clone() Stage {
	s.KeyActivities = append([]string(nil), s.KeyActivities...)
	s.KeyQuestions = append([]string(nil), s.KeyQuestions...)
	s.Checkpoints = append([]Checkpoint(nil), s.Checkpoints...)
	return s
}

// position returns the index of status in the forward path, or -1.
func position(status model.Status) int {
	for i, id := range forward {
		if id == status {
			return i
		}
	}
	return -1
}

// Next returns the stage after status on the forward path. It returns false
// for the last forward stage and for statuses outside the forward path.
func Next(status model.Status) (model.Status, bool) {
	i := position(status)
	if i < 0 || i == len(forward)-1 {
		return "", false
	}
	return forward[i+1], true
}

// IsLast reports whether status is the final forward stage.
func IsLast(status model.Status) bool {
	return position(status) == len(forward)-1
}

// CompletedCount counts the completed ids that belong to the stage's
// checkpoint list. Ids left over from an earlier stage are ignored.
func CompletedCount(status model.Status, completed []string) int {
	s, ok := Get(status)
	if !ok {
		return 0
	}
	done := make(map[string]bool, len(completed))
	for _, id := range completed {
		done[id] = true
	}
	n := 0
	for _, cp := range s.Checkpoints {
		if done[cp.ID] {
			n++
		}
	}
	return n
}

// ReadyToAdvance reports whether a concept at status with the given
// completed checkpoints may move to the next forward stage: every checkpoint
// of the stage is complete and the stage is not the last one.
func ReadyToAdvance(status model.Status, completed []string) bool {
	if _, ok := Next(status); !ok {
		return false
	}
	s, _ := Get(status)
	return CompletedCount(status, completed) == len(s.Checkpoints)
}
