package normalize

import "github.com/nhle/content-hub/internal/model"

// Raw status values as stored in concept documents. Existing documents use
// this vocabulary, so it must not change.
const (
	RawIdea           = "idea"
	RawBrainstorming  = "brainstorming"
	RawPrototyping    = "prototyping"
	RawFinalPublished = "finalPublished"
	RawFinalHidden    = "finalHidden"
	RawArchived       = "archived"
)

// rawToApp is not the inverse of appToRaw: finalPublished and finalHidden
// map to the distinct app statuses published and final. The plain "final"
// and "published" keys are accepted on read only.
var rawToApp = map[string]model.Status{
	RawIdea:           model.StatusIdea,
	RawBrainstorming:  model.StatusBrainstorming,
	RawPrototyping:    model.StatusPrototyping,
	RawFinalPublished: model.StatusPublished,
	RawFinalHidden:    model.StatusFinal,
	RawArchived:       model.StatusArchived,
	"final":           model.StatusFinal,
	"published":       model.StatusPublished,
}

var appToRaw = map[model.Status]string{
	model.StatusPublished: RawFinalPublished,
	model.StatusFinal:     RawFinalHidden,
}

var progressByStatus = map[model.Status]int{
	model.StatusIdea:          10,
	model.StatusBrainstorming: 25,
	model.StatusPrototyping:   50,
	model.StatusFinal:         80,
	model.StatusPublished:     100,
	model.StatusArchived:      0,
}

var phaseByStatus = map[model.Status]string{
	model.StatusIdea:          "Idea",
	model.StatusBrainstorming: "Brainstorming",
	model.StatusPrototyping:   "Prototyping",
	model.StatusFinal:         "Final",
	model.StatusPublished:     "Published",
	model.StatusArchived:      "Archived",
}

// AppStatus maps a raw document status to an application status. Missing
// or unrecognized values become idea.
func AppStatus(raw string) model.Status {
	if s, ok := rawToApp[raw]; ok {
		return s
	}
	return model.StatusIdea
}

// RawStatus maps an application status to the value stored in documents.
// Statuses without a special raw spelling pass through unchanged.
func RawStatus(s model.Status) string {
	if raw, ok := appToRaw[s]; ok {
		return raw
	}
	return string(s)
}

// Progress returns the fixed completion percentage for a status.
func Progress(s model.Status) int {
	return progressByStatus[s]
}

// Phase returns the display label for a status.
func Phase(s model.Status) string {
	if p, ok := phaseByStatus[s]; ok {
		return p
	}
	return phaseByStatus[model.StatusIdea]
}

// flattenTaskStatus maps an embedded task status to the flattened task
// vocabulary. Parked tasks read as todo.
func flattenTaskStatus(raw string) string {
	switch raw {
	case model.ConceptTaskInProgress:
		return model.TaskStatusInProgress
	case model.ConceptTaskDone:
		return model.TaskStatusCompleted
	default:
		return model.TaskStatusTodo
	}
}
