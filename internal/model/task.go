package model

// Flattened task statuses shared by every task view. Embedded concept task
// statuses collapse into this smaller vocabulary.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
)

// Task is the flattened representation of a task embedded in a concept.
type Task struct {
	// ID is the embedded task identifier.
	ID string `json:"id"`

	// ConceptID is the concept that owns this task.
	ConceptID string `json:"concept_id"`

	// ConceptName is the owning concept's display name.
	ConceptName string `json:"concept_name"`

	// Title is the human-readable summary of the task.
	Title string `json:"title"`

	// Status is the flattened status (use TaskStatus* constants).
	Status string `json:"status"`

	// Priority is the embedded priority (use Priority* constants).
	Priority string `json:"priority"`
}
