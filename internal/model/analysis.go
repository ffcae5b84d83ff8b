package model

// TaskAnalysis is the structured suggestion returned by the AI
// enrichment adapter for a task title.
type TaskAnalysis struct {
	// Subtasks are suggested actionable steps, in display order.
	Subtasks []string `json:"subtasks"`

	// Priority is the AI's textual priority estimate ("low", "medium",
	// "high"). Unrecognized values are ignored by the repository.
	Priority string `json:"priority"`

	// EstimatedTime is a human-readable duration estimate.
	EstimatedTime string `json:"estimatedTime"`

	// RefinedDescription is a short description for the task.
	RefinedDescription string `json:"refinedDescription"`
}
