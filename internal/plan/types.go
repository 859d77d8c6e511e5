package plan

import "sort"

// Status is the lifecycle state of a single task.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusBlocked    Status = "BLOCKED"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusBlocked:
		return true
	}
	return false
}

// Task is the only entity mutated after creation. IDs are unique across the
// whole document.
type Task struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Progress int    `json:"progress"`
	Status   Status `json:"status"`
}

// Phase groups an ordered sequence of tasks under a project.
type Phase struct {
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

// Project is a top-level grouping of phases with a display accent.
type Project struct {
	Name   string           `json:"name"`
	Accent string           `json:"accent"`
	Phases map[string]Phase `json:"phases"`
}

// Document is the whole plan tree, keyed by project id. encoding/json
// marshals map keys in sorted order, so the serialized form is stable for a
// given logical state.
type Document map[string]Project

// FindTask returns a pointer to the first task with the given id, or nil.
// Projects and phases are visited in sorted key order so the walk is
// deterministic; ids are unique so the order never changes the result.
// The pointer aliases the document's backing storage: mutations through it
// are visible in d.
func (d Document) FindTask(taskID string) *Task {
	for _, pk := range sortedKeys(d) {
		project := d[pk]
		for _, phk := range sortedKeys(project.Phases) {
			phase := project.Phases[phk]
			for i := range phase.Tasks {
				if phase.Tasks[i].ID == taskID {
					return &phase.Tasks[i]
				}
			}
		}
	}
	return nil
}

// Validate checks the document's structural invariants: no duplicate task
// ids and every progress value within [0,100].
func (d Document) Validate() error {
	seen := make(map[string]bool)
	for _, pk := range sortedKeys(d) {
		project := d[pk]
		for _, phk := range sortedKeys(project.Phases) {
			for _, task := range project.Phases[phk].Tasks {
				if seen[task.ID] {
					return &DuplicateIDError{ID: task.ID}
				}
				seen[task.ID] = true
				if task.Progress < 0 || task.Progress > 100 {
					return &ProgressRangeError{ID: task.ID, Progress: task.Progress}
				}
			}
		}
	}
	return nil
}

// Apply mutates t with the requested field writes, clamps progress to
// [0,100], and re-derives status. An explicit BLOCKED write is sticky until
// a later explicit status write replaces it. IN_PROGRESS at zero progress is
// also sticky, however it was reached: a progress write back to 0 on a
// running task keeps it IN_PROGRESS rather than dropping it to PENDING.
func Apply(t *Task, progress *int, status *Status) {
	if progress != nil {
		t.Progress = clamp(*progress)
	}
	if status != nil {
		t.Status = *status
	}
	if t.Status == StatusBlocked {
		return
	}
	switch {
	case t.Progress == 100:
		t.Status = StatusCompleted
	case t.Progress > 0:
		t.Status = StatusInProgress
	case t.Status != StatusInProgress:
		t.Status = StatusPending
	}
}

func clamp(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DuplicateIDError reports two tasks sharing an id.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return "duplicate task id: " + e.ID
}

// ProgressRangeError reports a stored progress outside [0,100].
type ProgressRangeError struct {
	ID       string
	Progress int
}

func (e *ProgressRangeError) Error() string {
	return "task " + e.ID + ": progress out of range"
}
