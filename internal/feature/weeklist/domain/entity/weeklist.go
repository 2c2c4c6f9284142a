// Package entity defines the domain entities for the weeklist feature.
package entity

import "time"

// State is the lifecycle state of a WeekList.
type State string

const (
	// StateActive is the initial state; the list accepts edits and task marking.
	StateActive State = "active"

	// StateCompleted is terminal; no operation transitions back to active.
	StateCompleted State = "completed"
)

// EditWindow is the period after creation during which a WeekList may be
// modified or deleted.
const EditWindow = 24 * time.Hour

// Task is a single to-do item embedded in a WeekList.
// Tasks are value objects: they have no identity outside their parent list
// and are persisted as part of the aggregate's JSON column.
type Task struct {
	// ID is a uuid string assigned server-side when the task enters the list.
	ID string `json:"id"`

	// Description is the task text.
	Description string `json:"description"`

	// Marked reports whether the task is done.
	Marked bool `json:"marked"`

	// CompletedAt is set when the task is marked and cleared when unmarked.
	CompletedAt *time.Time `json:"completedAt"`
}

// WeekList is a user's weekly task list with a deadline and lifecycle state.
// The task list is embedded in the row, so a single-row update mutates the
// whole aggregate atomically.
type WeekList struct {
	// ID is the unique identifier for the week list.
	ID uint `gorm:"primaryKey" json:"id"`

	// UserID is the owning user. Immutable after creation.
	UserID uint `gorm:"index;not null" json:"userId"`

	// Description is the free-text description of the list.
	Description string `gorm:"size:1024;not null" json:"description"`

	// Tasks is the ordered task sequence, stored as a JSON column.
	Tasks []Task `gorm:"serializer:json" json:"tasks"`

	// EndDate is the deadline. Immutable after creation.
	EndDate time.Time `gorm:"index;not null" json:"endDate"`

	// State is the lifecycle state (active or completed).
	State State `gorm:"size:16;not null" json:"state"`

	// CreatedAt anchors the 24h edit window.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the timestamp of the last mutation.
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsActive returns true if the list is in the active state.
func (w *WeekList) IsActive() bool {
	return w.State == StateActive
}

// WithinEditWindow returns true if less than 24 hours have passed since
// creation at the given time.
func (w *WeekList) WithinEditWindow(now time.Time) bool {
	return now.Sub(w.CreatedAt) <= EditWindow
}

// TimeLeft returns the remaining time until the deadline, floored at zero
// once the deadline has passed.
func (w *WeekList) TimeLeft(now time.Time) time.Duration {
	left := w.EndDate.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// FindTask returns the index of the task with the given id, or -1.
func (w *WeekList) FindTask(taskID string) int {
	for i := range w.Tasks {
		if w.Tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}
