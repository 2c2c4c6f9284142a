// Package usecase implements the business logic for the weeklist feature.
package usecase

import "errors"

var (
	// ErrWeekListNotFound is returned when a week list cannot be found,
	// including when it exists but is owned by another user on an
	// owner-scoped read. Existence of others' lists is never leaked.
	ErrWeekListNotFound = errors.New("week list not found")

	// ErrTaskNotFound is returned when a task id does not match any task
	// in the named week list.
	ErrTaskNotFound = errors.New("task not found")

	// ErrQuotaExceeded is returned when a user already has two active
	// (end date in the future) week lists at creation time.
	ErrQuotaExceeded = errors.New("you can only have two active week lists at a time")

	// ErrEditWindowExpired is returned when a mutation targets a week list
	// created more than 24 hours ago.
	ErrEditWindowExpired = errors.New("you can only edit or delete the week list within 24 hours")

	// ErrWeekListNotActive is returned when an operation requires the
	// active state but the list has been completed.
	ErrWeekListNotActive = errors.New("week list is not active")
)
