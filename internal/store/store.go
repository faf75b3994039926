// Package store owns the authoritative in-memory task collection. A Store
// is self-contained: multiple independent stores can coexist, and every
// operation that needs the current time takes it as an explicit argument.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/avierra/taskwell/internal/core"
	"github.com/avierra/taskwell/pkg/models"
)

// Lookup and recurrence errors surfaced by Store operations. Validation
// failures are reported with the core package's sentinel errors.
var (
	ErrTaskNotFound                = errors.New("task not found")
	ErrRecurringTaskMissingDueDate = errors.New("recurring task has no due date to schedule its successor from")
)

// CompleteResult carries the outcome of a Complete call. Successor is
// non-nil only when completing a recurring task created a new instance.
type CompleteResult struct {
	Task      models.Task
	Successor *models.Task
}

// Store holds tasks keyed by ID and assigns sequential IDs starting at 1.
// Mutations run under a single lock so ID assignment and successor creation
// appear atomic; reads may run concurrently.
type Store struct {
	mu     sync.RWMutex
	tasks  map[int]models.Task
	nextID int
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		tasks:  make(map[int]models.Task),
		nextID: 1,
	}
}

// Create validates every provided field, assigns the next sequential ID,
// and stores a new incomplete task. The first validation failure is
// returned and nothing is stored. Title is the only required field.
func (s *Store) Create(fields core.Fields, now time.Time) (models.Task, error) {
	if fields.Title == nil {
		return models.Task{}, core.ErrEmptyTitle
	}

	task := models.Task{Completed: false}
	if err := applyFields(&task, fields, now); err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = s.nextID
	s.nextID++
	s.tasks[task.ID] = task
	return task, nil
}

// Get returns the task with the given ID.
func (s *Store) Get(id int) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return models.Task{}, fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
	}
	return task, nil
}

// Update validates only the fields present in the partial update and
// applies them atomically: either every provided field passes validation
// and the task is rewritten, or the stored task is left untouched.
// ID and Completed are never changed by Update.
func (s *Store) Update(id int, fields core.Fields, now time.Time) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return models.Task{}, fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
	}

	// Stage the update on a copy so a validation failure leaves the
	// stored task untouched.
	staged := task
	if err := applyFields(&staged, fields, now); err != nil {
		return models.Task{}, err
	}

	s.tasks[id] = staged
	return staged, nil
}

// Delete removes the task with the given ID. Deletion is irreversible and
// does not cascade: successors already created from a recurring task are
// unaffected.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
	}
	delete(s.tasks, id)
	return nil
}

// Complete sets the task's completion flag. Transitioning an incomplete
// recurring task to complete also creates its successor: a new task with a
// fresh ID, the same attributes, and a due date computed from the
// completion instant. The completed original is retained. Reversing a
// completion never retracts an already-created successor.
func (s *Store) Complete(id int, completed bool, now time.Time) (CompleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return CompleteResult{}, fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
	}

	regenerate := completed && !task.Completed && task.Recurring()
	if regenerate && task.DueAt == nil {
		return CompleteResult{}, fmt.Errorf("task %d: %w", id, ErrRecurringTaskMissingDueDate)
	}

	task.Completed = completed
	s.tasks[id] = task
	result := CompleteResult{Task: task}

	if regenerate {
		nextDue := core.NextDueAt(*task.DueAt, task.Recurrence, now)
		successor := models.Task{
			ID:          s.nextID,
			Title:       task.Title,
			Description: task.Description,
			Completed:   false,
			Priority:    task.Priority,
			Category:    task.Category,
			DueAt:       &nextDue,
			Recurrence:  task.Recurrence,
		}
		s.nextID++
		s.tasks[successor.ID] = successor
		result.Successor = &successor
	}

	return result, nil
}

// List returns a snapshot of all tasks in ascending ID order. The snapshot
// is detached from the store: later mutations do not affect it.
func (s *Store) List() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ID < tasks[j].ID
	})
	return tasks
}

// Len returns the number of stored tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// applyFields validates each provided field and writes the normalized
// value onto task. The first failure wins and stops processing.
func applyFields(task *models.Task, fields core.Fields, now time.Time) error {
	if fields.Title != nil {
		title, err := core.NormalizeTitle(*fields.Title)
		if err != nil {
			return err
		}
		task.Title = title
	}
	if fields.Description != nil {
		description, err := core.NormalizeDescription(*fields.Description)
		if err != nil {
			return err
		}
		task.Description = description
	}
	if fields.Priority != nil {
		priority, err := core.NormalizePriority(*fields.Priority)
		if err != nil {
			return err
		}
		task.Priority = priority
	}
	if fields.Category != nil {
		category, err := core.NormalizeCategory(*fields.Category)
		if err != nil {
			return err
		}
		task.Category = category
	}
	if fields.DueAt != nil {
		dueAt, err := core.NormalizeDueAt(*fields.DueAt, now)
		if err != nil {
			return err
		}
		task.DueAt = &dueAt
	}
	if fields.Recurrence != nil {
		recurrence, err := core.NormalizeRecurrence(*fields.Recurrence)
		if err != nil {
			return err
		}
		task.Recurrence = recurrence
	}
	return nil
}
