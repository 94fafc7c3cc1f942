// Package task implements the task operations: authorization via the
// access policy, lifecycle mutation, and notification dispatch.
package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskhub/taskhub/internal/errs"
	"github.com/taskhub/taskhub/internal/model"
	"github.com/taskhub/taskhub/internal/notify"
	"github.com/taskhub/taskhub/internal/policy"
	"github.com/taskhub/taskhub/internal/store"
)

// Service coordinates task reads and writes against the store.
type Service struct {
	store    store.Store
	notifier *notify.Dispatcher
}

// NewService returns a Service backed by the given store and dispatcher.
func NewService(s store.Store, n *notify.Dispatcher) *Service {
	return &Service{store: s, notifier: n}
}

// CreateInput holds the fields for a new task. All fields are required;
// CreatedBy is not accepted from callers.
type CreateInput struct {
	Title       string
	Description string
	DueDate     string
	Priority    string
	Status      string
	AssignedTo  string
}

// ListQuery holds the optional list filters. Empty strings mean the
// filter is not applied.
type ListQuery struct {
	Status     string
	Priority   string
	AssignedTo string
	CreatedBy  string
	Search     string
}

// Create validates the input, persists a new task with CreatedBy forced
// to the acting identity, and notifies the assignee when the task is
// assigned to someone else. It returns the new task's id.
func (s *Service) Create(ctx context.Context, ident model.Identity, in CreateInput) (string, error) {
	d := policy.Authorize(ident, policy.OpCreate, model.Task{})
	if !d.Allowed {
		return "", fmt.Errorf("%w: %s", errs.ErrUnauthenticated, d.Reason)
	}

	if in.Title == "" || in.Description == "" || in.DueDate == "" ||
		in.Priority == "" || in.Status == "" || in.AssignedTo == "" {
		return "", fmt.Errorf("%w: missing required fields", errs.ErrInvalidInput)
	}

	due, err := model.ParseDueDate(in.DueDate)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
	}
	prio, err := model.ParsePriority(in.Priority)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
	}

	t := model.Task{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		DueDate:     due,
		Priority:    prio,
		Status:      in.Status,
		CreatedBy:   ident.ID,
		AssignedTo:  in.AssignedTo,
	}

	if err := s.store.SaveTask(ctx, t); err != nil {
		return "", fmt.Errorf("creating task: %w", err)
	}

	s.notifier.TaskCreated(ctx, t, ident)

	return t.ID, nil
}

// Get returns a single task if the identity may read it.
func (s *Service) Get(ctx context.Context, ident model.Identity, id string) (*model.Task, error) {
	if ident.IsZero() {
		return nil, errs.ErrUnauthenticated
	}

	t, err := s.store.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if d := policy.Authorize(ident, policy.OpRead, *t); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", errs.ErrForbidden, d.Reason)
	}

	return t, nil
}

// List returns the tasks visible to the identity, narrowed by the
// optional query filters, newest-created first. List reads are never
// denied; visibility narrows the result set instead.
func (s *Service) List(ctx context.Context, ident model.Identity, q ListQuery) ([]model.Task, error) {
	if ident.IsZero() {
		return nil, errs.ErrUnauthenticated
	}

	f := store.TaskFilter{VisibleTo: policy.Visibility(ident)}
	if q.Status != "" {
		f.Status = &q.Status
	}
	if q.Priority != "" {
		f.Priority = &q.Priority
	}
	if q.AssignedTo != "" {
		f.AssignedTo = &q.AssignedTo
	}
	if q.CreatedBy != "" {
		f.CreatedBy = &q.CreatedBy
	}
	if q.Search != "" {
		f.Search = &q.Search
	}

	return s.store.GetTasks(ctx, f)
}

// Update applies a partial update to a task. The access policy decides
// the allowed field subset; fields outside it are silently dropped.
// The task write completes before any notification is attempted, but
// the two are not one transaction: notification writes are best-effort.
// Concurrent updates to the same task resolve last-write-wins.
func (s *Service) Update(ctx context.Context, ident model.Identity, id string, p Patch) (*model.Task, error) {
	if ident.IsZero() {
		return nil, errs.ErrUnauthenticated
	}

	t, err := s.store.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d := policy.Authorize(ident, policy.OpUpdate, *t)
	if !d.Allowed {
		return nil, fmt.Errorf("%w: %s", errs.ErrForbidden, d.Reason)
	}

	tr, err := applyPatch(t, p, d.Fields, ident.ID)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveTask(ctx, *t); err != nil {
		return nil, fmt.Errorf("updating task %s: %w", id, err)
	}

	s.notifier.TaskUpdated(ctx, *t, tr)

	return t, nil
}

// Delete removes a task and, through the store, every notification
// referencing it.
func (s *Service) Delete(ctx context.Context, ident model.Identity, id string) error {
	if ident.IsZero() {
		return errs.ErrUnauthenticated
	}

	t, err := s.store.GetTaskByID(ctx, id)
	if err != nil {
		return err
	}

	if d := policy.Authorize(ident, policy.OpDelete, *t); !d.Allowed {
		return fmt.Errorf("%w: %s", errs.ErrForbidden, d.Reason)
	}

	return s.store.DeleteTask(ctx, id)
}
