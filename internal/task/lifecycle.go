package task

import (
	"fmt"

	"github.com/taskhub/taskhub/internal/errs"
	"github.com/taskhub/taskhub/internal/model"
	"github.com/taskhub/taskhub/internal/notify"
	"github.com/taskhub/taskhub/internal/policy"
)

// Patch is a proposed partial update. Nil fields were not submitted.
// Date and priority values arrive in wire form and are parsed on apply.
type Patch struct {
	Title       *string
	Description *string
	DueDate     *string
	Priority    *string
	Status      *string
	AssignedTo  *string
}

// applyPatch projects the patch onto the allowed field set and mutates
// t in place. Submitted fields outside the allowed set are dropped, not
// rejected. It returns the lifecycle transitions detected from the
// actual before/after values, independent of which fields the actor was
// allowed to touch.
func applyPatch(t *model.Task, p Patch, allowed policy.Field, actorID string) (notify.Transitions, error) {
	prevStatus := t.Status
	prevAssignee := t.AssignedTo

	if p.Title != nil && allowed.Has(policy.FieldTitle) {
		t.Title = *p.Title
	}
	if p.Description != nil && allowed.Has(policy.FieldDescription) {
		t.Description = *p.Description
	}
	if p.DueDate != nil && allowed.Has(policy.FieldDueDate) {
		due, err := model.ParseDueDate(*p.DueDate)
		if err != nil {
			return notify.Transitions{}, fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
		}
		t.DueDate = due
	}
	if p.Priority != nil && allowed.Has(policy.FieldPriority) {
		prio, err := model.ParsePriority(*p.Priority)
		if err != nil {
			return notify.Transitions{}, fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
		}
		t.Priority = prio
	}
	if p.Status != nil && allowed.Has(policy.FieldStatus) {
		t.Status = *p.Status
	}
	if p.AssignedTo != nil && allowed.Has(policy.FieldAssignedTo) {
		t.AssignedTo = *p.AssignedTo
	}

	var tr notify.Transitions
	if t.AssignedTo != prevAssignee && t.AssignedTo != actorID {
		tr.NewAssignee = t.AssignedTo
	}
	if t.Status == model.StatusCompleted && prevStatus != model.StatusCompleted {
		tr.Completed = true
	}

	return tr, nil
}
