// Package policy decides, for any (identity, operation, task) triple,
// whether the operation is allowed and which task fields may change.
// It is pure: no store access, no side effects.
package policy

import "github.com/taskhub/taskhub/internal/model"

// Op is a requested task operation.
type Op int

const (
	OpCreate Op = iota
	OpRead
	OpUpdate
	OpDelete
)

// Field is a bitmask of mutable task fields.
type Field uint8

const (
	FieldTitle Field = 1 << iota
	FieldDescription
	FieldDueDate
	FieldPriority
	FieldStatus
	FieldAssignedTo
)

// AllFields is the full mutable field set. CreatedBy is never mutable.
const AllFields = FieldTitle | FieldDescription | FieldDueDate |
	FieldPriority | FieldStatus | FieldAssignedTo

// Has reports whether the mask includes f.
func (m Field) Has(f Field) bool {
	return m&f != 0
}

// Decision is the outcome of an authorization check. For updates,
// Fields is the subset of task fields the actor may change; proposed
// changes outside the subset are dropped by the lifecycle engine,
// not rejected.
type Decision struct {
	Allowed bool
	Fields  Field
	Reason  string
}

func allow(fields Field) Decision {
	return Decision{Allowed: true, Fields: fields}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// relationship is the actor's relation to a task.
type relationship int

const (
	relNone relationship = iota
	relCreator
	relAssignee // assigned but not the creator
)

func relate(id model.Identity, t model.Task) relationship {
	switch {
	case id.ID == t.CreatedBy:
		return relCreator
	case id.ID == t.AssignedTo:
		return relAssignee
	default:
		return relNone
	}
}

// Authorize evaluates the access rules for op on task. The task
// argument is ignored for OpCreate. An unresolved identity is always
// denied before any relationship is considered.
func Authorize(id model.Identity, op Op, task model.Task) Decision {
	if id.IsZero() {
		return deny("unauthorized")
	}

	switch op {
	case OpCreate:
		// Any authenticated identity may create; the caller forces
		// CreatedBy to the identity regardless of submitted value.
		return allow(AllFields)

	case OpRead:
		if id.Role == model.RoleAdmin || id.Role == model.RoleManager {
			return allow(0)
		}
		if relate(id, task) != relNone {
			return allow(0)
		}
		return deny("access denied")

	case OpUpdate:
		if id.Role == model.RoleAdmin || id.Role == model.RoleManager {
			return allow(AllFields)
		}
		switch relate(id, task) {
		case relCreator:
			return allow(AllFields)
		case relAssignee:
			// An assignee who did not create the task can advance its
			// state but not rewrite its content.
			return allow(FieldStatus)
		default:
			return deny("permission denied")
		}

	case OpDelete:
		if id.Role == model.RoleAdmin || id.Role == model.RoleManager {
			return allow(0)
		}
		if relate(id, task) == relCreator {
			return allow(0)
		}
		return deny("permission denied")
	}

	return deny("unknown operation")
}

// Visibility returns the list-scope restriction for an identity: nil
// for admins (no restriction), otherwise the identity's own id, meaning
// only tasks they created or are assigned to are visible. Managers get
// the same restricted list view as plain users despite their elevated
// update and delete rights.
func Visibility(id model.Identity) *string {
	if id.Role == model.RoleAdmin {
		return nil
	}
	uid := id.ID
	return &uid
}
