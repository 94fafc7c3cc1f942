package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskhub/taskhub/internal/task"
)

type createTaskIn struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	AssignedTo  string `json:"assigned_to"`
}

// updateTaskIn carries a partial update; absent fields stay nil.
type updateTaskIn struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	AssignedTo  *string `json:"assigned_to"`
}

func newCreateTaskHandler(_ *slog.Logger, svc *task.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in createTaskIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeMessage(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		id, err := svc.Create(ctx, identityFrom(r.Context()), task.CreateInput{
			Title:       in.Title,
			Description: in.Description,
			DueDate:     in.DueDate,
			Priority:    in.Priority,
			Status:      in.Status,
			AssignedTo:  in.AssignedTo,
		})
		if err != nil {
			writeErr(w, err)
			return
		}

		writeJSON(w, map[string]any{
			"message": "Task created successfully",
			"taskId":  id,
		}, http.StatusCreated)
	}
}

func newGetTaskHandler(_ *slog.Logger, svc *task.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.Get(ctx, identityFrom(r.Context()), r.PathValue("id"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{"task": t}, http.StatusOK)
	}
}

func newListTasksHandler(_ *slog.Logger, svc *task.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		tasks, err := svc.List(ctx, identityFrom(r.Context()), task.ListQuery{
			Status:     q.Get("status"),
			Priority:   q.Get("priority"),
			AssignedTo: q.Get("assignedTo"),
			CreatedBy:  q.Get("createdBy"),
			Search:     q.Get("search"),
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{"tasks": tasks}, http.StatusOK)
	}
}

func newUpdateTaskHandler(_ *slog.Logger, svc *task.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in updateTaskIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeMessage(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.Update(ctx, identityFrom(r.Context()), r.PathValue("id"), task.Patch{
			Title:       in.Title,
			Description: in.Description,
			DueDate:     in.DueDate,
			Priority:    in.Priority,
			Status:      in.Status,
			AssignedTo:  in.AssignedTo,
		})
		if err != nil {
			writeErr(w, err)
			return
		}

		writeJSON(w, map[string]any{
			"message": "Task updated successfully",
			"task":    t,
		}, http.StatusOK)
	}
}

func newDeleteTaskHandler(_ *slog.Logger, svc *task.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.Delete(ctx, identityFrom(r.Context()), r.PathValue("id")); err != nil {
			writeErr(w, err)
			return
		}
		writeMessage(w, "Task deleted successfully", http.StatusOK)
	}
}
