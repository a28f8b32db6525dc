package api

import (
	"context"
	"net/http"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/services/task"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

type createTaskRequest struct {
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Role           string        `json:"role"`
	Priority       string        `json:"priority"`
	EstimatedHours float64       `json:"estimated_hours"`
	Deadline       *Date         `json:"deadline"`
	AssigneeID     *types.UserID `json:"assignee_id"`
}

type assignRequest struct {
	AssigneeID types.UserID `json:"assignee_id"`
}

type progressRequest struct {
	Progress *int    `json:"progress"`
	Status   *string `json:"status"`
	Note     string  `json:"note"`
}

type noteRequest struct {
	Body string `json:"body"`
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req createTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.Tasks.Create(r.Context(), userFromContext(r.Context()), task.CreateRequest{
		ProjectID:      types.ProjectID(id),
		Title:          req.Title,
		Description:    req.Description,
		Role:           req.Role,
		Priority:       req.Priority,
		EstimatedHours: req.EstimatedHours,
		Deadline:       req.Deadline.Ptr(),
		AssigneeID:     req.AssigneeID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) myTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.Tasks.ListForAssignee(r.Context(), userFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.Tasks.Get(r.Context(), userFromContext(r.Context()), types.TaskID(id))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) assignTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req assignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.Tasks.Assign(r.Context(), userFromContext(r.Context()), types.TaskID(id), req.AssigneeID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) updateProgress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req progressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	update := task.ProgressRequest{Progress: req.Progress, Note: req.Note}
	if req.Status != nil {
		status, err := models.ParseTaskStatus(*req.Status)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		update.Status = &status
	}
	res, err := s.Tasks.UpdateProgress(r.Context(), userFromContext(r.Context()), types.TaskID(id), update)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) addNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := s.Tasks.AddNote(r.Context(), userFromContext(r.Context()), types.TaskID(id), req.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Tasks.Delete(r.Context(), userFromContext(r.Context()), types.TaskID(id)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addDependency(w http.ResponseWriter, r *http.Request) {
	s.dependency(w, r, s.Tasks.AddDependency, http.StatusCreated)
}

func (s *Server) removeDependency(w http.ResponseWriter, r *http.Request) {
	s.dependency(w, r, s.Tasks.RemoveDependency, http.StatusNoContent)
}

type dependencyOp func(ctx context.Context, actor *models.User, id, dependsOn types.TaskID) error

func (s *Server) dependency(w http.ResponseWriter, r *http.Request, op dependencyOp, okStatus int) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dep, err := pathID(r, "dep")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := op(r.Context(), userFromContext(r.Context()), types.TaskID(id), types.TaskID(dep)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(okStatus)
}
