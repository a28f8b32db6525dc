package api

import (
	"net/http"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/services/project"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

type createProjectRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Complexity  string       `json:"complexity"`
	BudgetRange string       `json:"budget_range"`
	NDARequired bool         `json:"nda_required"`
	Deadline    *Date        `json:"deadline"`
	CustomerID  types.UserID `json:"customer_id"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type teamRequest struct {
	Members []project.TeamAssignment `json:"members"`
}

type milestoneRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    *Date  `json:"deadline"`
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.Projects.Dashboard(r.Context(), userFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) reports(w http.ResponseWriter, r *http.Request) {
	rep, err := s.Projects.Reports(r.Context(), userFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.Projects.ListForActor(r.Context(), userFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.Projects.Create(r.Context(), userFromContext(r.Context()), project.CreateRequest{
		Title:       req.Title,
		Description: req.Description,
		Complexity:  req.Complexity,
		BudgetRange: req.BudgetRange,
		NDARequired: req.NDARequired,
		Deadline:    req.Deadline.Ptr(),
		CustomerID:  req.CustomerID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.Projects.Detail(r.Context(), userFromContext(r.Context()), types.ProjectID(id))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) updateProjectStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	status, err := models.ParseProjectStatus(req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.Projects.UpdateStatus(r.Context(), userFromContext(r.Context()), types.ProjectID(id), status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) assignTeam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req teamRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.Projects.AssignTeam(r.Context(), userFromContext(r.Context()), types.ProjectID(id), req.Members)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Projects.Delete(r.Context(), userFromContext(r.Context()), types.ProjectID(id)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addMilestone(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req milestoneRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := s.Projects.AddMilestone(r.Context(), userFromContext(r.Context()), types.ProjectID(id), project.MilestoneRequest{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline.Ptr(),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) completeMilestone(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	mid, err := pathID(r, "milestone")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	err = s.Projects.CompleteMilestone(r.Context(), userFromContext(r.Context()), types.ProjectID(id), types.MilestoneID(mid))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
