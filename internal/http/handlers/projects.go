package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"creativesuite/internal/domain"
	"creativesuite/internal/policy"
	"creativesuite/internal/store"
)

func (a *App) ListProjects(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, a.Store.ProjectsByUser(user.ID))
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (a *App) CreateProject(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	var req createProjectRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if req.Name == "" {
		a.fail(w, fmt.Errorf("project name is required: %w", domain.ErrInvalidInput))
		return
	}
	if err := policy.CanCreateProject(user, a.Store.CountProjectsByUser(user.ID)); err != nil {
		a.error(w, http.StatusTooManyRequests, err.Error())
		return
	}

	project := domain.Project{
		ID:          store.NewID(),
		UserID:      user.ID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   a.Store.Now(),
	}
	a.Store.SaveProject(project)
	a.Store.LogActivity(user, "Created Project", project.Name)
	a.json(w, http.StatusCreated, project)
}

// project loads the addressed project and enforces ownership. Admins may read
// any project.
func (a *App) project(w http.ResponseWriter, r *http.Request) (domain.Project, domain.User, bool) {
	user, ok := a.currentUser(w)
	if !ok {
		return domain.Project{}, domain.User{}, false
	}
	id := chi.URLParam(r, "id")
	project, found := a.Store.ProjectByID(id)
	if !found {
		a.error(w, http.StatusNotFound, "project not found")
		return domain.Project{}, domain.User{}, false
	}
	if project.UserID != user.ID && !user.IsAdmin() {
		a.error(w, http.StatusForbidden, "not your project")
		return domain.Project{}, domain.User{}, false
	}
	return project, user, true
}

func (a *App) GetProject(w http.ResponseWriter, r *http.Request) {
	project, _, ok := a.project(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, project)
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
}

func (a *App) UpdateProject(w http.ResponseWriter, r *http.Request) {
	project, _, ok := a.project(w, r)
	if !ok {
		return
	}
	var req updateProjectRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	a.Store.MutateProject(project.ID, func(p *domain.Project) {
		if req.Name != nil && *req.Name != "" {
			p.Name = *req.Name
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Notes != nil {
			p.Notes = *req.Notes
		}
	})
	updated, _ := a.Store.ProjectByID(project.ID)
	a.json(w, http.StatusOK, updated)
}

func (a *App) DeleteProject(w http.ResponseWriter, r *http.Request) {
	project, user, ok := a.project(w, r)
	if !ok {
		return
	}
	a.Store.DeleteProject(project.ID)
	a.Store.LogActivity(user, "Deleted Project", project.Name)
	a.json(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type attachItemRequest struct {
	ItemID string `json:"itemId"`
}

// AttachItem links a gallery item into the project. Items are shared; the
// project holds only the reference.
func (a *App) AttachItem(w http.ResponseWriter, r *http.Request) {
	project, _, ok := a.project(w, r)
	if !ok {
		return
	}
	var req attachItemRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if _, found := a.Store.GalleryItemByID(req.ItemID); !found {
		a.error(w, http.StatusNotFound, "gallery item not found")
		return
	}

	a.Store.MutateProject(project.ID, func(p *domain.Project) {
		for _, id := range p.ItemIDs {
			if id == req.ItemID {
				return
			}
		}
		p.ItemIDs = append(p.ItemIDs, req.ItemID)
	})
	updated, _ := a.Store.ProjectByID(project.ID)
	a.json(w, http.StatusOK, updated)
}

type taskRequest struct {
	Content string            `json:"content"`
	Status  domain.TaskStatus `json:"status"`
}

func (a *App) AddTask(w http.ResponseWriter, r *http.Request) {
	project, _, ok := a.project(w, r)
	if !ok {
		return
	}
	var req taskRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if req.Content == "" {
		a.fail(w, fmt.Errorf("task content is required: %w", domain.ErrInvalidInput))
		return
	}

	task := domain.Task{ID: store.NewID(), Content: req.Content, Status: domain.TaskStatusTodo}
	a.Store.MutateProject(project.ID, func(p *domain.Project) {
		p.Tasks = append(p.Tasks, task)
	})
	a.json(w, http.StatusCreated, task)
}

func (a *App) UpdateTask(w http.ResponseWriter, r *http.Request) {
	project, _, ok := a.project(w, r)
	if !ok {
		return
	}
	taskID := chi.URLParam(r, "taskId")
	var req taskRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if !validTaskStatus(req.Status) && req.Status != "" {
		a.fail(w, fmt.Errorf("unknown task status %q: %w", req.Status, domain.ErrInvalidInput))
		return
	}

	found := false
	a.Store.MutateProject(project.ID, func(p *domain.Project) {
		for i := range p.Tasks {
			if p.Tasks[i].ID != taskID {
				continue
			}
			if req.Content != "" {
				p.Tasks[i].Content = req.Content
			}
			if req.Status != "" {
				p.Tasks[i].Status = req.Status
			}
			found = true
			return
		}
	})
	if !found {
		a.error(w, http.StatusNotFound, "task not found")
		return
	}
	updated, _ := a.Store.ProjectByID(project.ID)
	a.json(w, http.StatusOK, updated)
}

func (a *App) DeleteTask(w http.ResponseWriter, r *http.Request) {
	project, _, ok := a.project(w, r)
	if !ok {
		return
	}
	taskID := chi.URLParam(r, "taskId")

	found := false
	a.Store.MutateProject(project.ID, func(p *domain.Project) {
		for i := range p.Tasks {
			if p.Tasks[i].ID == taskID {
				p.Tasks = append(p.Tasks[:i], p.Tasks[i+1:]...)
				found = true
				return
			}
		}
	})
	if !found {
		a.error(w, http.StatusNotFound, "task not found")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func validTaskStatus(s domain.TaskStatus) bool {
	switch s {
	case domain.TaskStatusTodo, domain.TaskStatusInProgress, domain.TaskStatusDone:
		return true
	}
	return false
}
