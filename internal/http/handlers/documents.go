package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"creativesuite/internal/domain"
	"creativesuite/internal/policy"
	"creativesuite/internal/store"
	"creativesuite/internal/workflow"
)

func (a *App) ListDocuments(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, a.Store.DocumentsByUser(user.ID))
}

type createDocumentRequest struct {
	Title string `json:"title"`
}

func (a *App) CreateDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	var req createDocumentRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if req.Title == "" {
		req.Title = "Untitled Document"
	}
	if err := policy.CanCreateDocument(user, a.Store.CountDocumentsByUser(user.ID)); err != nil {
		a.error(w, http.StatusTooManyRequests, err.Error())
		return
	}

	doc := domain.StudioDocument{
		ID:           store.NewID(),
		UserID:       user.ID,
		Title:        req.Title,
		LastModified: a.Store.Now(),
	}
	a.Store.SaveDocument(doc)
	a.Store.LogActivity(user, "Created Document", doc.Title)
	a.json(w, http.StatusCreated, doc)
}

func (a *App) document(w http.ResponseWriter, r *http.Request) (domain.StudioDocument, domain.User, bool) {
	user, ok := a.currentUser(w)
	if !ok {
		return domain.StudioDocument{}, domain.User{}, false
	}
	id := chi.URLParam(r, "id")
	doc, found := a.Store.DocumentByID(id)
	if !found {
		a.error(w, http.StatusNotFound, "document not found")
		return domain.StudioDocument{}, domain.User{}, false
	}
	if doc.UserID != user.ID {
		a.error(w, http.StatusForbidden, "not your document")
		return domain.StudioDocument{}, domain.User{}, false
	}
	return doc, user, true
}

func (a *App) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, _, ok := a.document(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, doc)
}

type updateDocumentRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// UpdateDocument saves manual edits. A content change snapshots the previous
// revision into version history first.
func (a *App) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	doc, user, ok := a.document(w, r)
	if !ok {
		return
	}
	var req updateDocumentRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	if req.Content != nil && *req.Content != doc.Content {
		a.Studio.SnapshotVersion(user, doc.ID)
	}
	a.Store.MutateDocument(doc.ID, func(d *domain.StudioDocument) {
		if req.Title != nil && *req.Title != "" {
			d.Title = *req.Title
		}
		if req.Content != nil {
			d.Content = *req.Content
			d.Recount()
		}
		d.LastModified = a.Store.Now()
	})
	updated, _ := a.Store.DocumentByID(doc.ID)
	a.json(w, http.StatusOK, updated)
}

func (a *App) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	doc, user, ok := a.document(w, r)
	if !ok {
		return
	}
	a.Store.DeleteDocument(doc.ID)
	a.Store.LogActivity(user, "Deleted Document", doc.Title)
	a.json(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type studioActionRequest struct {
	Action workflow.StudioAction `json:"action"`
}

// ApplyStudioAction runs one AI writing assist over the document.
func (a *App) ApplyStudioAction(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	var req studioActionRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	doc, err := a.Studio.Apply(r.Context(), user.ID, chi.URLParam(r, "id"), req.Action)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, doc)
}

// RestoreVersion swaps the document back to a retained snapshot.
func (a *App) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil {
		a.fail(w, fmt.Errorf("bad version index: %w", domain.ErrInvalidInput))
		return
	}

	doc, err := a.Studio.RestoreVersion(user.ID, chi.URLParam(r, "id"), version)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, doc)
}

type novelRequest struct {
	Premise  string `json:"premise"`
	Chapters int    `json:"chapters"`
}

// WriteNovel appends AI-drafted chapters to the document in strict order.
// A partial failure reports what was committed alongside the error.
func (a *App) WriteNovel(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	var req novelRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	written, err := a.Novel.WriteChapters(r.Context(), user.ID, chi.URLParam(r, "id"), req.Premise, req.Chapters)
	if err != nil {
		if written > 0 {
			a.json(w, http.StatusBadGateway, map[string]any{
				"error":           err.Error(),
				"chaptersWritten": written,
			})
			return
		}
		a.fail(w, err)
		return
	}

	doc, _ := a.Store.DocumentByID(chi.URLParam(r, "id"))
	a.json(w, http.StatusOK, map[string]any{
		"chaptersWritten": written,
		"document":        doc,
	})
}
