package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"creativesuite/internal/domain"
	"creativesuite/internal/store"
)

// ListBlogPosts returns published posts to everyone; admins also see drafts.
func (a *App) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	user, _ := a.Auth.CurrentUser()
	posts := a.Store.BlogPosts()
	if user.IsAdmin() {
		a.json(w, http.StatusOK, posts)
		return
	}

	published := make([]domain.BlogPost, 0, len(posts))
	for _, p := range posts {
		if p.IsPublished {
			published = append(published, p)
		}
	}
	a.json(w, http.StatusOK, published)
}

func (a *App) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	post, found := a.Store.BlogPostByID(chi.URLParam(r, "id"))
	if !found {
		a.error(w, http.StatusNotFound, "post not found")
		return
	}
	if !post.IsPublished {
		user, _ := a.Auth.CurrentUser()
		if !user.IsAdmin() {
			a.error(w, http.StatusNotFound, "post not found")
			return
		}
	}
	a.json(w, http.StatusOK, post)
}

type blogPostRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	IsPublished bool     `json:"isPublished"`
}

// CreateBlogPost is admin-only.
func (a *App) CreateBlogPost(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireAdmin(w)
	if !ok {
		return
	}
	var req blogPostRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if req.Title == "" {
		a.fail(w, fmt.Errorf("post title is required: %w", domain.ErrInvalidInput))
		return
	}

	post := domain.BlogPost{
		ID:           store.NewID(),
		Title:        req.Title,
		Content:      req.Content,
		AuthorName:   user.Name,
		AuthorAvatar: user.Avatar,
		Tags:         req.Tags,
		IsPublished:  req.IsPublished,
		CreatedAt:    a.Store.Now(),
	}
	a.Store.SaveBlogPost(post)
	a.Store.LogActivity(user, "Published Blog Post", post.Title)
	a.json(w, http.StatusCreated, post)
}

// UpdateBlogPost edits a post; flipping isPublished toggles draft visibility.
func (a *App) UpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireAdmin(w)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if _, found := a.Store.BlogPostByID(id); !found {
		a.error(w, http.StatusNotFound, "post not found")
		return
	}
	var req blogPostRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	a.Store.MutateBlogPost(id, func(p *domain.BlogPost) {
		if req.Title != "" {
			p.Title = req.Title
		}
		if req.Content != "" {
			p.Content = req.Content
		}
		if req.Tags != nil {
			p.Tags = req.Tags
		}
		p.IsPublished = req.IsPublished
	})
	updated, _ := a.Store.BlogPostByID(id)
	a.Store.LogActivity(user, "Updated Blog Post", updated.Title)
	a.json(w, http.StatusOK, updated)
}

func (a *App) DeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireAdmin(w)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	post, found := a.Store.BlogPostByID(id)
	if !found {
		a.error(w, http.StatusNotFound, "post not found")
		return
	}
	a.Store.DeleteBlogPost(id)
	a.Store.LogActivity(user, "Deleted Blog Post", post.Title)
	a.json(w, http.StatusOK, map[string]string{"status": "deleted"})
}
