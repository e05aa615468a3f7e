package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListGallery returns the shared feed, newest first.
func (a *App) ListGallery(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.currentUser(w); !ok {
		return
	}
	a.json(w, http.StatusOK, a.Store.GalleryItems())
}

func (a *App) LikeGalleryItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.currentUser(w); !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if !a.Store.LikeGalleryItem(id) {
		a.error(w, http.StatusNotFound, "gallery item not found")
		return
	}
	item, _ := a.Store.GalleryItemByID(id)
	a.json(w, http.StatusOK, item)
}
