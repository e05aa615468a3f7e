package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"creativesuite/internal/domain"
	"creativesuite/internal/store"
)

func (a *App) ListFAQs(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Store.FAQs())
}

type ticketRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (a *App) CreateTicket(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	var req ticketRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if req.Subject == "" || req.Body == "" {
		a.fail(w, fmt.Errorf("subject and body are required: %w", domain.ErrInvalidInput))
		return
	}

	ticket := domain.SupportTicket{
		ID:        store.NewID(),
		UserID:    user.ID,
		Subject:   req.Subject,
		Body:      req.Body,
		Status:    domain.TicketStatusOpen,
		CreatedAt: a.Store.Now(),
	}
	a.Store.SaveTicket(ticket)
	a.Store.LogActivity(user, "Filed Support Ticket", ticket.Subject)
	a.json(w, http.StatusCreated, ticket)
}

// ListTickets is admin-only; users see only their confirmation on creation.
func (a *App) ListTickets(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireAdmin(w); !ok {
		return
	}
	a.json(w, http.StatusOK, a.Store.Tickets())
}

// CloseTicket is admin-only.
func (a *App) CloseTicket(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireAdmin(w); !ok {
		return
	}
	id := chi.URLParam(r, "id")
	ticket, found := a.Store.TicketByID(id)
	if !found {
		a.error(w, http.StatusNotFound, "ticket not found")
		return
	}
	ticket.Status = domain.TicketStatusClosed
	a.Store.SaveTicket(ticket)
	a.json(w, http.StatusOK, ticket)
}
