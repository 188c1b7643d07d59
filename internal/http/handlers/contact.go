package handlers

import (
	"context"
	"net/http"
	"strings"

	"blogcms/internal/models"
)

type ContactStore interface {
	CreateContactMessage(ctx context.Context, m *models.ContactMessage) error
}

type ContactHandler struct {
	view  *View
	store ContactStore
}

func NewContactHandler(view *View, store ContactStore) *ContactHandler {
	return &ContactHandler{view: view, store: store}
}

func (h *ContactHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.view.render(w, r, http.StatusOK, "contact.html", "Contact", nil)
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.view.redirect(w, r, "/contact", flashDanger, "Invalid form submission.")
		return
	}

	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Message: strings.TrimSpace(r.FormValue("message")),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		h.view.redirect(w, r, "/contact", flashDanger, "All fields are required!")
		return
	}

	if err := h.store.CreateContactMessage(r.Context(), msg); err != nil {
		h.view.serverError(w, r, err)
		return
	}

	h.view.redirect(w, r, "/contact", flashSuccess, "Your message has been sent successfully!")
}
