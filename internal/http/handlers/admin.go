package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"blogcms/internal/accounts"
)

// AdminHandler serves the user list with its inline add/edit form.
// No login is required, matching the rest of the admin surface.
type AdminHandler struct {
	view        *View
	accounts    *accounts.Service
	maxFormSize int64
}

func NewAdminHandler(view *View, accounts *accounts.Service, maxFormSize int64) *AdminHandler {
	return &AdminHandler{view: view, accounts: accounts, maxFormSize: maxFormSize}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		h.view.serverError(w, r, err)
		return
	}

	h.view.render(w, r, http.StatusOK, "add_users.html", "Users", map[string]any{"Users": users})
}

// SaveUser creates a user, or updates one when the form carries user_id.
func (h *AdminHandler) SaveUser(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, h.maxFormSize); err != nil {
		if msg, ok := validationMessage(err); ok {
			h.view.redirect(w, r, "/add_user", flashDanger, msg)
			return
		}
		h.view.serverError(w, r, err)
		return
	}

	out, err := h.accounts.SaveUser(r.Context(), r.FormValue("user_id"), userForm(r), formFile(r, "profile_image"))
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			h.view.redirect(w, r, "/add_user", flashDanger, msg)
			return
		}
		h.view.serverError(w, r, err)
		return
	}

	if out.Created {
		h.view.redirect(w, r, "/add_user", flashSuccess, "User added successfully!")
		return
	}
	h.view.redirect(w, r, "/add_user", flashSuccess, "User updated successfully!")
}

// DeleteUser removes the user without confirmation. An unknown id still
// reports success.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.view.NotFound(w, r)
		return
	}

	if err := h.accounts.DeleteUser(r.Context(), id); err != nil {
		h.view.serverError(w, r, err)
		return
	}

	h.view.redirect(w, r, "/add_user", flashSuccess, "User deleted successfully!")
}
