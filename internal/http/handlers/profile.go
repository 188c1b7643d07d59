package handlers

import (
	"errors"
	"net/http"

	"blogcms/internal/accounts"
	"blogcms/internal/security"
	"blogcms/internal/upload"
)

type ProfileHandler struct {
	view        *View
	accounts    *accounts.Service
	sessions    *security.SessionStore
	maxFormSize int64
}

func NewProfileHandler(view *View, accounts *accounts.Service, sessions *security.SessionStore, maxFormSize int64) *ProfileHandler {
	return &ProfileHandler{
		view:        view,
		accounts:    accounts,
		sessions:    sessions,
		maxFormSize: maxFormSize,
	}
}

// currentUserID redirects to the login page and reports false when nobody
// is logged in.
func (h *ProfileHandler) currentUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := security.UserIDFromContext(r.Context())
	if !ok {
		h.view.redirect(w, r, "/login", flashDanger, "Please log in first.")
	}
	return id, ok
}

func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.accounts.User(r.Context(), id)
	if errors.Is(err, accounts.ErrUserNotFound) {
		// The account was deleted while the session was still alive.
		h.sessions.ClearUserID(r)
		h.view.redirect(w, r, "/login", flashDanger, "Please log in first.")
		return
	}
	if err != nil {
		h.view.serverError(w, r, err)
		return
	}

	h.view.render(w, r, http.StatusOK, "profile.html", "Profile", map[string]any{"User": user})
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	if err := parseForm(w, r, h.maxFormSize); err != nil {
		if msg, ok := validationMessage(err); ok {
			h.view.redirect(w, r, "/profile", flashDanger, msg)
			return
		}
		h.view.serverError(w, r, err)
		return
	}

	form := accounts.ProfileForm{
		FirstName:     r.FormValue("firstname"),
		LastName:      r.FormValue("lastname"),
		Age:           r.FormValue("age"),
		Birthday:      r.FormValue("birthday"),
		ContactNumber: r.FormValue("contact_number"),
	}

	res, err := h.accounts.UpdateProfile(r.Context(), id, form, formFile(r, "profile_image"))
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			h.view.redirect(w, r, "/profile", flashDanger, msg)
			return
		}
		h.view.serverError(w, r, err)
		return
	}
	if res.Reason != nil && !errors.Is(res.Reason, upload.ErrNoFile) {
		h.view.log.InfoContext(r.Context(), "profile image skipped", "user_id", id, "reason", res.Reason)
	}

	h.view.redirect(w, r, "/profile", flashSuccess, "Profile updated successfully!")
}
