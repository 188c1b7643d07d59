package handlers

import (
	"net/http"

	"blogcms/internal/accounts"
	"blogcms/internal/security"
)

type AuthHandler struct {
	view     *View
	accounts *accounts.Service
	sessions *security.SessionStore
}

func NewAuthHandler(view *View, accounts *accounts.Service, sessions *security.SessionStore) *AuthHandler {
	return &AuthHandler{
		view:     view,
		accounts: accounts,
		sessions: sessions,
	}
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.view.render(w, r, http.StatusOK, "register.html", "Register", nil)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.view.redirect(w, r, "/register", flashDanger, "Invalid form submission.")
		return
	}

	if _, err := h.accounts.Register(r.Context(), userForm(r)); err != nil {
		if msg, ok := validationMessage(err); ok {
			h.view.redirect(w, r, "/register", flashDanger, msg)
			return
		}
		h.view.serverError(w, r, err)
		return
	}

	h.view.redirect(w, r, "/login", flashSuccess, "Registration successful! Please log in.")
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.view.render(w, r, http.StatusOK, "login.html", "Login", nil)
}

// Login answers an unknown username and a wrong password with the same message.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.view.redirect(w, r, "/login", flashDanger, "Invalid form submission.")
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			h.view.redirect(w, r, "/login", flashDanger, msg)
			return
		}
		h.view.serverError(w, r, err)
		return
	}

	h.sessions.SetUserID(r, user.ID)
	h.view.redirect(w, r, "/profile", flashSuccess, "Login successful!")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearUserID(r)
	h.view.redirect(w, r, "/", flashSuccess, "You have been logged out.")
}
