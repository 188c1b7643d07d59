package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"

	"blogcms/internal/accounts"
	"blogcms/internal/http/middleware"
	"blogcms/internal/security"
)

const (
	flashSuccess = "success"
	flashDanger  = "danger"
)

// LoadTemplates parses every page under templates/ together with the
// shared layout. The map is keyed by file name, e.g. "index.html".
func LoadTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	const layout = "templates/layout.html"

	pages, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}

	m := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		if page == layout {
			continue
		}
		t, err := template.ParseFS(fsys, layout, page)
		if err != nil {
			return nil, err
		}
		m[path.Base(page)] = t
	}
	return m, nil
}

// View renders pages and issues flash redirects. All handlers share one.
type View struct {
	templates map[string]*template.Template
	sessions  *security.SessionStore
	log       *slog.Logger
}

func NewView(templates map[string]*template.Template, sessions *security.SessionStore, log *slog.Logger) *View {
	return &View{templates: templates, sessions: sessions, log: log}
}

// render executes name into a buffer first so a template error can still
// become a clean 500.
func (v *View) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data map[string]any) {
	tpl, ok := v.templates[name]
	if !ok {
		v.log.ErrorContext(r.Context(), "template not found", "template", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	flashes, err := v.sessions.Flashes(w, r)
	if err != nil {
		v.log.WarnContext(r.Context(), "save session after reading flashes", "error", err)
	}

	if data == nil {
		data = map[string]any{}
	}
	_, loggedIn := security.UserIDFromContext(r.Context())
	data["Title"] = title
	data["Flashes"] = flashes
	data["LoggedIn"] = loggedIn

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		v.log.ErrorContext(r.Context(), "execute template", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// redirect queues a flash (if message is set) and sends a 303 to url.
func (v *View) redirect(w http.ResponseWriter, r *http.Request, url, category, message string) {
	if message != "" {
		v.sessions.AddFlash(r, category, message)
	}
	if err := v.sessions.Save(w, r); err != nil {
		v.log.WarnContext(r.Context(), "save session", "error", err)
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (v *View) serverError(w http.ResponseWriter, r *http.Request, err error) {
	v.log.ErrorContext(r.Context(), "request failed",
		"request_id", middleware.RequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	v.InternalError(w, r)
}

// InternalError renders the 500 page.
func (v *View) InternalError(w http.ResponseWriter, r *http.Request) {
	v.render(w, r, http.StatusInternalServerError, "500.html", "Error", nil)
}

// NotFound renders the 404 page.
func (v *View) NotFound(w http.ResponseWriter, r *http.Request) {
	v.render(w, r, http.StatusNotFound, "404.html", "Not found", nil)
}

// validationMessage maps user-correctable errors to the flash shown for them.
func validationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, accounts.ErrMissingFields):
		return "All required fields must be filled!", true
	case errors.Is(err, accounts.ErrPasswordMismatch):
		return "Passwords do not match!", true
	case errors.Is(err, accounts.ErrPasswordRequired):
		return "Password is required for new users!", true
	case errors.Is(err, accounts.ErrInvalidAge):
		return "Age must be a whole number!", true
	case errors.Is(err, accounts.ErrUsernameTaken):
		return "Username is already taken.", true
	case errors.Is(err, accounts.ErrInvalidCredentials):
		return "Invalid credentials. Please try again.", true
	case errors.Is(err, accounts.ErrUserNotFound):
		return "User not found.", true
	case errors.Is(err, errUploadTooLarge):
		return "Upload is too large.", true
	}
	return "", false
}
