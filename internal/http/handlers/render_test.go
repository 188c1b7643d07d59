package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogcms/internal/accounts"
	"blogcms/internal/logging"
	"blogcms/internal/security"
	"blogcms/web"
)

func TestLoadTemplates(t *testing.T) {
	templates, err := LoadTemplates(web.Templates)
	require.NoError(t, err)

	for _, name := range []string{"index.html", "register.html", "login.html", "profile.html",
		"add_users.html", "create_blog.html", "contact.html", "404.html", "500.html"} {
		assert.Contains(t, templates, name)
	}
	assert.NotContains(t, templates, "layout.html")
}

func TestView_RenderNotFound(t *testing.T) {
	templates, err := LoadTemplates(web.Templates)
	require.NoError(t, err)
	view := NewView(templates, security.NewSessionStore(nil, time.Hour, false), logging.Discard())

	w := httptest.NewRecorder()
	view.NotFound(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<title>Not found | Blog</title>")
}

func TestView_MissingTemplate(t *testing.T) {
	view := NewView(nil, security.NewSessionStore(nil, time.Hour, false), logging.Discard())

	w := httptest.NewRecorder()
	view.InternalError(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestValidationMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
		ok   bool
	}{
		{accounts.ErrMissingFields, "All required fields must be filled!", true},
		{fmt.Errorf("save: %w", accounts.ErrPasswordMismatch), "Passwords do not match!", true},
		{accounts.ErrUsernameTaken, "Username is already taken.", true},
		{accounts.ErrInvalidCredentials, "Invalid credentials. Please try again.", true},
		{errUploadTooLarge, "Upload is too large.", true},
		{errors.New("disk on fire"), "", false},
	}

	for _, tt := range tests {
		got, ok := validationMessage(tt.err)
		assert.Equal(t, tt.want, got, tt.err.Error())
		assert.Equal(t, tt.ok, ok, tt.err.Error())
	}
}

func TestParseForm(t *testing.T) {
	t.Run("url encoded", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("name=Grace"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		require.NoError(t, parseForm(httptest.NewRecorder(), r, 1024))
		assert.Equal(t, "Grace", r.FormValue("name"))
		assert.Nil(t, formFile(r, "image"))
	})

	t.Run("body over limit", func(t *testing.T) {
		body := "--b\r\nContent-Disposition: form-data; name=\"title\"\r\n\r\n" +
			strings.Repeat("x", 4096) + "\r\n--b--\r\n"
		r := httptest.NewRequest(http.MethodPost, "/create_blog", strings.NewReader(body))
		r.Header.Set("Content-Type", "multipart/form-data; boundary=b")

		err := parseForm(httptest.NewRecorder(), r, 128)
		assert.ErrorIs(t, err, errUploadTooLarge)
	})
}
