package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"blogcms/internal/models"
	"blogcms/internal/upload"
)

type BlogStore interface {
	CreateBlog(ctx context.Context, p *models.BlogPost) error
	ListBlogs(ctx context.Context) ([]models.BlogPost, error)
}

type ImageUploader interface {
	Accept(fh *multipart.FileHeader) (upload.Result, error)
}

type BlogHandler struct {
	view        *View
	store       BlogStore
	uploads     ImageUploader
	maxFormSize int64
	now         func() time.Time
}

func NewBlogHandler(view *View, store BlogStore, uploads ImageUploader, maxFormSize int64) *BlogHandler {
	return &BlogHandler{
		view:        view,
		store:       store,
		uploads:     uploads,
		maxFormSize: maxFormSize,
		now:         time.Now,
	}
}

func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListBlogs(r.Context())
	if err != nil {
		h.view.serverError(w, r, err)
		return
	}

	h.view.render(w, r, http.StatusOK, "create_blog.html", "Blogs", map[string]any{"Posts": posts})
}

// Create stores a post; an image that fails the upload checks is dropped
// and the post is stored without one.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, h.maxFormSize); err != nil {
		if msg, ok := validationMessage(err); ok {
			h.view.redirect(w, r, "/blogs", flashDanger, msg)
			return
		}
		h.view.serverError(w, r, err)
		return
	}

	post := &models.BlogPost{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Timestamp:   h.now().UTC(),
	}
	if post.Title == "" || post.Description == "" {
		h.view.redirect(w, r, "/blogs", flashDanger, "Title and description are required!")
		return
	}

	if fh := formFile(r, "image"); fh != nil {
		res, err := h.uploads.Accept(fh)
		if err != nil {
			h.view.serverError(w, r, err)
			return
		}
		if res.Accepted() {
			post.Image = res.Filename
		} else if !errors.Is(res.Reason, upload.ErrNoFile) {
			h.view.log.InfoContext(r.Context(), "blog image skipped", "reason", res.Reason)
		}
	}

	if err := h.store.CreateBlog(r.Context(), post); err != nil {
		h.view.serverError(w, r, err)
		return
	}

	h.view.redirect(w, r, "/blogs", flashSuccess, "Blog post created successfully!")
}
