package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"blogcms/internal/accounts"
)

var errUploadTooLarge = errors.New("upload too large")

// parseForm reads url-encoded and multipart bodies alike, capping the body
// at maxBytes.
func parseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	err := r.ParseMultipartForm(maxBytes)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errUploadTooLarge
	}
	return err
}

// formFile returns the uploaded file for field, or nil when the field is
// absent or was submitted without choosing a file.
func formFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 || files[0].Filename == "" {
		return nil
	}
	return files[0]
}

func userForm(r *http.Request) accounts.UserForm {
	return accounts.UserForm{
		FirstName:       r.FormValue("firstname"),
		MiddleName:      r.FormValue("middlename"),
		LastName:        r.FormValue("lastname"),
		Age:             r.FormValue("age"),
		Birthday:        r.FormValue("birthday"),
		ContactNumber:   r.FormValue("contact_number"),
		Username:        r.FormValue("username"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}
}
