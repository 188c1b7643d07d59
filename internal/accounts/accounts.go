// Package accounts holds the user-facing rules for registration, login,
// profile edits and the admin user list. Each operation is a short sequence
// of independent auto-committed statements; a failure part way through is
// not rolled back.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"blogcms/internal/db"
	"blogcms/internal/models"
	"blogcms/internal/upload"
)

var (
	ErrMissingFields      = errors.New("all required fields must be filled")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordRequired   = errors.New("password is required for new users")
	ErrInvalidAge         = errors.New("age must be a whole number")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrUserNotFound       = errors.New("user not found")
)

type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id int64, p models.Profile) error
	UpdateProfileImage(ctx context.Context, id int64, filename string) error
	UpdateUser(ctx context.Context, u *models.User) error
	UpdateUserWithPassword(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}

type Hasher interface {
	HashPassword(password string) (string, error)
	ComparePasswords(hashedPassword, password string) bool
}

type Uploader interface {
	Accept(fh *multipart.FileHeader) (upload.Result, error)
}

type Service struct {
	store   Store
	hasher  Hasher
	uploads Uploader
}

func NewService(store Store, hasher Hasher, uploads Uploader) *Service {
	return &Service{store: store, hasher: hasher, uploads: uploads}
}

// UserForm carries the raw personal fields shared by registration and the
// admin form. Age arrives as text and is parsed during validation.
type UserForm struct {
	FirstName       string
	MiddleName      string
	LastName        string
	Age             string
	Birthday        string
	ContactNumber   string
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

func (f UserForm) requiredPresent() bool {
	return present(f.FirstName, f.LastName, f.Age, f.Birthday, f.ContactNumber, f.Username, f.Email)
}

func (f UserForm) user() (*models.User, error) {
	age, err := parseAge(f.Age)
	if err != nil {
		return nil, err
	}
	return &models.User{
		FirstName:     f.FirstName,
		MiddleName:    f.MiddleName,
		LastName:      f.LastName,
		Age:           age,
		Birthday:      f.Birthday,
		ContactNumber: f.ContactNumber,
		Username:      f.Username,
		Email:         f.Email,
	}, nil
}

// Register creates an account from the public sign-up form.
func (s *Service) Register(ctx context.Context, f UserForm) (*models.User, error) {
	if !f.requiredPresent() || f.Password == "" || f.ConfirmPassword == "" {
		return nil, ErrMissingFields
	}
	if f.Password != f.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	u, err := f.user()
	if err != nil {
		return nil, err
	}
	if u.PasswordHash, err = s.hasher.HashPassword(f.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, storeError(err)
	}
	return u, nil
}

// Authenticate never says whether the username or the password was wrong.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.ComparePasswords(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) User(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

// ProfileForm is the self-service subset of UserForm.
type ProfileForm struct {
	FirstName     string
	LastName      string
	Age           string
	Birthday      string
	ContactNumber string
}

// UpdateProfile stores an accepted image first and then the personal fields.
// A rejected image is reported in the returned Result and does not stop the
// field update.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, f ProfileForm, image *multipart.FileHeader) (upload.Result, error) {
	if !present(f.FirstName, f.LastName, f.Age, f.Birthday, f.ContactNumber) {
		return upload.Result{}, ErrMissingFields
	}
	age, err := parseAge(f.Age)
	if err != nil {
		return upload.Result{}, err
	}

	res, err := s.storeImage(ctx, userID, image)
	if err != nil {
		return res, err
	}

	err = s.store.UpdateProfile(ctx, userID, models.Profile{
		FirstName:     f.FirstName,
		LastName:      f.LastName,
		Age:           age,
		Birthday:      f.Birthday,
		ContactNumber: f.ContactNumber,
	})
	return res, err
}

// SaveResult describes what SaveUser did.
type SaveResult struct {
	UserID  int64
	Created bool
	Image   upload.Result
}

// SaveUser creates a user when userID is empty and updates that user
// otherwise. On update, an empty password keeps the stored hash and a missing
// image keeps the stored filename.
func (s *Service) SaveUser(ctx context.Context, userID string, f UserForm, image *multipart.FileHeader) (SaveResult, error) {
	if !f.requiredPresent() {
		return SaveResult{}, ErrMissingFields
	}
	if f.Password != "" && f.Password != f.ConfirmPassword {
		return SaveResult{}, ErrPasswordMismatch
	}

	u, err := f.user()
	if err != nil {
		return SaveResult{}, err
	}

	if strings.TrimSpace(userID) != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(userID), 10, 64)
		if err != nil {
			return SaveResult{}, ErrUserNotFound
		}
		u.ID = id
		return s.updateUser(ctx, u, f.Password, image)
	}
	return s.createUser(ctx, u, f.Password, image)
}

func (s *Service) updateUser(ctx context.Context, u *models.User, password string, image *multipart.FileHeader) (SaveResult, error) {
	out := SaveResult{UserID: u.ID}

	var err error
	if password != "" {
		if u.PasswordHash, err = s.hasher.HashPassword(password); err != nil {
			return out, fmt.Errorf("hash password: %w", err)
		}
		err = s.store.UpdateUserWithPassword(ctx, u)
	} else {
		err = s.store.UpdateUser(ctx, u)
	}
	if err != nil {
		return out, storeError(err)
	}

	out.Image, err = s.storeImage(ctx, u.ID, image)
	return out, err
}

func (s *Service) createUser(ctx context.Context, u *models.User, password string, image *multipart.FileHeader) (SaveResult, error) {
	if password == "" {
		return SaveResult{}, ErrPasswordRequired
	}

	var (
		out SaveResult
		err error
	)
	if u.PasswordHash, err = s.hasher.HashPassword(password); err != nil {
		return out, fmt.Errorf("hash password: %w", err)
	}

	if image != nil {
		if out.Image, err = s.uploads.Accept(image); err != nil {
			return out, err
		}
		if out.Image.Accepted() {
			u.ProfileImage = out.Image.Filename
		}
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		return out, storeError(err)
	}
	out.UserID = u.ID
	out.Created = true
	return out, nil
}

// DeleteUser leaves any avatar file on disk.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.store.DeleteUser(ctx, id)
}

// storeImage saves image and points the user at it when accepted. A nil
// image yields a zero Result.
func (s *Service) storeImage(ctx context.Context, userID int64, image *multipart.FileHeader) (upload.Result, error) {
	if image == nil {
		return upload.Result{}, nil
	}

	res, err := s.uploads.Accept(image)
	if err != nil || !res.Accepted() {
		return res, err
	}
	return res, s.store.UpdateProfileImage(ctx, userID, res.Filename)
}

func storeError(err error) error {
	switch {
	case errors.Is(err, db.ErrDuplicate):
		return ErrUsernameTaken
	case errors.Is(err, db.ErrNotFound):
		return ErrUserNotFound
	}
	return err
}

func present(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

func parseAge(s string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || age < 0 {
		return 0, ErrInvalidAge
	}
	return age, nil
}
