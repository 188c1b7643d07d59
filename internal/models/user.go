package models

import "time"

type User struct {
	ID            int64     `json:"id"`
	FirstName     string    `json:"firstname"`
	MiddleName    string    `json:"middlename"`
	LastName      string    `json:"lastname"`
	Age           int       `json:"age"`
	Birthday      string    `json:"birthday"`
	ContactNumber string    `json:"contact_number"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"` // Don't expose in JSON
	ProfileImage  string    `json:"profile_image,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Profile holds the fields a user may change on their own profile page.
type Profile struct {
	FirstName     string
	LastName      string
	Age           int
	Birthday      string
	ContactNumber string
}
