package db

import (
	"context"
	"database/sql"

	"blogcms/internal/models"
)

const userColumns = "id, firstname, middlename, lastname, age, birthday, contact_number, username, email, password_hash, profile_image, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var image sql.NullString
	err := row.Scan(&user.ID, &user.FirstName, &user.MiddleName, &user.LastName, &user.Age, &user.Birthday,
		&user.ContactNumber, &user.Username, &user.Email, &user.PasswordHash, &image, &user.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	user.ProfileImage = image.String
	return user, nil
}

// CreateUser inserts u and sets u.ID.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	query := `INSERT INTO users (firstname, middlename, lastname, age, birthday, contact_number, username, email, password_hash, profile_image)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`

	err := db.queryRow(ctx, query, u.FirstName, u.MiddleName, u.LastName, u.Age, u.Birthday,
		u.ContactNumber, u.Username, u.Email, u.PasswordHash, nullString(u.ProfileImage)).Scan(&u.ID)
	return mapError(err)
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(db.queryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(db.queryRow(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username))
}

func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := db.query(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UpdateProfile writes the self-service profile fields.
func (db *DB) UpdateProfile(ctx context.Context, id int64, p models.Profile) error {
	query := "UPDATE users SET firstname = ?, lastname = ?, age = ?, birthday = ?, contact_number = ? WHERE id = ?"
	_, err := db.exec(ctx, query, p.FirstName, p.LastName, p.Age, p.Birthday, p.ContactNumber, id)
	return err
}

func (db *DB) UpdateProfileImage(ctx context.Context, id int64, filename string) error {
	_, err := db.exec(ctx, "UPDATE users SET profile_image = ? WHERE id = ?", filename, id)
	return err
}

// UpdateUser writes every admin-editable field except the password hash.
func (db *DB) UpdateUser(ctx context.Context, u *models.User) error {
	query := `UPDATE users SET firstname = ?, middlename = ?, lastname = ?, age = ?, birthday = ?,
		contact_number = ?, username = ?, email = ? WHERE id = ?`
	_, err := db.exec(ctx, query, u.FirstName, u.MiddleName, u.LastName, u.Age, u.Birthday,
		u.ContactNumber, u.Username, u.Email, u.ID)
	return err
}

// UpdateUserWithPassword is UpdateUser plus u.PasswordHash in the same statement.
func (db *DB) UpdateUserWithPassword(ctx context.Context, u *models.User) error {
	query := `UPDATE users SET firstname = ?, middlename = ?, lastname = ?, age = ?, birthday = ?,
		contact_number = ?, username = ?, email = ?, password_hash = ? WHERE id = ?`
	_, err := db.exec(ctx, query, u.FirstName, u.MiddleName, u.LastName, u.Age, u.Birthday,
		u.ContactNumber, u.Username, u.Email, u.PasswordHash, u.ID)
	return err
}

// DeleteUser removes the row if present. Deleting a missing id is not an error.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	_, err := db.exec(ctx, "DELETE FROM users WHERE id = ?", id)
	return err
}
