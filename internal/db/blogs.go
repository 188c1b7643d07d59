package db

import (
	"context"
	"database/sql"

	"blogcms/internal/models"
)

// CreateBlog inserts p and sets p.ID. p.Timestamp must be set by the caller.
func (db *DB) CreateBlog(ctx context.Context, p *models.BlogPost) error {
	query := "INSERT INTO blogs (title, description, image, created_at) VALUES (?, ?, ?, ?) RETURNING id"
	err := db.queryRow(ctx, query, p.Title, p.Description, nullString(p.Image), p.Timestamp.UTC()).Scan(&p.ID)
	return mapError(err)
}

// ListBlogs returns every post, newest first.
func (db *DB) ListBlogs(ctx context.Context) ([]models.BlogPost, error) {
	rows, err := db.query(ctx, "SELECT id, title, description, image, created_at FROM blogs ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.BlogPost
	for rows.Next() {
		var post models.BlogPost
		var image sql.NullString
		if err := rows.Scan(&post.ID, &post.Title, &post.Description, &image, &post.Timestamp); err != nil {
			return nil, err
		}
		post.Image = image.String
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (db *DB) CreateContactMessage(ctx context.Context, m *models.ContactMessage) error {
	query := "INSERT INTO contact_form (name, email, message) VALUES (?, ?, ?) RETURNING id"
	err := db.queryRow(ctx, query, m.Name, m.Email, m.Message).Scan(&m.ID)
	return mapError(err)
}
