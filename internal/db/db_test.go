package db

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogcms/internal/models"
)

func withDB(t *testing.T) *DB {
	t.Helper()
	d, err := Init(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func sampleUser(username string) *models.User {
	return &models.User{
		FirstName:     "Ada",
		MiddleName:    "B",
		LastName:      "Lovelace",
		Age:           36,
		Birthday:      "1815-12-10",
		ContactNumber: "555-0100",
		Username:      username,
		Email:         username + "@example.com",
		PasswordHash:  "hash",
	}
}

func TestInit_UnsupportedDriver(t *testing.T) {
	_, err := Init(context.Background(), "mysql", "whatever")
	assert.Error(t, err)
}

func TestInit_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	first, err := Init(context.Background(), DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Init(context.Background(), DriverSQLite, path)
	require.NoError(t, err)
	assert.NoError(t, second.Close())
}

func TestUsers_CreateAndGet(t *testing.T) {
	d := withDB(t)
	ctx := context.Background()

	u := sampleUser("ada")
	require.NoError(t, d.CreateUser(ctx, u))
	assert.NotZero(t, u.ID)

	byName, err := d.GetUserByUsername(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, "Lovelace", byName.LastName)
	assert.Equal(t, 36, byName.Age)
	assert.Empty(t, byName.ProfileImage)
	assert.False(t, byName.CreatedAt.IsZero())

	byID, err := d.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", byID.Email)
}

func TestUsers_NotFound(t *testing.T) {
	d := withDB(t)

	_, err := d.GetUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = d.GetUserByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUsers_DuplicateUsername(t *testing.T) {
	d := withDB(t)
	ctx := context.Background()

	require.NoError(t, d.CreateUser(ctx, sampleUser("ada")))
	err := d.CreateUser(ctx, sampleUser("ada"))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUsers_Updates(t *testing.T) {
	d := withDB(t)
	ctx := context.Background()

	u := sampleUser("ada")
	require.NoError(t, d.CreateUser(ctx, u))

	require.NoError(t, d.UpdateProfile(ctx, u.ID, models.Profile{
		FirstName: "Augusta", LastName: "King", Age: 37, Birthday: "1815-12-10", ContactNumber: "555-0199",
	}))
	require.NoError(t, d.UpdateProfileImage(ctx, u.ID, "ada.png"))

	got, err := d.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Augusta", got.FirstName)
	assert.Equal(t, "King", got.LastName)
	assert.Equal(t, "B", got.MiddleName)
	assert.Equal(t, "ada.png", got.ProfileImage)

	got.Email = "countess@example.com"
	got.PasswordHash = "ignored"
	require.NoError(t, d.UpdateUser(ctx, got))
	after, err := d.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "countess@example.com", after.Email)
	assert.Equal(t, "hash", after.PasswordHash)

	after.PasswordHash = "new-hash"
	require.NoError(t, d.UpdateUserWithPassword(ctx, after))
	final, err := d.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", final.PasswordHash)
}

func TestUsers_ListAndDelete(t *testing.T) {
	d := withDB(t)
	ctx := context.Background()

	a, b := sampleUser("a"), sampleUser("b")
	require.NoError(t, d.CreateUser(ctx, a))
	require.NoError(t, d.CreateUser(ctx, b))

	users, err := d.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a", users[0].Username)

	require.NoError(t, d.DeleteUser(ctx, a.ID))
	require.NoError(t, d.DeleteUser(ctx, 9999))

	users, err = d.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "b", users[0].Username)
}

func TestBlogs_NewestFirst(t *testing.T) {
	d := withDB(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"t1", "t2", "t3"} {
		p := &models.BlogPost{Title: title, Description: "d", Timestamp: base.Add(time.Duration(i) * time.Second)}
		require.NoError(t, d.CreateBlog(ctx, p))
	}
	require.NoError(t, d.CreateBlog(ctx, &models.BlogPost{Title: "img", Description: "d", Image: "a.png", Timestamp: base.Add(-time.Hour)}))

	posts, err := d.ListBlogs(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 4)
	assert.Equal(t, "t3", posts[0].Title)
	assert.Equal(t, "t2", posts[1].Title)
	assert.Equal(t, "t1", posts[2].Title)
	assert.Equal(t, "a.png", posts[3].Image)
	assert.True(t, posts[0].Timestamp.Equal(base.Add(2*time.Second)))
}

func TestContact_Create(t *testing.T) {
	d := withDB(t)
	ctx := context.Background()

	m := &models.ContactMessage{Name: "Grace", Email: "grace@example.com", Message: "hello"}
	require.NoError(t, d.CreateContactMessage(ctx, m))
	assert.NotZero(t, m.ID)

	var n int
	require.NoError(t, d.QueryRow("SELECT COUNT(*) FROM contact_form").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestRebind(t *testing.T) {
	pg := New(nil, DriverPostgres)
	assert.Equal(t, "UPDATE users SET a = $1, b = $2 WHERE id = $3", pg.rebind("UPDATE users SET a = ?, b = ? WHERE id = ?"))

	lite := New(nil, DriverSQLite)
	assert.Equal(t, "SELECT ? ", lite.rebind("SELECT ? "))
}

func newMockDB(t *testing.T, driver string) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return New(conn, driver), mock
}

func TestDeleteUser_PostgresPlaceholders(t *testing.T) {
	d, mock := newMockDB(t, DriverPostgres)

	mock.ExpectExec(`^DELETE FROM users WHERE id = \$1$`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, d.DeleteUser(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBlogs_DBError(t *testing.T) {
	d, mock := newMockDB(t, DriverSQLite)

	mock.ExpectQuery(`^SELECT id, title, description, image, created_at FROM blogs`).
		WillReturnError(errors.New("db down"))

	_, err := d.ListBlogs(context.Background())
	assert.EqualError(t, err, "db down")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_ScansReturnedID(t *testing.T) {
	d, mock := newMockDB(t, DriverPostgres)

	mock.ExpectQuery(regexp.QuoteMeta(`VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	u := sampleUser("ada")
	require.NoError(t, d.CreateUser(context.Background(), u))
	assert.Equal(t, int64(42), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
