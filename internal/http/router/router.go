package router

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"blogcms/internal/accounts"
	"blogcms/internal/db"
	"blogcms/internal/http/handlers"
	"blogcms/internal/http/middleware"
	"blogcms/internal/security"
	"blogcms/internal/upload"
)

type Deps struct {
	DB          *db.DB
	Accounts    *accounts.Service
	Sessions    *security.SessionStore
	Uploads     *upload.Store
	View        *handlers.View
	Static      fs.FS
	Logger      *slog.Logger
	MaxFormSize int64
}

// Setup builds the route table and wraps it in the logging, recovery and
// session identity middleware.
func Setup(d Deps) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(d.View, d.Accounts, d.Sessions)
	profileHandler := handlers.NewProfileHandler(d.View, d.Accounts, d.Sessions, d.MaxFormSize)
	adminHandler := handlers.NewAdminHandler(d.View, d.Accounts, d.MaxFormSize)
	blogHandler := handlers.NewBlogHandler(d.View, d.DB, d.Uploads, d.MaxFormSize)
	contactHandler := handlers.NewContactHandler(d.View, d.DB)

	r.HandleFunc("/", d.View.Home).Methods("GET")

	r.HandleFunc("/register", authHandler.RegisterPage).Methods("GET")
	r.HandleFunc("/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/login", authHandler.LoginPage).Methods("GET")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/logout", authHandler.Logout).Methods("GET")

	r.HandleFunc("/profile", profileHandler.Show).Methods("GET")
	r.HandleFunc("/profile", profileHandler.Update).Methods("POST")

	r.HandleFunc("/add_user", adminHandler.ListUsers).Methods("GET")
	r.HandleFunc("/add_user", adminHandler.SaveUser).Methods("POST")
	r.HandleFunc("/delete_user/{id:[0-9]+}", adminHandler.DeleteUser).Methods("GET")

	r.HandleFunc("/blogs", blogHandler.List).Methods("GET")
	r.HandleFunc("/create_blog", blogHandler.Create).Methods("POST")

	r.HandleFunc("/contact", contactHandler.Page).Methods("GET")
	r.HandleFunc("/contact", contactHandler.Submit).Methods("POST")

	r.PathPrefix("/static/uploads/").Handler(http.StripPrefix("/static/uploads/", http.FileServer(http.Dir(d.Uploads.Dir()))))
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(d.Static))))

	r.NotFoundHandler = http.HandlerFunc(d.View.NotFound)

	var h http.Handler = r
	h = middleware.Identity(d.Sessions)(h)
	h = middleware.Recover(d.Logger, d.View.InternalError)(h)
	h = middleware.Logging(d.Logger)(h)
	return h
}
