// Package routes builds the HTTP surface: every endpoint, its
// middleware chain and the shared CORS and metrics wrapping.
package routes

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"gorm.io/gorm"

	"github.com/Shineselorm/learnlab-api/config"
	"github.com/Shineselorm/learnlab-api/handlers"
	"github.com/Shineselorm/learnlab-api/middleware"
	"github.com/Shineselorm/learnlab-api/models"
	"github.com/Shineselorm/learnlab-api/monitoring"
	"github.com/Shineselorm/learnlab-api/repositories"
)

// NewRouter wires repositories, handlers and middleware onto a mux
// router and returns the fully wrapped handler.
func NewRouter(db *gorm.DB) http.Handler {
	users := repositories.NewUserRepository(db)
	books := repositories.NewBookRepository(db)
	reviews := repositories.NewReviewRepository(db)
	lists := repositories.NewReadingListRepository(db)
	posts := repositories.NewPostRepository(db)
	notifications := repositories.NewNotificationRepository(db)

	auth := middleware.NewAuth(users)

	accountsHandler := handlers.NewAccountsHandler(users)
	usersHandler := handlers.NewUsersHandler(users, notifications)
	booksHandler := handlers.NewBooksHandler(books)
	librariesHandler := handlers.NewLibrariesHandler(books)
	reviewsHandler := handlers.NewReviewsHandler(reviews, books)
	listsHandler := handlers.NewReadingListsHandler(lists, books)
	postsHandler := handlers.NewPostsHandler(posts, notifications)
	commentsHandler := handlers.NewCommentsHandler(posts, notifications)
	notificationsHandler := handlers.NewNotificationsHandler(notifications)
	adminHandler := handlers.NewAdminHandler(users)
	systemHandler := handlers.NewSystemHandler(db)

	r := mux.NewRouter()

	r.HandleFunc("/healthz", systemHandler.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Accounts.
	api.HandleFunc("/accounts/register", accountsHandler.Register).Methods("POST")
	api.HandleFunc("/accounts/login", accountsHandler.Login).Methods("POST")
	api.HandleFunc("/accounts/logout", auth.RequireAuth(accountsHandler.Logout)).Methods("POST")
	api.HandleFunc("/accounts/profile", auth.RequireAuth(accountsHandler.GetProfile)).Methods("GET")
	api.HandleFunc("/accounts/profile", auth.RequireAuth(accountsHandler.UpdateProfile)).Methods("PUT")
	api.HandleFunc("/accounts/follow", auth.RequireAuth(usersHandler.Follow)).Methods("POST")
	api.HandleFunc("/accounts/followers", auth.RequireAuth(usersHandler.Followers)).Methods("GET")
	api.HandleFunc("/accounts/following", auth.RequireAuth(usersHandler.Following)).Methods("GET")
	api.HandleFunc("/accounts/users", auth.RequireAuth(usersHandler.ListUsers)).Methods("GET")
	api.HandleFunc("/accounts/users/{userID}", auth.OptionalAuth(usersHandler.GetUser)).Methods("GET")

	// Catalog.
	api.HandleFunc("/books", auth.RequirePermission(models.PermCanViewBook, booksHandler.ListBooks)).Methods("GET")
	api.HandleFunc("/books", auth.RequirePermission(models.PermCanCreateBook, booksHandler.CreateBook)).Methods("POST")
	api.HandleFunc("/books/{bookID}", auth.RequirePermission(models.PermCanViewBook, booksHandler.GetBook)).Methods("GET")
	api.HandleFunc("/books/{bookID}", auth.RequirePermission(models.PermCanEditBook, booksHandler.UpdateBook)).Methods("PUT")
	api.HandleFunc("/books/{bookID}", auth.RequirePermission(models.PermCanDeleteBook, booksHandler.DeleteBook)).Methods("DELETE")

	api.HandleFunc("/authors", booksHandler.ListAuthors).Methods("GET")
	api.HandleFunc("/authors", auth.RequireAuth(booksHandler.CreateAuthor)).Methods("POST")
	api.HandleFunc("/authors/{authorID}", booksHandler.GetAuthor).Methods("GET")
	api.HandleFunc("/authors/{authorID}", auth.RequirePermission(models.PermCanDeleteBook, booksHandler.DeleteAuthor)).Methods("DELETE")

	api.HandleFunc("/libraries", librariesHandler.ListLibraries).Methods("GET")
	api.HandleFunc("/libraries", auth.RequireAuth(librariesHandler.CreateLibrary)).Methods("POST")
	api.HandleFunc("/libraries/{libraryID}", librariesHandler.GetLibrary).Methods("GET")
	api.HandleFunc("/libraries/{libraryID}/books", auth.RequireAuth(librariesHandler.UpdateLibraryBooks)).Methods("POST")
	api.HandleFunc("/librarians", librariesHandler.ListLibrarians).Methods("GET")
	api.HandleFunc("/librarians", auth.RequireAuth(librariesHandler.CreateLibrarian)).Methods("POST")

	// Reviews.
	api.HandleFunc("/books/{bookID}/reviews", reviewsHandler.ListByBook).Methods("GET")
	api.HandleFunc("/books/{bookID}/reviews", auth.RequireAuth(reviewsHandler.Create)).Methods("POST")
	api.HandleFunc("/reviews/{reviewID}", auth.RequireAuth(reviewsHandler.Update)).Methods("PUT")
	api.HandleFunc("/reviews/{reviewID}", auth.RequireAuth(reviewsHandler.Delete)).Methods("DELETE")

	// Reading lists. The shared route stays public.
	api.HandleFunc("/reading-lists", auth.RequireAuth(listsHandler.List)).Methods("GET")
	api.HandleFunc("/reading-lists", auth.RequireAuth(listsHandler.Create)).Methods("POST")
	api.HandleFunc("/reading-lists/shared/{slug}", listsHandler.GetShared).Methods("GET")
	api.HandleFunc("/reading-lists/{listID}", auth.RequireAuth(listsHandler.Get)).Methods("GET")
	api.HandleFunc("/reading-lists/{listID}", auth.RequireAuth(listsHandler.Update)).Methods("PUT")
	api.HandleFunc("/reading-lists/{listID}", auth.RequireAuth(listsHandler.Delete)).Methods("DELETE")
	api.HandleFunc("/reading-lists/{listID}/books", auth.RequireAuth(listsHandler.UpdateBooks)).Methods("POST")

	// Posts and the feed. "my" and "feed" must register before the
	// {postID} routes.
	api.HandleFunc("/posts", postsHandler.List).Methods("GET")
	api.HandleFunc("/posts", auth.RequireAuth(postsHandler.Create)).Methods("POST")
	api.HandleFunc("/posts/my", auth.RequireAuth(postsHandler.ListMine)).Methods("GET")
	api.HandleFunc("/posts/feed", auth.RequireAuth(postsHandler.Feed)).Methods("GET")
	api.HandleFunc("/posts/{postID}", postsHandler.Get).Methods("GET")
	api.HandleFunc("/posts/{postID}", auth.RequireAuth(postsHandler.Update)).Methods("PUT")
	api.HandleFunc("/posts/{postID}", auth.RequireAuth(postsHandler.Delete)).Methods("DELETE")
	api.HandleFunc("/posts/{postID}/like", auth.RequireAuth(postsHandler.Like)).Methods("POST")
	api.HandleFunc("/posts/{postID}/like", auth.RequireAuth(postsHandler.Unlike)).Methods("DELETE")
	api.HandleFunc("/posts/{postID}/unlike", auth.RequireAuth(postsHandler.Unlike)).Methods("POST")
	api.HandleFunc("/posts/{postID}/likes", postsHandler.Likes).Methods("GET")

	// Comments.
	api.HandleFunc("/posts/{postID}/comments", commentsHandler.ListByPost).Methods("GET")
	api.HandleFunc("/posts/{postID}/comments", auth.RequireAuth(commentsHandler.Create)).Methods("POST")
	api.HandleFunc("/comments/{commentID}", auth.RequireAuth(commentsHandler.Update)).Methods("PUT")
	api.HandleFunc("/comments/{commentID}", auth.RequireAuth(commentsHandler.Delete)).Methods("DELETE")

	// Notifications.
	api.HandleFunc("/notifications", auth.RequireAuth(notificationsHandler.List)).Methods("GET")
	api.HandleFunc("/notifications/unread", auth.RequireAuth(notificationsHandler.Unread)).Methods("GET")
	api.HandleFunc("/notifications/read-all", auth.RequireAuth(notificationsHandler.MarkAllRead)).Methods("POST")
	api.HandleFunc("/notifications/{notificationID}/read", auth.RequireAuth(notificationsHandler.MarkRead)).Methods("POST")
	api.HandleFunc("/notifications/{notificationID}", auth.RequireAuth(notificationsHandler.Delete)).Methods("DELETE")

	// Admin.
	api.HandleFunc("/admin/users", auth.RequireStaff(adminHandler.ListUsers)).Methods("GET")
	api.HandleFunc("/admin/groups/assign", auth.RequireStaff(adminHandler.AssignGroup)).Methods("POST")
	api.HandleFunc("/admin/groups/remove", auth.RequireStaff(adminHandler.RemoveGroup)).Methods("POST")

	origins := strings.Split(config.Cfg.AllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return monitoring.InstrumentHandler(c.Handler(r))
}
