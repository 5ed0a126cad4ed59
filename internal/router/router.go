package router

import (
	"net/http"

	"resto-catalog/internal/auth"
	"resto-catalog/internal/handler"
	"resto-catalog/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Menu     *handler.MenuHandler
	Category *handler.CategoryHandler
	Gallery  *handler.GalleryHandler
	User     *handler.UserHandler
	Auth     *handler.AuthHandler
	Catalog  *handler.CatalogHandler
	Image    *handler.ImageHandler
}

// Options configures the middleware chain.
type Options struct {
	Authority     *auth.Authority
	AllowedOrigin string
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Public catalog
	mux.HandleFunc("GET /api/menu", h.Menu.List)
	mux.HandleFunc("GET /api/menu/{id}", h.Menu.Get)
	mux.HandleFunc("GET /api/categories", h.Category.List)
	mux.HandleFunc("GET /api/catalog", h.Catalog.Catalog)
	mux.HandleFunc("GET /api/gallery", h.Gallery.ListActive)

	// Session
	mux.HandleFunc("POST /api/admin/login", h.Auth.Login)
	mux.HandleFunc("POST /api/admin/logout", h.Auth.Logout)
	mux.HandleFunc("GET /api/admin/session", h.Auth.Session)
	mux.HandleFunc("GET /admin/login", h.Auth.LoginPage)
	mux.HandleFunc("GET /admin/{$}", h.Catalog.Dashboard)

	// Admin: menu
	mux.HandleFunc("GET /api/admin/menu", h.Menu.List)
	mux.HandleFunc("POST /api/admin/menu", h.Menu.Create)
	mux.HandleFunc("PUT /api/admin/menu/{id}", h.Menu.Update)
	mux.HandleFunc("DELETE /api/admin/menu/{id}", h.Menu.Delete)

	// Admin: categories
	mux.HandleFunc("GET /api/admin/categories", h.Category.List)
	mux.HandleFunc("POST /api/admin/categories", h.Category.Create)
	mux.HandleFunc("PUT /api/admin/categories/{key}", h.Category.Rename)
	mux.HandleFunc("DELETE /api/admin/categories/{key}", h.Category.Delete)

	// Admin: gallery
	mux.HandleFunc("GET /api/admin/gallery", h.Gallery.List)
	mux.HandleFunc("POST /api/admin/gallery", h.Gallery.Create)
	mux.HandleFunc("POST /api/admin/gallery/upload", h.Gallery.Upload)
	mux.HandleFunc("POST /api/admin/gallery/reset", h.Gallery.Reset)
	mux.HandleFunc("PUT /api/admin/gallery/{id}", h.Gallery.Update)
	mux.HandleFunc("DELETE /api/admin/gallery/{id}", h.Gallery.Delete)

	// Admin: users
	mux.HandleFunc("GET /api/admin/users", h.User.List)
	mux.HandleFunc("POST /api/admin/users", h.User.Create)
	mux.HandleFunc("PUT /api/admin/users/{id}", h.User.Update)
	mux.HandleFunc("DELETE /api/admin/users/{id}", h.User.Delete)

	// Admin: images
	mux.HandleFunc("POST /api/admin/images", h.Image.Upload)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS -> AdminGate
	var handler http.Handler = mux
	handler = middleware.AdminGate(opts.Authority, logger)(handler)
	handler = middleware.CORS(opts.AllowedOrigin)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
