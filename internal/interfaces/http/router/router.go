// Package router assembles handlers into a versioned gin route tree.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RegistrarFunc adapts a plain function to RouteRegistrar
type RegistrarFunc func(rg *gin.RouterGroup)

// RegisterRoutes implements RouteRegistrar
func (f RegistrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

// Router manages HTTP route registration. Registrars fall into three
// tiers: public routes need no token, protected routes sit behind the
// auth middleware, admin routes behind auth plus the admin check.
type Router struct {
	engine     *gin.Engine
	apiVersion string

	authMiddleware  []gin.HandlerFunc
	adminMiddleware []gin.HandlerFunc

	public    []RouteRegistrar
	protected []RouteRegistrar
	admin     []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithAuthMiddleware sets the middleware guarding protected routes
func WithAuthMiddleware(mw ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.authMiddleware = mw
	}
}

// WithAdminMiddleware sets the extra middleware guarding admin routes
func WithAdminMiddleware(mw ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.adminMiddleware = mw
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RegisterPublic adds a registrar whose routes need no token
func (r *Router) RegisterPublic(registrar RouteRegistrar) *Router {
	r.public = append(r.public, registrar)
	return r
}

// Register adds a registrar behind the auth middleware
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.protected = append(r.protected, registrar)
	return r
}

// RegisterAdmin adds a registrar behind auth plus the admin check
func (r *Router) RegisterAdmin(registrar RouteRegistrar) *Router {
	r.admin = append(r.admin, registrar)
	return r
}

// Setup registers the health endpoint and all routes with the engine
func (r *Router) Setup() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.public {
		registrar.RegisterRoutes(api)
	}

	protected := api.Group("")
	protected.Use(r.authMiddleware...)
	for _, registrar := range r.protected {
		registrar.RegisterRoutes(protected)
	}

	admin := protected.Group("")
	admin.Use(r.adminMiddleware...)
	for _, registrar := range r.admin {
		registrar.RegisterRoutes(admin)
	}
}
