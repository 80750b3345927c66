package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"imobcrm/internal/database"
	"imobcrm/internal/domain/kanban"
	"imobcrm/internal/domain/lead"
	"imobcrm/internal/middleware"
	"imobcrm/internal/pkg/jwt"
	"imobcrm/internal/pkg/response"
)

// Deps are the wired components behind the HTTP API.
type Deps struct {
	DB            *gorm.DB
	JWT           *jwt.Service
	Leads         *lead.Handler
	Kanban        *kanban.Handler
	InternalToken string
	CORSOrigins   []string
}

// NewRouter builds the gin engine with every /api/v1 route.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(d.CORSOrigins))

	r.GET("/health", health(d.DB))

	v1 := r.Group("/api/v1")
	{
		lead.RegisterPublicRoutes(v1, d.Leads)

		optional := v1.Group("")
		optional.Use(middleware.OptionalAuth(d.JWT))
		lead.RegisterOptionalAuthRoutes(optional, d.Leads)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(d.JWT))
		lead.RegisterProtectedRoutes(protected, d.Leads,
			middleware.RequireRole(middleware.RoleAdmin, middleware.RoleBroker))
		kanban.RegisterRoutes(protected, d.Kanban)

		ws := v1.Group("/ws")
		ws.Use(middleware.QueryTokenAuth(d.JWT))
		kanban.RegisterStreamRoutes(ws, d.Kanban)

		internal := v1.Group("/internal")
		internal.Use(middleware.InternalTokenAuth(d.InternalToken))
		lead.RegisterInternalRoutes(internal, d.Leads)
	}

	return r
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.Ping(db); err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database is not reachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
