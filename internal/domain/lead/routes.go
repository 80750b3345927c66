package lead

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes registers public lead routes
func RegisterPublicRoutes(r *gin.RouterGroup, handler *Handler) {
	r.POST("/leads/submit", handler.SubmitLead)
	r.GET("/leads/enums", handler.GetEnums)
}

// RegisterOptionalAuthRoutes registers routes open to anonymous callers
// that behave differently for operators. r must carry OptionalAuth.
func RegisterOptionalAuthRoutes(r *gin.RouterGroup, handler *Handler) {
	r.PATCH("/leads/:id", handler.UpdateLead)
}

// RegisterProtectedRoutes registers operator lead routes. r must carry JWTAuth.
// deleteGuards run before DeleteLead.
func RegisterProtectedRoutes(r *gin.RouterGroup, handler *Handler, deleteGuards ...gin.HandlerFunc) {
	leads := r.Group("/leads")
	{
		leads.POST("", handler.CreateLead)
		leads.GET("", handler.ListLeads)
		leads.GET("/:id", handler.GetLead)
		leads.DELETE("/:id", append(deleteGuards, handler.DeleteLead)...)
		leads.GET("/:id/activities", handler.ListActivities)
		leads.POST("/:id/visits", handler.ScheduleVisit)
		leads.GET("/:id/visits", handler.ListVisits)
	}
}

// RegisterInternalRoutes registers service-to-service routes. r must carry
// InternalTokenAuth.
func RegisterInternalRoutes(r *gin.RouterGroup, handler *Handler) {
	r.POST("/visits", handler.InternalScheduleVisit)
}
