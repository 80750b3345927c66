package kanban

import "github.com/gin-gonic/gin"

// RegisterRoutes registers board routes. r must carry JWTAuth.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	kanban := r.Group("/kanban")
	{
		kanban.GET("", handler.GetBoard)
		kanban.PATCH("/cards/:id", handler.MoveCard)
	}
}

// RegisterStreamRoutes registers the websocket. r must carry QueryTokenAuth.
func RegisterStreamRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/kanban", handler.Stream)
}
