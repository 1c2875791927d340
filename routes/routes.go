package routes

import (
	"github.com/Kariqs/amexan-storefront/controllers"
	"github.com/Kariqs/amexan-storefront/middlewares"
	"github.com/gin-gonic/gin"
)

// Register mounts every storefront route. Everything except the default
// routes requires a credential sent in authHeader.
func Register(server *gin.Engine, h *controllers.Handler, authHeader string) {
	DefaultRoutes(server)

	authed := server.Group("/", middlewares.RequireAuth(authHeader))
	CartRoutes(authed, h)
	OrderRoutes(authed, h)
	ProductRoutes(authed, h)
	AdminRoutes(authed, h)
}
