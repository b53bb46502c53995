package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/tienda-ropa/internal/middleware"
)

// NewRouter wires the report routes. Everything under /api needs a token
// signed with jwtSecret. CORS is off when allowedOrigins is empty.
func NewRouter(h *Handler, allowedOrigins []string, jwtSecret []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if len(allowedOrigins) > 0 {
		r.Use(middleware.CORS(allowedOrigins))
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(jwtSecret))
	{
		api.GET("/reports", h.ListReports)
		api.GET("/reports/:name", h.GetReport)
	}
	return r
}
