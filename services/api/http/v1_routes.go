package http

import "github.com/gin-gonic/gin"

// registerV1Routes sets up the v1 API structure.
// Groups: /api/v1/sections, /api/v1/runs, /api/v1/history
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())

	v1.POST("/sections", s.handleV1CreateRun)

	runs := v1.Group("/runs")
	{
		runs.GET("/:id", s.handleV1GetRun)
		runs.GET("/:id/sections/:index", s.handleV1SectionImage)
		runs.GET("/:id/archive", s.handleV1Archive)
	}

	v1.GET("/history", s.handleV1History)
}

func apiVersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", "v1")
		c.Next()
	}
}
