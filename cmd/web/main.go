// Web server exposing the governance lifecycle services as a JSON API.
// Routing only: schema validation and token verification belong to the
// gateway in front of this process, which injects the authenticated user id
// in the X-User-ID header.
package main

import (
	"flag"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"raven-dgc/internal/config"
	"raven-dgc/internal/services"
	"raven-dgc/internal/store"
)

func main() {
	addr := flag.String("addr", config.GetListenAddr(), "Listen address")
	flag.Parse()

	st, err := store.Open(config.GetConnectionString())
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer st.Close()

	svc := services.New(st)

	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())

	r.GET("/health", handleHealth)

	api := r.Group("/api")
	{
		ws := api.Group("/workspaces")
		{
			ws.POST("", handleWorkspaceCreate(svc))
			ws.GET("", handleWorkspaceList(svc))
			ws.GET("/:id", handleWorkspaceGet(svc))
			ws.DELETE("/:id", handleWorkspaceDelete(svc))
			ws.PATCH("/:id/data-access", handleDataAccessUpdate(svc))
			ws.GET("/:id/history", handleHistoryList(svc))
			ws.GET("/:id/permits", handlePermitsByWorkspace(svc))
			ws.GET("/:id/analyses", handleAnalysesByWorkspace(svc))
			ws.GET("/:id/cohorts", handleCohortsByWorkspace(svc))
			ws.GET("/:id/metadata-searches", handleMetadataSearchesByWorkspace(svc))
		}

		permits := api.Group("/permits")
		{
			permits.POST("", handlePermitCreate(svc))
			permits.GET("/:id", handlePermitGet(svc))
			permits.PUT("/:id", handlePermitUpdate(svc))
			permits.PATCH("/:id/status", handlePermitStatusUpdate(svc))
			permits.DELETE("/:id", handlePermitDelete(svc))
		}

		analyses := api.Group("/analyses")
		{
			analyses.POST("", handleAnalysisCreate(svc))
			analyses.GET("/:id", handleAnalysisGet(svc))
			analyses.PUT("/:id", handleAnalysisUpdate(svc))
			analyses.DELETE("/:id", handleAnalysisDelete(svc))
			analyses.GET("/expiring", handleAnalysesExpiring(svc))
		}

		cohorts := api.Group("/cohorts")
		{
			cohorts.POST("", handleCohortCreate(svc))
			cohorts.GET("/:id", handleCohortGet(svc))
			cohorts.PUT("/:id", handleCohortUpdate(svc))
			cohorts.PATCH("/:id/status", handleCohortStatusUpdate(svc))
			cohorts.DELETE("/:id", handleCohortDelete(svc))
			cohorts.POST("/:id/results", handleCohortResultCreate(svc))
			cohorts.POST("/:id/results/bulk", handleCohortResultBulkCreate(svc))
			cohorts.GET("/:id/results", handleCohortResultsList(svc))
			cohorts.DELETE("/:id/results", handleCohortResultDelete(svc))
		}

		searches := api.Group("/metadata-searches")
		{
			searches.POST("", handleMetadataSearchCreate(svc))
			searches.PATCH("/:id/status", handleMetadataSearchStatusUpdate(svc))
		}
	}

	log.Printf("raven-dgc web API listening on %s", *addr)
	if err := r.Run(*addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// requestIDMiddleware tags every request with an id for log correlation.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}

func handleHealth(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
