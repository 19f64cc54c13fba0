package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"raven-dgc/internal/entities"
	"raven-dgc/internal/services"
	"raven-dgc/internal/status"
)

// renderError maps the service failure taxonomy onto HTTP status codes.
func renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": err.Error()})
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
	}
}

// actingUser reads the authenticated user id injected by the gateway.
func actingUser(c *gin.Context) (int64, bool) {
	raw := c.GetHeader("X-User-ID")
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "missing or invalid X-User-ID header"})
		return 0, false
	}
	return userID, true
}

// pathID parses the :id path segment.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid id"})
		return 0, false
	}
	return id, true
}

func paging(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	return offset, limit
}

// ============================================================================
// Workspaces
// ============================================================================

func handleWorkspaceCreate(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		var in entities.WorkspaceCreate
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		ws, err := svc.Workspace.CreateWithHistory(c.Request.Context(), in, userID)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, ws)
	}
}

func handleWorkspaceGet(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		ws, err := svc.Workspace.Get(c.Request.Context(), id)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, ws)
	}
}

func handleWorkspaceList(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit := paging(c)
		if raw := c.Query("user_id"); raw != "" {
			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				// Unparseable filter matches nothing.
				c.JSON(http.StatusOK, []entities.Workspace{})
				return
			}
			var teamIDs []string
			if teams := c.Query("team_ids"); teams != "" {
				teamIDs = strings.Split(teams, ",")
			}
			out, err := svc.Workspace.ListForUser(c.Request.Context(), userID, teamIDs, offset, limit)
			if err != nil {
				renderError(c, err)
				return
			}
			c.JSON(http.StatusOK, out)
			return
		}
		out, err := svc.Workspace.List(c.Request.Context(), offset, limit)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func handleWorkspaceDelete(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := svc.Workspace.Delete(c.Request.Context(), id, userID, userID); err != nil {
			renderError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleDataAccessUpdate(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		var in struct {
			DataAccess int `json:"data_access"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		ws, err := svc.Workspace.UpdateDataAccess(c.Request.Context(), id,
			status.DataAccessStatus(in.DataAccess), userID)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, ws)
	}
}

func handleHistoryList(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		offset, limit := paging(c)
		out, err := svc.History.ListByWorkspace(c.Request.Context(), id, offset, limit)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// ============================================================================
// Permits
// ============================================================================

func handlePermitCreate(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		var in entities.PermitCreate
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		p, err := svc.Permit.CreateWithHistory(c.Request.Context(), in, userID)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func handlePermitGet(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		p, err := svc.Permit.Get(c.Request.Context(), id)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func handlePermitUpdate(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		var patch entities.PermitPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		p, err := svc.Permit.UpdateWithHistory(c.Request.Context(), id, patch, userID)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func handlePermitStatusUpdate(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		var in struct {
			Status int    `json:"status"`
			Phase  string `json:"phase"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		p, err := svc.Permit.UpdateStatus(c.Request.Context(), id,
			status.PermitStatus(in.Status), userID, in.Phase)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func handlePermitDelete(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := svc.Permit.DeleteWithHistory(c.Request.Context(), id, userID); err != nil {
			renderError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handlePermitsByWorkspace(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		out, err := svc.Permit.ListByWorkspace(c.Request.Context(), id)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// ============================================================================
// Analyses
// ============================================================================

func handleAnalysisCreate(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		var in entities.AnalysisCreate
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		a, err := svc.Analysis.CreateWithHistory(c.Request.Context(), in, userID)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}

func handleAnalysisGet(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		a, err := svc.Analysis.Get(c.Request.Context(), id)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

func handleAnalysisUpdate(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		var patch entities.AnalysisPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		a, err := svc.Analysis.UpdateWithHistory(c.Request.Context(), id, patch, userID)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

// handleAnalysisDelete removes one analysis. The default path deletes each
// cohort through the cohort lifecycle so every removal is audited; passing
// ?cascade=plain uses the bulk path without per-cohort rows.
func handleAnalysisDelete(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		var err error
		if c.Query("cascade") == "plain" {
			err = svc.Analysis.DeleteWithHistory(c.Request.Context(), id, userID)
		} else {
			err = svc.Analysis.DeleteWithCohorts(c.Request.Context(), id, userID)
		}
		if err != nil {
			renderError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleAnalysesByWorkspace(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		out, err := svc.Analysis.ListByWorkspace(c.Request.Context(), id)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func handleAnalysesExpiring(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit := paging(c)
		days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
		if err != nil || days < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid days"})
			return
		}
		var out []entities.Analysis
		if c.Query("expired") == "true" {
			out, err = svc.Analysis.ListExpired(c.Request.Context(), offset, limit)
		} else {
			out, err = svc.Analysis.ListExpiringSoon(c.Request.Context(), days, offset, limit)
		}
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// ============================================================================
// Cohorts and results
// ============================================================================

func handleCohortCreate(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		var in entities.CohortCreate
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		cohort, err := svc.Cohort.CreateWithHistory(c.Request.Context(), in, userID)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, cohort)
	}
}

func handleCohortGet(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		cohort, err := svc.Cohort.Get(c.Request.Context(), id)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, cohort)
	}
}

func handleCohortUpdate(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		var patch entities.CohortPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		cohort, err := svc.Cohort.Update(c.Request.Context(), id, patch, userID)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, cohort)
	}
}

func handleCohortStatusUpdate(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		var in struct {
			Status int `json:"status"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		cohort, err := svc.Cohort.UpdateStatus(c.Request.Context(), id,
			status.CohortStatus(in.Status), userID)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, cohort)
	}
}

func handleCohortDelete(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := svc.Cohort.Delete(c.Request.Context(), id, userID); err != nil {
			renderError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleCohortsByWorkspace(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		out, err := svc.Cohort.ListByWorkspace(c.Request.Context(), id)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func handleCohortResultCreate(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var in struct {
			DataID []string `json:"data_id"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		r, err := svc.CohortResult.Create(c.Request.Context(), id, in.DataID)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

func handleCohortResultBulkCreate(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var in struct {
			DataIDs [][]string `json:"data_ids"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		created, err := svc.CohortResult.BulkCreate(c.Request.Context(), id, in.DataIDs)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"created": len(created), "results": created})
	}
}

func handleCohortResultsList(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		offset, limit := paging(c)
		out, err := svc.CohortResult.ListByCohort(c.Request.Context(), id, offset, limit)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func handleCohortResultDelete(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		// With a data_id the single pair goes; without, the whole cohort's
		// results are purged.
		if raw := c.Query("data_id"); raw != "" {
			if err := svc.CohortResult.Delete(c.Request.Context(), id, strings.Split(raw, ",")); err != nil {
				renderError(c, err)
				return
			}
			c.Status(http.StatusNoContent)
			return
		}
		n, err := svc.CohortResult.DeleteAllForCohort(c.Request.Context(), id)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": n})
	}
}

// ============================================================================
// Metadata searches
// ============================================================================

func handleMetadataSearchCreate(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		var in entities.MetadataSearchCreate
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		m, err := svc.MetadataSearch.CreateWithHistory(c.Request.Context(), in, userID)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, m)
	}
}

func handleMetadataSearchStatusUpdate(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		var in struct {
			Status int `json:"status"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		m, err := svc.MetadataSearch.UpdateStatus(c.Request.Context(), id,
			status.MetadataStatus(in.Status), userID)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

func handleMetadataSearchesByWorkspace(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		out, err := svc.MetadataSearch.ListByWorkspace(c.Request.Context(), id)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
