package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"raven-dgc/internal/services"
)

func TestRenderError_MapsServiceSentinels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("workspace 7: %w", services.ErrNotFound), http.StatusNotFound},
		{"forbidden", fmt.Errorf("not the creator: %w", services.ErrForbidden), http.StatusForbidden},
		{"validation", fmt.Errorf("bad coes: %w", services.ErrValidation), http.StatusBadRequest},
		{"already exists", fmt.Errorf("duplicate pair: %w", services.ErrAlreadyExists), http.StatusBadRequest},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			renderError(c, tt.err)
			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestActingUser_RequiresHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/workspaces", nil)

	if _, ok := actingUser(c); ok {
		t.Fatal("expected missing header to be rejected")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/workspaces", nil)
	c.Request.Header.Set("X-User-ID", "42")

	userID, ok := actingUser(c)
	if !ok || userID != 42 {
		t.Fatalf("expected user 42, got %d (ok=%v)", userID, ok)
	}
}
