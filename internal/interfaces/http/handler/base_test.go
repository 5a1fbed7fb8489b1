package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/supplynet/backend/internal/domain/shared"
	"github.com/supplynet/backend/internal/domain/supplychain"
	"github.com/supplynet/backend/internal/interfaces/http/dto"
	"github.com/supplynet/backend/internal/interfaces/http/middleware"
	"github.com/supplynet/backend/internal/testutil"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	os.Exit(m.Run())
}

func baseRouter(route string, fn gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.BodyLimit(64))
	router.Any(route, fn)
	return router
}

func TestBaseHandlerResponses(t *testing.T) {
	h := &BaseHandler{}

	t.Run("success", func(t *testing.T) {
		w := testutil.PerformRequest(t, baseRouter("/t", func(c *gin.Context) { h.Success(c, gin.H{"k": "v"}) }), testutil.Request{Path: "/t"})
		assert.Equal(t, http.StatusOK, w.Code)
		testutil.AssertSuccessResponse(t, w)
	})

	t.Run("success with meta", func(t *testing.T) {
		w := testutil.PerformRequest(t, baseRouter("/t", func(c *gin.Context) { h.SuccessWithMeta(c, []int{1, 2}, 42, 2, 20) }), testutil.Request{Path: "/t"})
		assert.Equal(t, http.StatusOK, w.Code)
		meta := testutil.JSONResponse(t, w)["meta"].(map[string]any)
		assert.Equal(t, float64(42), meta["total"])
		assert.Equal(t, float64(2), meta["page"])
		assert.Equal(t, float64(20), meta["page_size"])
		assert.Equal(t, float64(3), meta["total_pages"])
	})

	t.Run("created", func(t *testing.T) {
		w := testutil.PerformRequest(t, baseRouter("/t", func(c *gin.Context) { h.Created(c, gin.H{}) }), testutil.Request{Path: "/t"})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("no content", func(t *testing.T) {
		w := testutil.PerformRequest(t, baseRouter("/t", func(c *gin.Context) { h.NoContent(c) }), testutil.Request{Path: "/t"})
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestBaseHandlerHandleError(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation", supplychain.ErrHierarchyTooDeep, http.StatusBadRequest, dto.ErrCodeValidation, supplychain.ErrHierarchyTooDeep.Message},
		{"not found", supplychain.ErrNetworkNotFound, http.StatusNotFound, dto.ErrCodeNotFound, "network not found"},
		{"forbidden", supplychain.ErrInactiveCaller, http.StatusForbidden, dto.ErrCodeForbidden, supplychain.ErrInactiveCaller.Message},
		{"wrapped domain error", fmt.Errorf("saving: %w", supplychain.ErrProviderCycle), http.StatusBadRequest, dto.ErrCodeValidation, supplychain.ErrProviderCycle.Message},
		{"plain error hides detail", errors.New("pq: connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := baseRouter("/t", func(c *gin.Context) { h.HandleError(c, tt.err) })
			w := testutil.PerformRequest(t, router, testutil.Request{Path: "/t"})

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMsg, testutil.AssertErrorResponse(t, w, tt.wantCode))
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		router := baseRouter("/t", func(c *gin.Context) {
			h.HandleError(c, nil)
			c.String(http.StatusTeapot, "after")
		})
		w := testutil.PerformRequest(t, router, testutil.Request{Path: "/t"})
		assert.Equal(t, http.StatusTeapot, w.Code)
	})
}

type bindTarget struct {
	Name  string `json:"name" binding:"required,notblank"`
	Level *int   `json:"level" binding:"required,min=0,max=2"`
}

func TestBaseHandlerBindJSON(t *testing.T) {
	h := &BaseHandler{}
	router := baseRouter("/t", func(c *gin.Context) {
		var req bindTarget
		if !h.bindJSON(c, &req) {
			return
		}
		h.Success(c, req.Name)
	})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"valid", `{"name":"a","level":1}`, http.StatusOK, ""},
		{"empty body", ``, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"syntax error", `{"name":`, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"wrong type", `{"name":1,"level":1}`, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"validation", `{"name":"a","level":5}`, http.StatusBadRequest, dto.ErrCodeValidation},
		{"too large", `{"name":"` + strings.Repeat("x", 100) + `","level":1}`, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.Request{Method: http.MethodPost, Path: "/t"}
			if tt.body != "" {
				req.Body = tt.body
			}
			w := testutil.PerformRequest(t, router, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				testutil.AssertErrorResponse(t, w, tt.wantCode)
			}
		})
	}
}

func TestBaseHandlerParseID(t *testing.T) {
	h := &BaseHandler{}
	router := baseRouter("/t/:id", func(c *gin.Context) {
		id, ok := h.parseID(c, supplychain.ErrContactNotFound)
		if !ok {
			return
		}
		h.Success(c, id.String())
	})

	id := uuid.New()
	w := testutil.PerformRequest(t, router, testutil.Request{Path: "/t/" + id.String()})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), testutil.JSONResponse(t, w)["data"])

	w = testutil.PerformRequest(t, router, testutil.Request{Path: "/t/not-a-uuid"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "contact not found", testutil.AssertErrorResponse(t, w, shared.CodeNotFound))
}
