package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/estate/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploadRouter(limit int64) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), BodyLimit(limit))
	router.POST("/api/v1/payouts/import", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "cut at %d", tooLarge.Limit)
			return
		}
		c.String(http.StatusOK, "%d", len(body))
	})
	router.GET("/api/v1/payouts/import/template", func(c *gin.Context) {
		c.String(http.StatusOK, "template")
	})
	return router
}

func TestBodyLimit(t *testing.T) {
	csv := "broker_email,amount,payment_date\nali@example.com,1200.00,2026-03-01\n"

	tests := []struct {
		name     string
		limit    int64
		body     string
		length   int64
		wantCode int
		wantBody string
	}{
		{"file under limit", 1024, csv, int64(len(csv)), http.StatusOK, strconv.Itoa(len(csv))},
		{"file at limit", int64(len(csv)), csv, int64(len(csv)), http.StatusOK, strconv.Itoa(len(csv))},
		{"declared length over limit", 32, csv, int64(len(csv)), http.StatusRequestEntityTooLarge, ""},
		{"chunked body over limit", 32, csv, -1, http.StatusRequestEntityTooLarge, "cut at 32"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payouts/import", strings.NewReader(tt.body))
			req.ContentLength = tt.length
			w := httptest.NewRecorder()
			newUploadRouter(tt.limit).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}

	t.Run("rejection uses the error envelope", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payouts/import", strings.NewReader(csv))
		req.Header.Set(RequestIDHeader, "upload-7")
		w := httptest.NewRecorder()
		newUploadRouter(16).ServeHTTP(w, req)

		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeRequestTooLarge, resp.Error.Code)
		assert.Equal(t, "upload-7", resp.Error.RequestID)
	})

	t.Run("bodiless requests pass", func(t *testing.T) {
		w := httptest.NewRecorder()
		newUploadRouter(1).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/payouts/import/template", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "template", w.Body.String())
	})
}
