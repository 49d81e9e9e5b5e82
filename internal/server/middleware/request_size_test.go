// file: internal/server/middleware/request_size_test.go
// version: 2.0.0
// guid: 8f5ed221-2f04-49aa-86f7-f63fa1732b2d

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMethodHasBody(t *testing.T) {
	t.Parallel()

	assert.True(t, methodHasBody(http.MethodPost))
	assert.True(t, methodHasBody(http.MethodPut))
	assert.True(t, methodHasBody(http.MethodPatch))
	assert.False(t, methodHasBody(http.MethodGet))
	assert.False(t, methodHasBody(http.MethodDelete))
}

func TestMaxRequestBodySize_Middleware(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(MaxRequestBodySize(8))
	router.POST("/api/v1/library", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusCreated)
	})

	small := httptest.NewRequest(http.MethodPost, "/api/v1/library", bytes.NewBufferString(`{"a":1}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, small)
	assert.Equal(t, http.StatusCreated, resp.Code)

	large := httptest.NewRequest(http.MethodPost, "/api/v1/library", bytes.NewBufferString(`{"result": 12345}`))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, large)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	assert.Contains(t, resp.Body.String(), "request body too large")

	// chunked body with no declared length is cut off by MaxBytesReader
	chunked := httptest.NewRequest(http.MethodPost, "/api/v1/library", bytes.NewBufferString(`{"result": 12345}`))
	chunked.ContentLength = -1
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, chunked)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
}
