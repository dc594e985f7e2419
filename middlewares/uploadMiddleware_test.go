package middlewares_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"grievance-portal-be/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngBytes is a minimal PNG signature, enough for content sniffing.
var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}

func uploadProbeRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/probe", middlewares.SingleUpload("photo"), func(c *gin.Context) {
		path, hasPath := c.Get("upload_path")
		name, hasName := c.Get("upload_name")
		c.JSON(http.StatusOK, gin.H{
			"hasPath": hasPath,
			"hasName": hasName,
			"path":    path,
			"name":    name,
		})
	})
	return r
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/probe", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestSingleUpload_StoresFileAndSetsContext(t *testing.T) {
	uploadDir := t.TempDir()
	t.Setenv("UPLOAD_DIR", uploadDir)

	w := httptest.NewRecorder()
	uploadProbeRouter().ServeHTTP(w, multipartRequest(t, "photo", "evidence.png", pngBytes))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hasPath":true`)
	assert.Contains(t, w.Body.String(), `"hasName":true`)

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".png"), "stored name keeps the sniffed extension")
	assert.NotEqual(t, "evidence.png", entries[0].Name(), "stored name is generated, not client-supplied")

	stored, err := os.ReadFile(filepath.Join(uploadDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)
}

func TestSingleUpload_GeneratesUniqueNames(t *testing.T) {
	uploadDir := t.TempDir()
	t.Setenv("UPLOAD_DIR", uploadDir)

	router := uploadProbeRouter()
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartRequest(t, "photo", "same.png", pngBytes))
		require.Equal(t, http.StatusOK, w.Code)
	}

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "repeated uploads of the same filename must never collide")
}

func TestSingleUpload_NoFilePassesThrough(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/probe", strings.NewReader(""))

	uploadProbeRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hasPath":false`)
}

func TestSingleUpload_RejectsUnsupportedType(t *testing.T) {
	t.Setenv("UPLOAD_DIR", t.TempDir())

	w := httptest.NewRecorder()
	uploadProbeRouter().ServeHTTP(w, multipartRequest(t, "photo", "payload.sh", []byte("#!/bin/sh\nrm -rf /\n")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
