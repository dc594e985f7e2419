package middlewares

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadSize = 5 << 20 // 5 MB

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// SingleUpload accepts at most one file in the given multipart field, stores
// it under UPLOAD_DIR with a generated filename and exposes the stored path
// and generated name via the upload_path / upload_name context keys. Requests
// without a file pass through untouched.
func SingleUpload(field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile(field)
		if err != nil {
			// No file attached; nothing to do.
			c.Next()
			return
		}

		if fileHeader.Size > maxUploadSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File exceeds the 5MB limit"})
			c.Abort()
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
			c.Abort()
			return
		}
		mtype, err := mimetype.DetectReader(file)
		file.Close()
		if err != nil || !allowedUploadTypes[mtype.String()] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
			c.Abort()
			return
		}

		uploadDir := os.Getenv("UPLOAD_DIR")
		if uploadDir == "" {
			uploadDir = "uploads"
		}
		if err := os.MkdirAll(uploadDir, 0o755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
			c.Abort()
			return
		}

		name := uuid.New().String() + mtype.Extension()
		dst := filepath.Join(uploadDir, name)
		if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file"})
			c.Abort()
			return
		}

		c.Set("upload_path", dst)
		c.Set("upload_name", name)
		c.Next()
	}
}
