package media

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gandaki-ict/backend/pkg/response"
	"github.com/gandaki-ict/backend/pkg/storage"
)

// Handler handles media uploads to S3. Requires the committee role.
type Handler struct {
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates a media handler. s3 may be nil when storage is not
// configured; uploads then fail with a clear error instead of a panic.
func NewHandler(s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{s3: s3, logger: logger}
}

// Upload handles POST /media/upload. Multipart form with fields "folder" and
// "file". Returns the public URL of the stored object.
func (h *Handler) Upload(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "media storage is not configured")
		return
	}

	folder := c.PostForm("folder")
	if !storage.ValidFolder(folder) {
		response.BadRequest(c, "invalid folder")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > storage.MaxMediaFileSize {
		response.BadRequest(c, fmt.Sprintf("file exceeds %dMB limit", storage.MaxMediaFileSize/(1024*1024)))
		return
	}
	contentType := storage.ContentTypeForFilename(fileHeader.Filename)
	if contentType == "" {
		response.BadRequest(c, "file type not allowed")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Internal(c, "failed to read upload")
		return
	}
	defer file.Close()

	key := storage.MediaKey(folder, fileHeader.Filename)
	url, err := h.s3.Upload(c.Request.Context(), key, contentType, file)
	if err != nil {
		h.logger.Error("media upload failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "upload failed")
		return
	}

	h.logger.Info("media uploaded", zap.String("key", key), zap.Int64("size", fileHeader.Size))
	response.Created(c, gin.H{"url": url, "key": key})
}

// Delete handles DELETE /media. The object key rides in the "key" query
// parameter since S3 keys contain slashes.
func (h *Handler) Delete(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "media storage is not configured")
		return
	}
	key := c.Query("key")
	if key == "" {
		response.BadRequest(c, "key is required")
		return
	}
	if err := h.s3.DeleteObject(c.Request.Context(), key); err != nil {
		h.logger.Error("media delete failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "delete failed")
		return
	}
	response.NoContent(c)
}

// DownloadURL handles GET /media/download-url, returning a pre-signed GET
// URL for objects in buckets that are not public.
func (h *Handler) DownloadURL(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "media storage is not configured")
		return
	}
	key := c.Query("key")
	if key == "" {
		response.BadRequest(c, "key is required")
		return
	}
	url, err := h.s3.GeneratePresignedDownloadURL(c.Request.Context(), key, h.s3.PresignExpire())
	if err != nil {
		h.logger.Error("presign failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "failed to generate download url")
		return
	}
	response.OK(c, gin.H{"url": url})
}
