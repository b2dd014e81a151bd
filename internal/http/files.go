package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opdshelf/opdshelf/internal/library"
)

// FilesController serves raw book files and cover images out of the
// content root. Every request is checked for traversal sequences and
// containment before any filesystem access.
type FilesController struct {
	root      string
	extractor *library.Extractor
}

func NewFilesController(root string) *FilesController {
	return &FilesController{
		root:      root,
		extractor: library.NewExtractor(),
	}
}

// resolve validates the request path and maps it into the content root.
func (fc *FilesController) resolve(c *gin.Context) (fullPath string, ok bool) {
	rel := strings.TrimPrefix(c.Param("path"), "/")

	if library.HasTraversal(rel) {
		sendOPDSError(c, http.StatusForbidden, "Access denied: Invalid path")
		return "", false
	}

	full := filepath.Join(fc.root, filepath.FromSlash(rel))
	if !library.Contains(fc.root, full) {
		sendOPDSError(c, http.StatusForbidden, "Access denied: Path traversal detected")
		return "", false
	}

	if !strings.HasSuffix(strings.ToLower(rel), ".epub") {
		sendOPDSError(c, http.StatusNotFound, "File not found")
		return "", false
	}
	if info, err := os.Stat(full); err != nil || info.IsDir() {
		sendOPDSError(c, http.StatusNotFound, "File not found")
		return "", false
	}

	return full, true
}

// Download serves the book file as an attachment. Non-ASCII filenames get
// the RFC 5987 encoded form via the framework.
func (fc *FilesController) Download(c *gin.Context) {
	full, ok := fc.resolve(c)
	if !ok {
		return
	}

	c.Header("Content-Type", typeEpub)
	c.FileAttachment(full, filepath.Base(full))
}

// Cover extracts and serves the book's cover image.
func (fc *FilesController) Cover(c *gin.Context) {
	full, ok := fc.resolve(c)
	if !ok {
		return
	}

	data, mimeType := fc.extractor.ExtractCover(full)
	if data == nil {
		sendOPDSError(c, http.StatusNotFound, "Cover not found")
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, mimeType, data)
}
