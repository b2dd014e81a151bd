package http

import (
	"archive/zip"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/opdshelf/opdshelf/internal/database"
	"github.com/opdshelf/opdshelf/internal/library"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// writeTestEPUB creates a minimal EPUB archive with the given metadata.
func writeTestEPUB(t *testing.T, path, title, author, date string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)

	mimetype, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	require.NoError(t, err)
	_, err = mimetype.Write([]byte("application/epub+zip"))
	require.NoError(t, err)

	container, err := zw.Create("META-INF/container.xml")
	require.NoError(t, err)
	_, err = container.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`))
	require.NoError(t, err)

	opf, err := zw.Create("OEBPS/content.opf")
	require.NoError(t, err)
	_, err = fmt.Fprintf(opf, `<?xml version="1.0" encoding="UTF-8"?>
<package version="2.0" xmlns="http://www.idpf.org/2007/opf" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>%s</dc:title>
    <dc:creator>%s</dc:creator>
    <dc:date>%s</dc:date>
  </metadata>
  <manifest/>
  <spine/>
</package>`, title, author, date)
	require.NoError(t, err)

	require.NoError(t, zw.Close())
}

// setupTestRouter builds a full router over a small fixture library and a
// fresh sync database.
func setupTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()

	dir := t.TempDir()
	writeTestEPUB(t, filepath.Join(dir, "alpha.epub"), "Alpha Book", "Alice Author", "2020-01-15")
	writeTestEPUB(t, filepath.Join(dir, "zeta.epub"), "Zeta Book", "Zoe Zimmer", "2021")
	writeTestEPUB(t, filepath.Join(dir, "Fiction", "beta.epub"), "Beta Book", "Bob Brown", "2020-06-01")

	index, err := library.NewIndex(dir, 25, time.Minute)
	require.NoError(t, err)

	dbPath := filepath.Join(t.TempDir(), "sync.db")
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	router := NewRouter(RouterConfig{
		Index:       index,
		Database:    db,
		PageSize:    2,
		MaxPage:     10000,
		RecentLimit: 25,
		BcryptCost:  bcrypt.MinCost,
		Version:     "test",
	})
	return router, dir
}

func performRequest(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)
	return w
}
