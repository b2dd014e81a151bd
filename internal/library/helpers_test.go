package library

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeEPUB creates a minimal EPUB archive at path with the given Dublin
// Core metadata. Empty fields are omitted from the package document.
func writeEPUB(t *testing.T, path, title, author, date string) {
	t.Helper()
	writeEPUBWithCover(t, path, title, author, date, nil)
}

// writeEPUBWithCover additionally embeds a cover image referenced through
// the EPUB 2 meta name="cover" convention when cover is non-nil.
func writeEPUBWithCover(t *testing.T, path, title, author, date string, cover []byte) {
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

	metadata := ""
	if title != "" {
		metadata += fmt.Sprintf("\n    <dc:title>%s</dc:title>", title)
	}
	if author != "" {
		metadata += fmt.Sprintf("\n    <dc:creator>%s</dc:creator>", author)
	}
	if date != "" {
		metadata += fmt.Sprintf("\n    <dc:date>%s</dc:date>", date)
	}
	manifest := ""
	if cover != nil {
		metadata += "\n    <meta name=\"cover\" content=\"cover-img\"/>"
		manifest = "\n    <item id=\"cover-img\" href=\"cover.png\" media-type=\"image/png\"/>"
	}

	opf, err := zw.Create("OEBPS/content.opf")
	require.NoError(t, err)
	_, err = fmt.Fprintf(opf, `<?xml version="1.0" encoding="UTF-8"?>
<package version="2.0" xmlns="http://www.idpf.org/2007/opf" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">%s
  </metadata>
  <manifest>%s
  </manifest>
  <spine/>
</package>`, metadata, manifest)
	require.NoError(t, err)

	if cover != nil {
		img, err := zw.Create("OEBPS/cover.png")
		require.NoError(t, err)
		_, err = img.Write(cover)
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
}

// setupLibrary populates a temp directory with a small fixture tree:
//
//	alpha.epub                 (Alpha Book / Alice Author / 2020)
//	zeta.epub                  (Zeta Book / Zoe Zimmer / 2021)
//	Fiction/beta.epub          (Beta Book / Bob Brown / 2020)
//	Fiction/Classics/gamma.epub (no metadata at all)
func setupLibrary(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeEPUB(t, filepath.Join(dir, "alpha.epub"), "Alpha Book", "Alice Author", "2020-01-15")
	writeEPUB(t, filepath.Join(dir, "zeta.epub"), "Zeta Book", "Zoe Zimmer", "2021")
	writeEPUB(t, filepath.Join(dir, "Fiction", "beta.epub"), "Beta Book", "Bob Brown", "2020-06-01")
	writeEPUB(t, filepath.Join(dir, "Fiction", "Classics", "gamma.epub"), "", "", "")

	return dir
}

func newTestIndex(t *testing.T, dir string) *Index {
	t.Helper()
	idx, err := NewIndex(dir, 25, 5*time.Minute)
	require.NoError(t, err)
	return idx
}
