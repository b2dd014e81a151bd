package library

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"path"
	"strings"
)

// containerPath is the well-known location of container.xml in an EPUB archive.
const containerPath = "META-INF/container.xml"

const opfMediaType = "application/oebps-package+xml"

// Metadata holds the bibliographic fields read from an EPUB package
// document. Empty fields mean "unknown", not an error; callers substitute
// display fallbacks at the point of use.
type Metadata struct {
	Title  string
	Author string
	Date   string
}

// Extractor reads bibliographic metadata out of EPUB archives.
//
// Every method follows the same contract: any structural or I/O failure
// (not a ZIP, missing container.xml, malformed OPF, unreadable entry)
// yields zero values and never an error.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// containerXML models META-INF/container.xml, which locates the OPF.
type containerXML struct {
	RootFiles []rootFile `xml:"rootfiles>rootfile"`
}

type rootFile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// opfPackage models the parts of the OPF package document the catalog
// needs: Dublin Core metadata plus the manifest (for cover lookup).
type opfPackage struct {
	Metadata struct {
		Titles   []string  `xml:"http://purl.org/dc/elements/1.1/ title"`
		Creators []string  `xml:"http://purl.org/dc/elements/1.1/ creator"`
		Dates    []string  `xml:"http://purl.org/dc/elements/1.1/ date"`
		Metas    []opfMeta `xml:"meta"`
	} `xml:"metadata"`
	Manifest struct {
		Items []opfItem `xml:"item"`
	} `xml:"manifest"`
}

type opfMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

// opfIndexDoc decodes only creator and date elements. Used by the index
// build pass, which never needs titles.
type opfIndexDoc struct {
	Metadata struct {
		Creators []string `xml:"http://purl.org/dc/elements/1.1/ creator"`
		Dates    []string `xml:"http://purl.org/dc/elements/1.1/ date"`
	} `xml:"metadata"`
}

// Extract reads title, author and date from the EPUB at path.
func (e *Extractor) Extract(epubPath string) Metadata {
	zr, err := zip.OpenReader(epubPath)
	if err != nil {
		return Metadata{}
	}
	defer zr.Close()

	opfData, _, ok := readOPF(&zr.Reader)
	if !ok {
		return Metadata{}
	}

	var pkg opfPackage
	if err := xml.Unmarshal(opfData, &pkg); err != nil {
		return Metadata{}
	}

	return Metadata{
		Title:  firstNonEmpty(pkg.Metadata.Titles),
		Author: firstNonEmpty(pkg.Metadata.Creators),
		Date:   firstNonEmpty(pkg.Metadata.Dates),
	}
}

// ExtractAuthorDate reads only the author and date fields, skipping the
// rest of the package document. This keeps the year/author index build
// cheaper than full extraction.
func (e *Extractor) ExtractAuthorDate(epubPath string) (author, date string) {
	zr, err := zip.OpenReader(epubPath)
	if err != nil {
		return "", ""
	}
	defer zr.Close()

	opfData, _, ok := readOPF(&zr.Reader)
	if !ok {
		return "", ""
	}

	var doc opfIndexDoc
	if err := xml.Unmarshal(opfData, &doc); err != nil {
		return "", ""
	}

	return firstNonEmpty(doc.Metadata.Creators), firstNonEmpty(doc.Metadata.Dates)
}

// ExtractCover returns the cover image bytes and MIME type from the EPUB
// at path, or ("", nil) when the archive has no resolvable cover. It
// honors both the EPUB 2 <meta name="cover"> convention and the EPUB 3
// properties="cover-image" manifest attribute.
func (e *Extractor) ExtractCover(epubPath string) ([]byte, string) {
	zr, err := zip.OpenReader(epubPath)
	if err != nil {
		return nil, ""
	}
	defer zr.Close()

	opfData, opfDir, ok := readOPF(&zr.Reader)
	if !ok {
		return nil, ""
	}

	var pkg opfPackage
	if err := xml.Unmarshal(opfData, &pkg); err != nil {
		return nil, ""
	}

	coverHref, mimeType := findCoverItem(&pkg)
	if coverHref == "" {
		return nil, ""
	}

	coverPath := coverHref
	if opfDir != "" {
		coverPath = path.Join(opfDir, coverHref)
	}

	data, ok := readArchiveFile(&zr.Reader, coverPath)
	if !ok {
		return nil, ""
	}

	if mimeType == "" {
		mimeType = coverMIMEFromExt(coverHref)
	}
	return data, mimeType
}

// findCoverItem resolves the manifest item holding the cover image.
func findCoverItem(pkg *opfPackage) (href, mimeType string) {
	// EPUB 2: <meta name="cover" content="item-id">.
	var coverID string
	for _, m := range pkg.Metadata.Metas {
		if m.Name == "cover" && m.Content != "" {
			coverID = m.Content
			break
		}
	}
	if coverID != "" {
		for _, item := range pkg.Manifest.Items {
			if item.ID == coverID {
				return item.Href, item.MediaType
			}
		}
	}

	// EPUB 3: manifest item with properties="cover-image".
	for _, item := range pkg.Manifest.Items {
		for _, prop := range strings.Fields(item.Properties) {
			if prop == "cover-image" {
				return item.Href, item.MediaType
			}
		}
	}

	return "", ""
}

// readOPF locates the OPF package document through the container manifest
// and returns its raw bytes plus its directory within the archive.
func readOPF(zr *zip.Reader) (data []byte, opfDir string, ok bool) {
	containerData, ok := readArchiveFile(zr, containerPath)
	if !ok {
		return nil, "", false
	}

	var container containerXML
	if err := xml.Unmarshal(containerData, &container); err != nil {
		return nil, "", false
	}

	opfPath := ""
	for _, rf := range container.RootFiles {
		fullPath := strings.TrimSpace(rf.FullPath)
		if fullPath == "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(rf.MediaType), opfMediaType) {
			opfPath = fullPath
			break
		}
		if opfPath == "" {
			opfPath = fullPath
		}
	}
	if opfPath == "" {
		return nil, "", false
	}

	data, ok = readArchiveFile(zr, opfPath)
	if !ok {
		return nil, "", false
	}
	return data, path.Dir(opfPath), true
}

func readArchiveFile(zr *zip.Reader, name string) ([]byte, bool) {
	f, err := zr.Open(path.Clean(name))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, false
	}
	return data, true
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func coverMIMEFromExt(href string) string {
	switch strings.ToLower(path.Ext(href)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
