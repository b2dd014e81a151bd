package http

import (
	"crypto/md5"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// OPDS catalog media types and link relations.
const (
	typeNavigation  = "application/atom+xml;profile=opds-catalog;kind=navigation"
	typeAcquisition = "application/atom+xml;profile=opds-catalog;kind=acquisition"
	typeEpub        = "application/epub+zip"

	relSubsection  = "subsection"
	relStart       = "start"
	relAcquisition = "http://opds-spec.org/acquisition/open-access"
	relImage       = "http://opds-spec.org/image"
)

type atomFeed struct {
	XMLName   xml.Name    `xml:"feed"`
	Xmlns     string      `xml:"xmlns,attr"`
	XmlnsOPDS string      `xml:"xmlns:opds,attr"`
	Title     string      `xml:"title"`
	ID        string      `xml:"id"`
	Updated   string      `xml:"updated"`
	Links     []atomLink  `xml:"link"`
	Entries   []atomEntry `xml:"entry"`
}

type atomLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
	Type string `xml:"type,attr"`
}

type atomEntry struct {
	Title  string      `xml:"title"`
	ID     string      `xml:"id"`
	Author *atomAuthor `xml:"author,omitempty"`
	Links  []atomLink  `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type opdsError struct {
	XMLName xml.Name `xml:"error"`
	Code    int      `xml:"code"`
	Message string   `xml:"message"`
}

func newFeed(title, id string, links []atomLink, entries []atomEntry) atomFeed {
	return atomFeed{
		Xmlns:     "http://www.w3.org/2005/Atom",
		XmlnsOPDS: "http://opds-spec.org/2010/catalog",
		Title:     title,
		ID:        id,
		Updated:   time.Now().UTC().Format(time.RFC3339),
		Links:     links,
		Entries:   entries,
	}
}

// sendFeed marshals and writes an OPDS feed with the catalog content type.
func sendFeed(c *gin.Context, feed atomFeed, contentType string) {
	data, err := xml.Marshal(feed)
	if err != nil {
		sendOPDSError(c, http.StatusInternalServerError, "Failed to render feed")
		return
	}
	body := append([]byte(xml.Header), data...)
	c.Data(http.StatusOK, contentType, body)
}

// sendOPDSError writes the small XML error document OPDS clients expect.
func sendOPDSError(c *gin.Context, code int, message string) {
	data, _ := xml.Marshal(opdsError{Code: code, Message: message})
	body := append([]byte(xml.Header), data...)
	c.Data(code, "application/xml", body)
}

// bookID derives a stable entry ID from the book's identity key.
func bookID(relativePath string) string {
	return fmt.Sprintf("urn:book:%x", md5.Sum([]byte(relativePath)))
}

func folderID(relativePath string) string {
	return fmt.Sprintf("urn:folder:%x", md5.Sum([]byte(relativePath)))
}

// escapeRelPath percent-encodes each segment of a root-relative path for
// use inside an href, keeping the slashes.
func escapeRelPath(rel string) string {
	segments := strings.Split(rel, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
