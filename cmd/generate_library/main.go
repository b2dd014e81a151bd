// Command generate_library creates a sample library of minimal EPUB files
// from public domain books, useful for trying out the catalog locally.
// Usage: go run cmd/generate_library/main.go [-dir path/to/books]
package main

import (
	"archive/zip"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const defaultLibraryDir = "./books"

type sampleBook struct {
	Folder string
	File   string
	Title  string
	Author string
	Date   string
}

func main() {
	dir := flag.String("dir", defaultLibraryDir, "directory to generate the sample library in")
	flag.Parse()

	log.Printf("Generating sample library at %s...", *dir)

	for _, book := range sampleBooks() {
		target := filepath.Join(*dir, book.Folder)
		if err := os.MkdirAll(target, 0o755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", target, err)
		}

		path := filepath.Join(target, book.File)
		if err := writeEPUB(path, book); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		log.Printf("Wrote: %s (%s by %s)", path, book.Title, book.Author)
	}

	log.Printf("Done. Start the server with LIBRARY_DIR=%s", *dir)
}

func sampleBooks() []sampleBook {
	return []sampleBook{
		{"", "pride-and-prejudice.epub", "Pride and Prejudice", "Jane Austen", "1813"},
		{"", "moby-dick.epub", "Moby Dick", "Herman Melville", "1851"},
		{"Fiction", "dracula.epub", "Dracula", "Bram Stoker", "1897"},
		{"Fiction", "frankenstein.epub", "Frankenstein", "Mary Shelley", "1818"},
		{"Fiction/Russian", "war-and-peace.epub", "War and Peace", "Leo Tolstoy", "1869"},
		{"Philosophy", "meditations.epub", "Meditations", "Marcus Aurelius", ""},
	}
}

// writeEPUB produces the smallest archive the catalog recognizes: a stored
// mimetype entry, the OCF container pointer, and an OPF package document.
func writeEPUB(path string, book sampleBook) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	mimetype, err := zw.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		return err
	}
	if _, err := mimetype.Write([]byte("application/epub+zip")); err != nil {
		return err
	}

	container, err := zw.Create("META-INF/container.xml")
	if err != nil {
		return err
	}
	if _, err := container.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`)); err != nil {
		return err
	}

	opf, err := zw.Create("OEBPS/content.opf")
	if err != nil {
		return err
	}
	dateElement := ""
	if book.Date != "" {
		dateElement = fmt.Sprintf("\n    <dc:date>%s</dc:date>", book.Date)
	}
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<package version="2.0" xmlns="http://www.idpf.org/2007/opf" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>%s</dc:title>
    <dc:creator>%s</dc:creator>%s
  </metadata>
  <manifest/>
  <spine/>
</package>`, book.Title, book.Author, dateElement)
	if _, err := opf.Write([]byte(content)); err != nil {
		return err
	}

	return zw.Close()
}
