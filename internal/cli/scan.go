package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/opdshelf/opdshelf/internal/config"
	"github.com/opdshelf/opdshelf/internal/library"
)

// ScanCommand walks a library directory and prints what the catalog
// would serve, useful for checking metadata before starting the server.
type ScanCommand struct {
	LibraryDir string
	Verbose    bool
}

// NewScanCommand creates a new ScanCommand
func NewScanCommand() *ScanCommand {
	return &ScanCommand{}
}

// ParseFlags parses command line flags
func (cmd *ScanCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)

	fs.StringVar(&cmd.LibraryDir, "dir", config.DefaultLibraryDir, "Library directory to scan")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every book with its extracted metadata")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s scan [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Scan a library directory and print the books the catalog would serve.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s scan -dir ~/books\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s scan -dir ~/books -verbose\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the scan
func (cmd *ScanCommand) Run() error {
	info, err := os.Stat(cmd.LibraryDir)
	if err != nil {
		return fmt.Errorf("library directory %s: %w", cmd.LibraryDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("library directory %s is not a directory", cmd.LibraryDir)
	}

	index, err := library.NewIndex(cmd.LibraryDir, 1, 0)
	if err != nil {
		return fmt.Errorf("initializing index: %w", err)
	}

	books, total := index.GetAllBooksPaginated(1, 1<<30)

	fmt.Printf("Library: %s\n", index.Root())
	fmt.Printf("Books:   %d\n", total)

	if cmd.Verbose {
		fmt.Println()
		for _, book := range books {
			fmt.Printf("  %s\n", book.RelativePath)
			fmt.Printf("    title:  %s\n", book.Title)
			fmt.Printf("    author: %s\n", book.Author)
			fmt.Printf("    year:   %s\n", book.Year)
		}
	}

	years := index.GetYearsWithCounts()
	authors := index.GetAuthorsWithCounts()
	fmt.Printf("Years:   %d\n", len(years))
	fmt.Printf("Authors: %d\n", len(authors))

	return nil
}
