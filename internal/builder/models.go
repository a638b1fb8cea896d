// internal/builder/models.go
package builder

import (
	"fmt"
	"strings"

	"retheme/internal/config"
)

// BuildOptions tune a conversion run.
type BuildOptions struct {
	// Pattern selects page files by base name (doublestar syntax).
	Pattern string
	// Sanitize passes extracted content through the content policy.
	Sanitize bool
	// Verify re-parses every rendered page and checks it against its metadata.
	Verify bool
}

// HeadData fills the shared <head> partial.
type HeadData struct {
	Title         string
	Canonical     string
	Description   string
	OGDescription string
}

// FlowPage is the data passed to the "flow" template.
type FlowPage struct {
	Head      HeadData
	Meta      config.FlowMeta
	CSS       string
	Content   string
	Intro     string // rendered, sanitized HTML
	JSONFile  string
	Clipboard bool
}

// IndexPage is the data passed to the "index" template.
type IndexPage struct {
	Head      HeadData
	Sections  []IndexSection
	JSONFile  string
	Clipboard bool
}

// IndexSection is one category of cards on the listing page.
type IndexSection struct {
	Title     string
	Blurb     string
	GridClass string
	Entries   []IndexEntry
}

// IndexEntry is one link card.
type IndexEntry struct {
	Href        string
	Name        string
	Icon        string
	Description string
	Color       string
}

// PageError records a page that could not be converted. The rest of the
// batch still runs.
type PageError struct {
	File string
	Err  error
}

func (e *PageError) Error() string { return e.File + ": " + e.Err.Error() }

func (e *PageError) Unwrap() error { return e.Err }

// Summary describes the outcome of a conversion run.
type Summary struct {
	Pages     int
	BackedUp  int
	Converted []string
	Skipped   []string
	Failed    []*PageError
}

// Err returns an error listing the failed pages, or nil.
func (s Summary) Err() error {
	if len(s.Failed) == 0 {
		return nil
	}
	names := make([]string, len(s.Failed))
	for i, f := range s.Failed {
		names[i] = f.File
	}
	return fmt.Errorf("%d page(s) failed: %s", len(s.Failed), strings.Join(names, ", "))
}
