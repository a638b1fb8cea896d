// Package verify re-parses rendered pages and checks them against the
// metadata they were rendered from.
package verify

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Expect is what a rendered page must show.
type Expect struct {
	Title     string
	Canonical string
	// JSONFile is set when the page script loads a flow JSON file into #jsonCode.
	JSONFile string
}

// Report holds the findings for one document. Errors make the page unusable;
// warnings are worth a look but do not block the write.
type Report struct {
	Errors   []string
	Warnings []string
}

// Err folds the report's errors into a single error, or returns nil.
func (r Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("rendered page failed verification: %s", strings.Join(r.Errors, "; "))
}

// Document parses html and checks it against want.
func Document(html string, want Expect) (Report, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Report{}, fmt.Errorf("parse rendered page: %w", err)
	}

	var r Report
	titles := doc.Find("head title")
	switch {
	case titles.Length() == 0:
		r.Errors = append(r.Errors, "missing <title>")
	case titles.First().Text() != want.Title:
		r.Errors = append(r.Errors, fmt.Sprintf("title is %q, want %q", titles.First().Text(), want.Title))
	}

	href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	switch {
	case !ok:
		r.Errors = append(r.Errors, "missing canonical link")
	case href != want.Canonical:
		r.Errors = append(r.Errors, fmt.Sprintf("canonical is %q, want %q", href, want.Canonical))
	}

	code := doc.Find("#jsonCode")
	if want.JSONFile != "" && code.Length() == 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s is loaded but the page has no #jsonCode element", want.JSONFile))
	}
	if code.Length() > 0 && doc.Find(".copy-button").Length() == 0 {
		r.Warnings = append(r.Warnings, "#jsonCode has no .copy-button to copy it")
	}
	if n := doc.Find("#lock-screen").Length(); n != 1 {
		r.Errors = append(r.Errors, fmt.Sprintf("expected one #lock-screen, found %d", n))
	}
	return r, nil
}
