package convert

import (
	"errors"
	"strings"
)

// ErrStartMarkerNotFound means none of the start markers, nor the heading
// fallback, located the content region.
var ErrStartMarkerNotFound = errors.New("content start marker not found")

// Marker is a literal substring that locates a region boundary.
type Marker struct {
	Text string
	// InTag marks an attribute-level marker. The boundary snaps back to the
	// '<' of the tag that contains it.
	InTag bool
}

// Boundary is the result of a marker search.
type Boundary struct {
	Offset int
	Marker string
	Found  bool
}

// StartMarkers are tried in order; the first one present wins.
var StartMarkers = []Marker{
	{Text: "<!-- MAIN CONTENT SECTION -->"},
	{Text: `id="features"`, InTag: true},
	{Text: `<div class="section-learn-main"`},
}

// EndMarkers are tried in order; only occurrences after the start count.
var EndMarkers = []Marker{
	{Text: "<!-- FOOTER -->"},
	{Text: "<!-- ============================================ -->\n<!-- FOOTER"},
	{Text: `<div class="footer">`},
	{Text: "<footer"},
}

// fallbackHeading is used when no start marker is present. The region then
// begins at the nearest <div before the first such heading.
const fallbackHeading = `class="main-heading_blacl"`

// FindStart locates the beginning of the content region.
func FindStart(doc string) Boundary {
	for _, m := range StartMarkers {
		idx := strings.Index(doc, m.Text)
		if idx == -1 {
			continue
		}
		if m.InTag {
			if lt := strings.LastIndexByte(doc[:idx], '<'); lt != -1 {
				idx = lt
			}
		}
		return Boundary{Offset: idx, Marker: m.Text, Found: true}
	}

	// Not guaranteed to hit the right container; real pages always carry one
	// of the markers above.
	if h := strings.Index(doc, fallbackHeading); h != -1 {
		if div := strings.LastIndex(doc[:h], "<div"); div != -1 {
			return Boundary{Offset: div, Marker: fallbackHeading, Found: true}
		}
	}
	return Boundary{}
}

// FindEnd locates the end of the content region, searching only after start.
// When no end marker matches, the region runs to the end of the document and
// the returned Boundary is not Found.
func FindEnd(doc string, start int) Boundary {
	for _, m := range EndMarkers {
		idx := strings.Index(doc[start+1:], m.Text)
		if idx != -1 {
			return Boundary{Offset: start + 1 + idx, Marker: m.Text, Found: true}
		}
	}
	return Boundary{Offset: len(doc)}
}

// ContentRules clean up the sliced region: drop the Webflow container
// wrappers and comment dividers, then map legacy classes and links to their
// Tailwind page equivalents.
var ContentRules = []Rule{
	PatternOnce("strip-wrapper", `<div class="section-learn-main"[^>]*>\s*<div class="w-container">\s*`, ""),
	Pattern("strip-divider-comments", `<!-- ={2,} -->\s*`, ""),
	Pattern("strip-section-comment", `<!-- MAIN CONTENT SECTION -->\s*`, ""),
}

// LayoutRules remap Webflow grid classes and headings.
var LayoutRules = []Rule{
	Literal("columns-row", `class="columns-4 w-row"`, `class="mb-8"`),
	Literal("row", `class="w-row"`, `class="grid grid-cols-1 md:grid-cols-2 gap-6"`),
	Literal("col-12", `class="w-col w-col-12"`, `class="col-span-full"`),
	Literal("col-6", `class="w-col w-col-6"`, `class=""`),
	Literal("col-4", `class="w-col w-col-4"`, `class=""`),
	Pattern("main-heading", `<h2 class="main-heading_blacl"[^>]*>`, `<h2 class="text-2xl font-bold text-white mb-4">`),
}

// LinkRewrites maps absolute site paths used by the old pages to the
// relative targets of the new layout.
var LinkRewrites = map[string]string{
	"/trading-flows": "index.html",
	"/data-center":   "../data-center.html",
	"/learn":         "../learn.html",
}

// linkRules is derived from LinkRewrites in a fixed order.
var linkRules = []Rule{
	Literal("link-trading-flows", `href="/trading-flows"`, `href="`+LinkRewrites["/trading-flows"]+`"`),
	Literal("link-data-center", `href="/data-center"`, `href="`+LinkRewrites["/data-center"]+`"`),
	Literal("link-learn", `href="/learn"`, `href="`+LinkRewrites["/learn"]+`"`),
}

// RewriteLink returns the new target for an old absolute link and whether a
// rewrite applies.
func RewriteLink(dest string) (string, bool) {
	to, ok := LinkRewrites[dest]
	return to, ok
}

// ExtractContent slices the content region out of doc and adapts it for the
// dark template.
func ExtractContent(doc string) (string, error) {
	start := FindStart(doc)
	if !start.Found {
		return "", ErrStartMarkerNotFound
	}
	end := FindEnd(doc, start.Offset)

	html := Apply(ContentRules, doc[start.Offset:end.Offset])
	html = trimClosingDivs(html, 2)
	html = Apply(LayoutRules, html)
	return Apply(linkRules, html), nil
}

// trimClosingDivs removes up to n trailing </div> tags left over from the
// stripped wrappers.
func trimClosingDivs(s string, n int) string {
	s = strings.TrimRight(s, " \t\r\n\f\v")
	for i := 0; i < n && strings.HasSuffix(s, "</div>"); i++ {
		s = strings.TrimRight(strings.TrimSuffix(s, "</div>"), " \t\r\n\f\v")
	}
	return s
}
