// internal/builder/render.go
package builder

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"retheme/internal/config"
)

//go:embed templates
var embeddedTemplates embed.FS

// Every template set must define these.
var requiredTemplates = []string{"flow", "index", "head", "gate", "nav", "footer", "scripts", "json-loader"}

var (
	markdownRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(newMDLinkTransformer(), 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	introSanitizer   = bluemonday.UGCPolicy()
	contentSanitizer = newContentPolicy()
)

// newContentPolicy keeps the layout attributes flow pages rely on while
// dropping scripts and inline event handlers. UGC already allows id.
func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.AllowAttrs("class", "style").Globally()
	p.AllowElements("div", "section", "span", "button", "pre", "code", "svg", "path")
	p.AllowAttrs("viewBox", "fill", "stroke", "xmlns").OnElements("svg")
	p.AllowAttrs("d", "fill", "stroke", "stroke-linecap", "stroke-linejoin", "stroke-width").OnElements("path")
	p.AllowAttrs("download", "target").OnElements("a")
	p.AllowAttrs("type").OnElements("button")
	return p
}

// DefaultTemplates returns the embedded dark theme templates.
func DefaultTemplates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates/dark")
	if err != nil {
		panic(err) // the embedded path is fixed at compile time
	}
	return sub
}

// LoadTemplates parses the theme templates. An empty templateDir selects the
// embedded theme; otherwise every *.html file in templateDir is parsed.
func LoadTemplates(templateDir string) (*template.Template, error) {
	fsys := DefaultTemplates()
	if templateDir != "" {
		fsys = os.DirFS(templateDir)
	}
	tmpl, err := template.New("retheme").ParseFS(fsys, "*.html")
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, name := range requiredTemplates {
		if tmpl.Lookup(name) == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("templates missing definitions: %s", strings.Join(missing, ", "))
	}
	return tmpl, nil
}

// RenderIntro renders Markdown to sanitized HTML. Old absolute site links are
// rewritten to their new relative targets.
func RenderIntro(md string) (string, error) {
	if strings.TrimSpace(md) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown with goldmark: %w", err)
	}
	return strings.TrimSpace(string(introSanitizer.SanitizeBytes(buf.Bytes()))), nil
}

// hrefAttr matches double-quoted href values.
var hrefAttr = regexp.MustCompile(`href="([^"]*)"`)

// SanitizeContent applies the content policy to an extracted fragment.
// Spaces in link targets are percent-encoded first; bluemonday drops any
// URL containing whitespace.
func SanitizeContent(fragment string) string {
	fragment = hrefAttr.ReplaceAllStringFunc(fragment, func(m string) string {
		return strings.ReplaceAll(m, " ", "%20")
	})
	return contentSanitizer.Sanitize(fragment)
}

// RenderFlowPage builds the full dark page for one flow.
func RenderFlowPage(tmpl *template.Template, meta config.FlowMeta, css, content string) (string, error) {
	intro, err := RenderIntro(meta.Intro)
	if err != nil {
		return "", err
	}
	data := FlowPage{
		Head: HeadData{
			Title:         meta.Title,
			Canonical:     meta.Canonical,
			Description:   meta.Description,
			OGDescription: meta.Description,
		},
		Meta:      meta,
		CSS:       css,
		Content:   content,
		Intro:     intro,
		JSONFile:  meta.JSONFile,
		Clipboard: true,
	}
	return execute(tmpl, "flow", data)
}

// RenderIndexPage builds the listing page from the static entry list.
func RenderIndexPage(tmpl *template.Template) (string, error) {
	return execute(tmpl, "index", IndexPage{
		Head:     indexHead,
		Sections: indexSections,
	})
}

func execute(tmpl *template.Template, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute template %q: %w", name, err)
	}
	return buf.String(), nil
}
