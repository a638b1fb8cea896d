// internal/builder/goldmark_extensions.go
package builder

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"retheme/internal/convert"
)

// mdLinkTransformer rewrites old absolute site links in Markdown intros the
// same way the content extractor rewrites them in page HTML.
type mdLinkTransformer struct{}

func newMDLinkTransformer() parser.ASTTransformer {
	return &mdLinkTransformer{}
}

func (t *mdLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		if to, ok := convert.RewriteLink(string(link.Destination)); ok {
			link.Destination = []byte(to)
		}
		return ast.WalkContinue, nil
	})
}
