package convert

import "regexp"

const (
	darkCard      = "background: rgba(255,255,255,0.04);"
	darkTableCell = "background: rgba(255,255,255,0.02);"
	darkBorder    = "1px solid rgba(255,255,255,0.08);"
)

var styleBlock = regexp.MustCompile(`(?s)<style>(.*?)</style>`)

// gradient builds the escaped pattern for a two-stop 135deg gradient.
func gradient(from, to string) string {
	return regexp.QuoteMeta("background: linear-gradient(135deg, " + from + " 0%, " + to + " 100%);")
}

// CSSRules are the light-to-dark substitutions, in the order they must run.
// card-white and table-white both target "background: white;"; the table cell
// patterns that follow only see what the earlier rules left behind.
var CSSRules = []Rule{
	Literal("card-white", "background: white;", darkCard),
	Literal("card-slate", "background: #f8fafc;", darkCard),
	Pattern("card-gradient", gradient("#f8fafc", "#f1f5f9"), darkCard),
	Pattern("card-gradient-reverse", gradient("#f1f5f9", "#f8fafc"), darkCard),

	Literal("text-ink", "color: #1e1e2e;", "color: #f1f5f9;"),
	Literal("text-slate-800", "color: #1e293b;", "color: #f1f5f9;"),
	Literal("text-333", "color: #333;", "color: #e5e7eb;"),
	Literal("text-666", "color: #666;", "color: #9ca3af;"),
	Literal("text-slate-600", "color: #475569;", "color: #9ca3af;"),

	Pattern("shadow-soft", regexp.QuoteMeta("box-shadow: 0 4px 20px rgba(0, 0, 0, 0.08);"), "box-shadow: 0 4px 20px rgba(0, 0, 0, 0.3);"),
	Pattern("shadow-deep", regexp.QuoteMeta("box-shadow: 0 10px 40px rgba(0, 0, 0, 0.3);"), "box-shadow: 0 10px 40px rgba(0, 0, 0, 0.5);"),

	Literal("border-bottom", "border-bottom: 1px solid #e2e8f0;", "border-bottom: "+darkBorder),
	Literal("border", "border: 1px solid #e2e8f0;", "border: "+darkBorder),

	Pattern("warning-box", gradient("#fef3c7", "#fde68a"), "background: rgba(245,158,11,0.08);"),
	Literal("warning-text", "color: #92400e;", "color: #fbbf24;"),
	Pattern("info-box", gradient("#dbeafe", "#bfdbfe"), "background: rgba(59,130,246,0.08);"),
	Literal("info-text", "color: #1e40af;", "color: #93c5fd;"),
	Pattern("profit-box", gradient("#d1fae5", "#a7f3d0"), "background: rgba(16,185,129,0.08);"),
	Literal("profit-text", "color: #065f46;", "color: #6ee7b7;"),
	Pattern("risk-box", gradient("#fce7f3", "#fbcfe8"), "background: rgba(236,72,153,0.08);"),
	Literal("risk-text", "color: #9d174d;", "color: #f9a8d4;"),

	Pattern("section-divider",
		regexp.QuoteMeta("background: linear-gradient(90deg, transparent, #e2e8f0, transparent);"),
		"background: linear-gradient(90deg, transparent, rgba(255,255,255,0.1), transparent);"),

	Literal("table-white", "background: white;", darkCard),
	Pattern("comparison-table-cell", `(\.comparison-table td\s*\{[^}]*?)background:\s*white;`, "${1}"+darkTableCell),
	Pattern("crypto-table-cell", `(\.crypto-table td\s*\{[^}]*?)background:\s*[^;]+;`, "${1}"+darkTableCell),
	Pattern("etf-table-cell", `(\.etf-table td\s*\{[^}]*?)background:\s*[^;]+;`, "${1}"+darkTableCell),
}

// ExtractStyle returns the body of the first <style> block in doc, or "" if
// there is none. Later style blocks are ignored.
func ExtractStyle(doc string) string {
	m := styleBlock.FindStringSubmatch(doc)
	if m == nil {
		return ""
	}
	return m[1]
}

// AdaptCSS extracts the first style block of doc and rewrites its light
// theme colors for the dark theme.
func AdaptCSS(doc string) string {
	css := ExtractStyle(doc)
	if css == "" {
		return ""
	}
	return Apply(CSSRules, css)
}

// RuleNames lists the CSS rule names in application order.
func RuleNames() []string {
	names := make([]string, len(CSSRules))
	for i, r := range CSSRules {
		names[i] = r.Name
	}
	return names
}
