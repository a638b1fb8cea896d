// Package convert holds the pure text transformations that turn a light
// Webflow flow page into the pieces of a dark page: adapted CSS and the
// extracted content fragment.
package convert

import (
	"regexp"
	"strings"
)

// Rule is a named text-to-text transformation.
type Rule struct {
	Name  string
	Apply func(string) string
}

// Literal replaces every occurrence of old with new.
func Literal(name, old, new string) Rule {
	return Rule{
		Name:  name,
		Apply: func(s string) string { return strings.ReplaceAll(s, old, new) },
	}
}

// Pattern replaces every match of expr with repl. repl may reference
// submatches with ${n}.
func Pattern(name, expr, repl string) Rule {
	re := regexp.MustCompile(expr)
	return Rule{
		Name:  name,
		Apply: func(s string) string { return re.ReplaceAllString(s, repl) },
	}
}

// PatternOnce replaces only the first match of expr with repl.
func PatternOnce(name, expr, repl string) Rule {
	re := regexp.MustCompile(expr)
	return Rule{
		Name: name,
		Apply: func(s string) string {
			loc := re.FindStringSubmatchIndex(s)
			if loc == nil {
				return s
			}
			var out []byte
			out = append(out, s[:loc[0]]...)
			out = re.ExpandString(out, repl, s, loc)
			out = append(out, s[loc[1]:]...)
			return string(out)
		},
	}
}

// Apply runs the rules over s in order.
func Apply(rules []Rule, s string) string {
	for _, r := range rules {
		s = r.Apply(s)
	}
	return s
}
