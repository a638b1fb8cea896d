// internal/config/config.go
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidFlowTable is returned when the flow table fails validation.
var ErrInvalidFlowTable = errors.New("invalid flow table")

// IndexPage is the listing page. It is rendered from static data and can
// never carry a metadata record.
const IndexPage = "index.html"

//go:embed flows.yaml
var defaultFlows []byte

// FlowMeta holds the descriptive fields of one flow page.
// The `yaml` tags match the keys used in flows.yaml.
type FlowMeta struct {
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	Canonical    string `yaml:"canonical"`
	Heading      string `yaml:"h1"`
	Subtitle     string `yaml:"subtitle"`
	BadgeText    string `yaml:"badge_text"`
	BadgeColor   string `yaml:"badge_color"`
	GradientFrom string `yaml:"gradient_from"`
	GradientTo   string `yaml:"gradient_to"`
	JSONFile     string `yaml:"json_file,omitempty"`
	// Intro is optional Markdown shown under the hero subtitle.
	Intro string `yaml:"intro,omitempty"`
}

// FlowTable maps a page file name to its metadata.
type FlowTable map[string]FlowMeta

type flowFile struct {
	Flows FlowTable `yaml:"flows"`
}

// Tailwind color tokens such as "red-500" or "mt-purple" end up inside class
// names, so they are restricted to a safe alphabet.
var colorToken = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// DefaultFlowsYAML returns the built-in flow table source.
func DefaultFlowsYAML() []byte {
	return bytes.Clone(defaultFlows)
}

// DefaultFlowTable returns the built-in, validated flow table.
func DefaultFlowTable() (FlowTable, error) {
	return ParseFlowTable(defaultFlows)
}

// LoadFlowTable reads a flow table from path. An empty path selects the
// built-in table.
func LoadFlowTable(path string) (FlowTable, error) {
	if path == "" {
		return DefaultFlowTable()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read flow table at %s: %w", path, err)
	}
	table, err := ParseFlowTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// ParseFlowTable decodes and validates a flow table. Unknown keys are rejected.
func ParseFlowTable(data []byte) (FlowTable, error) {
	var f flowFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("could not parse flow table: %w", err)
	}
	if err := f.Flows.Validate(); err != nil {
		return nil, err
	}
	return f.Flows, nil
}

// Names returns the page names in the table, sorted.
func (t FlowTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every record and reports all problems at once.
func (t FlowTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no flows defined", ErrInvalidFlowTable)
	}
	var errs []error
	for _, name := range t.Names() {
		if err := validateFlow(name, t[name]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidFlowTable, errors.Join(errs...))
	}
	return nil
}

func validateFlow(name string, m FlowMeta) error {
	var problems []string
	if !strings.HasSuffix(name, ".html") {
		problems = append(problems, "name must end in .html")
	}
	if name == IndexPage {
		problems = append(problems, "the listing page cannot have flow metadata")
	}

	required := []struct{ key, val string }{
		{"title", m.Title},
		{"description", m.Description},
		{"canonical", m.Canonical},
		{"h1", m.Heading},
		{"subtitle", m.Subtitle},
		{"badge_text", m.BadgeText},
		{"badge_color", m.BadgeColor},
		{"gradient_from", m.GradientFrom},
		{"gradient_to", m.GradientTo},
	}
	for _, r := range required {
		if strings.TrimSpace(r.val) == "" {
			problems = append(problems, r.key+" is required")
		}
	}

	for _, c := range []struct{ key, val string }{
		{"badge_color", m.BadgeColor},
		{"gradient_from", m.GradientFrom},
		{"gradient_to", m.GradientTo},
	} {
		if c.val != "" && !colorToken.MatchString(c.val) {
			problems = append(problems, fmt.Sprintf("%s %q is not a color token", c.key, c.val))
		}
	}

	if m.Canonical != "" {
		u, err := url.Parse(m.Canonical)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			problems = append(problems, fmt.Sprintf("canonical %q is not an absolute http(s) URL", m.Canonical))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %s", name, strings.Join(problems, "; "))
}
