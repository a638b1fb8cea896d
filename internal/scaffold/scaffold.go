// internal/scaffold/scaffold.go
package scaffold

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"retheme/internal/builder"
	"retheme/internal/config"
	"retheme/internal/util"
)

// Paths written by Init, relative to the target directory.
const (
	SettingsFile = "retheme.yaml"
	FlowsFile    = "flows.yaml"
	TemplateDir  = "templates/dark"
)

// Init writes an editable settings file, flow table and template set into
// dir. Existing files are left alone. It returns the paths it wrote.
func Init(dir string) ([]string, error) {
	if err := os.MkdirAll(filepath.Join(dir, TemplateDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", TemplateDir, err)
	}

	settings := config.DefaultSettings()
	settings.FlowsFile = FlowsFile
	settings.TemplateDir = TemplateDir

	var written []string
	write := func(rel string, fill func(path string) error) error {
		path := filepath.Join(dir, rel)
		exists, err := util.Exists(path)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		if err := fill(path); err != nil {
			return fmt.Errorf("failed to write file %s: %w", rel, err)
		}
		written = append(written, path)
		return nil
	}

	if err := write(SettingsFile, settings.Save); err != nil {
		return written, err
	}
	if err := write(FlowsFile, func(path string) error {
		return util.WriteFileAtomic(path, config.DefaultFlowsYAML())
	}); err != nil {
		return written, err
	}

	templates := builder.DefaultTemplates()
	names, err := fs.Glob(templates, "*.html")
	if err != nil {
		return written, err
	}
	for _, name := range names {
		data, err := fs.ReadFile(templates, name)
		if err != nil {
			return written, err
		}
		if err := write(filepath.Join(TemplateDir, name), func(path string) error {
			return util.WriteFileAtomic(path, data)
		}); err != nil {
			return written, err
		}
	}
	return written, nil
}

var flowArchetype = template.Must(template.New("flow").Parse(`
  {{.Page}}:
    title: {{printf "%q" (print .Heading " Trading Flow | MachineTrader")}}
    description: {{printf "%q" (print "Automate the " .Heading " strategy with this Node-RED trading flow.")}}
    canonical: "https://www.machinetrader.io/trading-flows/{{.Slug}}"
    h1: {{printf "%q" (print .Heading " Flow")}}
    subtitle: {{printf "%q" (print .Heading " with automated Node-RED trading")}}
    badge_text: {{printf "%q" .Heading}}
    badge_color: blue-500
    gradient_from: blue-500
    gradient_to: purple-500
`))

// AddFlow appends a placeholder entry for page to the flow table at
// flowsPath. The file is only rewritten if the result still validates.
func AddFlow(flowsPath, page, heading string) error {
	page = filepath.Base(page)
	if !strings.HasSuffix(page, ".html") {
		page += ".html"
	}
	heading = strings.TrimSpace(heading)
	if heading == "" {
		return fmt.Errorf("a heading is required for %s", page)
	}

	current, err := os.ReadFile(flowsPath)
	if err != nil {
		return fmt.Errorf("could not read flow table at %s: %w", flowsPath, err)
	}
	table, err := config.ParseFlowTable(current)
	if err != nil {
		return fmt.Errorf("%s: %w", flowsPath, err)
	}
	if _, ok := table[page]; ok {
		return fmt.Errorf("%s already has an entry in %s", page, flowsPath)
	}

	data := struct {
		Page    string
		Slug    string
		Heading string
	}{
		Page:    page,
		Slug:    strings.TrimSuffix(page, ".html"),
		Heading: heading,
	}
	var entry bytes.Buffer
	if err := flowArchetype.Execute(&entry, data); err != nil {
		return fmt.Errorf("failed to execute flow archetype: %w", err)
	}

	updated := bytes.TrimRight(current, "\n")
	updated = append(updated, '\n')
	updated = append(updated, entry.Bytes()...)

	table, err = config.ParseFlowTable(updated)
	if err != nil {
		return fmt.Errorf("new entry for %s does not validate: %w", page, err)
	}
	if _, ok := table[page]; !ok {
		return fmt.Errorf("could not append %s: flows must be the last block in %s", page, flowsPath)
	}
	return util.WriteFileAtomic(flowsPath, updated)
}
