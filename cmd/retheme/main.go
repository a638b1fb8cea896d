// cmd/retheme/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"text/template"

	"retheme/internal/builder"
	"retheme/internal/config"
	"retheme/internal/logger"
	"retheme/internal/scaffold"
	"retheme/internal/server"
)

type appConfig struct {
	configFile  string
	dir         string
	flowsFile   string
	templateDir string
	sanitize    bool
	debug       bool
	port        int
}

func main() {
	appCfg := appConfig{}
	flag.StringVar(&appCfg.configFile, "config", scaffold.SettingsFile, "Settings file. Optional.")
	flag.StringVar(&appCfg.dir, "dir", "", "Directory holding the flow pages. Overrides the settings file.")
	flag.StringVar(&appCfg.flowsFile, "flows", "", "Flow table (YAML). Defaults to the built-in table.")
	flag.StringVar(&appCfg.templateDir, "templates", "", "Template directory. Defaults to the built-in dark theme.")
	flag.BoolVar(&appCfg.sanitize, "sanitize", false, "Pass extracted content through the HTML sanitizer.")
	flag.BoolVar(&appCfg.debug, "debug", false, "Enable debug logging.")
	flag.IntVar(&appCfg.port, "port", 0, "Port for the preview server. Overrides the settings file.")
	flag.Usage = printHelp
	flag.Parse()

	if err := run(appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Operation failed: %v\n", err)
		os.Exit(1)
	}
}

func run(appCfg appConfig) error {
	args := flag.Args()
	command := "convert"
	if len(args) > 0 {
		command = args[0]
	}

	// init writes the settings file, so it runs before settings are loaded.
	switch command {
	case "init":
		dir := "."
		if len(args) > 1 {
			dir = args[1]
		}
		written, err := scaffold.Init(dir)
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Println("Created:", path)
		}
		fmt.Printf("✅ Initialized %s. Edit %s and run 'retheme'.\n", dir, scaffold.FlowsFile)
		return nil
	case "help":
		flag.Usage()
		return nil
	}

	settings, err := loadSettings(appCfg)
	if err != nil {
		return err
	}

	level := settings.LogLevel
	if appCfg.debug {
		level = "debug"
	}
	log, err := logger.New(level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	switch command {
	case "convert":
		flows, tmpl, err := loadInputs(settings, log)
		if err != nil {
			return err
		}
		return convert(settings, flows, tmpl, log)

	case "serve":
		rebuild := func() error {
			// Reload on every pass so edits to the table and templates apply.
			flows, tmpl, err := loadInputs(settings, log)
			if err != nil {
				return err
			}
			return convert(settings, flows, tmpl, log)
		}
		return server.Run(server.Config{
			Port:        settings.Port,
			Dir:         settings.Dir,
			FlowsFile:   settings.FlowsFile,
			TemplateDir: settings.TemplateDir,
		}, rebuild, log)

	case "restore":
		restored, err := builder.Restore(settings.Dir, settings.Pattern, log)
		if err != nil {
			return err
		}
		fmt.Printf("✅ Restored %d page(s) from backup.\n", len(restored))
		return nil

	case "new":
		if len(args) < 3 {
			flag.Usage()
			return nil
		}
		if settings.FlowsFile == "" {
			return fmt.Errorf("no flow table file configured; run 'retheme init' or pass -flows")
		}
		if err := scaffold.AddFlow(settings.FlowsFile, args[1], args[2]); err != nil {
			return err
		}
		fmt.Printf("✅ Added %s to %s. Fill in its description and colors.\n", args[1], settings.FlowsFile)
		return nil

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// loadSettings layers flags that were set explicitly over the settings file
// and environment.
func loadSettings(appCfg appConfig) (*config.Settings, error) {
	settings, err := config.LoadSettings(appCfg.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			settings.Dir = appCfg.dir
		case "flows":
			settings.FlowsFile = appCfg.flowsFile
		case "templates":
			settings.TemplateDir = appCfg.templateDir
		case "sanitize":
			settings.Sanitize = appCfg.sanitize
		case "port":
			settings.Port = appCfg.port
		}
	})
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

func loadInputs(settings *config.Settings, log logger.Logger) (config.FlowTable, *template.Template, error) {
	flows, err := config.LoadFlowTable(settings.FlowsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load flow table: %w", err)
	}
	for _, href := range builder.CheckIndexEntries(flows) {
		log.Warn("listing page links to a page without metadata", logger.String("href", href))
	}
	tmpl, err := builder.LoadTemplates(settings.TemplateDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load templates: %w", err)
	}
	return flows, tmpl, nil
}

func convert(settings *config.Settings, flows config.FlowTable, tmpl *template.Template, log logger.Logger) error {
	fmt.Printf("--- Converting pages in %s ---\n", settings.Dir)
	opts := builder.BuildOptions{
		Pattern:  settings.Pattern,
		Sanitize: settings.Sanitize,
		Verify:   settings.Verify,
	}
	sum, err := builder.ConvertDir(settings.Dir, flows, tmpl, opts, log)
	if err != nil {
		return fmt.Errorf("conversion aborted: %w", err)
	}

	fmt.Printf("📄 %d page(s) found, %d new backup(s).\n", sum.Pages, sum.BackedUp)
	if len(sum.Skipped) > 0 {
		fmt.Printf("⏭  %d page(s) skipped without metadata.\n", len(sum.Skipped))
	}
	for _, f := range sum.Failed {
		fmt.Fprintf(os.Stderr, "❌ %v\n", f)
	}
	if err := sum.Err(); err != nil {
		return err
	}
	fmt.Printf("✅ Success! Converted %d page(s).\n", len(sum.Converted))
	return nil
}

func printHelp() {
	fmt.Println("retheme - convert legacy trading flow pages to the dark site theme")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  retheme [global-flags] [command] [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  convert               Back up and convert every page (default)")
	fmt.Println("  serve                 Convert, then preview with live reload")
	fmt.Println("  restore               Copy every .bak backup over its page")
	fmt.Println("  init [dir]            Write editable settings, flow table and templates")
	fmt.Println("  new <page> <heading>  Add a placeholder entry to the flow table")
	fmt.Println()
	fmt.Println("Global Flags:")
	flag.PrintDefaults()
}
