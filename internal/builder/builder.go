// internal/builder/builder.go
package builder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"retheme/internal/config"
	"retheme/internal/convert"
	"retheme/internal/logger"
	"retheme/internal/util"
	"retheme/internal/verify"
)

// BackupSuffix is appended to a page name to form its backup.
const BackupSuffix = ".bak"

// ErrNotUTF8 is returned for pages whose original bytes are not valid UTF-8.
var ErrNotUTF8 = errors.New("page is not valid UTF-8")

// ListPages returns the names of the files in dir whose base name matches
// pattern, sorted. Directories and backups are never listed.
func ListPages(dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, BackupSuffix) {
			continue
		}
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return nil, fmt.Errorf("bad page pattern %q: %w", pattern, err)
		}
		if ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Backup copies path to path+".bak" unless that backup already exists. It
// reports whether a new backup was written.
func Backup(path string) (bool, error) {
	bak := path + BackupSuffix
	exists, err := util.Exists(bak)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := util.CopyFile(path, bak); err != nil {
		return false, err
	}
	return true, nil
}

// ConvertDir backs up every page in dir and rewrites the listing page and
// every page with a flow table entry. Pages are always converted from their
// backups, so repeated runs start from the original content.
//
// Filesystem errors abort the run. Pages that cannot be converted are
// reported in Summary.Failed and the run continues.
func ConvertDir(dir string, flows config.FlowTable, tmpl *template.Template, opts BuildOptions, log logger.Logger) (Summary, error) {
	var sum Summary
	pattern := opts.Pattern
	if pattern == "" {
		pattern = "*.html"
	}

	names, err := ListPages(dir, pattern)
	if err != nil {
		return sum, err
	}
	sum.Pages = len(names)
	log.Debug("pages found", logger.Int("count", len(names)), logger.String("dir", dir),
		logger.Bool("sanitize", opts.Sanitize), logger.Bool("verify", opts.Verify))
	log.Debug("css rules", logger.String("order", strings.Join(convert.RuleNames(), ",")))

	for _, name := range names {
		path := filepath.Join(dir, name)
		plog := log.With(logger.String("file", name))

		created, err := Backup(path)
		if err != nil {
			return sum, fmt.Errorf("failed to back up %s: %w", path, err)
		}
		if created {
			sum.BackedUp++
			plog.Info("backed up")
		}

		if name == config.IndexPage {
			if err := convertIndex(path, tmpl, opts, plog); err != nil {
				var pe *PageError
				if errors.As(err, &pe) {
					sum.Failed = append(sum.Failed, pe)
					continue
				}
				return sum, err
			}
			sum.Converted = append(sum.Converted, name)
			continue
		}

		meta, ok := flows[name]
		if !ok {
			plog.Info("skipped, no metadata defined")
			sum.Skipped = append(sum.Skipped, name)
			continue
		}

		raw, err := os.ReadFile(path + BackupSuffix)
		if err != nil {
			return sum, fmt.Errorf("failed to read backup of %s: %w", name, err)
		}

		out, err := convertFlowPage(raw, meta, tmpl, opts, plog)
		if err != nil {
			plog.Error("conversion failed", logger.Error(err))
			sum.Failed = append(sum.Failed, &PageError{File: name, Err: err})
			continue
		}
		if err := util.WriteFileAtomic(path, []byte(out)); err != nil {
			return sum, err
		}
		plog.Info("converted", logger.String("heading", meta.Heading))
		sum.Converted = append(sum.Converted, name)
	}
	return sum, nil
}

func convertIndex(path string, tmpl *template.Template, opts BuildOptions, log logger.Logger) error {
	out, err := RenderIndexPage(tmpl)
	if err != nil {
		return &PageError{File: config.IndexPage, Err: err}
	}
	if opts.Verify {
		if err := check(out, verify.Expect{Title: indexHead.Title, Canonical: indexHead.Canonical}, log); err != nil {
			return &PageError{File: config.IndexPage, Err: err}
		}
	}
	if err := util.WriteFileAtomic(path, []byte(out)); err != nil {
		return err
	}
	log.Info("converted (index page)")
	return nil
}

func convertFlowPage(raw []byte, meta config.FlowMeta, tmpl *template.Template, opts BuildOptions, log logger.Logger) (string, error) {
	if !utf8.Valid(raw) {
		return "", ErrNotUTF8
	}
	doc := string(raw)

	css := convert.AdaptCSS(doc)
	if css == "" {
		log.Debug("no style block, rendering without custom CSS")
	}
	content, err := convert.ExtractContent(doc)
	if err != nil {
		return "", err
	}
	if opts.Sanitize {
		content = SanitizeContent(content)
	}

	out, err := RenderFlowPage(tmpl, meta, css, content)
	if err != nil {
		return "", err
	}
	if opts.Verify {
		want := verify.Expect{Title: meta.Title, Canonical: meta.Canonical, JSONFile: meta.JSONFile}
		if err := check(out, want, log); err != nil {
			return "", err
		}
	}
	return out, nil
}

func check(out string, want verify.Expect, log logger.Logger) error {
	report, err := verify.Document(out, want)
	if err != nil {
		return err
	}
	for _, w := range report.Warnings {
		log.Warn(w)
	}
	return report.Err()
}

// Restore copies each page backup in dir back over its page. Backups are
// kept. It returns the restored page names.
func Restore(dir, pattern string, log logger.Logger) ([]string, error) {
	if pattern == "" {
		pattern = "*.html"
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var restored []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, BackupSuffix) {
			continue
		}
		page := strings.TrimSuffix(name, BackupSuffix)
		ok, err := doublestar.Match(pattern, page)
		if err != nil {
			return restored, fmt.Errorf("bad page pattern %q: %w", pattern, err)
		}
		if !ok {
			continue
		}
		if err := util.CopyFile(filepath.Join(dir, name), filepath.Join(dir, page)); err != nil {
			return restored, fmt.Errorf("failed to restore %s: %w", page, err)
		}
		log.Info("restored", logger.String("file", page))
		restored = append(restored, page)
	}
	return restored, nil
}

// CheckIndexEntries reports listing page cards that link to a page without a
// flow table entry.
func CheckIndexEntries(flows config.FlowTable) []string {
	var orphans []string
	for _, e := range IndexEntries() {
		if _, ok := flows[e.Href]; !ok {
			orphans = append(orphans, e.Href)
		}
	}
	return orphans
}
