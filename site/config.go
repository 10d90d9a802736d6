package site

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/ancientlore/mdsite/markdown"
	"github.com/ancientlore/mdsite/page"
	"github.com/ancientlore/mdsite/web"
	"github.com/pelletier/go-toml/v2"
)

// Config describes one documentation site. DefaultConfig is the FP-ASM
// documentation set; a TOML file can override any part of it.
type Config struct {
	Output string     `toml:"output"` // output directory
	Engine string     `toml:"engine"` // "regex" or "blackfriday"
	Files  []string   `toml:"files"`  // Markdown files, in build order
	Index  string     `toml:"index"`  // HTML fragment for index.html; empty uses the built-in one
	Site   page.Site  `toml:"site"`
	Serve  web.Config `toml:"serve"`

	Source string `toml:"-"` // file the configuration was read from, if any
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: "docs_html",
		Engine: markdown.EngineRegex,
		Files: []string{
			"README.md",
			"QUICK_START.md",
			"API_REFERENCE.md",
			"COMPLETE_LIBRARY_REPORT.md",
			"TIER1_COMPLETENESS_REPORT.md",
			"TIER2_COMPLETENESS_REPORT.md",
			"TIER3_COMPLETENESS_REPORT.md",
			"ACHIEVEMENT_SUMMARY.md",
		},
		Site: page.Site{
			Name:          "FP-ASM Library",
			Banner:        "🚀 FP-ASM Library Documentation",
			Tagline:       "Complete Functional Programming Toolkit for C • 100% FP Coverage • 36 Functions • Production Ready",
			NavTitle:      "📚 Documentation",
			FallbackTitle: "FP-ASM",
			IndexNav:      "index",
			Nav: []page.NavItem{
				{ID: "index", Href: "index.html", Icon: "🏠", Label: "Home"},
				{ID: "readme", Href: "README.html", Icon: "📖", Label: "Overview"},
				{ID: "quick", Href: "QUICK_START.html", Icon: "🚀", Label: "Quick Start"},
				{ID: "api", Href: "API_REFERENCE.html", Icon: "📘", Label: "API Reference", Badge: "36 funcs"},
				{ID: "complete", Href: "COMPLETE_LIBRARY_REPORT.html", Icon: "🎉", Label: "Journey Report"},
				{ID: "tier1", Href: "TIER1_COMPLETENESS_REPORT.html", Icon: "📊", Label: "TIER 1 Report"},
				{ID: "tier2", Href: "TIER2_COMPLETENESS_REPORT.html", Icon: "📊", Label: "TIER 2 Report"},
				{ID: "tier3", Href: "TIER3_COMPLETENESS_REPORT.html", Icon: "📊", Label: "TIER 3 Report"},
				{ID: "achievement", Href: "ACHIEVEMENT_SUMMARY.html", Icon: "🏆", Label: "Achievement"},
			},
		},
		Serve: web.DefaultConfig(),
	}
}

// LoadConfig reads the named TOML file from fsys over DefaultConfig and
// validates the result. It is not an error if the file does not exist.
func LoadConfig(fsys fs.FS, name string) (*Config, error) {
	cfg := DefaultConfig()
	if name == "" {
		return cfg, nil
	}
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("Cannot read config file: %w", err)
	}
	var file Config
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("Cannot parse config file %s: %w", name, err)
	}
	cfg.merge(&file)
	cfg.Source = name
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Invalid config file %s: %w", name, err)
	}
	return cfg, nil
}

// merge copies the fields that are set in o.
func (c *Config) merge(o *Config) {
	setString(&c.Output, o.Output)
	setString(&c.Engine, o.Engine)
	setString(&c.Index, o.Index)
	if o.Files != nil {
		c.Files = o.Files
	}

	setString(&c.Site.Name, o.Site.Name)
	setString(&c.Site.Banner, o.Site.Banner)
	setString(&c.Site.Tagline, o.Site.Tagline)
	setString(&c.Site.NavTitle, o.Site.NavTitle)
	setString(&c.Site.FallbackTitle, o.Site.FallbackTitle)
	setString(&c.Site.IndexNav, o.Site.IndexNav)
	if len(o.Site.Nav) > 0 {
		c.Site.Nav = o.Site.Nav
	}

	if o.Serve.CacheBytes > 0 {
		c.Serve.CacheBytes = o.Serve.CacheBytes
	}
	if o.Serve.CacheDuration != 0 {
		c.Serve.CacheDuration = o.Serve.CacheDuration
	}
	if o.Serve.Headers != nil {
		c.Serve.Headers = o.Serve.Headers
	}
	setString(&c.Serve.NotFound, o.Serve.NotFound)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks that the configuration can produce a site.
func (c *Config) Validate() error {
	if c.Output == "" {
		return errors.New("output directory is empty")
	}
	if _, err := markdown.New(c.Engine); err != nil {
		return err
	}
	if len(c.Site.Nav) == 0 {
		return errors.New("no navigation entries")
	}
	found := false
	for _, n := range c.Site.Nav {
		if n.ID == c.Site.IndexNav {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("index_nav %q names no navigation entry", c.Site.IndexNav)
	}
	outputs := make(map[string]string, len(c.Files))
	for _, f := range c.Files {
		if !fs.ValidPath(f) || path.Ext(f) != ".md" {
			return fmt.Errorf("file %q is not a relative path to a .md file", f)
		}
		name := HTMLName(f)
		if name == IndexFile {
			return fmt.Errorf("file %q would overwrite %s", f, IndexFile)
		}
		if prev, ok := outputs[name]; ok {
			return fmt.Errorf("files %q and %q both write %s", prev, f, name)
		}
		outputs[name] = f
	}
	if c.Index != "" && !fs.ValidPath(c.Index) {
		return fmt.Errorf("index %q is not a relative path", c.Index)
	}
	return nil
}

// Watches reports whether a change to the file name, relative to the source
// directory, affects the generated site.
func (c *Config) Watches(name string) bool {
	name = path.Clean(strings.TrimPrefix(name, "./"))
	if name == c.Source || name == c.Index {
		return true
	}
	for _, f := range c.Files {
		if name == f {
			return true
		}
	}
	return false
}
