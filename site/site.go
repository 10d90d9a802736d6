/*
Package site builds the documentation site.

A Builder reads each configured Markdown file from a source file system,
converts it to an HTML fragment, wraps it in the page layout and writes it to
the output directory under the same base name with a ".html" extension. A file
that does not exist is skipped with a warning; every other error stops the
build. Finally the landing page, index.html, is written from a hand-written
fragment.

Configuration

A site.toml file in the source directory may override any part of the
built-in configuration:

	output = "docs_html"
	engine = "regex"          # or "blackfriday"
	files  = ["README.md", "QUICK_START.md"]
	index  = "landing.html"   # fragment for index.html

	[site]
	name = "FP-ASM Library"
	fallback_title = "FP-ASM"
	index_nav = "index"

	[[site.nav]]
	id = "index"
	href = "index.html"
	icon = "🏠"
	label = "Home"

	[serve]
	cache_duration = "2s"
	headers = { "Cache-Control" = "no-cache" }

Unknown keys are an error. Lists (files, site.nav, serve.headers) replace the
built-in ones as a whole.

Front Matter

A Markdown file may start with TOML front matter between "+++" lines. The
"title" key replaces the title taken from the first heading and the "nav" key
picks the highlighted sidebar entry.
*/
package site

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ancientlore/mdsite/markdown"
	"github.com/ancientlore/mdsite/page"
	"go.uber.org/zap"
)

// IndexFile is the name of the landing page.
const IndexFile = "index.html"

// indexTitle is the title of the landing page.
const indexTitle = "Home"

//go:embed index.html
var defaultIndex string

// Result describes a finished build.
type Result struct {
	OutputDir string   // absolute path of the output directory
	Pages     []string // files written, relative to OutputDir; index.html is last
	Skipped   []string // configured files that were not found
}

// Builder generates a site from a configuration.
type Builder struct {
	cfg    *Config
	src    fs.FS
	out    string
	conv   markdown.Converter
	pages  *page.Assembler
	logger *zap.Logger
}

// NewBuilder returns a Builder reading sources from src and writing to the
// directory out. The page layout is also looked up in src.
func NewBuilder(cfg *Config, src fs.FS, out string, logger *zap.Logger) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("NewBuilder: %w", err)
	}
	conv, err := markdown.New(cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("NewBuilder: %w", err)
	}
	pages, err := page.New(cfg.Site, src)
	if err != nil {
		return nil, fmt.Errorf("NewBuilder: %w", err)
	}
	return &Builder{
		cfg:    cfg,
		src:    src,
		out:    out,
		conv:   conv,
		pages:  pages,
		logger: logger,
	}, nil
}

// HTMLName returns the output file name for a Markdown file name.
func HTMLName(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base)) + ".html"
}

// Build generates the site. It stops between files when ctx is done.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	out, err := filepath.Abs(b.out)
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	b.logger.Info("output directory ready", zap.String("dir", out))

	res := &Result{OutputDir: out}
	for _, name := range b.cfg.Files {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("Build: %w", err)
		}
		src, err := fs.ReadFile(b.src, name)
		if errors.Is(err, fs.ErrNotExist) {
			b.logger.Warn("skipping, not found", zap.String("file", name))
			res.Skipped = append(res.Skipped, name)
			continue
		} else if err != nil {
			return res, fmt.Errorf("Build: %w", err)
		}
		b.logger.Info("converting", zap.String("file", name))
		doc, err := b.renderMarkdown(name, src)
		if err != nil {
			return res, fmt.Errorf("Build: %s: %w", name, err)
		}
		dst := HTMLName(name)
		if err := b.write(out, dst, doc); err != nil {
			return res, err
		}
		res.Pages = append(res.Pages, dst)
	}

	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("Build: %w", err)
	}
	b.logger.Info("creating landing page", zap.String("file", IndexFile))
	doc, err := b.renderIndex()
	if err != nil {
		return res, fmt.Errorf("Build: %s: %w", IndexFile, err)
	}
	if err := b.write(out, IndexFile, doc); err != nil {
		return res, err
	}
	res.Pages = append(res.Pages, IndexFile)

	b.logger.Info("generated HTML pages",
		zap.Int("pages", len(res.Pages)),
		zap.Int("skipped", len(res.Skipped)),
		zap.String("dir", out))
	b.logger.Info("open in a browser", zap.String("url", "file://"+filepath.ToSlash(filepath.Join(out, IndexFile))))
	return res, nil
}

// renderMarkdown produces the complete document for one Markdown file.
func (b *Builder) renderMarkdown(name string, src []byte) ([]byte, error) {
	fmb, body := markdown.SplitFrontMatter(src)
	front, err := markdown.ParseFrontMatter(fmb)
	if err != nil {
		return nil, err
	}
	fragment := b.conv.Convert(string(body))

	title := front.Title
	if title == "" {
		title = page.Title(fragment, b.cfg.Site.FallbackTitle)
	}
	active := front.Nav
	if active == "" {
		active = b.navFor(HTMLName(name))
	}
	return b.pages.Document(page.Page{
		Title:   title,
		Content: template.HTML(fragment),
		Active:  b.pages.NavState(active),
	})
}

// navFor returns the id of the navigation entry linking to href.
func (b *Builder) navFor(href string) string {
	for _, n := range b.cfg.Site.Nav {
		if n.Href == href {
			return n.ID
		}
	}
	return ""
}

// renderIndex produces the landing page.
func (b *Builder) renderIndex() ([]byte, error) {
	fragment := defaultIndex
	if b.cfg.Index != "" {
		x, err := fs.ReadFile(b.src, b.cfg.Index)
		if err != nil {
			return nil, err
		}
		fragment = string(x)
	}
	return b.pages.Document(page.Page{
		Title:   indexTitle,
		Content: template.HTML(fragment),
		Active:  b.pages.NavState(b.cfg.Site.IndexNav),
	})
}

func (b *Builder) write(dir, name string, doc []byte) error {
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, doc, 0o644); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	b.logger.Info("wrote", zap.String("path", p))
	return nil
}
