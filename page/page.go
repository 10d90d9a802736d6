/*
Package page wraps HTML fragments in the site's page layout.

The layout is an html/template template. A built-in one is embedded; a site can
replace it with its own file "template/page.html". The template receives:

	.Site     the Site (Name, Banner, Tagline, NavTitle, ...)
	.Title    the page title
	.Content  the fragment, as template.HTML
	.Nav      the navigation entries, each a NavItem plus an Active flag

After rendering, every `.md"` in the document becomes `.html"` so links between
Markdown sources keep working in the generated site.
*/
package page

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html"
	"html/template"
	"io"
	"io/fs"
	"regexp"
	"strings"
)

//go:embed page.html
var defaultTemplate string

// customTemplate is the file that replaces the built-in layout when present.
const customTemplate = "template/page.html"

// ErrMissingNavFlag is returned by Render when a Page lacks a flag for one of
// the configured navigation entries.
var ErrMissingNavFlag = errors.New("missing navigation flag")

// NavItem is one sidebar link.
type NavItem struct {
	ID    string `toml:"id"`    // key used in Page.Active
	Href  string `toml:"href"`  // link target, also the generated file name
	Icon  string `toml:"icon"`  // shown before the label
	Label string `toml:"label"` // link text
	Badge string `toml:"badge"` // optional small badge after the label
}

// Site holds the parts of the layout shared by all pages.
type Site struct {
	Name          string    `toml:"name"`           // appended to every <title>
	Banner        string    `toml:"banner"`         // heading of the top banner
	Tagline       string    `toml:"tagline"`        // text under the banner heading
	NavTitle      string    `toml:"nav_title"`      // heading of the sidebar
	FallbackTitle string    `toml:"fallback_title"` // title of pages without <h1>
	IndexNav      string    `toml:"index_nav"`      // nav id of the landing page
	Nav           []NavItem `toml:"nav"`
}

// Page is everything needed to render one document.
type Page struct {
	Title   string
	Content template.HTML
	Active  map[string]bool // nav id to active; must hold every configured id
}

// navLink is a NavItem as seen by the template.
type navLink struct {
	NavItem
	Active bool
}

// data is what is passed to the page template.
type data struct {
	Site    Site
	Title   string
	Content template.HTML
	Nav     []navLink
}

// Assembler renders pages for one site.
type Assembler struct {
	site Site
	tpl  *template.Template
}

// New returns an Assembler for site. If fsys is not nil and holds
// "template/page.html", that file is the layout; otherwise the built-in one is.
func New(site Site, fsys fs.FS) (*Assembler, error) {
	seen := make(map[string]bool, len(site.Nav))
	for _, n := range site.Nav {
		if n.ID == "" {
			return nil, fmt.Errorf("page.New: navigation entry %q has no id", n.Label)
		}
		if seen[n.ID] {
			return nil, fmt.Errorf("page.New: duplicate navigation id %q", n.ID)
		}
		seen[n.ID] = true
	}
	tpl, err := loadTemplate(fsys)
	if err != nil {
		return nil, err
	}
	return &Assembler{site: site, tpl: tpl}, nil
}

// loadTemplate parses the custom layout if there is one.
func loadTemplate(fsys fs.FS) (*template.Template, error) {
	if fsys != nil {
		fi, err := fs.Stat(fsys, customTemplate)
		if err == nil && !fi.IsDir() {
			tpl, err := template.ParseFS(fsys, customTemplate)
			if err != nil {
				return nil, fmt.Errorf("loadTemplate: %w", err)
			}
			return tpl, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loadTemplate: %w", err)
		}
	}
	tpl, err := template.New("page.html").Parse(defaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("loadTemplate: %w", err)
	}
	return tpl, nil
}

// Site returns the site the Assembler was created with.
func (a *Assembler) Site() Site {
	return a.site
}

// NavState returns flags for every configured entry with only activeID set.
// An activeID that names no entry leaves all of them inactive.
func (a *Assembler) NavState(activeID string) map[string]bool {
	m := make(map[string]bool, len(a.site.Nav))
	for _, n := range a.site.Nav {
		m[n.ID] = n.ID == activeID
	}
	return m
}

// Render executes the layout for p.
func (a *Assembler) Render(w io.Writer, p Page) error {
	d := data{
		Site:    a.site,
		Title:   p.Title,
		Content: p.Content,
		Nav:     make([]navLink, 0, len(a.site.Nav)),
	}
	for _, n := range a.site.Nav {
		active, ok := p.Active[n.ID]
		if !ok {
			return fmt.Errorf("Render: %w: %q", ErrMissingNavFlag, n.ID)
		}
		d.Nav = append(d.Nav, navLink{NavItem: n, Active: active})
	}
	if err := a.tpl.Execute(w, d); err != nil {
		return fmt.Errorf("Render: %w", err)
	}
	return nil
}

// Document renders p and rewrites links to Markdown files into links to the
// generated HTML files.
func (a *Assembler) Document(p Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := a.Render(&buf, p); err != nil {
		return nil, err
	}
	return FixLinks(buf.Bytes()), nil
}

// FixLinks replaces every `.md"` with `.html"`.
func FixLinks(b []byte) []byte {
	return bytes.ReplaceAll(b, []byte(`.md"`), []byte(`.html"`))
}

var (
	h1RE  = regexp.MustCompile(`<h1>(.+?)</h1>`)
	tagRE = regexp.MustCompile(`<[^>]+>`)
)

// Title returns the text of the first <h1> in fragment with any tags removed
// and character references decoded, or fallback if there is none.
func Title(fragment, fallback string) string {
	m := h1RE.FindStringSubmatch(fragment)
	if m == nil {
		return fallback
	}
	return strings.TrimSpace(html.UnescapeString(tagRE.ReplaceAllString(m[1], "")))
}
