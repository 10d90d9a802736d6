package page

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSite = Site{
	Name:          "Docs",
	Banner:        "Banner",
	Tagline:       "Tagline",
	NavTitle:      "Documentation",
	FallbackTitle: "Docs",
	IndexNav:      "index",
	Nav: []NavItem{
		{ID: "index", Href: "index.html", Icon: "🏠", Label: "Home"},
		{ID: "quick", Href: "QUICK_START.html", Icon: "🚀", Label: "Quick Start"},
		{ID: "api", Href: "API_REFERENCE.html", Label: "API Reference", Badge: "36 funcs"},
	},
}

func parse(t *testing.T, b []byte) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	require.NoError(t, err)
	return doc
}

func TestTitle(t *testing.T) {
	tests := []struct {
		fragment, want string
	}{
		{"<h1>Plain</h1>", "Plain"},
		{"<p>x</p>\n<h1>Hello <code>fp_map</code></h1>\n<h1>Second</h1>", "Hello fp_map"},
		{`<h1><span class="emoji">🚀</span> Launch</h1>`, "🚀 Launch"},
		{"<h1>A &amp; B</h1>", "A & B"},
		{"<h1>Sets & Maps</h1>", "Sets & Maps"},
		{"<h2>Not a title</h2>", "fallback"},
		{"", "fallback"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Title(tt.fragment, "fallback"), tt.fragment)
	}
}

func TestNavState(t *testing.T) {
	a, err := New(testSite, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"index": false, "quick": true, "api": false}, a.NavState("quick"))
	assert.Equal(t, map[string]bool{"index": false, "quick": false, "api": false}, a.NavState("nope"))
}

func TestDocument(t *testing.T) {
	a, err := New(testSite, nil)
	require.NoError(t, err)
	out, err := a.Document(Page{
		Title:   "A & B",
		Content: template.HTML(`<h1>A &amp; B</h1><p>See <a href="QUICK_START.md">quick start</a>.</p>`),
		Active:  a.NavState("quick"),
	})
	require.NoError(t, err)

	assert.NotContains(t, string(out), `.md"`)
	doc := parse(t, out)
	assert.Equal(t, "A & B - Docs", doc.Find("title").Text())
	href, _ := doc.Find("main.content a").Attr("href")
	assert.Equal(t, "QUICK_START.html", href)

	active := doc.Find("aside nav a.active")
	require.Equal(t, 1, active.Length())
	href, _ = active.Attr("href")
	assert.Equal(t, "QUICK_START.html", href)
	assert.Equal(t, 3, doc.Find("aside nav li").Length())
	assert.Equal(t, "36 funcs", doc.Find("aside nav .badge").Text())
	assert.Equal(t, "Banner", strings.TrimSpace(doc.Find(".banner h1").Text()))
	assert.Equal(t, 1, doc.Find("style").Length())
}

func TestRenderMissingFlag(t *testing.T) {
	a, err := New(testSite, nil)
	require.NoError(t, err)
	err = a.Render(&bytes.Buffer{}, Page{Title: "x", Active: map[string]bool{"index": true}})
	assert.ErrorIs(t, err, ErrMissingNavFlag)
}

func TestCustomTemplate(t *testing.T) {
	fsys := fstest.MapFS{
		"template/page.html": {Data: []byte(`<title>{{.Title}}</title>{{range .Nav}}[{{.ID}}{{if .Active}}*{{end}}]{{end}}{{.Content}}`)},
	}
	a, err := New(testSite, fsys)
	require.NoError(t, err)
	out, err := a.Document(Page{Title: "T", Content: `<a href="x.md">x</a>`, Active: a.NavState("api")})
	require.NoError(t, err)
	assert.Equal(t, `<title>T</title>[index][quick][api*]<a href="x.html">x</a>`, string(out))
}

func TestCustomTemplateError(t *testing.T) {
	fsys := fstest.MapFS{"template/page.html": {Data: []byte(`{{.Title`)}}
	_, err := New(testSite, fsys)
	assert.Error(t, err)
}

func TestNewRejectsBadNav(t *testing.T) {
	s := testSite
	s.Nav = []NavItem{{ID: "a"}, {ID: "a"}}
	_, err := New(s, nil)
	assert.Error(t, err)

	s.Nav = []NavItem{{Label: "no id"}}
	_, err = New(s, nil)
	assert.Error(t, err)
}
