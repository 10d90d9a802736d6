/*
Package markdown turns the subset of Markdown used by the documentation set into
HTML fragments.

The default engine is a Pipeline: a fixed, ordered list of regular expression
rewrites. Each stage works on the text produced by the stages before it, so the
order matters. The stages are:

	fences      ```lang ... ``` becomes <pre><code>...</code></pre>
	headings    "# " to "#### " at line start become <h1> to <h4>
	code        `x` becomes <code>x</code>
	bold        **x** becomes <strong>x</strong>
	italic      *x* becomes <em>x</em>
	links       [label](url) becomes <a href="url">label</a>
	rules       a line of three or more "-" becomes <hr>
	bullets     "- x" becomes <li>x</li>, all of them inside a single <ul>
	ordered     "1. x" becomes <li>x</li> (no container)
	tables      pipe tables become <table> with one <th> row
	paragraphs  remaining text lines become <p>...</p>
	emoji       pictographs are wrapped in <span class="emoji">

Fence contents are set aside before any other stage runs and put back after the
last one, so code is copied through untouched.

Some behaviours are kept on purpose even though they look odd. The bullet stage
opens its <ul> before the first bullet of the document and closes it after the
last one, so two lists separated by other text end up in one container. The
italic stage runs after bold and can match asterisks that bold left behind.

Nothing here returns an error: text that matches no stage is left as it is.

Front Matter

A document may start with TOML front matter delimited by "+++" lines:

	+++
	title = "Quick Start"
	nav = "quick"
	+++
	# Quick Start

Use SplitFrontMatter and ParseFrontMatter to read it before conversion.
*/
package markdown

import (
	"fmt"
	"strings"

	"github.com/russross/blackfriday/v2"
)

// Converter turns Markdown text into an HTML fragment.
type Converter interface {
	Convert(src string) string
}

// Names of the available engines.
const (
	EngineRegex       = "regex"
	EngineBlackfriday = "blackfriday"
)

// New returns the Converter for the named engine. An empty name selects the
// regex pipeline.
func New(engine string) (Converter, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineRegex:
		return DefaultPipeline(), nil
	case EngineBlackfriday:
		return Blackfriday{}, nil
	}
	return nil, fmt.Errorf("unknown markdown engine %q", engine)
}

// ToHTML converts src with the default pipeline.
func ToHTML(src string) string {
	return DefaultPipeline().Convert(src)
}

// Blackfriday renders with github.com/russross/blackfriday/v2 instead of the
// regex pipeline. It understands far more Markdown but its output differs in
// detail (ids, escaping, list nesting).
type Blackfriday struct{}

// Convert implements Converter.
func (Blackfriday) Convert(src string) string {
	b := blackfriday.Run([]byte(normalizeNewlines(src)), blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.Footnotes))
	return string(b)
}

// normalizeNewlines rewrites CRLF and lone CR line endings to LF.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
