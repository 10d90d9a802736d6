package markdown

import "strings"

// Tags that open a block which may span several lines, with their closing tag.
var multiLineBlocks = []struct{ open, close string }{
	{"<pre", "</pre>"},
	{"<ul", "</ul>"},
	{"<ol", "</ol>"},
	{"<table", "</table>"},
	{"<div", "</div>"},
	{"<blockquote", "</blockquote>"},
	{"<details", "</details>"},
	{"<section", "</section>"},
}

// Inline tags that may start a line of paragraph text.
var inlineTags = []string{"<strong", "<em", "<code", "<a ", "<span", "<b>", "<i>"}

// rewriteParagraphs wraps plain text lines in <p>. It walks the text line by
// line with one flag: inBlock is set by a line that opens a multi-line block
// without closing it, and cleared by the first later line holding any closing
// tag from multiLineBlocks. Lines inside a block are never wrapped, and neither
// are lines starting with a tag other than an inline one.
func rewriteParagraphs(s string) string {
	lines := strings.Split(s, "\n")
	inBlock := false
	for i, line := range lines {
		t := strings.TrimSpace(line)
		switch {
		case t == "":
		case inBlock:
			if closesBlock(t) {
				inBlock = false
			}
		case opensBlock(t):
			inBlock = !closesBlock(t)
		case t[0] == '<' && !hasAnyPrefix(t, inlineTags):
		default:
			lines[i] = "<p>" + line + "</p>"
		}
	}
	return strings.Join(lines, "\n")
}

func opensBlock(t string) bool {
	for _, b := range multiLineBlocks {
		if strings.HasPrefix(t, b.open) {
			return true
		}
	}
	return false
}

func closesBlock(t string) bool {
	for _, b := range multiLineBlocks {
		if strings.Contains(t, b.close) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
