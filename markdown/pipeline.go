package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// A Stage is one rewrite of the pipeline.
type Stage struct {
	Name    string
	Rewrite func(string) string
}

// Pipeline is the regex engine. Stages run in slice order.
type Pipeline []Stage

// DefaultPipeline returns the stages in their documented order. Fences are
// not a Stage: Convert handles them around the whole run.
func DefaultPipeline() Pipeline {
	return Pipeline{
		{Name: "headings", Rewrite: rewriteHeadings},
		{Name: "code", Rewrite: rewriteInlineCode},
		{Name: "bold", Rewrite: rewriteBold},
		{Name: "italic", Rewrite: rewriteItalic},
		{Name: "links", Rewrite: rewriteLinks},
		{Name: "rules", Rewrite: rewriteRules},
		{Name: "bullets", Rewrite: rewriteBullets},
		{Name: "ordered", Rewrite: rewriteOrdered},
		{Name: "tables", Rewrite: rewriteTables},
		{Name: "paragraphs", Rewrite: rewriteParagraphs},
		{Name: "emoji", Rewrite: rewriteEmoji},
	}
}

// Convert implements Converter.
func (p Pipeline) Convert(src string) string {
	var f fences
	s := f.shield(normalizeNewlines(src))
	for _, st := range p {
		s = st.Rewrite(s)
	}
	return f.restore(s)
}

var (
	fenceRE      = regexp.MustCompile("(?s)```(\\w+)?\\n(.*?)```")
	fenceTokenRE = regexp.MustCompile(`\x{E000}(\d+)\x{E001}`)
	headingREs   = [...]*regexp.Regexp{
		regexp.MustCompile(`(?m)^# (.+)$`),
		regexp.MustCompile(`(?m)^## (.+)$`),
		regexp.MustCompile(`(?m)^### (.+)$`),
		regexp.MustCompile(`(?m)^#### (.+)$`),
	}
	inlineCodeRE = regexp.MustCompile("`([^`]+)`")
	boldRE       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRE     = regexp.MustCompile(`\*(.+?)\*`)
	linkRE       = regexp.MustCompile(`\[([^\]]+)\]\(([^\)]+)\)`)
	ruleRE       = regexp.MustCompile(`(?m)^---+$`)
	bulletRE     = regexp.MustCompile(`(?m)^- (.+)$`)
	orderedRE    = regexp.MustCompile(`(?m)^\d+\. (.+)$`)
)

// Private use runes that delimit a fence token.
const (
	fenceOpen  = '\uE000'
	fenceClose = '\uE001'
)

// fences holds fenced code contents while the other stages run. Each block is
// replaced by <pre><code>TOKEN</code></pre> on a single line, where TOKEN is
// the block index between fenceOpen and fenceClose.
type fences []string

func (f *fences) shield(s string) string {
	locs := fenceRE.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		b.WriteString(s[last:loc[0]])
		fmt.Fprintf(&b, "<pre><code>%c%d%c</code></pre>", fenceOpen, len(*f), fenceClose)
		*f = append(*f, s[loc[4]:loc[5]])
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func (f fences) restore(s string) string {
	if len(f) == 0 {
		return s
	}
	return fenceTokenRE.ReplaceAllStringFunc(s, func(tok string) string {
		i, err := strconv.Atoi(tok[len(string(fenceOpen)) : len(tok)-len(string(fenceClose))])
		if err != nil || i >= len(f) {
			return tok
		}
		return f[i]
	})
}

// rewriteHeadings handles "#" through "####". Each pattern needs a space right
// after its hashes, so "## x" is never taken by the level one pattern.
func rewriteHeadings(s string) string {
	for i, re := range headingREs {
		n := strconv.Itoa(i + 1)
		s = re.ReplaceAllString(s, "<h"+n+">${1}</h"+n+">")
	}
	return s
}

// rewriteInlineCode may span lines; a lone backtick is left alone.
func rewriteInlineCode(s string) string {
	return inlineCodeRE.ReplaceAllString(s, "<code>${1}</code>")
}

func rewriteBold(s string) string {
	return boldRE.ReplaceAllString(s, "<strong>${1}</strong>")
}

// rewriteItalic must run after rewriteBold.
func rewriteItalic(s string) string {
	return italicRE.ReplaceAllString(s, "<em>${1}</em>")
}

func rewriteLinks(s string) string {
	return linkRE.ReplaceAllString(s, `<a href="${2}">${1}</a>`)
}

func rewriteRules(s string) string {
	return ruleRE.ReplaceAllString(s, "<hr>")
}

// rewriteBullets turns "- x" lines into list items and puts one <ul> around
// everything from the first item to the last, wherever they are.
func rewriteBullets(s string) string {
	locs := bulletRE.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for i, loc := range locs {
		b.WriteString(s[last:loc[0]])
		if i == 0 {
			b.WriteString("<ul>")
		}
		b.WriteString("<li>")
		b.WriteString(s[loc[2]:loc[3]])
		b.WriteString("</li>")
		if i == len(locs)-1 {
			b.WriteString("</ul>")
		}
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func rewriteOrdered(s string) string {
	return orderedRE.ReplaceAllString(s, "<li>${1}</li>")
}
