package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// FrontMatter holds data scraped from a Markdown page.
type FrontMatter struct {
	Title string `toml:"title"` // Title of this page
	Nav   string `toml:"nav"`   // Id of the navigation entry to highlight
}

// fmRegexp is the regular expression used to split out front matter.
var fmRegexp = regexp.MustCompile(`(?m)^\s*\+\+\+\s*$`)

// SplitFrontMatter splits the front matter and Markdown content. If there is no
// front matter, fm is nil and r is x.
func SplitFrontMatter(x []byte) (fm, r []byte) {
	subs := fmRegexp.Split(string(x), 3)
	if len(subs) != 3 {
		return nil, x
	}
	if s := strings.TrimSpace(subs[0]); len(s) > 0 {
		return nil, x
	}
	// Only the line break after the closing delimiter goes; indentation of
	// the first body line is content.
	return []byte(strings.TrimSpace(subs[1])), []byte(strings.TrimLeft(subs[2], "\r\n"))
}

// ParseFrontMatter unmarshals front matter returned by SplitFrontMatter. Empty
// input gives an empty FrontMatter.
func ParseFrontMatter(fm []byte) (FrontMatter, error) {
	var front FrontMatter
	if len(fm) == 0 {
		return front, nil
	}
	if err := toml.Unmarshal(fm, &front); err != nil {
		return front, fmt.Errorf("ParseFrontMatter: %w", err)
	}
	return front, nil
}
