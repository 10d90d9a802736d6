package markdown

import "regexp"

// emojiRE matches either an emoji that is already wrapped or a bare one.
var emojiRE = regexp.MustCompile(`<span class="emoji">[\x{1F300}-\x{1F9FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]</span>|[\x{1F300}-\x{1F9FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]`)

// rewriteEmoji wraps each emoji rune in its own span. It runs last so the spans
// cannot disturb the patterns of earlier stages.
func rewriteEmoji(s string) string {
	return emojiRE.ReplaceAllStringFunc(s, func(m string) string {
		if m[0] == '<' {
			return m
		}
		return `<span class="emoji">` + m + `</span>`
	})
}
