package markdown

import (
	"regexp"
	"strings"
)

// tableRE matches a header row, a separator row and at least one data row. Every
// row must end with a newline, so a table on the last line of a file without a
// trailing newline loses its final row.
var tableRE = regexp.MustCompile(`(?m)^\|[^\n]+\|\n\|[-:| ]+\|\n(?:\|[^\n]+\|\n)+`)

func rewriteTables(s string) string {
	return tableRE.ReplaceAllStringFunc(s, renderTable)
}

// renderTable converts one matched block. The separator row is dropped and
// cells are trimmed. No newline follows </table>.
func renderTable(block string) string {
	lines := strings.Split(block, "\n")
	if len(lines) < 3 {
		return block
	}
	var b strings.Builder
	b.WriteString("<table>\n<tr>")
	for _, h := range tableCells(lines[0]) {
		b.WriteString("<th>" + h + "</th>")
	}
	b.WriteString("</tr>\n")
	for _, line := range lines[2:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("<tr>")
		for _, c := range tableCells(line) {
			b.WriteString("<td>" + c + "</td>")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>")
	return b.String()
}

// tableCells splits a row on "|" and drops whatever is outside the first and
// last pipe.
func tableCells(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) < 3 {
		return nil
	}
	parts = parts[1 : len(parts)-1]
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
