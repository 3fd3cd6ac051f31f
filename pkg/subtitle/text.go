package subtitle

import "strings"

const bom = "\ufeff"

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// splits on LF, CRLF and lone CR after dropping a leading BOM
func splitLines(content string) []string {
	return strings.Split(lineBreaks.Replace(stripBOM(content)), "\n")
}

func stripBOM(content string) string {
	return strings.TrimPrefix(content, bom)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}

// trims each line, drops empty ones
func compactLines(text string) string {
	lines := splitLines(text)
	kept := lines[:0]
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}
