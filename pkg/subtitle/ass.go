package subtitle

import (
	"fmt"
	"regexp"
	"strings"
)

// SubStation Alpha (v4.00) and Advanced SubStation Alpha (v4.00+) decoder.
// Both extensions share the same grammar. There is no encoder.
type SSACoder struct {
	ext string
	// StripTags removes {\...} override blocks from dialogue text.
	StripTags bool
}

func NewSSACoder(ext string) SSACoder {
	return SSACoder{ext: ext}
}

var (
	assHeaderRegex      = regexp.MustCompile(`^\s*\[([^\]]+)\]\s*$`)
	assOverrideTagRegex = regexp.MustCompile(`\{[^}]*\}`)
	assLineBreaks       = strings.NewReplacer(`\N`, "\n", `\n`, "\n", `\h`, " ")
)

func (c SSACoder) Extension() string {
	if c.ext == "" {
		return "ass"
	}
	return c.ext
}

// dialogue layout declared by the Format: line of [Events]
type assFormat struct {
	columns   []string
	start     int
	end       int
	text      int
	speaker   int
	numFields int
}

func parseASSFormat(value string) (*assFormat, error) {
	f := &assFormat{start: -1, end: -1, text: -1, speaker: -1}
	for i, col := range strings.Split(value, ",") {
		col = strings.TrimSpace(col)
		f.columns = append(f.columns, col)
		switch strings.ToLower(col) {
		case "start":
			f.start = i
		case "end":
			f.end = i
		case "text":
			f.text = i
		case "name", "actor":
			f.speaker = i
		}
	}
	f.numFields = len(f.columns)
	if f.start < 0 || f.end < 0 || f.text < 0 {
		return nil, fmt.Errorf("format line needs Start, End and Text columns, got %v", f.columns)
	}
	return f, nil
}

func (c SSACoder) Decode(content string) (Subtitles, error) {
	var cues []Cue
	var format *assFormat
	section := ""

	for i, line := range splitLines(content) {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			section = ""
			continue
		}
		if m := assHeaderRegex.FindStringSubmatch(trimmed); m != nil {
			section = strings.TrimSpace(m[1])
			continue
		}
		if strings.HasPrefix(trimmed, ";") {
			continue
		}

		key, value, ok := strings.Cut(trimmed, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if key == "ScriptType" && !strings.HasPrefix(strings.ToLower(value), "v4.00") {
			return Subtitles{}, errAtLine(KindInvalidFile, lineNum, fmt.Sprintf("unsupported script type %q", value))
		}
		if !strings.EqualFold(section, "Events") {
			continue
		}

		switch key {
		case "Format":
			f, err := parseASSFormat(value)
			if err != nil {
				return Subtitles{}, &Error{Kind: KindInvalidFile, Line: lineNum, Index: -1, Cause: err}
			}
			format = f
		case "Dialogue":
			if format == nil {
				return Subtitles{}, errAtLine(KindInvalidFile, lineNum, "dialogue before format line")
			}
			cue, err := c.parseDialogue(format, value, lineNum)
			if err != nil {
				return Subtitles{}, err
			}
			cues = append(cues, cue)
		}
	}

	return New(cues...), nil
}

func (c SSACoder) parseDialogue(f *assFormat, value string, lineNum int) (Cue, error) {
	parts := splitASSFields(value, f.numFields)
	if len(parts) < f.numFields {
		return Cue{}, errAtLine(KindInvalidFile, lineNum,
			fmt.Sprintf("expected %d fields, got %d", f.numFields, len(parts)))
	}

	start, ok := parseCommonTime(strings.TrimSpace(parts[f.start]))
	if !ok {
		return Cue{}, errAtLine(KindInvalidTime, lineNum, fmt.Sprintf("bad start %q", parts[f.start]))
	}
	end, ok := parseCommonTime(strings.TrimSpace(parts[f.end]))
	if !ok {
		return Cue{}, errAtLine(KindInvalidTime, lineNum, fmt.Sprintf("bad end %q", parts[f.end]))
	}

	text := parts[f.text]
	if c.StripTags {
		text = assOverrideTagRegex.ReplaceAllString(text, "")
	}
	cue := Cue{
		StartTime: start,
		EndTime:   end,
		Text:      strings.TrimSpace(assLineBreaks.Replace(text)),
	}
	if f.speaker >= 0 {
		cue.Speaker = strings.TrimSpace(parts[f.speaker])
	}
	return cue, nil
}

// splits into at most numFields parts; the last part keeps its commas
func splitASSFields(content string, numFields int) []string {
	if numFields <= 0 {
		return nil
	}
	return strings.SplitN(content, ",", numFields)
}
