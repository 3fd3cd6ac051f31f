package subtitle

import (
	"fmt"
	"regexp"
	"strings"
)

// WebVTT format
type VTTCoder struct{}

var (
	vttTimeRegex = regexp.MustCompile(
		`(?:(\d*):)?(?:(\d*):)(\d*)[.,](\d{3})\s*-->\s*(?:(\d*):)?(?:(\d*):)(\d*)[.,](\d{3})`,
	)
	vttSpeakerRegex = regexp.MustCompile(`<v[^ >]* ([^>]*)>`)
	vttSpeakerClose = strings.NewReplacer("</v>", "")
	vttSanitizer    = strings.NewReplacer("<", ".", ">", ".")
)

func (VTTCoder) Extension() string { return "vtt" }

type vttLine struct {
	num  int
	text string
}

func (VTTCoder) Decode(content string) (Subtitles, error) {
	lines := splitLines(content)
	if len(lines) == 0 || !strings.Contains(lines[0], "WEBVTT") {
		return Subtitles{}, errAtLine(KindInvalidFile, 1, "missing WEBVTT header")
	}

	var cues []Cue
	for _, section := range vttSections(lines) {
		first := section[0].text
		if strings.Contains(first, "WEBVTT") ||
			strings.HasPrefix(first, "NOTE") ||
			strings.HasPrefix(first, "STYLE") ||
			strings.HasPrefix(first, "REGION") {
			continue
		}

		var cue Cue
		next := 0
		if start, end, ok := parseVTTTimeLine(first); ok {
			cue.StartTime, cue.EndTime = start, end
			next = 1
		} else {
			cue.Identifier = first
			if len(section) < 2 {
				// identifier with no timing, nothing to place on the timeline
				continue
			}
			start, end, ok := parseVTTTimeLine(section[1].text)
			if !ok {
				return Subtitles{}, errAtLine(KindInvalidTime, section[1].num, fmt.Sprintf("%q is not a time range", section[1].text))
			}
			cue.StartTime, cue.EndTime = start, end
			next = 2
		}

		textLines := make([]string, 0, len(section)-next)
		for _, l := range section[next:] {
			textLines = append(textLines, l.text)
		}
		cue.Text, cue.Speaker = extractVTTSpeaker(strings.Join(textLines, "\n"))
		cues = append(cues, cue)
	}

	return New(cues...), nil
}

// groups non-blank lines separated by blank ones
func vttSections(lines []string) [][]vttLine {
	var sections [][]vttLine
	var current []vttLine
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			if len(current) > 0 {
				sections = append(sections, current)
				current = nil
			}
			continue
		}
		current = append(current, vttLine{num: i + 1, text: strings.TrimRight(l, " \t")})
	}
	if len(current) > 0 {
		sections = append(sections, current)
	}
	return sections
}

func parseVTTTimeLine(line string) (Time, Time, bool) {
	m := vttTimeRegex.FindStringSubmatch(line)
	if m == nil || m[3] == "" || m[7] == "" {
		return Time{}, Time{}, false
	}
	// hours are optional, an MM:SS form leaves m[1] empty
	start := NewTime(mustAtoi(m[1]), mustAtoi(m[2]), mustAtoi(m[3]), mustAtoi(m[4]))
	end := NewTime(mustAtoi(m[5]), mustAtoi(m[6]), mustAtoi(m[7]), mustAtoi(m[8]))
	return start, end, true
}

// pulls a single <v Speaker> voice tag out of text
func extractVTTSpeaker(text string) (string, string) {
	matches := vttSpeakerRegex.FindAllStringSubmatchIndex(text, -1)
	if len(matches) != 1 {
		return text, ""
	}
	m := matches[0]
	speaker := text[m[2]:m[3]]
	text = text[:m[0]] + text[m[1]:]
	return vttSpeakerClose.Replace(text), strings.TrimSpace(speaker)
}

func (VTTCoder) Encode(subs Subtitles) (string, error) {
	if err := checkNonNegative(subs); err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")
	for _, cue := range subs.cues {
		if cue.Identifier != "" {
			sb.WriteString(cue.Identifier)
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s --> %s\n",
			formatVTTTime(cue.StartTime),
			formatVTTTime(cue.EndTime))
		if cue.Speaker != "" {
			fmt.Fprintf(&sb, "<v %s>", vttSanitizer.Replace(cue.Speaker))
		}
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

func formatVTTTime(t Time) string {
	return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hour(), t.Minute(), t.Second(), t.Millisecond())
}
