package subtitle

import (
	"fmt"
	"regexp"
	"strings"
)

// SubViewer format, as exported by YouTube
type SBVCoder struct{}

var sbvTimeRegex = regexp.MustCompile(
	`^(\d+):(\d{1,2}):(\d{1,2})\.(\d{3}),(\d+):(\d{1,2}):(\d{1,2})\.(\d{3})$`,
)

func (SBVCoder) Extension() string { return "sbv" }

func (SBVCoder) Decode(content string) (Subtitles, error) {
	lines := splitLines(content)
	var cues []Cue
	position := 1

	i := 0
	for i < len(lines) {
		for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
			i++
		}
		if i == len(lines) {
			break
		}

		timeLine := strings.TrimSpace(lines[i])
		m := sbvTimeRegex.FindStringSubmatch(timeLine)
		if m == nil {
			return Subtitles{}, errAtLine(KindInvalidTime, i+1, fmt.Sprintf("%q is not a time range", timeLine))
		}
		start := NewTime(mustAtoi(m[1]), mustAtoi(m[2]), mustAtoi(m[3]), mustAtoi(m[4]))
		end := NewTime(mustAtoi(m[5]), mustAtoi(m[6]), mustAtoi(m[7]), mustAtoi(m[8]))
		if start.After(end) {
			return Subtitles{}, errAtLine(KindStartAfterEnd, i+1, "")
		}
		i++

		if i == len(lines) {
			return Subtitles{}, errAtLine(KindUnexpectedEOF, i, "time line without text")
		}

		var textLines []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			textLines = append(textLines, strings.TrimRight(lines[i], " \t"))
			i++
		}
		if len(textLines) == 0 {
			return Subtitles{}, errAtLine(KindInvalidTime, i, "time line without text")
		}

		cues = append(cues, Cue{
			Position:  position,
			StartTime: start,
			EndTime:   end,
			Text:      strings.Join(textLines, "\n"),
		})
		position++
	}

	return New(cues...), nil
}

func (SBVCoder) Encode(subs Subtitles) (string, error) {
	if err := checkNonNegative(subs); err != nil {
		return "", err
	}
	var sb strings.Builder
	for i, cue := range subs.cues {
		if cue.Text == "" {
			return "", errAtIndex(KindMissingText, i)
		}
		fmt.Fprintf(&sb, "%s,%s\n", formatSBVTime(cue.StartTime), formatSBVTime(cue.EndTime))
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

func formatSBVTime(t Time) string {
	return fmt.Sprintf("%d:%02d:%02d.%03d", t.Hour(), t.Minute(), t.Second(), t.Millisecond())
}
