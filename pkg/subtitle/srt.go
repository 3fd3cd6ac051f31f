package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SubRip format
type SRTCoder struct{}

var srtTimeRegex = regexp.MustCompile(
	`^(\d+):(\d{1,2}):(\d{1,2}),(\d{3})\s*-->\s*(\d+):(\d{1,2}):(\d{1,2}),(\d{3})`,
)

func (SRTCoder) Extension() string { return "srt" }

type srtState int

const (
	srtBlank srtState = iota
	srtPosition
	srtText
)

func (SRTCoder) Decode(content string) (Subtitles, error) {
	var cues []Cue
	var current *Cue
	var textLines []string
	state := srtBlank

	flush := func() {
		current.Text = strings.Join(textLines, "\n")
		cues = append(cues, *current)
		current = nil
		textLines = nil
	}

	lines := splitLines(content)
	for i, raw := range lines {
		lineNum := i + 1
		line := strings.TrimSpace(raw)

		if line == "" {
			switch state {
			case srtBlank:
			case srtText:
				// text may legitimately be empty
				flush()
				state = srtBlank
			default:
				return Subtitles{}, errAtLine(KindInvalidFile, lineNum, "blank line inside cue header")
			}
			continue
		}

		switch state {
		case srtBlank:
			position, err := strconv.Atoi(line)
			if err != nil {
				return Subtitles{}, errAtLine(KindInvalidPosition, lineNum, fmt.Sprintf("%q is not a cue number", line))
			}
			current = &Cue{Position: position}
			state = srtPosition
		case srtPosition:
			start, end, err := parseSRTTimeLine(line, lineNum)
			if err != nil {
				return Subtitles{}, err
			}
			current.StartTime = start
			current.EndTime = end
			state = srtText
		case srtText:
			textLines = append(textLines, strings.TrimRight(raw, " \t"))
		}
	}

	switch state {
	case srtText:
		flush()
	case srtPosition:
		return Subtitles{}, errAtLine(KindUnexpectedEOF, len(lines), "cue has no time line")
	}

	return New(cues...), nil
}

func parseSRTTimeLine(line string, lineNum int) (Time, Time, error) {
	m := srtTimeRegex.FindStringSubmatch(line)
	if m == nil {
		return Time{}, Time{}, errAtLine(KindInvalidTime, lineNum, fmt.Sprintf("%q is not a time range", line))
	}
	start := NewTime(mustAtoi(m[1]), mustAtoi(m[2]), mustAtoi(m[3]), mustAtoi(m[4]))
	end := NewTime(mustAtoi(m[5]), mustAtoi(m[6]), mustAtoi(m[7]), mustAtoi(m[8]))
	if start.After(end) {
		return Time{}, Time{}, errAtLine(KindStartAfterEnd, lineNum, "")
	}
	return start, end, nil
}

// Encode numbers cues from their stored position. A cue without a position
// takes the previous number plus one.
func (SRTCoder) Encode(subs Subtitles) (string, error) {
	if err := checkNonNegative(subs); err != nil {
		return "", err
	}
	var sb strings.Builder
	position := 0
	for i, cue := range subs.cues {
		if i > 0 {
			sb.WriteString("\n")
		}
		if cue.Position != 0 {
			position = cue.Position
		} else {
			position++
		}
		fmt.Fprintf(&sb, "%d\n", position)
		fmt.Fprintf(&sb, "%s --> %s\n",
			formatSRTTime(cue.StartTime),
			formatSRTTime(cue.EndTime))
		sb.WriteString(cue.Text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func formatSRTTime(t Time) string {
	return fmt.Sprintf("%02d:%02d:%02d,%03d", t.Hour(), t.Minute(), t.Second(), t.Millisecond())
}
