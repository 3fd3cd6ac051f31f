package subtitle

import (
	"fmt"
	"regexp"
	"strings"
)

// Song lyrics format. Every time tag yields a zero-length cue.
type LRCCoder struct {
	TimeFormat LRCTimeFormat
}

// LRCTimeFormat picks the sub-second precision of written tags.
type LRCTimeFormat int

const (
	// hundredths unless that would lose precision for the tag
	LRCTimeAuto LRCTimeFormat = iota
	// [mm:ss.ff]
	LRCTimeHundredths
	// [mm:ss.fff]
	LRCTimeMilliseconds
)

var lrcTagRegex = regexp.MustCompile(`\[(\d{2}):(\d{2})\.(\d{2,3})\]`)

func (LRCCoder) Extension() string { return "lrc" }

func (LRCCoder) Decode(content string) (Subtitles, error) {
	var cues []Cue
	for _, raw := range splitLines(content) {
		line := strings.TrimSpace(raw)
		matches := lrcTagRegex.FindAllStringSubmatchIndex(line, -1)
		if len(matches) == 0 {
			continue
		}

		times := make([]Time, 0, len(matches))
		for _, m := range matches {
			minutes := mustAtoi(line[m[2]:m[3]])
			seconds := mustAtoi(line[m[4]:m[5]])
			frac := line[m[6]:m[7]]
			ms := mustAtoi(frac)
			if len(frac) == 2 {
				ms *= 10
			}
			times = append(times, NewTime(minutes/60, minutes%60, seconds, ms))
		}

		lyric := strings.TrimSpace(line[matches[len(matches)-1][1]:])
		for _, t := range times {
			cues = append(cues, Cue{StartTime: t, EndTime: t, Text: lyric})
		}
	}
	return New(cues...), nil
}

func (c LRCCoder) Encode(subs Subtitles) (string, error) {
	if err := checkNonNegative(subs); err != nil {
		return "", err
	}
	var sb strings.Builder
	for i, cue := range subs.cues {
		t := cue.StartTime
		minutes := t.Hour()*60 + t.Minute()
		if minutes > 99 {
			return "", errAtIndex(KindTimeTooLarge, i)
		}
		ms := t.Millisecond()
		if c.TimeFormat == LRCTimeMilliseconds || (c.TimeFormat == LRCTimeAuto && ms%10 != 0) {
			fmt.Fprintf(&sb, "[%02d:%02d.%03d]", minutes, t.Second(), ms)
		} else {
			fmt.Fprintf(&sb, "[%02d:%02d.%02d]", minutes, t.Second(), ms/10)
		}
		sb.WriteString(cue.Text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
