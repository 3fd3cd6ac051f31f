package subtitle

import (
	"fmt"
	"strconv"
	"strings"
)

const DefaultSUBFrameRate = 24.0

// MicroDVD format. Times are frame numbers, converted with FrameRate.
// There is no encoder.
type SUBCoder struct {
	FrameRate float64
}

func NewSUBCoder(frameRate float64) SUBCoder {
	return SUBCoder{FrameRate: frameRate}
}

func (SUBCoder) Extension() string { return "sub" }

func (c SUBCoder) Decode(content string) (Subtitles, error) {
	rate := c.FrameRate
	if rate <= 0 {
		rate = DefaultSUBFrameRate
	}

	var cues []Cue
	first := true
	for i, raw := range splitLines(content) {
		lineNum := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		var startFrame, endFrame float64
		var textLines []string
		for n, component := range strings.Split(line, "|") {
			items := bracketSplit(component)
			if n == 0 {
				if len(items) < 3 {
					return Subtitles{}, errAtLine(KindInvalidFile, lineNum, "expected {start}{end}text")
				}
				var err error
				if startFrame, err = strconv.ParseFloat(items[0], 64); err != nil {
					return Subtitles{}, errAtLine(KindInvalidTime, lineNum, fmt.Sprintf("bad start frame %q", items[0]))
				}
				if endFrame, err = strconv.ParseFloat(items[1], 64); err != nil {
					return Subtitles{}, errAtLine(KindInvalidTime, lineNum, fmt.Sprintf("bad end frame %q", items[1]))
				}
				items = items[2:]
			}
			if len(items) > 0 {
				// style groups come first, the text is whatever follows them
				textLines = append(textLines, items[len(items)-1])
			}
		}

		text := strings.Join(textLines, "\n")
		if first {
			first = false
			// "{1}{1}23.976" declares the frame rate of the file
			if startFrame == 1 && endFrame == 1 {
				if fps, err := strconv.ParseFloat(text, 64); err == nil && fps > 0 {
					rate = fps
					continue
				}
			}
		}
		if text == "" {
			continue
		}

		cues = append(cues, Cue{
			StartTime: TimeFromSeconds(startFrame / rate),
			EndTime:   TimeFromSeconds(endFrame / rate),
			Text:      text,
		})
	}
	return New(cues...), nil
}

// bracketSplit breaks "{a}{b}text" into ["a", "b", "text"], dropping empty
// pieces.
func bracketSplit(s string) []string {
	var out []string
	var current strings.Builder
	for _, r := range s {
		switch r {
		case '{':
		case '}':
			if current.Len() > 0 {
				out = append(out, current.String())
			}
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}
