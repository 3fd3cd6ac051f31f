package subtitle

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	ttmlNamespace      = "http://www.w3.org/ns/ttml"
	ttmlParamNamespace = "http://www.w3.org/ns/ttml#parameter"
	xmlNamespace       = "http://www.w3.org/XML/1998/namespace"
)

// namespaces accepted on the root <tt> element; the ttaf1 ones are DFXP
var ttmlRootNamespaces = map[string]bool{
	ttmlNamespace:                     true,
	"http://www.w3.org/2006/10/ttaf1": true,
	"http://www.w3.org/2006/04/ttaf1": true,
}

// Timed Text Markup Language
type TTMLCoder struct {
	// used for frame and tick based times when the document does not
	// declare ttp:frameRate / ttp:tickRate itself
	Timing TimingParams
}

func NewTTMLCoder() TTMLCoder {
	return TTMLCoder{Timing: TimingParams{FrameRate: 30, SubFrameRate: 1, TickRate: 1}}
}

func (TTMLCoder) Extension() string { return "ttml" }

// element with timing attributes collected while walking the body
type ttmlCandidate struct {
	id    string
	begin string
	end   string
	dur   string
	text  strings.Builder
}

type ttmlFrame struct {
	cue *ttmlCandidate
}

func (c TTMLCoder) Decode(content string) (Subtitles, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	dec.Entity = xml.HTMLEntity
	// content is already UTF-8, whatever the declaration says
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }

	timing := c.Timing
	inBody := false
	var stack []ttmlFrame
	var candidates []*ttmlCandidate

	active := func() *ttmlCandidate {
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].cue != nil {
				return stack[i].cue
			}
		}
		return nil
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var se *xml.SyntaxError
			if errors.As(err, &se) {
				line = se.Line
			}
			return Subtitles{}, &Error{Kind: KindInvalidFile, Line: line, Index: -1, Cause: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tt":
				if !ttmlRootNamespaces[t.Name.Space] {
					return Subtitles{}, newError(KindInvalidFile, fmt.Sprintf("unexpected namespace %q", t.Name.Space), nil)
				}
				timing = ttmlTimingFrom(t.Attr, timing)
			case "body":
				inBody = true
			case "p", "span", "div":
				if !inBody {
					continue
				}
				frame := ttmlFrame{}
				if begin := attrValue(t.Attr, "", "begin"); begin != "" {
					frame.cue = &ttmlCandidate{
						id:    attrValue(t.Attr, xmlNamespace, "id"),
						begin: begin,
						end:   attrValue(t.Attr, "", "end"),
						dur:   attrValue(t.Attr, "", "dur"),
					}
				}
				stack = append(stack, frame)
			case "br":
				if cue := active(); cue != nil {
					cue.text.WriteString("\n")
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "body":
				inBody = false
				stack = nil
			case "p", "span", "div":
				if len(stack) == 0 {
					continue
				}
				frame := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if frame.cue != nil {
					candidates = append(candidates, frame.cue)
				}
			}
		case xml.CharData:
			if cue := active(); cue != nil {
				cue.text.Write(t)
			}
		}
	}

	var cues []Cue
	for _, cand := range candidates {
		if cue, ok := cand.resolve(timing); ok {
			cues = append(cues, cue)
		}
	}
	if len(cues) == 0 {
		return Subtitles{}, newError(KindInvalidFile, "document has no timed cues", nil)
	}
	return New(cues...), nil
}

// resolve turns the raw attributes into a cue. Candidates whose begin, or
// both end and dur, cannot be resolved are dropped.
func (cand *ttmlCandidate) resolve(p TimingParams) (Cue, bool) {
	begin, ok := resolveTimeExpression(cand.begin, p)
	if !ok {
		return Cue{}, false
	}
	cue := Cue{
		Identifier: cand.id,
		StartTime:  TimeFromSeconds(begin),
		Text:       compactLines(cand.text.String()),
	}
	if dur, ok := resolveTimeExpression(cand.dur, p); ok {
		cue.EndTime = TimeFromSeconds(begin + dur)
		return cue, true
	}
	if end, ok := resolveTimeExpression(cand.end, p); ok {
		cue.EndTime = TimeFromSeconds(end)
		return cue, true
	}
	return Cue{}, false
}

func resolveTimeExpression(s string, p TimingParams) (float64, bool) {
	if s == "" {
		return 0, false
	}
	expr, err := ParseTimeExpression(s)
	if err != nil {
		return 0, false
	}
	return expr.Seconds(p)
}

func ttmlTimingFrom(attrs []xml.Attr, p TimingParams) TimingParams {
	if v, err := strconv.ParseFloat(attrValue(attrs, ttmlParamNamespace, "frameRate"), 64); err == nil && v > 0 {
		p.FrameRate = v
	}
	if v, err := strconv.ParseFloat(attrValue(attrs, ttmlParamNamespace, "subFrameRate"), 64); err == nil && v > 0 {
		p.SubFrameRate = v
	}
	if v, err := strconv.ParseFloat(attrValue(attrs, ttmlParamNamespace, "tickRate"), 64); err == nil && v > 0 {
		p.TickRate = v
	}
	return p
}

func attrValue(attrs []xml.Attr, space, local string) string {
	for _, a := range attrs {
		if a.Name.Local == local && a.Name.Space == space {
			return a.Value
		}
	}
	return ""
}

const ttmlHeader = `<?xml version="1.0" encoding="UTF-8"?>
<tt xmlns="http://www.w3.org/ns/ttml" xmlns:tts="http://www.w3.org/ns/ttml#styling" xmlns:ttp="http://www.w3.org/ns/ttml#parameter" xml:lang="en" ttp:timeBase="media">
  <body>
    <div>
`

const ttmlFooter = `    </div>
  </body>
</tt>
`

func (TTMLCoder) Encode(subs Subtitles) (string, error) {
	if err := checkNonNegative(subs); err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(ttmlHeader)
	for _, cue := range subs.cues {
		sb.WriteString("      <p")
		if cue.Identifier != "" {
			fmt.Fprintf(&sb, ` xml:id="%s"`, xmlEscape(cue.Identifier))
		}
		fmt.Fprintf(&sb, ` begin="%s" end="%s">`,
			clockTimeOf(cue.StartTime),
			clockTimeOf(cue.EndTime))
		sb.WriteString(strings.ReplaceAll(xmlEscape(cue.Text), "\n", "<br/>"))
		sb.WriteString("</p>\n")
	}
	sb.WriteString(ttmlFooter)
	return sb.String(), nil
}
