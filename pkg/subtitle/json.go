package subtitle

import (
	"github.com/goccy/go-json"
)

// JSONCoder writes the native schema, which mirrors Cue field for field:
//
//	{"cues":[{"position":1,"startTime":{"hour":0,"minute":0,"second":1,"millisecond":0},...}]}
type JSONCoder struct{}

type jsonTime struct {
	Hour        int `json:"hour"`
	Minute      int `json:"minute"`
	Second      int `json:"second"`
	Millisecond int `json:"millisecond"`
}

type jsonCue struct {
	Identifier string   `json:"identifier,omitempty"`
	Position   int      `json:"position,omitempty"`
	StartTime  jsonTime `json:"startTime"`
	EndTime    jsonTime `json:"endTime"`
	Text       string   `json:"text"`
	Speaker    string   `json:"speaker,omitempty"`
}

type jsonDocument struct {
	Cues []jsonCue `json:"cues"`
}

func toJSONTime(t Time) jsonTime {
	return jsonTime{
		Hour:        t.Hour(),
		Minute:      t.Minute(),
		Second:      t.Second(),
		Millisecond: t.Millisecond(),
	}
}

func (t jsonTime) time() Time {
	return NewTime(t.Hour, t.Minute, t.Second, t.Millisecond)
}

func (JSONCoder) Extension() string { return "json" }

func (JSONCoder) Decode(content string) (Subtitles, error) {
	var doc jsonDocument
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return Subtitles{}, newError(KindInvalidFile, "malformed json", err)
	}
	cues := make([]Cue, len(doc.Cues))
	for i, c := range doc.Cues {
		cues[i] = Cue{
			Identifier: c.Identifier,
			Position:   c.Position,
			StartTime:  c.StartTime.time(),
			EndTime:    c.EndTime.time(),
			Text:       c.Text,
			Speaker:    c.Speaker,
		}
	}
	return New(cues...), nil
}

func (c JSONCoder) Encode(subs Subtitles) (string, error) {
	b, err := c.EncodeBytes(subs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (JSONCoder) EncodeBytes(subs Subtitles) ([]byte, error) {
	doc := jsonDocument{Cues: make([]jsonCue, len(subs.cues))}
	for i, c := range subs.cues {
		doc.Cues[i] = jsonCue{
			Identifier: c.Identifier,
			Position:   c.Position,
			StartTime:  toJSONTime(c.StartTime),
			EndTime:    toJSONTime(c.EndTime),
			Text:       c.Text,
			Speaker:    c.Speaker,
		}
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, newError(KindInvalidFile, "cannot marshal json", err)
	}
	return b, nil
}

// PodcastCoder handles the Podcast Index transcript schema:
//
//	{"version":"1.0.0","segments":[{"speaker":"","startTime":0.5,"endTime":2,"body":""}]}
type PodcastCoder struct{}

const podcastVersion = "1.0.0"

type podcastSegment struct {
	Speaker   string  `json:"speaker"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Body      string  `json:"body"`
}

type podcastDocument struct {
	Version  string           `json:"version"`
	Segments []podcastSegment `json:"segments"`
}

func (PodcastCoder) Extension() string { return "podcast" }

func (PodcastCoder) Decode(content string) (Subtitles, error) {
	var doc podcastDocument
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return Subtitles{}, newError(KindInvalidFile, "malformed podcast transcript", err)
	}
	cues := make([]Cue, len(doc.Segments))
	for i, s := range doc.Segments {
		start := TimeFromSeconds(s.StartTime)
		cues[i] = NewCueWithDuration(start, s.EndTime-s.StartTime, s.Body)
		cues[i].Speaker = s.Speaker
	}
	return New(cues...), nil
}

func (c PodcastCoder) Encode(subs Subtitles) (string, error) {
	b, err := c.EncodeBytes(subs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (PodcastCoder) EncodeBytes(subs Subtitles) ([]byte, error) {
	doc := podcastDocument{
		Version:  podcastVersion,
		Segments: make([]podcastSegment, len(subs.cues)),
	}
	for i, c := range subs.cues {
		doc.Segments[i] = podcastSegment{
			Speaker:   c.Speaker,
			StartTime: c.StartTime.Seconds(),
			EndTime:   c.EndTime.Seconds(),
			Body:      c.Text,
		}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, newError(KindInvalidFile, "cannot marshal podcast transcript", err)
	}
	return b, nil
}
