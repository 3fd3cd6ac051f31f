package subtitle

import (
	"slices"
	"sort"
)

// Subtitles is an immutable collection of cues ordered by start time.
//
// Every constructor and transform stable-sorts its cues, so cues sharing a
// start time keep their input order.
type Subtitles struct {
	cues []Cue
}

func New(cues ...Cue) Subtitles {
	sorted := slices.Clone(cues)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})
	return Subtitles{cues: sorted}
}

// copy of the cues in start-time order
func (s Subtitles) Cues() []Cue {
	return slices.Clone(s.cues)
}

func (s Subtitles) Len() int {
	return len(s.cues)
}

func (s Subtitles) Cue(index int) Cue {
	return s.cues[index]
}

func (s Subtitles) IsEmpty() bool {
	return len(s.cues) == 0
}

func (s Subtitles) Equal(o Subtitles) bool {
	return slices.EqualFunc(s.cues, o.cues, Cue.Equal)
}

// FirstCue returns the first cue whose [start, end] contains seconds.
func (s Subtitles) FirstCue(containing float64) (Cue, bool) {
	i, ok := s.FirstCueIndex(containing)
	if !ok {
		return Cue{}, false
	}
	return s.cues[i], true
}

func (s Subtitles) FirstCueIndex(containing float64) (int, bool) {
	for i, c := range s.cues {
		if c.Contains(containing) {
			return i, true
		}
	}
	return 0, false
}

// NextCueIndex returns the index of the cue that will start next when the
// playhead sits between cues. It returns false when seconds falls inside a cue
// or after the last one.
func (s Subtitles) NextCueIndex(seconds float64) (int, bool) {
	if len(s.cues) == 0 {
		return 0, false
	}
	if seconds < s.cues[0].StartTime.Seconds() {
		return 0, true
	}
	for i := 1; i < len(s.cues); i++ {
		if s.cues[i-1].EndTime.Seconds() <= seconds &&
			seconds < s.cues[i].StartTime.Seconds() {
			return i, true
		}
	}
	return 0, false
}

type LocationKind int

const (
	// the point is inside the cue at Index
	InsideCue LocationKind = iota
	// the point is in a gap and the cue at Index starts next
	BeforeCue
)

func (k LocationKind) String() string {
	if k == InsideCue {
		return "inside"
	}
	return "before"
}

// CueLocation describes where a point on the timeline sits relative to cues.
type CueLocation struct {
	Kind  LocationKind
	Index int
}

// CueType classifies seconds as inside a cue or before the next cue. It
// returns false when seconds is past the end of the last cue.
func (s Subtitles) CueType(seconds float64) (CueLocation, bool) {
	if i, ok := s.FirstCueIndex(seconds); ok {
		return CueLocation{Kind: InsideCue, Index: i}, true
	}
	if i, ok := s.NextCueIndex(seconds); ok {
		return CueLocation{Kind: BeforeCue, Index: i}, true
	}
	return CueLocation{}, false
}

// CueIndex returns the index of the first cue carrying the given position.
func (s Subtitles) CueIndex(forPosition int) (int, bool) {
	for i, c := range s.cues {
		if c.Position == forPosition {
			return i, true
		}
	}
	return 0, false
}

func (s Subtitles) IndexesOfInvalidCues() []int {
	var out []int
	for i, c := range s.cues {
		if !c.IsValidTime() {
			out = append(out, i)
		}
	}
	return out
}

func (s Subtitles) ZeroLengthCueIndexes() []int {
	var out []int
	for i, c := range s.cues {
		if c.IsZeroLength() {
			out = append(out, i)
		}
	}
	return out
}

func (s Subtitles) RemovingInvalidCues() Subtitles {
	kept := make([]Cue, 0, len(s.cues))
	for _, c := range s.cues {
		if c.IsValidTime() {
			kept = append(kept, c)
		}
	}
	return Subtitles{cues: kept}
}

// TimeShifting inserts (positive) or removes (negative) a span of time at a
// point on the timeline. See Cue.Inserting.
func (s Subtitles) TimeShifting(by, at float64) Subtitles {
	return s.mapCues(func(c Cue) Cue { return c.Inserting(by, at) })
}

// Shifted moves every cue by the same signed amount.
func (s Subtitles) Shifted(by float64) Subtitles {
	return s.mapCues(func(c Cue) Cue { return c.TimeShifting(by) })
}

func (s Subtitles) mapCues(fn func(Cue) Cue) Subtitles {
	out := make([]Cue, len(s.cues))
	for i, c := range s.cues {
		out[i] = fn(c)
	}
	return New(out...)
}

// PositionSorted returns the cues ordered by position. Cues without a
// position sort as position zero.
func (s Subtitles) PositionSorted() []Cue {
	out := slices.Clone(s.cues)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}

// UniqueSpeakers lists distinct non-empty speakers in order of first
// appearance.
func (s Subtitles) UniqueSpeakers() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range s.cues {
		if c.Speaker == "" {
			continue
		}
		if _, ok := seen[c.Speaker]; ok {
			continue
		}
		seen[c.Speaker] = struct{}{}
		out = append(out, c.Speaker)
	}
	return out
}
