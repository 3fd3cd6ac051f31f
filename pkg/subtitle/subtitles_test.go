package subtitle

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCueBasics(t *testing.T) {
	c := cueAt(10.5, 10.6, "This is a test")

	if d := c.Duration(); d < 0.0999 || d > 0.1001 {
		t.Errorf("expected duration 0.1, got %v", d)
	}

	contains := []struct {
		at   float64
		want bool
	}{
		{10.4999999, false},
		{10.5, true},
		{10.501, true},
		{10.6, true},
		{10.6001, false},
		{10.601, false},
	}
	for _, tt := range contains {
		if got := c.Contains(tt.at); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}

	built := NewCueWithDuration(TimeFromSeconds(10), 0.25, "hi there")
	assertSeconds(t, "end", built.EndTime, 10.25)
}

func TestCueIsValidTime(t *testing.T) {
	tests := []struct {
		name string
		cue  Cue
		want bool
	}{
		{"normal", cueAt(1, 2, "x"), true},
		{"zero length", cueAt(2, 2, "x"), false},
		{"inverted", cueAt(3, 2, "x"), false},
		{"negative start", cueAt(-1, 2, "x"), false},
		{"starts at zero", cueAt(0, 0.001, "x"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cue.IsValidTime(); got != tt.want {
				t.Errorf("IsValidTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCueTimeShiftingClamps(t *testing.T) {
	c := cueAt(1, 3, "x").TimeShifting(-2)
	assertSeconds(t, "start", c.StartTime, 0)
	assertSeconds(t, "end", c.EndTime, 1)

	c = cueAt(1, 3, "x").TimeShifting(-5)
	assertSeconds(t, "start", c.StartTime, 0)
	assertSeconds(t, "end", c.EndTime, 0)

	orig := cueAt(4, 6, "x")
	if back := orig.TimeShifting(2.5).TimeShifting(-2.5); !back.Equal(orig) {
		t.Errorf("expected shift and unshift to restore %v, got %v", orig, back)
	}
}

func TestCueInserting(t *testing.T) {
	c := cueAt(5, 10, "x")

	stretched := c.Inserting(2, 7)
	assertSeconds(t, "stretched start", stretched.StartTime, 5)
	assertSeconds(t, "stretched end", stretched.EndTime, 12)

	shrunk := c.Inserting(-20, 7)
	assertSeconds(t, "shrunk end", shrunk.EndTime, 5)

	moved := c.Inserting(2, 1)
	assertSeconds(t, "moved start", moved.StartTime, 7)
	assertSeconds(t, "moved end", moved.EndTime, 12)

	untouched := c.Inserting(2, 11)
	if !untouched.Equal(c) {
		t.Errorf("expected cue before insertion point to be unchanged, got %v", untouched)
	}
}

func TestSubtitlesAlwaysSorted(t *testing.T) {
	a := cueAt(1, 2, "a")
	b := cueAt(3, 4, "b")
	c := cueAt(5, 6, "c")
	d := cueAt(3, 3.5, "d")

	subs := New(c, b, a, d)
	want := []Cue{a, b, d, c}
	if diff := cmp.Diff(want, subs.Cues(), timeEqual); diff != "" {
		t.Errorf("cues not sorted by start (-want +got):\n%s", diff)
	}

	// Cues() hands out a copy
	got := subs.Cues()
	got[0].Text = "changed"
	if subs.Cue(0).Text != "a" {
		t.Errorf("mutating Cues() result changed the collection")
	}
}

func TestNextCueAndCueType(t *testing.T) {
	subs := New(
		NewCueWithDuration(TimeFromSeconds(10), 0.25, "hi there 1"),
		NewCueWithDuration(TimeFromSeconds(15), 0, "hi there 2"),
	)

	if _, ok := subs.FirstCue(2); ok {
		t.Errorf("expected no cue at 2s")
	}
	if i, ok := subs.NextCueIndex(2); !ok || i != 0 {
		t.Errorf("expected next cue 0 at 2s, got %d %v", i, ok)
	}
	if _, ok := subs.NextCueIndex(10.1); ok {
		t.Errorf("expected no next cue while inside a cue")
	}
	if i, ok := subs.NextCueIndex(12.3); !ok || i != 1 {
		t.Errorf("expected next cue 1 at 12.3s, got %d %v", i, ok)
	}
	if _, ok := subs.NextCueIndex(20); ok {
		t.Errorf("expected no next cue after the last cue")
	}

	tests := []struct {
		at     float64
		want   CueLocation
		wantOK bool
	}{
		{12.3, CueLocation{Kind: BeforeCue, Index: 1}, true},
		{0, CueLocation{Kind: BeforeCue, Index: 0}, true},
		{10.15, CueLocation{Kind: InsideCue, Index: 0}, true},
		{16, CueLocation{}, false},
	}
	for _, tt := range tests {
		got, ok := subs.CueType(tt.at)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("CueType(%v) = %+v %v, want %+v %v", tt.at, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFirstCueContaining(t *testing.T) {
	subs := New(
		cueAt(10.5, 10.6, "This is a test"),
		cueAt(10.6, 10.7, "This is the second"),
	)
	if _, ok := subs.FirstCue(8); ok {
		t.Errorf("expected no cue at 8s")
	}
	if c, ok := subs.FirstCue(10.501); !ok || c.Text != "This is a test" {
		t.Errorf("expected first cue at 10.501s, got %q", c.Text)
	}
	if c, ok := subs.FirstCue(10.601); !ok || c.Text != "This is the second" {
		t.Errorf("expected second cue at 10.601s, got %q", c.Text)
	}
}

// eight cues laid out like a short product video
func shiftFixture() Subtitles {
	return New(
		cueAt(3.5, 5, "one"),
		cueAt(6, 9, "two"),
		cueAt(11, 14, "three"),
		cueAt(14.5, 18, "four"),
		cueAt(19, 22, "five"),
		cueAt(23, 26, "six"),
		cueAt(27, 30, "seven"),
		cueAt(31, 34, "eight"),
	)
}

func TestTimeShiftingInsert(t *testing.T) {
	subs := shiftFixture()

	all := subs.Shifted(1)
	for i := 0; i < subs.Len(); i++ {
		assertSeconds(t, "start", all.Cue(i).StartTime, subs.Cue(i).StartTime.Seconds()+1)
		assertSeconds(t, "end", all.Cue(i).EndTime, subs.Cue(i).EndTime.Seconds()+1)
	}

	inFirst := subs.TimeShifting(1, 4)
	assertSeconds(t, "first start", inFirst.Cue(0).StartTime, 3.5)
	assertSeconds(t, "first end", inFirst.Cue(0).EndTime, 6)
	for i := 1; i < subs.Len(); i++ {
		assertSeconds(t, "start", inFirst.Cue(i).StartTime, subs.Cue(i).StartTime.Seconds()+1)
	}

	between := subs.TimeShifting(1, 5.5)
	if !between.Cue(0).Equal(subs.Cue(0)) {
		t.Errorf("expected first cue unchanged, got %+v", between.Cue(0))
	}
	for i := 1; i < subs.Len(); i++ {
		assertSeconds(t, "end", between.Cue(i).EndTime, subs.Cue(i).EndTime.Seconds()+1)
	}

	after := subs.TimeShifting(1, 40)
	if !after.Equal(subs) {
		t.Errorf("expected insertion after all cues to change nothing")
	}
}

func TestTimeShiftingBackwards(t *testing.T) {
	subs := shiftFixture()

	back := subs.Shifted(-1.5)
	for i := 0; i < subs.Len(); i++ {
		assertSeconds(t, "start", back.Cue(i).StartTime, subs.Cue(i).StartTime.Seconds()-1.5)
	}
	if n := back.RemovingInvalidCues().Len(); n != 8 {
		t.Errorf("expected 8 valid cues, got %d", n)
	}

	clamped := subs.TimeShifting(-7, 0)
	assertSeconds(t, "cue 0 start", clamped.Cue(0).StartTime, 0)
	assertSeconds(t, "cue 0 end", clamped.Cue(0).EndTime, 0)
	assertSeconds(t, "cue 1 start", clamped.Cue(1).StartTime, 0)
	assertSeconds(t, "cue 1 end", clamped.Cue(1).EndTime, 2)
	assertSeconds(t, "cue 2 start", clamped.Cue(2).StartTime, 4)
	assertSeconds(t, "cue 2 end", clamped.Cue(2).EndTime, 7)

	if diff := cmp.Diff([]int{0}, clamped.IndexesOfInvalidCues()); diff != "" {
		t.Errorf("invalid cue indexes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0}, clamped.ZeroLengthCueIndexes()); diff != "" {
		t.Errorf("zero length indexes (-want +got):\n%s", diff)
	}
	if n := clamped.RemovingInvalidCues().Len(); n != 7 {
		t.Errorf("expected 7 valid cues, got %d", n)
	}

	removed := subs.TimeShifting(-1, 13)
	want := []float64{3.5, 5, 6, 9, 11, 13, 13.5, 17}
	for i := 0; i < 4; i++ {
		assertSeconds(t, "start", removed.Cue(i).StartTime, want[i*2])
		assertSeconds(t, "end", removed.Cue(i).EndTime, want[i*2+1])
	}
}

func TestShiftRoundTrip(t *testing.T) {
	subs := shiftFixture()
	if back := subs.Shifted(2.25).Shifted(-2.25); !back.Equal(subs) {
		t.Errorf("expected shifting forward and back to restore the track")
	}
}

func TestPositionsAndSpeakers(t *testing.T) {
	a := cueAt(1, 2, "a")
	a.Position = 3
	a.Speaker = "Ann"
	b := cueAt(2, 3, "b")
	b.Position = 1
	b.Speaker = "Bob"
	c := cueAt(3, 4, "c")
	c.Position = 2
	c.Speaker = "Ann"

	subs := New(a, b, c)

	sorted := subs.PositionSorted()
	var texts []string
	for _, cue := range sorted {
		texts = append(texts, cue.Text)
	}
	if diff := cmp.Diff([]string{"b", "c", "a"}, texts); diff != "" {
		t.Errorf("position order (-want +got):\n%s", diff)
	}
	if subs.Cue(0).Text != "a" {
		t.Errorf("PositionSorted must not reorder the collection")
	}

	if i, ok := subs.CueIndex(2); !ok || i != 2 {
		t.Errorf("expected position 2 at index 2, got %d %v", i, ok)
	}
	if _, ok := subs.CueIndex(9); ok {
		t.Errorf("expected no cue with position 9")
	}

	if diff := cmp.Diff([]string{"Ann", "Bob"}, subs.UniqueSpeakers()); diff != "" {
		t.Errorf("speakers (-want +got):\n%s", diff)
	}
}
