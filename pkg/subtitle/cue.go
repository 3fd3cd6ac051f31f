package subtitle

// Cue is a single timed piece of text.
//
// A zero Position means the cue carries no position. Cues are not validated
// on construction: inverted and zero-length cues are representable and can be
// found later with Subtitles.IndexesOfInvalidCues.
type Cue struct {
	Identifier string
	Position   int
	StartTime  Time
	EndTime    Time
	Text       string
	Speaker    string
}

func NewCue(start, end Time, text string) Cue {
	return Cue{StartTime: start, EndTime: end, Text: text}
}

func NewCueWithDuration(start Time, seconds float64, text string) Cue {
	return Cue{StartTime: start, EndTime: start.Add(seconds), Text: text}
}

// duration in seconds, negative for inverted cues
func (c Cue) Duration() float64 {
	return c.EndTime.Seconds() - c.StartTime.Seconds()
}

// Contains reports whether seconds falls inside [start, end].
func (c Cue) Contains(seconds float64) bool {
	return c.StartTime.Seconds() <= seconds && seconds <= c.EndTime.Seconds()
}

func (c Cue) IsValidTime() bool {
	return c.StartTime.Seconds() >= 0 && c.Duration() > 0
}

func (c Cue) IsZeroLength() bool {
	return c.StartTime.Equal(c.EndTime)
}

// TimeShifting moves the whole cue by a signed number of seconds. The start
// never goes below zero and the end never goes below the start.
func (c Cue) TimeShifting(by float64) Cue {
	start := maxTime(c.StartTime.Add(by), Time{})
	end := maxTime(c.EndTime.Add(by), start)
	c.StartTime = start
	c.EndTime = end
	return c
}

// Inserting models inserting (or, with a negative duration, removing) a span
// of media at a point on the timeline. A cue containing the point is stretched,
// a cue starting after the point is moved, any other cue is left alone.
func (c Cue) Inserting(duration, at float64) Cue {
	switch {
	case c.Contains(at):
		c.EndTime = maxTime(c.EndTime.Add(duration), c.StartTime)
		return c
	case c.StartTime.Seconds() > at:
		return c.TimeShifting(duration)
	default:
		return c
	}
}

func (c Cue) Equal(o Cue) bool {
	return c.Identifier == o.Identifier &&
		c.Position == o.Position &&
		c.StartTime.Equal(o.StartTime) &&
		c.EndTime.Equal(o.EndTime) &&
		c.Text == o.Text &&
		c.Speaker == o.Speaker
}
