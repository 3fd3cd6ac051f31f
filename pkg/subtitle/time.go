package subtitle

import (
	"fmt"
	"math"
	"time"
)

// Time is a point on a subtitle timeline, stored as total seconds.
//
// Hour, minute, second and millisecond are derived from the seconds value
// rounded to the nearest millisecond, so two times that differ by less than
// half a millisecond are equal and sort together.
type Time struct {
	seconds float64
}

func NewTime(hour, minute, second, millisecond int) Time {
	return Time{
		seconds: float64(hour)*3600 +
			float64(minute)*60 +
			float64(second) +
			float64(millisecond)/1000,
	}
}

func TimeFromSeconds(seconds float64) Time {
	return Time{seconds: seconds}
}

func TimeFromDuration(d time.Duration) Time {
	return Time{seconds: d.Seconds()}
}

func (t Time) Seconds() float64 {
	return t.seconds
}

// total milliseconds, rounded
func (t Time) Milliseconds() int64 {
	return int64(math.Round(t.seconds * 1000))
}

func (t Time) Duration() time.Duration {
	return time.Duration(t.Milliseconds()) * time.Millisecond
}

func (t Time) Hour() int {
	return int(t.Milliseconds() / 3_600_000)
}

func (t Time) Minute() int {
	return int(t.Milliseconds() / 60_000 % 60)
}

func (t Time) Second() int {
	return int(t.Milliseconds() / 1000 % 60)
}

func (t Time) Millisecond() int {
	return int(t.Milliseconds() % 1000)
}

func (t Time) Equal(u Time) bool {
	return t.Milliseconds() == u.Milliseconds()
}

// Compare returns -1, 0 or +1 depending on whether t is before, equal to or
// after u at millisecond precision.
func (t Time) Compare(u Time) int {
	a, b := t.Milliseconds(), u.Milliseconds()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (t Time) Before(u Time) bool {
	return t.Compare(u) < 0
}

func (t Time) After(u Time) bool {
	return t.Compare(u) > 0
}

// Add returns t shifted by a signed number of seconds.
func (t Time) Add(seconds float64) Time {
	return Time{seconds: t.seconds + seconds}
}

func (t Time) IsNegative() bool {
	return t.Milliseconds() < 0
}

// String formats t as HH:MM:SS.mmm.
func (t Time) String() string {
	ms := t.Milliseconds()
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	return fmt.Sprintf("%s%02d:%02d:%02d.%03d",
		sign,
		ms/3_600_000,
		ms/60_000%60,
		ms/1000%60,
		ms%1000,
	)
}

func maxTime(a, b Time) Time {
	if a.seconds < b.seconds {
		return b
	}
	return a
}
