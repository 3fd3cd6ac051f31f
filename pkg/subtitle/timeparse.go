package subtitle

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var commonTimeRegex = regexp.MustCompile(
	`^(\d+):(\d{1,2}):(\d{1,2})[,.:](\d{2,3})$`,
)

// ParseTime parses the time grammar shared by the CSV and SSA coders:
// a bare integer is milliseconds, otherwise H+:MM:SS followed by one of
// ',', '.' or ':' and three digits of milliseconds or two digits of
// hundredths.
func ParseTime(s string) (Time, error) {
	t, ok := parseCommonTime(strings.TrimSpace(s))
	if !ok {
		return Time{}, newError(KindInvalidTime, fmt.Sprintf("cannot parse %q", s), nil)
	}
	return t, nil
}

func parseCommonTime(s string) (Time, bool) {
	if ms, err := strconv.Atoi(s); err == nil {
		return TimeFromSeconds(float64(ms) / 1000), true
	}
	m := commonTimeRegex.FindStringSubmatch(s)
	if m == nil {
		return Time{}, false
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	frac, _ := strconv.Atoi(m[4])
	if len(m[4]) == 2 {
		frac *= 10
	}
	return NewTime(h, mins, sec, frac), true
}

// atoi for regex captures that are already known to be digits
func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// TimingParams resolves frame and tick based TTML expressions. Zero rates
// leave such expressions unresolved.
type TimingParams struct {
	FrameRate    float64
	SubFrameRate float64
	TickRate     float64
}

// TimeExpression is a TTML timing value, either a ClockTime or an
// OffsetTime.
type TimeExpression interface {
	fmt.Stringer
	// Seconds returns the expression in seconds, or false when it uses
	// frames or ticks and p carries no matching rate.
	Seconds(p TimingParams) (float64, bool)
}

// ClockTime is HH:MM:SS with either a decimal fraction or a frame count.
type ClockTime struct {
	Hour, Minute, Second int
	// digits after the '.', kept verbatim so "003" stays distinct from "3"
	Fraction  string
	Frames    int
	SubFrames int
	HasFrames bool
}

type Metric string

const (
	MetricHours        Metric = "h"
	MetricMinutes      Metric = "m"
	MetricSeconds      Metric = "s"
	MetricMilliseconds Metric = "ms"
	MetricFrames       Metric = "f"
	MetricTicks        Metric = "t"
)

// OffsetTime is a number followed by a metric, e.g. 5.5ms or 12s.
type OffsetTime struct {
	Value  float64
	Metric Metric
}

var (
	clockTimeRegex = regexp.MustCompile(
		`^(\d{2,}):(\d{2}):(\d{2})(?:\.(\d+)|:(\d{2,})(?:\.(\d+))?)?$`,
	)
	offsetTimeRegex = regexp.MustCompile(`^(\d+(?:\.\d+)?)(ms|h|m|s|f|t)$`)
)

func ParseTimeExpression(s string) (TimeExpression, error) {
	s = strings.TrimSpace(s)
	if m := clockTimeRegex.FindStringSubmatch(s); m != nil {
		c := ClockTime{
			Hour:     mustAtoi(m[1]),
			Minute:   mustAtoi(m[2]),
			Second:   mustAtoi(m[3]),
			Fraction: m[4],
		}
		if m[5] != "" {
			c.HasFrames = true
			c.Frames = mustAtoi(m[5])
			c.SubFrames = mustAtoi(m[6])
		}
		return c, nil
	}
	if m := offsetTimeRegex.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, newError(KindInvalidTime, fmt.Sprintf("cannot parse %q", s), err)
		}
		return OffsetTime{Value: v, Metric: Metric(m[2])}, nil
	}
	return nil, newError(KindInvalidTime, fmt.Sprintf("cannot parse %q", s), nil)
}

func (c ClockTime) String() string {
	out := fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
	switch {
	case c.Fraction != "":
		out += "." + c.Fraction
	case c.HasFrames:
		out += fmt.Sprintf(":%02d", c.Frames)
		if c.SubFrames != 0 {
			out += fmt.Sprintf(".%d", c.SubFrames)
		}
	}
	return out
}

func (c ClockTime) Seconds(p TimingParams) (float64, bool) {
	total := float64(c.Hour)*3600 + float64(c.Minute)*60 + float64(c.Second)
	if c.Fraction != "" {
		f, _ := strconv.ParseFloat("0."+c.Fraction, 64)
		total += f
	}
	if c.HasFrames {
		if p.FrameRate <= 0 {
			return 0, false
		}
		frames := float64(c.Frames)
		if c.SubFrames != 0 && p.SubFrameRate > 0 {
			frames += float64(c.SubFrames) / p.SubFrameRate
		}
		total += frames / p.FrameRate
	}
	return total, true
}

func (o OffsetTime) String() string {
	v := math.Round(o.Value*1000) / 1000
	return strconv.FormatFloat(v, 'f', -1, 64) + string(o.Metric)
}

func (o OffsetTime) Seconds(p TimingParams) (float64, bool) {
	switch o.Metric {
	case MetricHours:
		return o.Value * 3600, true
	case MetricMinutes:
		return o.Value * 60, true
	case MetricSeconds:
		return o.Value, true
	case MetricMilliseconds:
		return o.Value / 1000, true
	case MetricFrames:
		if p.FrameRate <= 0 {
			return 0, false
		}
		return o.Value / p.FrameRate, true
	case MetricTicks:
		if p.TickRate <= 0 {
			return 0, false
		}
		return o.Value / p.TickRate, true
	}
	return 0, false
}

// clock form used when writing TTML
func clockTimeOf(t Time) ClockTime {
	return ClockTime{
		Hour:     t.Hour(),
		Minute:   t.Minute(),
		Second:   t.Second(),
		Fraction: fmt.Sprintf("%03d", t.Millisecond()),
	}
}
