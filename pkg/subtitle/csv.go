package subtitle

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// CSVField names what a column holds.
type CSVField string

const (
	CSVIdentifier       CSVField = "identifier"
	CSVPosition         CSVField = "position"
	CSVStartTime        CSVField = "startTime"
	CSVStartTimeSeconds CSVField = "startTimeInSeconds"
	CSVEndTime          CSVField = "endTime"
	CSVEndTimeSeconds   CSVField = "endTimeInSeconds"
	CSVDurationSeconds  CSVField = "durationInSeconds"
	CSVSpeaker          CSVField = "speaker"
	CSVText             CSVField = "text"
	CSVIgnore           CSVField = "ignore"
)

var csvKnownFields = map[CSVField]bool{
	CSVIdentifier: true, CSVPosition: true,
	CSVStartTime: true, CSVStartTimeSeconds: true,
	CSVEndTime: true, CSVEndTimeSeconds: true, CSVDurationSeconds: true,
	CSVSpeaker: true, CSVText: true, CSVIgnore: true,
}

// ParseCSVField accepts a field name case-insensitively.
func ParseCSVField(name string) (CSVField, error) {
	for f := range csvKnownFields {
		if strings.EqualFold(string(f), strings.TrimSpace(name)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown csv field %q", name)
}

// CSVProfile describes the column layout of a CSV subtitle file. The
// quote/escape character is always '"' and is escaped by doubling.
type CSVProfile struct {
	Delimiter      rune
	Comment        rune
	SkipHeaderRows int
	LazyQuotes     bool
	Fields         []CSVField
}

var csvDefaultHeader = []string{"No.", "Timecode In", "Timecode Out", "Subtitle"}

func DefaultCSVProfile() CSVProfile {
	return CSVProfile{
		Delimiter:  ',',
		LazyQuotes: true,
		Fields:     []CSVField{CSVPosition, CSVStartTime, CSVEndTime, CSVText},
	}
}

func (p CSVProfile) isDefaultLayout() bool {
	d := DefaultCSVProfile().Fields
	if len(p.Fields) != len(d) {
		return false
	}
	for i := range d {
		if p.Fields[i] != d[i] {
			return false
		}
	}
	return true
}

func (p CSVProfile) header() []string {
	if p.isDefaultLayout() {
		return csvDefaultHeader
	}
	out := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		out[i] = string(f)
	}
	return out
}

// Validate checks that the profile can place a cue on the timeline.
func (p CSVProfile) Validate() error {
	has := make(map[CSVField]bool)
	for _, f := range p.Fields {
		if !csvKnownFields[f] {
			return fmt.Errorf("unknown csv field %q", f)
		}
		has[f] = true
	}
	if !has[CSVStartTime] && !has[CSVStartTimeSeconds] {
		return errors.New("csv profile needs a start time column")
	}
	if !has[CSVEndTime] && !has[CSVEndTimeSeconds] && !has[CSVDurationSeconds] {
		return errors.New("csv profile needs an end time or duration column")
	}
	if !has[CSVText] {
		return errors.New("csv profile needs a text column")
	}
	return nil
}

// RowWarning records a CSV row that was skipped during decode.
type RowWarning struct {
	Row    int
	Field  CSVField
	Reason string
}

func (w RowWarning) String() string {
	if w.Field != "" {
		return fmt.Sprintf("row %d: %s: %s", w.Row, w.Field, w.Reason)
	}
	return fmt.Sprintf("row %d: %s", w.Row, w.Reason)
}

// CSVCoder reads and writes subtitle rows. Unlike the other coders it
// skips malformed rows instead of failing the whole decode.
type CSVCoder struct {
	Profile CSVProfile
	logger  *zap.SugaredLogger
}

func NewCSVCoder(profile CSVProfile) CSVCoder {
	return CSVCoder{Profile: profile, logger: zap.NewNop().Sugar()}
}

// WithLogger returns a copy that reports skipped rows to logger.
func (c CSVCoder) WithLogger(logger *zap.SugaredLogger) CSVCoder {
	if logger != nil {
		c.logger = logger
	}
	return c
}

func (CSVCoder) Extension() string { return "csv" }

func (c CSVCoder) Decode(content string) (Subtitles, error) {
	subs, _, err := c.DecodeWithWarnings(content)
	return subs, err
}

func (c CSVCoder) newReader(content string) *csv.Reader {
	r := csv.NewReader(strings.NewReader(content))
	if c.Profile.Delimiter != 0 {
		r.Comma = c.Profile.Delimiter
	}
	r.Comment = c.Profile.Comment
	r.LazyQuotes = c.Profile.LazyQuotes
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	return r
}

// DecodeWithWarnings decodes content and also returns the rows it skipped.
func (c CSVCoder) DecodeWithWarnings(content string) (Subtitles, []RowWarning, error) {
	if err := c.Profile.Validate(); err != nil {
		return Subtitles{}, nil, newError(KindInvalidFile, "bad csv profile", err)
	}
	logger := c.logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	r := c.newReader(content)
	var cues []Cue
	var warnings []RowWarning
	skip := c.Profile.SkipHeaderRows
	records := 0

	warn := func(w RowWarning) {
		warnings = append(warnings, w)
		logger.Warnw("Skipping csv row",
			"row", w.Row,
			"field", w.Field,
			"reason", w.Reason,
		)
	}

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return Subtitles{}, warnings, newError(KindInvalidFile, "cannot read csv", err)
			}
			warn(RowWarning{Row: pe.StartLine, Reason: pe.Err.Error()})
			continue
		}
		row, _ := r.FieldPos(0)
		records++

		if skip > 0 {
			skip--
			continue
		}
		if records == 1 && c.isHeader(record) {
			continue
		}

		cue, w, ok := c.parseRow(record, row)
		if !ok {
			warn(w)
			continue
		}
		cues = append(cues, cue)
	}

	if len(cues) == 0 && len(warnings) > 0 {
		return Subtitles{}, warnings, errAtLine(KindInvalidFile, warnings[0].Row, "no usable csv rows")
	}
	return New(cues...), warnings, nil
}

func (c CSVCoder) isHeader(record []string) bool {
	header := c.Profile.header()
	if len(record) < len(header) {
		return false
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(record[i]), h) {
			return false
		}
	}
	return true
}

func (c CSVCoder) parseRow(record []string, row int) (Cue, RowWarning, bool) {
	var cue Cue
	var haveStart, haveEnd bool
	duration := -1.0

	fail := func(f CSVField, reason string) (Cue, RowWarning, bool) {
		return Cue{}, RowWarning{Row: row, Field: f, Reason: reason}, false
	}

	for i, field := range c.Profile.Fields {
		if i >= len(record) {
			if field == CSVIgnore || field == CSVIdentifier || field == CSVSpeaker {
				continue
			}
			return fail(field, "missing column")
		}
		value := strings.TrimSpace(record[i])

		switch field {
		case CSVIdentifier:
			cue.Identifier = value
		case CSVSpeaker:
			cue.Speaker = value
		case CSVText:
			cue.Text = value
		case CSVPosition:
			if value == "" {
				continue
			}
			p, err := strconv.Atoi(value)
			if err != nil {
				return fail(field, fmt.Sprintf("%q is not an integer", value))
			}
			cue.Position = p
		case CSVStartTime, CSVEndTime:
			t, ok := parseCommonTime(value)
			if !ok {
				return fail(field, fmt.Sprintf("%q is not a time", value))
			}
			if field == CSVStartTime {
				cue.StartTime, haveStart = t, true
			} else {
				cue.EndTime, haveEnd = t, true
			}
		case CSVStartTimeSeconds, CSVEndTimeSeconds, CSVDurationSeconds:
			s, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fail(field, fmt.Sprintf("%q is not a number of seconds", value))
			}
			switch field {
			case CSVStartTimeSeconds:
				cue.StartTime, haveStart = TimeFromSeconds(s), true
			case CSVEndTimeSeconds:
				cue.EndTime, haveEnd = TimeFromSeconds(s), true
			default:
				duration = s
			}
		}
	}

	if !haveStart {
		return fail(CSVStartTime, "no start time")
	}
	if !haveEnd {
		if duration < 0 {
			return fail(CSVEndTime, "no end time or duration")
		}
		cue.EndTime = cue.StartTime.Add(duration)
	}
	return cue, RowWarning{}, true
}

func (c CSVCoder) Encode(subs Subtitles) (string, error) {
	if err := c.Profile.Validate(); err != nil {
		return "", newError(KindInvalidFile, "bad csv profile", err)
	}
	if err := checkNonNegative(subs); err != nil {
		return "", err
	}
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if c.Profile.Delimiter != 0 {
		w.Comma = c.Profile.Delimiter
	}

	if err := w.Write(c.Profile.header()); err != nil {
		return "", newError(KindInvalidFile, "cannot write csv", err)
	}
	position := 0
	for _, cue := range subs.cues {
		if cue.Position != 0 {
			position = cue.Position
		} else {
			position++
		}
		row := make([]string, len(c.Profile.Fields))
		for i, f := range c.Profile.Fields {
			switch f {
			case CSVIdentifier:
				row[i] = cue.Identifier
			case CSVPosition:
				row[i] = strconv.Itoa(position)
			case CSVStartTime:
				row[i] = formatCSVTime(cue.StartTime)
			case CSVEndTime:
				row[i] = formatCSVTime(cue.EndTime)
			case CSVStartTimeSeconds:
				row[i] = formatSeconds(cue.StartTime.Seconds())
			case CSVEndTimeSeconds:
				row[i] = formatSeconds(cue.EndTime.Seconds())
			case CSVDurationSeconds:
				row[i] = formatSeconds(cue.Duration())
			case CSVSpeaker:
				row[i] = cue.Speaker
			case CSVText:
				row[i] = cue.Text
			}
		}
		if err := w.Write(row); err != nil {
			return "", newError(KindInvalidFile, "cannot write csv", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", newError(KindInvalidFile, "cannot write csv", err)
	}
	return sb.String(), nil
}

func formatCSVTime(t Time) string {
	return fmt.Sprintf("%02d:%02d:%02d:%03d", t.Hour(), t.Minute(), t.Second(), t.Millisecond())
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}
