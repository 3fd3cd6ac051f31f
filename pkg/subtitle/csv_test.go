package subtitle

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCSVDecodeDefaultProfile(t *testing.T) {
	content := `No.,Timecode In,Timecode Out,Subtitle
1, 91216, 93093, text
2,00:01:40:500,00:01:42:000,"Hello, world"
3,00:01:43.000,00:01:45.000,"line one
line two"
`
	subs := mustDecode(t, NewCSVCoder(DefaultCSVProfile()), content)
	if subs.Len() != 3 {
		t.Fatalf("expected 3 cues, got %d", subs.Len())
	}

	first := subs.Cue(0)
	if first.Position != 1 || first.Text != "text" {
		t.Errorf("unexpected cue %+v", first)
	}
	assertSeconds(t, "start", first.StartTime, 91.216)
	assertSeconds(t, "end", first.EndTime, 93.093)

	if got := subs.Cue(1).Text; got != "Hello, world" {
		t.Errorf("expected quoted comma kept, got %q", got)
	}
	assertSeconds(t, "cue 1 start", subs.Cue(1).StartTime, 100.5)
	if got := subs.Cue(2).Text; got != "line one\nline two" {
		t.Errorf("expected multi-line text, got %q", got)
	}
}

func TestCSVSkipsBadRows(t *testing.T) {
	content := `1,00:00:01:000,00:00:02:000,good
2,soon,00:00:04:000,bad start
3,00:00:05:000,00:00:06:000,also good
x,00:00:07:000,00:00:08:000,bad position
`
	core, logs := observer.New(zap.WarnLevel)
	coder := NewCSVCoder(DefaultCSVProfile()).WithLogger(zap.New(core).Sugar())

	subs, warnings, err := coder.DecodeWithWarnings(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subs.Len() != 2 {
		t.Errorf("expected 2 cues, got %d", subs.Len())
	}

	want := []RowWarning{
		{Row: 2, Field: CSVStartTime, Reason: `"soon" is not a time`},
		{Row: 4, Field: CSVPosition, Reason: `"x" is not an integer`},
	}
	if diff := cmp.Diff(want, warnings); diff != "" {
		t.Errorf("warnings (-want +got):\n%s", diff)
	}
	if n := logs.FilterMessage("Skipping csv row").Len(); n != 2 {
		t.Errorf("expected 2 logged warnings, got %d", n)
	}
}

func TestCSVNoUsableRows(t *testing.T) {
	_, err := NewCSVCoder(DefaultCSVProfile()).Decode("1,never,never,x\n")
	if !errors.Is(err, ErrInvalidFile) {
		t.Errorf("expected invalid file, got %v", err)
	}

	subs, err := NewCSVCoder(DefaultCSVProfile()).Decode("")
	if err != nil || !subs.IsEmpty() {
		t.Errorf("expected empty input to decode to no cues, got %v %v", subs.Len(), err)
	}
}

func TestCSVCustomProfile(t *testing.T) {
	profile := CSVProfile{
		Delimiter:      ';',
		Comment:        '#',
		SkipHeaderRows: 1,
		Fields:         []CSVField{CSVSpeaker, CSVStartTimeSeconds, CSVDurationSeconds, CSVIgnore, CSVText},
	}
	content := `who;at;for;notes;what
# a comment line
Alice;1.5;2;x;Hi there
Bob;4;0.25;y;Bye
`
	coder := NewCSVCoder(profile)
	subs := mustDecode(t, coder, content)
	if subs.Len() != 2 {
		t.Fatalf("expected 2 cues, got %d", subs.Len())
	}
	if subs.Cue(0).Speaker != "Alice" || subs.Cue(0).Text != "Hi there" {
		t.Errorf("unexpected cue %+v", subs.Cue(0))
	}
	assertSeconds(t, "end from duration", subs.Cue(0).EndTime, 3.5)
	assertSeconds(t, "end from duration", subs.Cue(1).EndTime, 4.25)

	out := mustEncode(t, coder, subs)
	want := "speaker;startTimeInSeconds;durationInSeconds;ignore;text\n" +
		"Alice;1.500;2.000;;Hi there\n" +
		"Bob;4.000;0.250;;Bye\n"
	if out != want {
		t.Errorf("unexpected output:\n%s", cmp.Diff(want, out))
	}
}

func TestCSVEncodeDefault(t *testing.T) {
	a := NewCue(NewTime(0, 0, 1, 0), NewTime(0, 0, 2, 500), `say "hi", please`)
	a.Position = 1
	b := NewCue(NewTime(1, 0, 0, 0), NewTime(1, 0, 1, 0), "plain")

	coder := NewCSVCoder(DefaultCSVProfile())
	out := mustEncode(t, coder, New(a, b))
	want := "No.,Timecode In,Timecode Out,Subtitle\n" +
		`1,00:00:01:000,00:00:02:500,"say ""hi"", please"` + "\n" +
		"2,01:00:00:000,01:00:01:000,plain\n"
	if out != want {
		t.Errorf("unexpected output:\n%s", cmp.Diff(want, out))
	}

	decoded := mustDecode(t, coder, out)
	if decoded.Len() != 2 || decoded.Cue(0).Text != a.Text {
		t.Errorf("round trip mismatch: %+v", decoded.Cues())
	}
}

func TestCSVProfileValidate(t *testing.T) {
	tests := []struct {
		name   string
		fields []CSVField
		want   string
	}{
		{"no start", []CSVField{CSVEndTime, CSVText}, "start time"},
		{"no end", []CSVField{CSVStartTime, CSVText}, "end time"},
		{"no text", []CSVField{CSVStartTime, CSVEndTime}, "text"},
		{"unknown", []CSVField{"bogus", CSVStartTime, CSVEndTime, CSVText}, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CSVProfile{Fields: tt.fields}.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}

	if err := DefaultCSVProfile().Validate(); err != nil {
		t.Errorf("default profile should be valid: %v", err)
	}
}

func TestParseCSVField(t *testing.T) {
	f, err := ParseCSVField(" StartTimeInSeconds ")
	if err != nil || f != CSVStartTimeSeconds {
		t.Errorf("expected %q, got %q (%v)", CSVStartTimeSeconds, f, err)
	}
	if _, err := ParseCSVField("nope"); err == nil {
		t.Errorf("expected error for unknown field")
	}
}
