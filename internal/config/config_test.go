package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mgpai22/subtext/internal/logging"
	"github.com/mgpai22/subtext/pkg/subtitle"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subtext.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("defaults changed (-want +got):\n%s", diff)
	}

	enc, err := c.TextEncoding()
	if err != nil || enc != nil {
		t.Errorf("expected utf-8 (nil) encoding, got %v %v", enc, err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
encoding: windows-1252
sub:
  frame_rate: 25
lrc:
  milliseconds: true
csv:
  delimiter: ";"
  skip_header_rows: 1
  fields: [speaker, startTimeInSeconds, durationInSeconds, text]
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Encoding != "windows-1252" {
		t.Errorf("expected windows-1252, got %q", c.Encoding)
	}
	if c.SUB.FrameRate != 25 {
		t.Errorf("expected frame rate 25, got %v", c.SUB.FrameRate)
	}
	if c.TTML.FrameRate != 30 {
		t.Errorf("expected untouched ttml frame rate 30, got %v", c.TTML.FrameRate)
	}
	if !c.CSV.LazyQuotes {
		t.Errorf("expected lazy_quotes default to survive a partial csv section")
	}

	want := subtitle.CSVProfile{
		Delimiter:      ';',
		SkipHeaderRows: 1,
		LazyQuotes:     true,
		Fields: []subtitle.CSVField{
			subtitle.CSVSpeaker,
			subtitle.CSVStartTimeSeconds,
			subtitle.CSVDurationSeconds,
			subtitle.CSVText,
		},
	}
	if diff := cmp.Diff(want, c.CSVProfile()); diff != "" {
		t.Errorf("csv profile (-want +got):\n%s", diff)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SUBTEXT_ENCODING", "utf-16le")
	t.Setenv("SUBTEXT_FRAME_RATE", "23.976")
	t.Setenv("SUBTEXT_LRC_MILLISECONDS", "1")

	path := writeConfig(t, "encoding: windows-1252\n")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Encoding != "utf-16le" {
		t.Errorf("expected env to win, got %q", c.Encoding)
	}
	if c.SUB.FrameRate != 23.976 {
		t.Errorf("expected 23.976, got %v", c.SUB.FrameRate)
	}
	if !c.LRC.Milliseconds {
		t.Errorf("expected lrc milliseconds from env")
	}
}

func TestLoadMalformedEnv(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SUBTEXT_FRAME_RATE", "24fps"},
		{"SUBTEXT_LRC_MILLISECONDS", "yes please"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			if err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("expected error naming %s, got %v", tt.key, err)
			}
		})
	}
}

func TestNewValidatorRegistersRules(t *testing.T) {
	v := newValidator()
	if err := v.Var("utf-16le", "encoding"); err != nil {
		t.Errorf("expected utf-16le to pass, got %v", err)
	}
	if err := v.Var("words", "csvfield"); err == nil {
		t.Errorf("expected unknown csv field to fail")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown encoding", "encoding: klingon\n", "Encoding"},
		{"zero frame rate", "sub:\n  frame_rate: 0\n", "FrameRate"},
		{"long delimiter", "csv:\n  delimiter: ';;'\n", "Delimiter"},
		{"unknown field", "csv:\n  fields: [startTime, endTime, words]\n", "Fields"},
		{"no text column", "csv:\n  fields: [startTime, endTime]\n", "text column"},
		{"malformed yaml", "sub: [\n", "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestRegistryUsesConfig(t *testing.T) {
	c := Default()
	c.SUB.FrameRate = 10
	c.LRC.Milliseconds = true

	r := c.Registry(logging.Nop())

	subs, err := r.Decode("{20}{30}hello\n", "sub")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := subs.Cue(0).StartTime.Seconds(); got != 2 {
		t.Errorf("expected 2s at 10fps, got %v", got)
	}

	out, err := r.Encode(subtitle.New(subtitle.NewCue(
		subtitle.TimeFromSeconds(1.5),
		subtitle.TimeFromSeconds(1.5),
		"la",
	)), "lrc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "[00:01.500]la\n" {
		t.Errorf("expected millisecond tag, got %q", out)
	}

	if _, err := r.Lookup("dfxp"); err != nil {
		t.Errorf("expected aliases to survive reconfiguration: %v", err)
	}
}
