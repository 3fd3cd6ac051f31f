package subtitle

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var timeEqual = cmp.Comparer(Time.Equal)

func cueAt(start, end float64, text string) Cue {
	return NewCue(TimeFromSeconds(start), TimeFromSeconds(end), text)
}

func assertSeconds(t *testing.T, label string, got Time, want float64) {
	t.Helper()
	if math.Abs(got.Seconds()-want) > 0.0005 {
		t.Errorf("%s: expected %.3fs, got %.3fs", label, want, got.Seconds())
	}
}

func mustDecode(t *testing.T, coder Coder, content string) Subtitles {
	t.Helper()
	subs, err := coder.Decode(content)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return subs
}

func mustEncode(t *testing.T, coder Coder, subs Subtitles) string {
	t.Helper()
	enc, ok := coder.(Encoder)
	if !ok {
		t.Fatalf("%s coder cannot encode", coder.Extension())
	}
	out, err := enc.Encode(subs)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	return out
}
