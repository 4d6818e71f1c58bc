package utils

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"
)

func TestDurationUS(t *testing.T) {
	d := 1234*time.Microsecond + 567*time.Nanosecond
	got := DurationUS(d)
	if math.Abs(got-1234.567) > 0.001 {
		t.Fatalf("want 1234.567µs, got %.3f", got)
	}
}

func TestPrintTimingStats(t *testing.T) {
	var buf bytes.Buffer
	prev := Output
	Output = &buf
	defer func() { Output = prev; Verbose = true }()

	stats := &TimingStats{TotalTime: 10 * time.Second, ForwardBackwardTime: 5 * time.Second}
	PrintTimingStats(stats, 10)
	out := buf.String()
	if !strings.Contains(out, "Forward/backward: 5s (50.0%)") {
		t.Errorf("missing forward/backward line in:\n%s", out)
	}
	if !strings.Contains(out, "Average time per step: 1s") {
		t.Errorf("missing per-step line in:\n%s", out)
	}

	buf.Reset()
	Verbose = false
	PrintTimingStats(stats, 10)
	if buf.Len() != 0 {
		t.Errorf("expected no output when Verbose is false, got %q", buf.String())
	}
}
