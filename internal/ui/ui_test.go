package ui

import (
	"testing"
)

func TestProgressBar(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	cases := []struct {
		percent int
		want    string
	}{
		{0, "░░░░░░░░░░   0%"},
		{33, "███░░░░░░░  33%"},
		{50, "█████░░░░░  50%"},
		{100, "██████████ 100%"},
		{140, "██████████ 100%"},
	}
	for _, tc := range cases {
		if got := ProgressBar(tc.percent, 10); got != tc.want {
			t.Errorf("ProgressBar(%d) = %q, want %q", tc.percent, got, tc.want)
		}
	}
}

func TestFormatDay(t *testing.T) {
	if got := FormatDay("2024-05-02"); got != "Donnerstag, 02.05.2024" {
		t.Fatalf("got %q", got)
	}
	if got := FormatDay("not-a-day"); got != "not-a-day" {
		t.Fatalf("expected invalid keys to pass through, got %q", got)
	}
}

func TestStylesRespectNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if got := Heading("Frühschicht"); got != "Frühschicht" {
		t.Fatalf("expected plain text, got %q", got)
	}
}
