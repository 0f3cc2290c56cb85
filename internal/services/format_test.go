package services

import "testing"

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		miles float64
		want  string
	}{
		{0, "0 miles"},
		{0.2, "0 miles"},
		{0.3, "0.5 mile"},
		{1, "1 mile"},
		{1.2, "1 mile"},
		{1.24, "1 mile"},
		{1.25, "1.5 miles"},
		{1.6, "1.5 miles"},
		{2, "2 miles"},
		{12.74, "12.5 miles"},
		{12.75, "13 miles"},
	}

	for _, tc := range cases {
		if got := FormatDistance(tc.miles); got != tc.want {
			t.Fatalf("FormatDistance(%v): expected %q, got %q", tc.miles, tc.want, got)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0 minutes"},
		{29, "0 minutes"},
		{30, "1 minute"},
		{60, "1 minute"},
		{90, "2 minutes"},
		{3540, "59 minutes"},
		{3600, "1 hour 0 minutes"},
		{3660, "1 hour 1 minute"},
		{7200, "2 hours 0 minutes"},
		{7500, "2 hours 5 minutes"},
		{7260, "2 hours 1 minute"},
	}

	for _, tc := range cases {
		if got := FormatDuration(tc.seconds); got != tc.want {
			t.Fatalf("FormatDuration(%v): expected %q, got %q", tc.seconds, tc.want, got)
		}
	}
}

func TestRoundingHelpers(t *testing.T) {
	if got := RoundMiles(1.3670166); got != 1.5 {
		t.Fatalf("RoundMiles: expected 1.5, got %v", got)
	}
	if got := RoundMinutes(540); got != 9 {
		t.Fatalf("RoundMinutes: expected 9, got %d", got)
	}
	if got := RoundMinutes(89); got != 1 {
		t.Fatalf("RoundMinutes: expected 1, got %d", got)
	}
}
