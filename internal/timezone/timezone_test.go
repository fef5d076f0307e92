package timezone

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		loc   *time.Location
		want  time.Time
	}{
		{
			name:  "rfc3339 with offset",
			input: "2025-12-01T08:30:00+05:30",
			want:  time.Date(2025, 12, 1, 3, 0, 0, 0, time.UTC),
		},
		{
			name:  "offset without colon",
			input: "2025-12-01T08:30:00+0530",
			want:  time.Date(2025, 12, 1, 3, 0, 0, 0, time.UTC),
		},
		{
			name:  "local time read in airport zone",
			input: "2025-12-01T10:00:00",
			loc:   PST,
			want:  time.Date(2025, 12, 1, 18, 0, 0, 0, time.UTC),
		},
		{
			name:  "local time defaults to utc",
			input: "2025-12-01 10:00",
			want:  time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			input: "2025-12-01",
			want:  time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "unix seconds",
			input: "1764577800",
			want:  time.Unix(1764577800, 0),
		},
		{
			name:  "unix millis",
			input: "1764577800000",
			want:  time.Unix(1764577800, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input, tt.loc)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Unparseable(t *testing.T) {
	for _, input := range []string{"", "tomorrow morning", "08:30", "-5"} {
		if _, err := Parse(input, nil); err == nil {
			t.Errorf("Parse(%q) should fail", input)
		}
	}
}

func TestLocationByAirport(t *testing.T) {
	loc, ok := LocationByAirport(" goi ")
	if !ok || loc != IST {
		t.Errorf("GOI = %v, %v", loc, ok)
	}
	if _, ok := LocationByAirport("XXX"); ok {
		t.Error("unknown code should not resolve")
	}
}

func TestClock(t *testing.T) {
	if got := Clock(time.Date(2025, 1, 1, 5, 7, 0, 0, time.UTC)); got != "05:07" {
		t.Errorf("Clock = %q", got)
	}
	if !IsClock("22:55") || IsClock("25:00") || IsClock("8.30") {
		t.Error("IsClock mismatch")
	}
}
