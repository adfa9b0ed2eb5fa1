package types

import (
	"testing"
	"time"
)

func TestAddClampedDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	tests := []struct {
		name   string
		start  time.Time
		years  int
		months int
		days   int
		want   time.Time
	}{
		{
			name:   "plain month",
			start:  time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2024, time.April, 10, 9, 30, 0, 0, time.UTC),
		},
		{
			name:   "Jan 31 into leap February",
			start:  time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "Jan 31 into non-leap February",
			start:  time.Date(2023, time.January, 31, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "quarter from Nov 30 crosses the year",
			start:  time.Date(2023, time.November, 30, 0, 0, 0, 0, time.UTC),
			months: 3,
			want:   time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "year from leap day",
			start: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
			years: 1,
			want:  time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "negative months",
			start:  time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
			months: -1,
			want:   time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "negative months across the year",
			start:  time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			months: -2,
			want:   time.Date(2023, time.November, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "days after the month step",
			start:  time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
			months: 1,
			days:   1,
			want:   time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "keeps location",
			start:  time.Date(2024, time.May, 31, 23, 30, 0, 0, ist),
			months: 1,
			want:   time.Date(2024, time.June, 30, 23, 30, 0, 0, ist),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddClampedDate(tt.start, tt.years, tt.months, tt.days)
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if got.Location() != tt.start.Location() {
				t.Errorf("location changed from %v to %v", tt.start.Location(), got.Location())
			}
		})
	}
}

func TestFrequencyAdvance(t *testing.T) {
	due := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		frequency Frequency
		want      time.Time
	}{
		{FrequencyMonthly, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)},
		{FrequencyQuarterly, time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC)},
		{FrequencyYearly, time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.frequency), func(t *testing.T) {
			if got := tt.frequency.Advance(due); !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if err := Frequency("WEEKLY").Validate(); err == nil {
		t.Error("expected WEEKLY to be rejected")
	}
}

func TestDayBounds(t *testing.T) {
	at := time.Date(2024, time.March, 10, 15, 4, 5, 6, time.UTC)

	if got, want := StartOfDay(at), time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("StartOfDay got %v, want %v", got, want)
	}
	if got, want := EndOfDay(at), time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond); !got.Equal(want) {
		t.Errorf("EndOfDay got %v, want %v", got, want)
	}
}
