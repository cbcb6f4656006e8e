package deal

import (
	"testing"
	"time"

	"dealdesk-service/internal/domain/deal"
)

func TestCountOccurrencesBetween(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		frequency deal.RecurringFrequency
		days      []deal.Weekday
		want      int
	}{
		{"mondays in january 2024", "2024-01-01", "2024-01-31", deal.FrequencyWeek, []deal.Weekday{deal.Monday}, 5},
		{"weekends in january 2024", "2024-01-01", "2024-01-31", deal.FrequencyWeek, []deal.Weekday{deal.Saturday, deal.Sunday}, 8},
		{"every day of a week", "2024-01-01", "2024-01-07", deal.FrequencyWeek, []deal.Weekday{
			deal.Monday, deal.Tuesday, deal.Wednesday, deal.Thursday, deal.Friday, deal.Saturday, deal.Sunday,
		}, 7},
		{"single day range", "2024-01-01", "2024-01-01", deal.FrequencyWeek, []deal.Weekday{deal.Monday}, 1},
		{"no days selected", "2024-01-01", "2024-01-31", deal.FrequencyWeek, nil, 0},
		{"end before start", "2024-02-01", "2024-01-01", deal.FrequencyWeek, []deal.Weekday{deal.Monday}, 0},
		{"monthly with unselected start weekday", "2024-01-02", "2024-04-02", deal.FrequencyMonth, []deal.Weekday{deal.Monday}, 0},
		// 2024-01-01 Monday steps to Feb 1 (Thu), Mar 1 (Fri), Apr 1 (Mon).
		{"monthly counts steps on start weekday", "2024-01-01", "2024-04-30", deal.FrequencyMonth, []deal.Weekday{deal.Monday}, 2},
		// 2024-01-01 Monday, 2029-01-01 Monday.
		{"yearly", "2024-01-01", "2029-12-31", deal.FrequencyYear, []deal.Weekday{deal.Monday}, 2},
		{"unknown frequency", "2024-01-01", "2024-01-31", deal.RecurringFrequency("day"), []deal.Weekday{deal.Monday}, 0},
		{"unparsable date", "01/01/2024", "2024-01-31", deal.FrequencyWeek, []deal.Weekday{deal.Monday}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountOccurrencesBetween(tt.start, tt.end, tt.frequency, tt.days); got != tt.want {
				t.Errorf("CountOccurrencesBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountOccurrencesMatchesCalendar(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)

	want := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Wednesday {
			want++
		}
	}

	got := CountOccurrences(start, end, deal.FrequencyWeek, []deal.Weekday{deal.Wednesday})
	if got != want {
		t.Fatalf("CountOccurrences() = %d, want %d", got, want)
	}
}

func TestCountOccurrencesIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, time.January, 1, 18, 30, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 8, 9, 0, 0, 0, time.UTC)

	if got := CountOccurrences(start, end, deal.FrequencyWeek, []deal.Weekday{deal.Monday}); got != 2 {
		t.Fatalf("CountOccurrences() = %d, want 2", got)
	}
}

func TestCountOccurrencesLongRanges(t *testing.T) {
	start := time.Date(2020, time.January, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2031, time.May, 17, 0, 0, 0, 0, time.UTC)
	days := []deal.Weekday{deal.Tuesday, deal.Saturday}

	want := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Tuesday || d.Weekday() == time.Saturday {
			want++
		}
	}
	if got := CountOccurrences(start, end, deal.FrequencyWeek, days); got != want {
		t.Fatalf("CountOccurrences() = %d, want %d", got, want)
	}

	// 3,652,059 days starting on a Monday.
	if got := CountOccurrencesBetween("0001-01-01", "9999-12-31", deal.FrequencyWeek, []deal.Weekday{deal.Monday}); got != 521723 {
		t.Fatalf("CountOccurrencesBetween() = %d, want 521723", got)
	}
}
