package deal

import (
	"time"

	"dealdesk-service/internal/domain/deal"
)

const dateLayout = "2006-01-02"

// CountOccurrences counts how many times a recurring deal runs between start
// and end inclusive.
//
// For a weekly schedule every calendar day in the range is matched against
// weekdays. Monthly and yearly schedules step from start one month or one
// year at a time and count a step only when it falls on start's weekday and
// that weekday is selected, so a start date on an unselected weekday yields 0.
func CountOccurrences(start, end time.Time, frequency deal.RecurringFrequency, weekdays []deal.Weekday) int {
	if len(weekdays) == 0 || start.IsZero() || end.IsZero() {
		return 0
	}

	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return 0
	}

	selected := make(map[deal.Weekday]bool, len(weekdays))
	for _, w := range weekdays {
		selected[w] = true
	}

	count := 0
	switch frequency {
	case deal.FrequencyWeek:
		perWeek := 0
		for i := 0; i < 7; i++ {
			if selected[deal.WeekdayOf(start.AddDate(0, 0, i))] {
				perWeek++
			}
		}
		weeks := (daysBetween(start, end) + 1) / 7
		count = weeks * perWeek
		for d := start.AddDate(0, 0, weeks*7); !d.After(end); d = d.AddDate(0, 0, 1) {
			if selected[deal.WeekdayOf(d)] {
				count++
			}
		}
	case deal.FrequencyMonth, deal.FrequencyYear:
		anchor := start.Weekday()
		for d := start; !d.After(end); d = stepFrequency(d, frequency) {
			if d.Weekday() == anchor && selected[deal.WeekdayOf(d)] {
				count++
			}
		}
	}
	return count
}

// CountOccurrencesBetween is CountOccurrences over YYYY-MM-DD dates. An
// unparsable date counts as zero occurrences.
func CountOccurrencesBetween(startDate, endDate string, frequency deal.RecurringFrequency, weekdays []deal.Weekday) int {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return 0
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return 0
	}
	return CountOccurrences(start, end, frequency, weekdays)
}

func stepFrequency(d time.Time, frequency deal.RecurringFrequency) time.Time {
	if frequency == deal.FrequencyYear {
		return d.AddDate(1, 0, 0)
	}
	return d.AddDate(0, 1, 0)
}

// daysBetween counts calendar days from a to b. Unix seconds are used since
// a time.Duration cannot span more than about 292 years.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int((to.Unix() - from.Unix()) / 86400)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
