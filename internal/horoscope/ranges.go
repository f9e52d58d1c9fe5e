package horoscope

import (
	"time"

	"github.com/wonny/astroquant/internal/contracts"
)

const (
	dateLayout    = "2006-01-02"
	timeLayout    = "15:04"
	timeSecLayout = "15:04:05"
)

// parseDateRange validates an inclusive YYYY-MM-DD range and returns its start and span in days
func parseDateRange(r contracts.DateRange) (time.Time, int, error) {
	start, err := time.Parse(dateLayout, r.Start)
	if err != nil {
		return time.Time{}, 0, contracts.NewInputError("date_range.start", "invalid date %q, expected YYYY-MM-DD", r.Start)
	}
	end, err := time.Parse(dateLayout, r.End)
	if err != nil {
		return time.Time{}, 0, contracts.NewInputError("date_range.end", "invalid date %q, expected YYYY-MM-DD", r.End)
	}
	if end.Before(start) {
		return time.Time{}, 0, contracts.NewInputError("date_range", "end %s is before start %s", r.End, r.Start)
	}
	return start, int(end.Sub(start).Hours() / 24), nil
}

// parseTimeRange validates an inclusive time-of-day window and returns its
// start and span, both in seconds after midnight
func parseTimeRange(r contracts.TimeRange) (int, int, error) {
	start, err := parseClock(r.Start)
	if err != nil {
		return 0, 0, contracts.NewInputError("time_range.start", "invalid time %q, expected HH:MM or HH:MM:SS", r.Start)
	}
	end, err := parseClock(r.End)
	if err != nil {
		return 0, 0, contracts.NewInputError("time_range.end", "invalid time %q, expected HH:MM or HH:MM:SS", r.End)
	}
	if end < start {
		return 0, 0, contracts.NewInputError("time_range", "end %s is before start %s", r.End, r.Start)
	}
	return start, end - start, nil
}

// parseClock returns seconds after midnight
func parseClock(s string) (int, error) {
	t, err := time.Parse(timeSecLayout, s)
	if err != nil {
		t, err = time.Parse(timeLayout, s)
		if err != nil {
			return 0, err
		}
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}

func formatClock(seconds int) string {
	return time.Date(0, 1, 1, 0, 0, seconds, 0, time.UTC).Format(timeSecLayout)
}
