package lifecycle

import (
	"time"

	"github.com/deskhub/helpdesk/internal/domain"
)

// DeriveDueAt maps a due option to a concrete deadline, anchored to now.
// It is a pure function of (option, custom, now) and is the only place the
// weekday arithmetic lives; create and edit paths must both call it.
//
// Week options land on end-of-day Sunday: this_week adds (7 - weekday)
// days with Sunday = 0, next_week adds a further seven.
func DeriveDueAt(option domain.DueOption, custom *time.Time, now time.Time) *time.Time {
	switch option {
	case domain.DueOptionToday:
		return ptrTime(endOfDay(now))
	case domain.DueOptionTomorrow:
		return ptrTime(endOfDay(now.AddDate(0, 0, 1)))
	case domain.DueOptionThisWeek:
		return ptrTime(endOfDay(now.AddDate(0, 0, daysToWeekEnd(now))))
	case domain.DueOptionNextWeek:
		return ptrTime(endOfDay(now.AddDate(0, 0, daysToWeekEnd(now)+7)))
	case domain.DueOptionCustom:
		return custom
	}
	return nil
}

func daysToWeekEnd(now time.Time) int {
	return 7 - int(now.Weekday())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
