package analytics

import (
	"fmt"
	"time"
)

// RelativeDate renders a YYYY-MM-DD date relative to now: "Today",
// "Yesterday", "3 days ago", "2 weeks ago", "4 months ago". Strings that do
// not parse as dates are returned unchanged.
func RelativeDate(dateStr string, now time.Time) string {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return dateStr
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(midnight.Sub(date).Hours() / 24)

	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return agoIn(days/7, "week")
	default:
		return agoIn(days/30, "month")
	}
}

func agoIn(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
