package models

import (
	"fmt"
	"time"
)

// TimeAgo renders the difference between now and t as a coarse, human
// readable phrase ("24 seconds ago", "a minute ago", "3 weeks ago"). It is
// used when displaying favorites, which are ordered most-recent-first.
func TimeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}

	const day = 24 * time.Hour

	switch {
	case diff < time.Minute:
		return fmt.Sprintf("%d seconds ago", int(diff.Seconds()))
	case diff < 2*time.Minute:
		return "a minute ago"
	case diff < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(diff.Minutes()))
	case diff < 2*time.Hour:
		return "an hour ago"
	case diff < day:
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	case diff < 2*day:
		return "a day ago"
	case diff < 7*day:
		return fmt.Sprintf("%d days ago", int(diff/day))
	case diff < 14*day:
		return "a week ago"
	case diff < 30*day:
		return fmt.Sprintf("%d weeks ago", int(diff/day)/7)
	case diff < 60*day:
		return "a month ago"
	case diff < 365*day:
		return fmt.Sprintf("%d months ago", int(diff/day)/30)
	case diff < 730*day:
		return "a year ago"
	default:
		return fmt.Sprintf("%d years ago", int(diff/day)/365)
	}
}
