package cli

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Remaining renders the time left until deadline the way operators read it:
// whole days when at least one remains, hours otherwise.
func Remaining(deadline, now time.Time) string {
	left := deadline.Sub(now)
	if left < 0 {
		return "overdue"
	}
	if days := int(left.Hours() / 24); days > 0 {
		return fmt.Sprintf("%d days remaining", days)
	}
	return fmt.Sprintf("%d hours remaining", int(left.Hours()))
}

// Truncate shortens s to n runes, marking the cut with "..."
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 3 {
		return string([]rune(s)[:n])
	}
	return string([]rune(s)[:n-3]) + "..."
}

// OnOff renders a preference flag
func OnOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
