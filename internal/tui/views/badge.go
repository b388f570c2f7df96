package views

import (
	"strconv"

	"github.com/matheus3301/mchat/internal/render"
)

// compactBadge is the unread badge for the collapsed sidebar, capped at 9+.
func compactBadge(n int) string {
	switch {
	case n <= 0:
		return ""
	case n > 9:
		return "9+"
	default:
		return strconv.Itoa(n)
	}
}

// badge picks the full or compact unread badge.
func badge(n int, collapsed bool) string {
	if collapsed {
		return compactBadge(n)
	}
	return render.UnreadBadge(n)
}
