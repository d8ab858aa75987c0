package view

import (
	"fmt"
	"time"
)

func moreRowsText(n int) string {
	if n == 1 {
		return "… 1 more row"
	}
	return fmt.Sprintf("… %d more rows", n)
}

// clockText renders d as MM:SS, switching to H:MM:SS past an hour.
func clockText(label string, d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int(d.Seconds())
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%s: %d:%02d:%02d", label, h, m, s)
	}
	return fmt.Sprintf("%s: %02d:%02d", label, m, s)
}
