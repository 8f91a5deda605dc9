package scrape

import "strconv"

// Ordinal formats a league rank as its ordinal label: 1 -> "1st", 2 -> "2nd",
// 3 -> "3rd", 11-13 -> "th" regardless of last digit, otherwise by last digit.
func Ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
