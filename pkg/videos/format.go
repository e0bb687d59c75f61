package videos

import "fmt"

// FormatCount renders n compactly with K, M or B suffixes and one decimal,
// e.g. 1234 → "1.2K", 3_400_000 → "3.4M". Values below 1000 print as-is.
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1e9)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1e6)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1e3)
	default:
		return fmt.Sprintf("%d", n)
	}
}
