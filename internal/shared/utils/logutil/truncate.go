package logutil

// TruncateForLog shortens s to at most maxLen runes for logging, appending
// "..." when something was cut. Message content can be long and multi-byte,
// so truncation never splits a rune.
func TruncateForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	n := 0
	for i := range s {
		if n == maxLen {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
