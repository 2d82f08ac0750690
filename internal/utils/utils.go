package utils

// ShortenString cuts s to at most l characters and marks the cut with
// "...". Length is counted in runes so multi byte text is never split
// in the middle of a character. l == 0 disables shortening.
func ShortenString(s string, l int) string {
	if l <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) > l {
		return string(r[:l]) + "..."
	}
	return s
}
