package typing

// SharedPrefixLength returns the number of leading runes current and next
// have in common.
func SharedPrefixLength(current, next string) int {
	a := []rune(current)
	b := []rune(next)

	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
