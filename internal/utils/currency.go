package utils

// IsCurrencyCode reports whether s looks like an ISO-4217 alphabetic code:
// exactly three ASCII letters. Case is not checked here; callers normalize
// to uppercase before storage.
func IsCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}
