package common

// IsStringInSlice returns true if string `str` is found in `slice`.
func IsStringInSlice(str string, slice []string) bool {
	for _, s := range slice {
		if str == s {
			return true
		}
	}
	return false
}

// RemoveSurroundingQuotesIfAny strips one pair of single or double quotes wrapping the whole string.
// Model runtimes sometimes return the caption as "'a dog on a beach'".
func RemoveSurroundingQuotesIfAny(str string) string {
	if len(str) > 2 {
		first, last := str[0], str[len(str)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return str[1 : len(str)-1]
		}
	}
	return str
}
