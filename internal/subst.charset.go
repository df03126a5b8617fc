package internal

// IsLetter reports whether ch is an ASCII letter
func IsLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// IsDigit reports whether ch is an ASCII digit
func IsDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// IsIdentifierChar reports whether ch may appear in a placeholder name
func IsIdentifierChar(ch byte) bool {
	return IsLetter(ch) || IsDigit(ch) || ch == CharUnderscore
}

// IsValueChar reports whether ch may appear in a substituted value
func IsValueChar(ch byte) bool {
	return IsLetter(ch) || IsDigit(ch)
}

// InvalidValueIndex returns the byte index of the first character in value
// that is not a letter or digit, or -1 when the whole value is acceptable.
// The empty string is acceptable.
func InvalidValueIndex(value string) int {
	for i := 0; i < len(value); i++ {
		if !IsValueChar(value[i]) {
			return i
		}
	}
	return -1
}
