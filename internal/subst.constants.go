package internal

// Placeholder syntax
const (
	CharDollar     = '$'
	CharOpenBrace  = '{'
	CharCloseBrace = '}'
	CharUnderscore = '_'
	CharNewline    = '\n'

	StrPlaceholderOpen  = "${"
	StrPlaceholderClose = "}"

	// LenPlaceholderOpen is the byte length of "${"
	LenPlaceholderOpen = 2
	// LenPlaceholderDelims is the byte length of "${" plus "}"
	LenPlaceholderDelims = 3
)

// Suggestion limits
const (
	DefaultMaxSuggestions = 3
)

// Error message constants
const (
	ErrMsgDuplicateName = "duplicate placeholder name"
)

// Error format string constants (for Error() methods)
const (
	ErrFmtDuplicate    = "%s %q at %s (first seen at %s)"
	ErrFmtWithPosition = "line %d, column %d"
)

// Log message constants
const (
	LogMsgScannerCreated = "scanner created"
	LogMsgScanStart      = "starting placeholder scan"
	LogMsgScanEnd        = "placeholder scan complete"
	LogMsgScanDuplicate  = "duplicate placeholder rejected"
)

// Log field names
const (
	LogFieldSource       = "source_length"
	LogFieldPlaceholders = "placeholder_count"
	LogFieldName         = "name"
	LogFieldOffset       = "offset"
)
