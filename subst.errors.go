package subst

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Parse errors
	ErrMsgDuplicatePlaceholder = "duplicate placeholder name"

	// Evaluation errors
	ErrMsgMissingParameter = "missing parameter for placeholder"
	ErrMsgInvalidValue     = "parameter value must contain only letters and digits"

	// Registry errors
	ErrMsgEmptyTemplateName = "template name cannot be empty"
	ErrMsgTemplateExists    = "template already registered"
	ErrMsgTemplateNotFound  = "template not found"
	ErrMsgNoStorage         = "engine has no template storage"

	// Catalog errors
	ErrMsgCatalogDecode        = "failed to decode catalog"
	ErrMsgCatalogFormat        = "unsupported catalog format"
	ErrMsgCatalogEmptyName     = "catalog entry has no name"
	ErrMsgCatalogDuplicateName = "catalog entry name is not unique"
	ErrMsgCatalogInvalidSource = "catalog entry source is invalid"
	ErrFmtCatalogUnknownKey    = "unknown key %q"

	// Config errors
	ErrMsgConfigDecode   = "failed to decode config"
	ErrMsgConfigLogLevel = "invalid log level"
	ErrMsgConfigLogger   = "failed to build logger"
)

// Error code constants for categorization
const (
	ErrCodeParse    = "SUBST_PARSE"
	ErrCodeEval     = "SUBST_EVAL"
	ErrCodeRegistry = "SUBST_REGISTRY"
	ErrCodeNotFound = "SUBST_NOT_FOUND"
	ErrCodeCatalog  = "SUBST_CATALOG"
	ErrCodeConfig   = "SUBST_CONFIG"
)

// Sentinel errors. Every error built by this package wraps one of these,
// so callers can classify failures with errors.Is.
var (
	ErrDuplicatePlaceholder = errors.New("placeholder names must be unique")
	ErrMissingParameter     = errors.New("parameter not supplied")
	ErrInvalidValue         = errors.New("parameter value rejected")
	ErrTemplateNotFound     = errors.New("no such template")
	ErrTemplateExists       = errors.New("template name taken")
	ErrInvalidTemplateName  = errors.New("invalid template name")
	ErrNoStorage            = errors.New("storage not configured")
	ErrInvalidCatalog       = errors.New("invalid catalog")
	ErrInvalidConfig        = errors.New("invalid config")
)

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// NewDuplicatePlaceholderError creates the construction-time error for a
// placeholder name that appears more than once.
func NewDuplicatePlaceholderError(name string, pos, first Position) error {
	return cuserr.WrapStdError(ErrDuplicatePlaceholder, ErrCodeParse, ErrMsgDuplicatePlaceholder).
		WithMetadata(MetaKeyPlaceholder, name).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset)).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyFirstOffset, strconv.Itoa(first.Offset))
}

// NewMissingParameterError creates an evaluation error for placeholders that
// have no supplied value. missing must not be empty; the first entry is
// reported as the offending parameter.
func NewMissingParameterError(missing []string, suggestions []string) error {
	err := cuserr.WrapStdError(ErrMissingParameter, ErrCodeEval, ErrMsgMissingParameter).
		WithMetadata(MetaKeyParameter, missing[0]).
		WithMetadata(MetaKeyMissing, strings.Join(missing, MetaListSeparator))
	if len(suggestions) > 0 {
		err = err.WithMetadata(MetaKeySuggestions, strings.Join(suggestions, MetaListSeparator))
	}
	return err
}

// NewInvalidValueError creates an evaluation error for a value containing a
// character outside letters and digits. index is the byte offset of the
// first rejected character; invalid lists every rejected parameter.
func NewInvalidValueError(name, value string, index int, invalid []string) error {
	return cuserr.WrapStdError(ErrInvalidValue, ErrCodeEval, ErrMsgInvalidValue).
		WithMetadata(MetaKeyParameter, name).
		WithMetadata(MetaKeyValue, value).
		WithMetadata(MetaKeyOffset, strconv.Itoa(index)).
		WithMetadata(MetaKeyInvalid, strings.Join(invalid, MetaListSeparator))
}

// NewEmptyTemplateNameError creates an error for registering a template without a name
func NewEmptyTemplateNameError() error {
	return cuserr.WrapStdError(ErrInvalidTemplateName, ErrCodeRegistry, ErrMsgEmptyTemplateName)
}

// NewTemplateExistsError creates a registration collision error
func NewTemplateExistsError(name string) error {
	return cuserr.WrapStdError(ErrTemplateExists, ErrCodeRegistry, ErrMsgTemplateExists).
		WithMetadata(MetaKeyTemplateName, name)
}

// NewTemplateNotFoundError creates an error for an unknown template name
func NewTemplateNotFoundError(name string) error {
	return cuserr.WrapStdError(ErrTemplateNotFound, ErrCodeNotFound, ErrMsgTemplateNotFound).
		WithMetadata(MetaKeyTemplateName, name)
}

// NewNoStorageError creates an error for storage operations on an engine without storage
func NewNoStorageError() error {
	return cuserr.WrapStdError(ErrNoStorage, ErrCodeRegistry, ErrMsgNoStorage)
}

// NewCatalogError creates a catalog validation error for the entry at index.
// index is -1 for document-level failures.
func NewCatalogError(msg string, index int, name string, cause error) error {
	wrapped := ErrInvalidCatalog
	if cause != nil {
		wrapped = fmt.Errorf("%w: %w", ErrInvalidCatalog, cause)
	}
	err := cuserr.WrapStdError(wrapped, ErrCodeCatalog, msg)
	if index >= 0 {
		err = err.WithMetadata(MetaKeyIndex, strconv.Itoa(index))
	}
	if name != "" {
		err = err.WithMetadata(MetaKeyTemplateName, name)
	}
	return err
}

// NewCatalogFormatError creates an error for an unsupported catalog encoding
func NewCatalogFormatError(format string) error {
	return cuserr.WrapStdError(ErrInvalidCatalog, ErrCodeCatalog, ErrMsgCatalogFormat).
		WithMetadata(MetaKeyFormat, format)
}

// NewConfigError creates a config error for the named field
func NewConfigError(msg string, field string, cause error) error {
	wrapped := ErrInvalidConfig
	if cause != nil {
		wrapped = fmt.Errorf("%w: %w", ErrInvalidConfig, cause)
	}
	err := cuserr.WrapStdError(wrapped, ErrCodeConfig, msg)
	if field != "" {
		err = err.WithMetadata(MetaKeyField, field)
	}
	return err
}

// IsDuplicatePlaceholder reports whether err is a duplicate placeholder error
func IsDuplicatePlaceholder(err error) bool {
	return errors.Is(err, ErrDuplicatePlaceholder)
}

// IsMissingParameter reports whether err is a missing parameter error
func IsMissingParameter(err error) bool {
	return errors.Is(err, ErrMissingParameter)
}

// IsInvalidValue reports whether err is an invalid value error
func IsInvalidValue(err error) bool {
	return errors.Is(err, ErrInvalidValue)
}

// IsTemplateNotFound reports whether err means a template could not be found,
// whether in an engine registry or in storage.
func IsTemplateNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}

// ErrorMetadata returns the metadata value stored under key on err, if err
// is (or wraps) a *cuserr.CustomError.
func ErrorMetadata(err error, key string) (string, bool) {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return "", false
	}
	return customErr.GetMetadata(key)
}
