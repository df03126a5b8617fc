package internal

import (
	"fmt"

	"go.uber.org/zap"
)

// Position represents a location in the source text
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number (bytes)
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf(ErrFmtWithPosition, p.Line, p.Column)
}

// Placeholder is a single ${name} occurrence. Start and End delimit the
// byte span [Start, End) including the "${" and "}" delimiters.
type Placeholder struct {
	Name  string
	Start int
	End   int
}

// Len returns the byte length of the placeholder span.
func (p Placeholder) Len() int {
	return p.End - p.Start
}

// DuplicateNameError reports a placeholder name that occurs more than once.
type DuplicateNameError struct {
	Name     string
	First    Position
	Position Position
}

// Error implements the error interface
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf(ErrFmtDuplicate, ErrMsgDuplicateName, e.Name, e.Position, e.First)
}

// Scanner extracts placeholders from source text in a single forward pass.
type Scanner struct {
	source string
	logger *zap.Logger
}

// NewScanner creates a scanner for the given source
func NewScanner(source string, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgScannerCreated, zap.Int(LogFieldSource, len(source)))
	return &Scanner{
		source: source,
		logger: logger,
	}
}

// Scan returns the placeholders of the source in order of appearance.
// A name seen twice yields a *DuplicateNameError.
func (s *Scanner) Scan() ([]Placeholder, error) {
	s.logger.Debug(LogMsgScanStart)

	var placeholders []Placeholder
	seen := make(map[string]int)

	pos := 0
	for pos < len(s.source) {
		if s.source[pos] != CharDollar {
			pos++
			continue
		}

		ph, ok := s.matchAt(pos)
		if !ok {
			// Not a placeholder: the '$' is literal text
			pos++
			continue
		}

		if first, exists := seen[ph.Name]; exists {
			s.logger.Debug(LogMsgScanDuplicate,
				zap.String(LogFieldName, ph.Name),
				zap.Int(LogFieldOffset, ph.Start))
			return nil, &DuplicateNameError{
				Name:     ph.Name,
				First:    PositionAt(s.source, first),
				Position: PositionAt(s.source, ph.Start),
			}
		}
		seen[ph.Name] = ph.Start

		placeholders = append(placeholders, ph)
		pos = ph.End
	}

	s.logger.Debug(LogMsgScanEnd, zap.Int(LogFieldPlaceholders, len(placeholders)))
	return placeholders, nil
}

// matchAt tries to match "${identifier}" starting at offset start.
func (s *Scanner) matchAt(start int) (Placeholder, bool) {
	i := start + 1
	if i >= len(s.source) || s.source[i] != CharOpenBrace {
		return Placeholder{}, false
	}
	i++

	nameStart := i
	for i < len(s.source) && IsIdentifierChar(s.source[i]) {
		i++
	}
	if i == nameStart || i >= len(s.source) || s.source[i] != CharCloseBrace {
		return Placeholder{}, false
	}

	return Placeholder{
		Name:  s.source[nameStart:i],
		Start: start,
		End:   i + 1,
	}, true
}

// PositionAt calculates line and column for a byte offset in source.
func PositionAt(source string, offset int) Position {
	if offset > len(source) {
		offset = len(source)
	}

	pos := Position{
		Offset: offset,
		Line:   1,
		Column: 1,
	}

	for i := 0; i < offset; i++ {
		if source[i] == CharNewline {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}

	return pos
}
