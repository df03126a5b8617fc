package subst

import (
	"errors"

	"github.com/itsatony/go-subst/internal"
	"go.uber.org/zap"
)

// Placeholder identifies one ${name} occurrence in a template source.
// Start and End delimit the byte span [Start, End), delimiters included.
type Placeholder struct {
	Name  string
	Start int
	End   int
}

// Template is a parsed source text with its placeholder positions.
// A Template never changes after Parse and is safe for concurrent use.
type Template struct {
	source         string
	placeholders   []Placeholder
	logger         *zap.Logger
	maxSuggestions int
}

// Parse scans source for ${name} placeholders and returns a Template.
// It fails with a duplicate placeholder error if any name occurs twice;
// no Template is created in that case.
func Parse(source string, opts ...Option) (*Template, error) {
	return parseWithConfig(source, applyOptions(opts))
}

// MustParse parses source and panics if there's an error.
func MustParse(source string, opts ...Option) *Template {
	tmpl, err := Parse(source, opts...)
	if err != nil {
		panic(err)
	}
	return tmpl
}

func parseWithConfig(source string, config *engineConfig) (*Template, error) {
	scanned, err := internal.NewScanner(source, config.logger).Scan()
	if err != nil {
		var dupErr *internal.DuplicateNameError
		if errors.As(err, &dupErr) {
			return nil, NewDuplicatePlaceholderError(dupErr.Name,
				Position(dupErr.Position), Position(dupErr.First))
		}
		return nil, err
	}

	placeholders := make([]Placeholder, len(scanned))
	for i, ph := range scanned {
		placeholders[i] = Placeholder(ph)
	}

	config.logger.Debug(LogMsgTemplateParsed,
		zap.Int(LogFieldSourceLength, len(source)),
		zap.Int(LogFieldPlaceholders, len(placeholders)))

	return &Template{
		source:         source,
		placeholders:   placeholders,
		logger:         config.logger,
		maxSuggestions: config.maxSuggestions,
	}, nil
}

// Source returns the original template text.
func (t *Template) Source() string {
	return t.source
}

// Placeholders returns the placeholders in order of appearance.
// The returned slice is a copy.
func (t *Template) Placeholders() []Placeholder {
	out := make([]Placeholder, len(t.placeholders))
	copy(out, t.placeholders)
	return out
}

// Names returns the placeholder names in order of appearance.
func (t *Template) Names() []string {
	names := make([]string, len(t.placeholders))
	for i, ph := range t.placeholders {
		names[i] = ph.Name
	}
	return names
}

// HasPlaceholders returns true if the source contains at least one placeholder.
func (t *Template) HasPlaceholders() bool {
	return len(t.placeholders) > 0
}

// LiteralLength returns the number of source bytes outside placeholder spans.
func (t *Template) LiteralLength() int {
	n := len(t.source)
	for _, ph := range t.placeholders {
		n -= ph.End - ph.Start
	}
	return n
}
