package subst

import (
	"strings"

	"github.com/itsatony/go-subst/internal"
	"go.uber.org/zap"
)

// Evaluate substitutes every placeholder with its value from params.
//
// Every placeholder must have an entry in params, and every referenced value
// may contain only ASCII letters and digits. Parameters the template does not
// reference are ignored and not validated. Evaluation is all-or-nothing: on
// error the returned string is empty.
func (t *Template) Evaluate(params map[string]string) (string, error) {
	t.logger.Debug(LogMsgEvaluateStart, zap.Int(LogFieldPlaceholders, len(t.placeholders)))

	if err := t.Validate(params); err != nil {
		t.logger.Debug(LogMsgEvaluateRejected, zap.Error(err))
		return "", err
	}

	if len(t.placeholders) == 0 {
		return t.source, nil
	}

	size := t.LiteralLength()
	for _, ph := range t.placeholders {
		size += len(params[ph.Name])
	}

	var sb strings.Builder
	sb.Grow(size)

	pos := 0
	for _, ph := range t.placeholders {
		sb.WriteString(t.source[pos:ph.Start])
		sb.WriteString(params[ph.Name])
		pos = ph.End
	}
	sb.WriteString(t.source[pos:])

	result := sb.String()
	t.logger.Debug(LogMsgEvaluateEnd, zap.Int(LogFieldOutputLength, len(result)))
	return result, nil
}

// MustEvaluate evaluates the template and panics if there's an error.
func (t *Template) MustEvaluate(params map[string]string) string {
	result, err := t.Evaluate(params)
	if err != nil {
		panic(err)
	}
	return result
}

// Validate checks params against the template without substituting.
// All placeholders are checked for presence first; if any are missing a
// missing parameter error lists them all. Otherwise every referenced value
// is checked and an invalid value error lists every offender.
func (t *Template) Validate(params map[string]string) error {
	var missing []string
	for _, ph := range t.placeholders {
		if _, ok := params[ph.Name]; !ok {
			missing = append(missing, ph.Name)
		}
	}
	if len(missing) > 0 {
		return NewMissingParameterError(missing, t.suggest(missing[0], params))
	}

	var (
		invalid    []string
		firstName  string
		firstValue string
		firstIndex int
	)
	for _, ph := range t.placeholders {
		value := params[ph.Name]
		idx := internal.InvalidValueIndex(value)
		if idx < 0 {
			continue
		}
		if len(invalid) == 0 {
			firstName, firstValue, firstIndex = ph.Name, value, idx
		}
		invalid = append(invalid, ph.Name)
	}
	if len(invalid) > 0 {
		return NewInvalidValueError(firstName, firstValue, firstIndex, invalid)
	}

	return nil
}

// suggest returns supplied parameter names that look like a misspelling of name.
func (t *Template) suggest(name string, params map[string]string) []string {
	if t.maxSuggestions == 0 || len(params) == 0 {
		return nil
	}
	referenced := make(map[string]bool, len(t.placeholders))
	for _, ph := range t.placeholders {
		referenced[ph.Name] = true
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		if !referenced[k] {
			keys = append(keys, k)
		}
	}
	return internal.FindSimilarNames(name, keys, t.maxSuggestions)
}
