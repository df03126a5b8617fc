package subst

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIntroSource = "My name is ${firstName} ${lastName}"
	testIntroResult = "My name is Jan Kowalski"
)

func testIntroParams() map[string]string {
	return map[string]string{"firstName": "Jan", "lastName": "Kowalski"}
}

func TestScenarios(t *testing.T) {
	t.Run("text without placeholders is returned unchanged", func(t *testing.T) {
		tmpl, err := Parse("My name is Jan Kowalski")
		require.NoError(t, err)

		result, err := tmpl.Evaluate(map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, "My name is Jan Kowalski", result)
	})

	t.Run("duplicate placeholder is rejected at construction", func(t *testing.T) {
		tmpl, err := Parse("My name is ${firstName} ${firstName}")
		require.Error(t, err)
		assert.Nil(t, tmpl)
		assert.True(t, IsDuplicatePlaceholder(err))
	})

	t.Run("every placeholder is substituted", func(t *testing.T) {
		tmpl, err := Parse(testIntroSource)
		require.NoError(t, err)

		result, err := tmpl.Evaluate(testIntroParams())
		require.NoError(t, err)
		assert.Equal(t, testIntroResult, result)
	})

	t.Run("missing parameters are rejected", func(t *testing.T) {
		tmpl, err := Parse(testIntroSource)
		require.NoError(t, err)

		result, err := tmpl.Evaluate(map[string]string{})
		require.Error(t, err)
		assert.Empty(t, result)
		assert.True(t, IsMissingParameter(err))
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		tmpl, err := Parse(testIntroSource)
		require.NoError(t, err)

		result, err := tmpl.Evaluate(map[string]string{"firstName": "Jan", "lastName": "@@"})
		require.Error(t, err)
		assert.Empty(t, result)
		assert.True(t, IsInvalidValue(err))
	})
}

func TestParse_Placeholders(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected []Placeholder
	}{
		{
			name:     "empty source",
			source:   "",
			expected: []Placeholder{},
		},
		{
			name:   "two placeholders",
			source: testIntroSource,
			expected: []Placeholder{
				{Name: "firstName", Start: 11, End: 23},
				{Name: "lastName", Start: 24, End: 35},
			},
		},
		{
			name:   "adjacent placeholders",
			source: "${a}${b}",
			expected: []Placeholder{
				{Name: "a", Start: 0, End: 4},
				{Name: "b", Start: 4, End: 8},
			},
		},
		{
			name:   "underscore and digits in names",
			source: "${user_1} ${2fa}",
			expected: []Placeholder{
				{Name: "user_1", Start: 0, End: 9},
				{Name: "2fa", Start: 10, End: 16},
			},
		},
		{
			name:     "malformed forms are literal text",
			source:   "$name ${} ${first name} ${a-b} ${unclosed $ {x}",
			expected: []Placeholder{},
		},
		{
			name:   "dollar before placeholder",
			source: "$${x}",
			expected: []Placeholder{
				{Name: "x", Start: 1, End: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.source)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expected, tmpl.Placeholders()); diff != "" {
				t.Errorf("Placeholders() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_DuplicateMetadata(t *testing.T) {
	_, err := Parse("${a}\nline two ${a}")
	require.Error(t, err)

	tests := map[string]string{
		MetaKeyPlaceholder: "a",
		MetaKeyOffset:      "14",
		MetaKeyLine:        "2",
		MetaKeyColumn:      "10",
		MetaKeyFirstOffset: "0",
	}
	for key, want := range tests {
		got, ok := ErrorMetadata(err, key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
	assert.Contains(t, err.Error(), ErrMsgDuplicatePlaceholder)
}

func TestTemplate_Accessors(t *testing.T) {
	tmpl := MustParse(testIntroSource)

	assert.Equal(t, testIntroSource, tmpl.Source())
	assert.Equal(t, []string{"firstName", "lastName"}, tmpl.Names())
	assert.True(t, tmpl.HasPlaceholders())
	assert.Equal(t, len("My name is  "), tmpl.LiteralLength())

	// Placeholders returns a copy
	phs := tmpl.Placeholders()
	phs[0].Name = "changed"
	assert.Equal(t, "firstName", tmpl.Placeholders()[0].Name)

	plain := MustParse("plain")
	assert.False(t, plain.HasPlaceholders())
	assert.Empty(t, plain.Names())
	assert.Equal(t, 5, plain.LiteralLength())
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("${x}${x}") })
}

func TestEvaluate_MissingParameterMetadata(t *testing.T) {
	tmpl := MustParse("${a} ${b} ${c}")

	_, err := tmpl.Evaluate(map[string]string{"b": "1"})
	require.Error(t, err)

	param, ok := ErrorMetadata(err, MetaKeyParameter)
	require.True(t, ok)
	assert.Equal(t, "a", param)

	missing, ok := ErrorMetadata(err, MetaKeyMissing)
	require.True(t, ok)
	assert.Equal(t, "a,c", missing)
}

func TestEvaluate_MissingCheckedBeforeInvalid(t *testing.T) {
	tmpl := MustParse(testIntroSource)

	_, err := tmpl.Evaluate(map[string]string{"firstName": "@@"})
	require.Error(t, err)
	assert.True(t, IsMissingParameter(err))
	assert.False(t, IsInvalidValue(err))
}

func TestEvaluate_Suggestions(t *testing.T) {
	tmpl := MustParse(testIntroSource)

	t.Run("misspelled key is suggested", func(t *testing.T) {
		_, err := tmpl.Evaluate(map[string]string{"firstName": "Jan", "lastname": "Kowalski"})
		require.Error(t, err)

		suggestions, ok := ErrorMetadata(err, MetaKeySuggestions)
		require.True(t, ok)
		assert.Equal(t, "lastname", suggestions)
	})

	t.Run("referenced keys are never suggested", func(t *testing.T) {
		_, err := tmpl.Evaluate(map[string]string{"firstName": "Jan"})
		require.Error(t, err)

		_, ok := ErrorMetadata(err, MetaKeySuggestions)
		assert.False(t, ok)
	})

	t.Run("suggestions disabled", func(t *testing.T) {
		quiet := MustParse(testIntroSource, WithMaxSuggestions(0))
		_, err := quiet.Evaluate(map[string]string{"firstName": "Jan", "lastname": "Kowalski"})
		require.Error(t, err)

		_, ok := ErrorMetadata(err, MetaKeySuggestions)
		assert.False(t, ok)
	})
}

func TestEvaluate_InvalidValueMetadata(t *testing.T) {
	tmpl := MustParse(testIntroSource)

	_, err := tmpl.Evaluate(map[string]string{"firstName": "Jan Maria", "lastName": "O'Brien"})
	require.Error(t, err)

	expected := map[string]string{
		MetaKeyParameter: "firstName",
		MetaKeyValue:     "Jan Maria",
		MetaKeyOffset:    "3",
		MetaKeyInvalid:   "firstName,lastName",
	}
	for key, want := range expected {
		got, ok := ErrorMetadata(err, key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
}

func TestEvaluate_ValueCharset(t *testing.T) {
	tmpl := MustParse("${v}")

	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{name: "letters", value: "Kowalski", valid: true},
		{name: "digits", value: "2024", valid: true},
		{name: "mixed", value: "Jan2", valid: true},
		{name: "empty", value: "", valid: true},
		{name: "space", value: "Jan Kowalski", valid: false},
		{name: "underscore", value: "snake_case", valid: false},
		{name: "punctuation", value: "@@", valid: false},
		{name: "non-ASCII letter", value: "Zażółć", valid: false},
		{name: "placeholder syntax", value: "${v}", valid: false},
		{name: "newline", value: "a\nb", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tmpl.Evaluate(map[string]string{"v": tt.value})
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, tt.value, result)
				return
			}
			assert.True(t, IsInvalidValue(err))
			assert.Empty(t, result)
		})
	}
}

func TestEvaluate_NamesAreCaseSensitive(t *testing.T) {
	tmpl := MustParse("${Name} ${name}")

	result, err := tmpl.Evaluate(map[string]string{"Name": "A", "name": "b"})
	require.NoError(t, err)
	assert.Equal(t, "A b", result)

	_, err = tmpl.Evaluate(map[string]string{"Name": "A", "NAME": "b"})
	assert.True(t, IsMissingParameter(err))
}

func TestEvaluate_ExtraParametersIgnored(t *testing.T) {
	tmpl := MustParse("Hi ${who}")

	result, err := tmpl.Evaluate(map[string]string{"who": "Jan", "unused": "not valid!"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Jan", result)

	plain := MustParse("no placeholders")
	result, err = plain.Evaluate(map[string]string{"x": "@@"})
	require.NoError(t, err)
	assert.Equal(t, "no placeholders", result)
}

func TestEvaluate_NilParams(t *testing.T) {
	result, err := MustParse("static").Evaluate(nil)
	require.NoError(t, err)
	assert.Equal(t, "static", result)

	_, err = MustParse("${x}").Evaluate(nil)
	assert.True(t, IsMissingParameter(err))
}

func TestEvaluate_Properties(t *testing.T) {
	sources := []string{
		"",
		"plain",
		"${a}",
		"pre ${a} mid ${b} post",
		"${a}${b}${c}",
		"$ {x} ${} $${y} }${z}{",
		"Zażółć ${x} gęślą",
	}
	values := map[string]string{"a": "A1", "b": "", "c": "ccc", "x": "X", "y": "yy", "z": "0"}

	for _, source := range sources {
		t.Run(fmt.Sprintf("%q", source), func(t *testing.T) {
			tmpl := MustParse(source)

			first, err := tmpl.Evaluate(values)
			require.NoError(t, err)

			// Idempotent: same input, same output.
			second, err := tmpl.Evaluate(values)
			require.NoError(t, err)
			assert.Equal(t, first, second)

			// Length law: literal text plus substituted values.
			expectedLen := tmpl.LiteralLength()
			for _, name := range tmpl.Names() {
				expectedLen += len(values[name])
			}
			assert.Len(t, first, expectedLen)

			// Identity: without placeholders the source comes back.
			if !tmpl.HasPlaceholders() {
				assert.Equal(t, source, first)
			}

			// Completeness: no placeholder survives, since values never contain '$'.
			reparsed := MustParse(first)
			assert.False(t, reparsed.HasPlaceholders())
		})
	}
}

func TestEvaluate_ValuesAreNotRescanned(t *testing.T) {
	tmpl := MustParse("${a}{b}")

	// "$" is not a valid value, so a value can never form a new placeholder.
	_, err := tmpl.Evaluate(map[string]string{"a": "$"})
	assert.True(t, IsInvalidValue(err))

	result, err := tmpl.Evaluate(map[string]string{"a": "x"})
	require.NoError(t, err)
	assert.Equal(t, "x{b}", result)
}

func TestValidate(t *testing.T) {
	tmpl := MustParse(testIntroSource)

	assert.NoError(t, tmpl.Validate(testIntroParams()))
	assert.True(t, IsMissingParameter(tmpl.Validate(map[string]string{"firstName": "Jan"})))
	assert.True(t, IsInvalidValue(tmpl.Validate(map[string]string{"firstName": "Jan", "lastName": "-"})))
}

func TestMustEvaluate(t *testing.T) {
	tmpl := MustParse(testIntroSource)

	assert.Equal(t, testIntroResult, tmpl.MustEvaluate(testIntroParams()))
	assert.Panics(t, func() { tmpl.MustEvaluate(nil) })
}

func TestTemplate_ConcurrentEvaluate(t *testing.T) {
	tmpl := MustParse(testIntroSource)

	const goroutines = 32
	var wg sync.WaitGroup
	results := make([]string, goroutines)
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			params := map[string]string{"firstName": fmt.Sprintf("Jan%d", i), "lastName": "Kowalski"}
			results[i], errs[i] = tmpl.Evaluate(params)
		}(i)
	}
	wg.Wait()

	for i := 0; i < goroutines; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, fmt.Sprintf("My name is Jan%d Kowalski", i), results[i])
	}
}

func TestParse_LargeInput(t *testing.T) {
	var sb strings.Builder
	params := make(map[string]string)
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(&sb, "${p%d} ", i)
		params[fmt.Sprintf("p%d", i)] = "v"
	}

	tmpl, err := Parse(sb.String())
	require.NoError(t, err)
	assert.Len(t, tmpl.Placeholders(), 1000)

	result, err := tmpl.Evaluate(params)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("v ", 1000), result)
}
