package locale

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/shinji-kodama/render-tools/internal/model"
)

func TestSeparators(t *testing.T) {
	dec, group := New(language.English).Separators()
	assert.Equal(t, '.', dec)
	assert.Equal(t, ',', group)

	dec, group = New(language.German).Separators()
	assert.Equal(t, ',', dec)
	assert.Equal(t, '.', group)
}

// TestParseFloat covers locale-aware parsing, including rejected inputs.
func TestParseFloat(t *testing.T) {
	tests := []struct {
		name     string
		tag      language.Tag
		input    string
		want     float64
		hasError bool
	}{
		{"english decimal", language.English, "1.5", 1.5, false},
		{"english integer", language.English, "2", 2, false},
		{"english leading dot", language.English, ".75", 0.75, false},
		{"english surrounding space", language.English, "  1.25 ", 1.25, false},
		{"english zero", language.English, "0", 0, false},
		{"english comma is group", language.English, "1,5", 0, true},
		{"german decimal", language.German, "1,5", 1.5, false},
		{"german dot is group", language.German, "1.5", 0, true},
		{"negative", language.English, "-1.5", -1.5, false},
		{"two separators", language.English, "1.2.3", 0, true},
		{"letters", language.English, "abc", 0, true},
		{"exponent", language.English, "1e3", 0, true},
		{"nan", language.English, "NaN", 0, true},
		{"infinity", language.English, "Inf", 0, true},
		{"only separator", language.English, ".", 0, true},
		{"only sign", language.English, "-", 0, true},
		{"empty", language.English, "", 0, true},
		{"blank", language.English, "   ", 0, true},
		{"sign in middle", language.English, "1-2", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.tag).ParseFloat(tt.input)
			if tt.hasError {
				var de *model.DomainError
				assert.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestFormat verifies formatting uses the locale decimal separator and
// round-trips through ParseFloat.
func TestFormat(t *testing.T) {
	de := New(language.German)
	assert.Equal(t, "1,5", de.Format(1.5, 3))

	en := New(language.English)
	assert.Equal(t, "1.778", en.Format(16.0/9.0, 3))
	assert.Equal(t, "1234.5", en.Format(1234.5, 2), "no group separators")

	for _, d := range []*Decimal{de, en} {
		v, err := d.ParseFloat(d.Format(2.35, 3))
		require.NoError(t, err)
		assert.Equal(t, 2.35, v)
	}
}

// TestParse verifies locale names resolve, with English as the fallback.
func TestParse(t *testing.T) {
	assert.Equal(t, "de", Parse("de").Name())
	assert.Equal(t, "en", Parse("").Name())
	assert.Equal(t, "en", Parse("not a locale!").Name())
}
