package locale

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/shinji-kodama/render-tools/internal/model"
)

// sample is formatted once per locale; its rendering reveals the group
// separator (after the leading 1) and the decimal separator (before 5).
// Seven integer digits force grouping even in locales with a minimum
// grouping of two.
const sample = 1234567.5

// Decimal parses and formats decimal text for one locale.
type Decimal struct {
	tag     language.Tag
	printer *message.Printer
	decimal rune
	group   rune
}

// New returns a Decimal for tag.
func New(tag language.Tag) *Decimal {
	p := message.NewPrinter(tag)
	d := &Decimal{tag: tag, printer: p, decimal: '.', group: ','}

	s := []rune(p.Sprint(number.Decimal(sample, number.MinFractionDigits(1), number.MaxFractionDigits(1))))
	if len(s) >= 2 {
		d.decimal = s[len(s)-2]
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			if r != d.decimal {
				d.group = r
			}
			break
		}
	}
	return d
}

// Parse returns the locale name, e.g. "de" or "en-US", as a Decimal.
// An empty or unknown name falls back to English.
func Parse(name string) *Decimal {
	if name == "" {
		return New(language.English)
	}
	tag, err := language.Parse(name)
	if err != nil {
		return New(language.English)
	}
	return New(tag)
}

// Tag returns the locale.
func (d *Decimal) Tag() language.Tag {
	return d.tag
}

// Separators returns the decimal and group separators of the locale.
func (d *Decimal) Separators() (decimal, group rune) {
	return d.decimal, d.group
}

// ParseFloat converts text typed by the user into a finite number.
//
// The locale's decimal separator is accepted. A plain '.' is accepted as
// well unless '.' is the locale's group separator. Group separators are not
// accepted: "1.500" in a German locale is ambiguous for a ratio field and
// is rejected rather than read as 1500. Exponents, hex, NaN and infinities
// are rejected. Errors are DomainErrors.
func (d *Decimal) ParseFloat(text string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, model.NewDomainError("parse number", "empty input")
	}

	var b strings.Builder
	seenSep := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case (r == '-' || r == '+') && i == 0:
			b.WriteRune(r)
		case r == d.decimal || (r == '.' && d.group != '.'):
			if seenSep {
				return 0, model.NewDomainError("parse number", fmt.Sprintf("%q has more than one decimal separator", text))
			}
			seenSep = true
			b.WriteRune('.')
		default:
			return 0, model.NewDomainError("parse number", fmt.Sprintf("%q is not a number", text))
		}
	}

	normalized := b.String()
	if strings.Trim(normalized, "+-.") == "" {
		return 0, model.NewDomainError("parse number", fmt.Sprintf("%q is not a number", text))
	}
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, model.NewDomainError("parse number", fmt.Sprintf("%q is not a number", text))
	}
	return v, nil
}

// Format renders v with up to maxFraction fraction digits in the locale,
// without group separators so the result parses back with ParseFloat.
func (d *Decimal) Format(v float64, maxFraction int) string {
	return d.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(maxFraction), number.NoSeparator()))
}

// Name returns the BCP 47 name of the locale.
func (d *Decimal) Name() string {
	return d.tag.String()
}
