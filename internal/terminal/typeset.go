// ABOUTME: Typesets inline \( ... \) math spans as Unicode mathematical italics
// ABOUTME: Terminals cannot run a TeX engine, so letters are mapped to their italic code points

package terminal

import (
	"context"
	"errors"
	"strings"
)

// ErrUnbalancedMath is returned when a title opens or closes a math span
// without its partner.
var ErrUnbalancedMath = errors.New("unbalanced math delimiters")

const (
	mathOpen  = `\(`
	mathClose = `\)`
)

// MathTypesetter implements workflow.Typesetter.
type MathTypesetter struct{}

// Typeset replaces every \( ... \) span in title with italic letters.
func (MathTypesetter) Typeset(ctx context.Context, title string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var b strings.Builder
	rest := title
	for {
		open := strings.Index(rest, mathOpen)
		if open < 0 {
			if strings.Contains(rest, mathClose) {
				return "", ErrUnbalancedMath
			}
			b.WriteString(rest)
			return b.String(), nil
		}
		body := rest[open+len(mathOpen):]
		end := strings.Index(body, mathClose)
		if end < 0 {
			return "", ErrUnbalancedMath
		}
		b.WriteString(rest[:open])
		b.WriteString(mathItalic(body[:end]))
		rest = body[end+len(mathClose):]
	}
}

func mathItalic(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == 'h':
			return 'ℎ' // U+210E, the italic h lives outside the math block
		case r >= 'a' && r <= 'z':
			return 0x1D44E + (r - 'a')
		case r >= 'A' && r <= 'Z':
			return 0x1D434 + (r - 'A')
		}
		return r
	}, s)
}
