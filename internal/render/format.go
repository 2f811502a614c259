// ABOUTME: Cell value formatting for result tables
// ABOUTME: Integers get locale grouping, other numbers four trimmed decimals

package render

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// fractionDigits is the fixed precision for non-integer values.
	fractionDigits = 4

	maxExactInt = 1 << 53
)

// Formatter turns raw cell values into display strings.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter returns a formatter grouping integers for the given BCP 47 locale.
// An unparsable locale falls back to English.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

// FormatValue formats numbers per the display rule and passes text through.
func (f *Formatter) FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return f.formatInt(i)
		}
		fl, err := val.Float64()
		if err != nil {
			return val.String()
		}
		return f.formatFloat(fl)
	case int:
		return f.formatInt(int64(val))
	case int64:
		return f.formatInt(val)
	case float64:
		return f.formatFloat(val)
	case float32:
		return f.formatFloat(float64(val))
	default:
		return fmt.Sprint(val)
	}
}

func (f *Formatter) formatInt(i int64) string {
	return f.printer.Sprintf("%d", i)
}

func (f *Formatter) formatFloat(fl float64) string {
	if math.IsNaN(fl) || math.IsInf(fl, 0) {
		return strconv.FormatFloat(fl, 'f', -1, 64)
	}
	if fl == math.Trunc(fl) {
		if math.Abs(fl) < maxExactInt {
			return f.formatInt(int64(fl))
		}
		return f.printer.Sprint(number.Decimal(fl, number.MaxFractionDigits(0)))
	}
	return TrimFixed(strconv.FormatFloat(fl, 'f', fractionDigits, 64))
}

// TrimFixed drops trailing zeros from a fixed-point string, then a bare point.
func TrimFixed(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// DisplayFilename strips exactly one trailing ext suffix, ignoring case.
func DisplayFilename(name, ext string) string {
	if ext == "" || len(name) < len(ext) {
		return name
	}
	cut := len(name) - len(ext)
	if strings.EqualFold(name[cut:], ext) {
		return name[:cut]
	}
	return name
}
