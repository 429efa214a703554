package grid

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NewCollator returns the collator used for string columns. Collators are not
// safe for concurrent use; every Apply call builds its own.
func NewCollator() *collate.Collator {
	return collate.New(language.English)
}

// Stringify converts a cell value to its display/filter string. nil becomes "".
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x)
	case float32:
		return formatNumber(float64(x))
	case float64:
		return formatNumber(x)
	case json.Number:
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// stringifyFor applies the column-specific stringification used by value
// filters and unique values: booleans collapse to "true"/"false" by truthiness.
func stringifyFor(v any, t ColumnType) string {
	if t == TypeBoolean {
		return strconv.FormatBool(Truthy(v))
	}
	return Stringify(v)
}

func normalize(v any) string {
	return strings.ToLower(Stringify(v))
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ToNumber coerces v to a float the way a loosely typed host would:
// nil and blank strings are 0, booleans are 1/0, unparseable text is NaN.
func ToNumber(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case bool:
		if x {
			return 1
		}
		return 0
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	case json.Number:
		return parseNumber(string(x))
	case string:
		return parseNumber(x)
	case time.Time:
		return float64(x.UnixMilli())
	default:
		return math.NaN()
	}
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	// ParseFloat is more lenient than we want about inf/nan spellings.
	lower := strings.ToLower(s)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.Contains(s, "_") {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// Truthy reports the boolean interpretation of v.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f := parseNumber(string(x))
		return f != 0 && !math.IsNaN(f)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		f := ToNumber(x)
		return f != 0 && !math.IsNaN(f)
	default:
		return true
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
	"Jan 2, 2006",
}

// ParseDate returns v as epoch milliseconds. Falsy values parse as epoch 0.
// The second result is false when v is present but not a recognizable date.
func ParseDate(v any) (float64, bool) {
	if !Truthy(v) {
		return 0, true
	}
	switch x := v.(type) {
	case time.Time:
		return float64(x.UnixMilli()), true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return float64(t.UnixMilli()), true
			}
		}
		return math.NaN(), false
	default:
		f := ToNumber(x)
		return f, !math.IsNaN(f)
	}
}

// Compare orders a and b according to the column type. The result is
// negative, zero or positive. col may be nil, in which case string columns
// fall back to byte-wise comparison of the lower-cased values.
func Compare(a, b any, t ColumnType, col *collate.Collator) int {
	switch t {
	case TypeNumber:
		na, nb := ToNumber(a), ToNumber(b)
		aNaN, bNaN := math.IsNaN(na), math.IsNaN(nb)
		switch {
		case aNaN && bNaN:
			return 0
		case aNaN:
			return 1
		case bNaN:
			return -1
		}
		return sign(na - nb)
	case TypeDate:
		da, okA := ParseDate(a)
		db, okB := ParseDate(b)
		if !okA || !okB {
			// an unparseable date has no defined order
			return 0
		}
		return sign(da - db)
	case TypeBoolean:
		return boolInt(Truthy(a)) - boolInt(Truthy(b))
	default:
		sa, sb := normalize(a), normalize(b)
		if col == nil {
			return strings.Compare(sa, sb)
		}
		return col.CompareString(sa, sb)
	}
}

func sign(f float64) int {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	default:
		return 0
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
