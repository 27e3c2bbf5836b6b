// Package field converts between the textual state of editors and the typed
// values stored in an argument package.
//
// Every function here is total: malformed or overflowing input degrades to
// the unset sentinel instead of producing an error, so a store pass can never
// fail part-way because of user input.
package field

import (
	"math"
	"strconv"
	"strings"

	"github.com/shinji-kodama/dfmgen/internal/model"
)

// ParseReal converts editor text to a real value.
//
// Blank text, text that is not a number, and values that overflow float64
// all yield NaN (unset). Non-finite spellings such as "Inf" are treated the
// same way, because the engine has no use for them.
func ParseReal(text string) float64 {
	s := strings.TrimSpace(text)
	if s == "" {
		return model.Unset()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return model.Unset()
	}
	return v
}

// FormatReal renders a real value for an editor. NaN renders as blank text;
// any other value renders as the shortest text that ParseReal maps back to
// the same value.
func FormatReal(v float64) string {
	if model.IsUnset(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParseInt converts editor text to a 32-bit integer value.
// Blank, malformed or out-of-range text yields model.UnsetInt.
func ParseInt(text string) int {
	s := strings.TrimSpace(text)
	if s == "" {
		return model.UnsetInt
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return model.UnsetInt
	}
	return int(v)
}

// FormatInt renders an integer for an editor; model.UnsetInt renders blank.
func FormatInt(v int) string {
	if v == model.UnsetInt {
		return ""
	}
	return strconv.Itoa(v)
}

// ClampIndex forces a selection index into [0, count-1]. An empty
// collection has no valid index, so the result is -1.
func ClampIndex(index, count int) int {
	if count <= 0 {
		return -1
	}
	if index < 0 {
		return 0
	}
	if index >= count {
		return count - 1
	}
	return index
}
