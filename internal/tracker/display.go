package tracker

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/cmlabs-hris/attendance-tracker/internal/pkg/validator"
)

// FormatDate renders a YYYY-MM-DD date as e.g. "Mar 5, 2024". Unparseable input is
// returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse(validator.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}

// Initials takes the first letter of every whitespace-separated word, upper-cased.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func RecordCountLabel(n int) string {
	if n == 1 {
		return "1 Record"
	}
	return strconv.Itoa(n) + " Records"
}
