package parser

import (
	"strings"

	"github.com/iamhimansu/csvstream/pkg/csvstream/dialect"
)

// Split breaks line into fields according to d.
//
// Every quote character bumps the quote count of the current field. With
// DoubleQuote enabled a quote directly preceded by another quote in the same
// field takes the count back down by one. A delimiter only ends a field while
// the count is even. Quote characters are kept in the output: quoting
// suppresses splitting, it does not unescape. A trailing delimiter does not
// produce a trailing empty field.
func Split(line string, d *dialect.Dialect) []string {
	var (
		fields []string
		field  = make([]byte, 0, len(line))
		quotes int
	)
	delim := d.Delimiter

	for i := 0; i < len(line); i++ {
		if quotes%2 == 0 && delim != "" && strings.HasPrefix(line[i:], delim) {
			fields = append(fields, Trim(string(field), d))
			field = field[:0]
			quotes = 0
			i += len(delim) - 1
			if d.SkipInitialSpace && i+1 < len(line) && line[i+1] == ' ' {
				i++
			}
			continue
		}

		c := line[i]
		field = append(field, c)
		if c == d.Quote {
			quotes++
			if d.DoubleQuote && len(field) >= 2 && field[len(field)-2] == c {
				quotes--
			}
		}
	}

	if len(field) > 0 {
		fields = append(fields, Trim(string(field), d))
	}
	return fields
}

// Trim removes the dialect's trim characters from both ends of field. It
// works on bytes, so a trim byte at the edge of a multi-byte character is
// removed too.
func Trim(field string, d *dialect.Dialect) string {
	if len(d.Trim) == 0 {
		return field
	}
	start, end := 0, len(field)
	for start < end && d.Trims(field[start]) {
		start++
	}
	for end > start && d.Trims(field[end-1]) {
		end--
	}
	return field[start:end]
}
