package formatter

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/textql/fquery/query"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	caretStyle   = color.New(color.FgGreen, color.Bold)
)

// FormatParseError renders a parse error the way compilers point at a bad
// character: the offending query line with a caret under the position the
// error carries.
//
//	error: expected a search term, not +
//	 --> position 8
//	  |
//	1 | one AND + two
//	  |         ^
func FormatParseError(err *query.ParseError) string {
	line, lineNum, column := locate(err.Query, err.Position)

	var b strings.Builder
	b.WriteString(errorStyle.Sprint("error: "))
	b.WriteString(messageStyle.Sprint(err.Message))
	b.WriteByte('\n')
	b.WriteString(lineStyle.Sprintf(" --> position %d", err.Position))
	b.WriteByte('\n')

	num := strconv.Itoa(lineNum)
	pad := strings.Repeat(" ", len(num))
	b.WriteString(pad + " |\n")
	b.WriteString(num + " | " + line + "\n")
	b.WriteString(pad + " | " + strings.Repeat(" ", column))
	b.WriteString(caretStyle.Sprint("^"))
	b.WriteByte('\n')
	return b.String()
}

// locate finds the line containing byte offset pos in q, its 1-based line
// number, and the rune column of pos within that line. Queries can span
// lines because newlines count as whitespace.
func locate(q string, pos int) (line string, lineNum, column int) {
	if pos > len(q) {
		pos = len(q)
	}
	start := 0
	lineNum = 1
	for i := 0; i < pos; i++ {
		if q[i] == '\n' {
			start = i + 1
			lineNum++
		}
	}
	end := len(q)
	if i := strings.IndexByte(q[start:], '\n'); i >= 0 {
		end = start + i
	}
	return q[start:end], lineNum, utf8.RuneCountInString(q[start:pos])
}
