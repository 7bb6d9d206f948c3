// Dealing with lines. The first character on the line is decisive. If it
// is a data item it has to be a "_". A loop starts with loop_, a block
// with data_ and a text field with ";". Blank lines and lines starting with
// "#" carry nothing.
package cif

import (
	"strings"
)

const (
	cmmtChar   = '#'
	textChar   = ';'
	loopPrefix = "loop_"
	dataPrefix = "data_"
)

// splitLines breaks text at newlines and drops a carriage return at the end
// of each line, so files from windows behave.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if n := len(l); n > 0 && l[n-1] == '\r' {
			lines[i] = l[:n-1]
		}
	}
	if n := len(lines); n > 0 && lines[n-1] == "" { // Final newline does not make a line
		lines = lines[:n-1]
	}
	return lines
}

// isEmpty is true for lines which are blank or comments. s must already be
// trimmed.
func isEmpty(s string) bool {
	return len(s) == 0 || s[0] == cmmtChar
}

func isLoopStart(s string) bool {
	return strings.HasPrefix(s, loopPrefix)
}

// isTextClose is true for the line that ends a text field, a semicolon on
// its own.
func isTextClose(raw string) bool {
	return strings.TrimSpace(raw) == ";"
}

// parseCategoryName takes a trimmed line like "_atom_site.Cartn_x 1.0" and
// returns "atom_site". If the line does not start with an underscore or
// there is no dot in the first word, ok is false.
func parseCategoryName(s string) (name string, ok bool) {
	if len(s) == 0 || s[0] != '_' {
		return "", false
	}
	end := len(s)
	for i := 1; i < len(s); i++ {
		if iswhite(s[i]) {
			end = i
			break
		}
	}
	dot := strings.IndexByte(s[:end], '.')
	if dot < 0 {
		return "", false
	}
	return s[1:dot], true
}

// parseBlockName returns "1ABC" for "data_1ABC".
func parseBlockName(s string) (string, bool) {
	if !strings.HasPrefix(s, dataPrefix) {
		return "", false
	}
	return strings.TrimSpace(s[len(dataPrefix):]), true
}

// span is one element's worth of text, the lines from start up to, but
// not including, end. Trailing blank lines and comments are dropped, since
// the "#" separator is put back when writing.
func span(lines []string, start, end int) string {
	for end > start && isEmpty(strings.TrimSpace(lines[end-1])) {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

// logical is one logical line of a category. Text fields and values
// which were wrapped onto the next line have already been joined onto it,
// and it has been split into words.
type logical struct {
	n    int      // line number in the category text, counting from 1
	toks []string // words
}

// readText collects a text field. lines[i] is the opening line, starting
// with ";". The lines up to the closing ";" are kept as they are, line
// breaks and leading spaces included. It returns the value and the index
// of the closing line.
func readText(lines []string, i int) (string, int, error) {
	open := strings.TrimSpace(lines[i])
	var b strings.Builder
	b.WriteString(open[1:])
	for j := i + 1; j < len(lines); j++ {
		if isTextClose(lines[j]) {
			return stripQuotes(b.String()), j, nil
		}
		b.WriteByte('\n')
		b.WriteString(lines[j])
	}
	return "", 0, newLineError(i+1, lines[i], "text field is never closed")
}

// toLogical turns the lines of a category which is not a loop into
// logical lines. Blank lines and comments go. A text field, or a line
// without a name, is the value for the name on the previous line.
// start is the first line the caller has not looked at yet.
func toLogical(lines []string, start int) ([]logical, error) {
	out := make([]logical, 0, len(lines)-start)
	var scrtch []string
	var err error
	for i := start; i < len(lines); i++ {
		s := strings.TrimSpace(lines[i])
		if isEmpty(s) {
			continue
		}
		if s[0] == '_' {
			scrtch = splitLine(s, scrtch)
			toks := make([]string, len(scrtch))
			copy(toks, scrtch)
			out = append(out, logical{n: i + 1, toks: toks})
			continue
		}
		if len(out) == 0 { // Nothing to hang the value on
			return nil, newLineError(i+1, lines[i], "value before any data name")
		}
		last := &out[len(out)-1]
		if s[0] == textChar {
			var value string
			if value, i, err = readText(lines, i); err != nil {
				return nil, err
			}
			last.toks = append(last.toks, value)
			continue
		}
		scrtch = splitLine(s, scrtch)
		last.toks = append(last.toks, scrtch...)
	}
	return out, nil
}
