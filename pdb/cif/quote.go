package cif

import (
	"strings"
)

// quote protects a value so it will be read back as one word.
//   - empty strings become ''
//   - something which is already in matching quotes is left alone
//   - a leading underscore or a single quote inside means double quotes
//   - a double quote or any white space the tokenizer splits at means
//     single quotes
//   - so does anything which would otherwise be read as a comment, a text
//     field, or a loop_ or data_ line
func quote(value string) string {
	switch {
	case len(value) == 0:
		return "''"
	case len(value) >= 2 && value[0] == squote && value[len(value)-1] == squote:
		return value
	case len(value) >= 2 && value[0] == dquote && value[len(value)-1] == dquote:
		return value
	case value[0] == '_' || strings.IndexByte(value, squote) >= 0:
		return `"` + value + `"`
	case strings.IndexByte(value, dquote) >= 0 || strings.ContainsAny(value, " \t\n\r\v\f"):
		return "'" + value + "'"
	case value[0] == cmmtChar || value[0] == textChar ||
		strings.HasPrefix(value, loopPrefix) || strings.HasPrefix(value, dataPrefix):
		return "'" + value + "'"
	}
	return value
}

// multiline puts anything with a line break into a text field, between
// lines starting with a semicolon. This wins over quoting.
func multiline(value string) string {
	if strings.IndexByte(value, '\n') >= 0 {
		return "\n;" + value + "\n;\n"
	}
	return value
}
