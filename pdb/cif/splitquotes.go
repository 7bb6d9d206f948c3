// Splitting lines at spaces and quotes.

/* from https://www.iucr.org/resources/cif/spec/version1.1/cifsyntax
               character or string role
_ (underscore) identifies data name
#              identifies comment
$              identifies save frame pointer
'              delimits non-simple data values
"              delimits non-simple data values
; at beginning of line of text delimits non-simple data values
data_          identifies data block header (case-insensitive)
*/

package cif

const (
	squote byte = '\''
	dquote byte = '"'
)

// iswhite only works for ascii spaces
var asciiSpace = [256]bool{
	'\t': true, '\n': true, '\v': true, '\f': true, '\r': true, ' ': true,
}

// iswhite returns true if a byte is on the list of white space characters.
func iswhite(b byte) bool {
	return asciiSpace[b] // Seems to be inlined, so it costs nothing.
}

// isquote not only checks if we have a quote character, but also
func isquote(b byte, qtype *byte) bool { // stores its type
	if b == squote || b == dquote { //     (single or double) so we can
		*qtype = b  //                      look for the corresponding
		return true //                      closing quote
	}
	return false
}

type sInfo struct { // Holds the state of the state functions
	rewind  bool     // quote never closed, read it again as plain text
	ret     []string // This is what we will really return
	in      string
	nxtIndx int
	qtype   byte // type of quote
}
type sfn func(i int, c byte, s *sInfo) sfn // state function

func sfnInQuote(i int, c byte, sInfo *sInfo) sfn { // First state, in quoted region
	if c == sInfo.qtype {
		return sfnExitQuote
	}
	if c == '\n' && i == len(sInfo.in) { // only the fake newline we add at the end
		sInfo.rewind = true
		return sfnInText
	}
	return sfnInQuote
}

func sfnExitQuote(i int, c byte, sInfo *sInfo) sfn { // Second state
	if iswhite(c) { // quote followed by white really ends a quoted region
		sInfo.ret = append(sInfo.ret, sInfo.in[sInfo.nxtIndx:i-1])
		return sfnWhite
	}
	if c == sInfo.qtype { // ''' is still in the quote, the last one may close it
		return sfnExitQuote
	}
	return sfnInQuote // but if a character comes, we go back to quoted region
}

func sfnInText(i int, c byte, sInfo *sInfo) sfn {
	if iswhite(c) {
		sInfo.ret = append(sInfo.ret, sInfo.in[sInfo.nxtIndx:i])
		return sfnWhite
	}
	return sfnInText
}

func sfnWhite(i int, c byte, sInfo *sInfo) sfn { // State - in white space region
	switch {
	case iswhite(c):
		return sfnWhite
	case isquote(c, &sInfo.qtype):
		sInfo.nxtIndx = i + 1
		return sfnInQuote
	default:
		sInfo.nxtIndx = i
		return sfnInText
	}
}

// splitLine takes a line and returns the words in it. They are separated
// by white space, or delimited by matching quotes. A quote only closes
// a value if it is followed by white space or the end of the line, so
// 'a dog's life' is one word, a dog's life.
// A quote which never closes is not a quote. 'abc'def is the word
// 'abc'def, the same as the fast split gives.
// We have a small finite state machine with four states. When we leave text or
// a quote followed by a space, we save the word and append it to ret.
// ret is reused, so pass in what you got last time if you are in a loop.
func splitLine(in string, ret []string) []string {
	var sInfo = sInfo{ret: ret[:0], in: in}

	state := sfnWhite
	for i := 0; i <= len(in); i++ {
		c := byte('\n') // end with newline, closes the last word or quote
		if i < len(in) {
			c = in[i]
		}
		state = state(i, c, &sInfo)
		if sInfo.rewind { // back to the opening quote, now in plain text
			sInfo.rewind = false
			sInfo.nxtIndx--
			i = sInfo.nxtIndx
		}
	}
	return sInfo.ret
}

// fields is the fast split for tables where nobody puts white space
// inside quotes, like atom_site. Words are split at white space and
// if a word starts and ends with the same quote, the quotes are removed.
// Unlike the library version, it appends to a slice you give it.
// It is called for every line of a big table.
func fields(s string, ret []string) []string {
	ret = ret[:0]
	i := 0
	for {
		for i < len(s) && iswhite(s[i]) { // leading spaces
			i++
		}
		if i == len(s) {
			return ret
		}
		istart := i
		for i < len(s) && !iswhite(s[i]) { // in a word
			i++
		}
		ret = append(ret, stripQuotes(s[istart:i]))
	}
}

// stripQuotes removes one pair of matching quotes.
func stripQuotes(w string) string {
	if len(w) >= 2 {
		if q := w[0]; (q == squote || q == dquote) && w[len(w)-1] == q {
			return w[1 : len(w)-1]
		}
	}
	return w
}
