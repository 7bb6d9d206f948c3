package cif

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/andrew-torda/matrix"
)

// Category is a named table. Every column has the same number of rows.
// A category with one row is written as name/value pairs, anything bigger
// is written as a loop.
type Category struct {
	name string
	keys []string
	cols map[string]*Column
	nrow int // -1 until somebody asks
}

// NewCategory makes an empty category. It cannot be written until it has
// at least one column.
func NewCategory(name string) *Category {
	return &Category{name: name, cols: make(map[string]*Column), nrow: -1}
}

// Name is the category name without the leading underscore.
func (c *Category) Name() string { return c.name }

// SetName renames the category. A Block does this when you store the
// category in it.
func (c *Category) SetName(name string) { c.name = name }

// Set stores a column under key. Anything which is not a *Column goes
// through NewColumn first. Replacing a column keeps its position.
func (c *Category) Set(key string, v any) error {
	if key == "" {
		return fmt.Errorf("%w: empty column name", ErrValue)
	}
	var col *Column
	switch t := v.(type) {
	case *Column:
		if t == nil {
			return ErrNilColumn
		}
		col = t
	default:
		var err error
		if col, err = NewColumn(v); err != nil {
			return fmt.Errorf("column %s: %w", key, err)
		}
	}
	c.set(key, col)
	return nil
}

func (c *Category) set(key string, col *Column) {
	if _, ok := c.cols[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.cols[key] = col
	c.nrow = -1
}

// Get returns the column called key.
func (c *Category) Get(key string) (*Column, bool) {
	col, ok := c.cols[key]
	return col, ok
}

// Keys returns the column names in order.
func (c *Category) Keys() []string { return append([]string(nil), c.keys...) }

// Len is the number of columns.
func (c *Category) Len() int { return len(c.keys) }

// RowCount is the length of the first column. It does not check the
// others. Serialize does that.
func (c *Category) RowCount() int {
	if c.nrow < 0 {
		if len(c.keys) == 0 {
			return 0
		}
		c.nrow = c.cols[c.keys[0]].Len()
	}
	return c.nrow
}

// Delete removes a column. The last column cannot be removed.
func (c *Category) Delete(key string) error {
	if _, ok := c.cols[key]; !ok {
		return fmt.Errorf("%w: column %s", ErrNoKey, key)
	}
	if len(c.keys) == 1 {
		return ErrLastColumn
	}
	delete(c.cols, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
	c.nrow = -1
	return nil
}

// Equal is true if both have the same column names, in any order, and
// the columns are equal. The category names are not compared.
func (c *Category) Equal(o *Category) bool {
	if c == nil || o == nil {
		return c == o
	}
	if len(c.cols) != len(o.cols) {
		return false
	}
	for k, col := range c.cols {
		ocol, ok := o.cols[k]
		if !ok || !col.Equal(ocol) {
			return false
		}
	}
	return true
}

// Row returns row i as text, keyed by column name.
func (c *Category) Row(i int) (map[string]string, error) {
	if i < 0 || i >= c.RowCount() {
		return nil, fmt.Errorf("%w: row %d of %d", ErrValue, i, c.RowCount())
	}
	row := make(map[string]string, len(c.keys))
	for _, k := range c.keys {
		col := c.cols[k]
		if i >= col.Len() {
			return nil, fmt.Errorf("%w: column %s", ErrRowCount, k)
		}
		row[k] = col.itemText(i)
	}
	return row, nil
}

// FloatMatrix copies the named columns into a rows x len(keys) matrix,
// like Cartn_x, Cartn_y, Cartn_z from atom_site. Masked values become NaN.
func (c *Category) FloatMatrix(keys ...string) (*matrix.FMatrix2d, error) {
	if len(keys) == 0 {
		return nil, ErrNoColumns
	}
	nrow := c.RowCount()
	mat := matrix.NewFMatrix2d(nrow, len(keys))
	nan := float32(math.NaN())
	for j, k := range keys {
		col, ok := c.cols[k]
		if !ok {
			return nil, fmt.Errorf("%w: column %s", ErrNoKey, k)
		}
		if col.Len() != nrow {
			return nil, fmt.Errorf("%w: column %s", ErrRowCount, k)
		}
		flts, err := col.AsFloats(math.NaN())
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", k, err)
		}
		for i, x := range flts {
			if math.IsNaN(x) {
				mat.Mat[i][j] = nan
			} else {
				mat.Mat[i][j] = float32(x)
			}
		}
	}
	return mat, nil
}

// DeserializeCategory parses the text of one category.
// If expectWhitespace is false, the values of a loop are split at white
// space without looking at quotes. This is much faster, but only right
// if no quoted value has a space in it. Text fields are always fine.
// Errors are *DeserializationError.
func DeserializeCategory(text string, expectWhitespace bool) (*Category, error) {
	c, name, err := parseCategory(text, expectWhitespace)
	if err != nil {
		return nil, &DeserializationError{Kind: "category", Name: name, Err: err}
	}
	return c, nil
}

// parseCategory also returns the name so the caller can say which
// category broke, even if the name is all we got.
func parseCategory(text string, expectWhitespace bool) (*Category, string, error) {
	lines := splitLines(text)
	i := nextContent(lines, 0)
	if i == len(lines) {
		return nil, "", fmt.Errorf("%w: no content", ErrNoColumns)
	}
	looped := false
	if isLoopStart(strings.TrimSpace(lines[i])) {
		looped = true
		if i = nextContent(lines, i+1); i == len(lines) {
			return nil, "", newLineError(len(lines), "", "loop_ with nothing after it")
		}
	}
	name, ok := parseCategoryName(strings.TrimSpace(lines[i]))
	if !ok {
		return nil, "", newLineError(i+1, lines[i], "no category name")
	}
	c := NewCategory(name)
	var err error
	if looped {
		err = c.readLooped(lines, i, expectWhitespace)
	} else {
		err = c.readSingle(lines, i)
	}
	if err != nil {
		return nil, name, err
	}
	return c, name, nil
}

// nextContent returns the index of the first line from i on which is not
// blank or a comment, or len(lines).
func nextContent(lines []string, i int) int {
	for ; i < len(lines); i++ {
		if !isEmpty(strings.TrimSpace(lines[i])) {
			break
		}
	}
	return i
}

// columnKey returns "Cartn_x" for "_atom_site.Cartn_x".
func columnKey(word string) (string, bool) {
	dot := strings.IndexByte(word, '.')
	if dot < 0 || dot == len(word)-1 {
		return "", false
	}
	return word[dot+1:], true
}

// readSingle reads name value pairs, one per logical line.
func (c *Category) readSingle(lines []string, start int) error {
	logicals, err := toLogical(lines, start)
	if err != nil {
		return err
	}
	for _, l := range logicals {
		if len(l.toks) != 2 {
			return newLineError(l.n, lines[l.n-1],
				fmt.Sprintf("want a name and one value, got %d words", len(l.toks)))
		}
		key, ok := columnKey(l.toks[0])
		if !ok {
			return newLineError(l.n, lines[l.n-1], "no column name")
		}
		vals := []string{l.toks[1]}
		d := newStrings(vals)
		c.set(key, &Column{data: d, mask: inferMask(d)})
	}
	return nil
}

// readLooped reads the column names, then hands out the values round
// robin. Line breaks do not matter, only the number of values.
func (c *Category) readLooped(lines []string, start int, expectWhitespace bool) error {
	var keys []string
	seen := make(map[string]bool)
	i := start
	for ; i < len(lines); i++ {
		s := strings.TrimSpace(lines[i])
		if isEmpty(s) {
			continue
		}
		if s[0] != '_' {
			break
		}
		word := s
		if n := strings.IndexAny(s, " \t"); n > 0 {
			word = s[:n]
		}
		key, ok := columnKey(word)
		if !ok {
			return newLineError(i+1, lines[i], "no column name")
		}
		if seen[key] {
			return newLineError(i+1, lines[i], "column name repeated")
		}
		seen[key] = true
		keys = append(keys, key)
	}

	ncol := len(keys)
	vals := make([][]string, ncol)
	for j := range vals {
		vals[j] = make([]string, 0, len(lines)-i) // usually one row per line
	}
	k := 0 // next column to get a value
	add := func(v string) {
		vals[k] = append(vals[k], v)
		if k++; k == ncol {
			k = 0
		}
	}
	var toks []string
	var err error
	for ; i < len(lines); i++ {
		s := strings.TrimSpace(lines[i])
		if isEmpty(s) {
			continue
		}
		if s[0] == textChar {
			var value string
			if value, i, err = readText(lines, i); err != nil {
				return err
			}
			add(value)
			continue
		}
		if expectWhitespace {
			toks = splitLine(s, toks)
		} else {
			toks = fields(s, toks)
		}
		for _, t := range toks {
			add(t)
		}
	}

	if len(vals[0]) == 0 {
		return ErrNoRows
	}
	if k != 0 {
		nval := (len(vals[0])-1)*ncol + k
		return fmt.Errorf("%w: %d values do not fill %d columns", ErrRowCount, nval, ncol)
	}
	for j, key := range keys {
		d := newStrings(vals[j])
		c.set(key, &Column{data: d, mask: inferMask(d)})
	}
	return nil
}

// Serialize writes the category as text, ending with a newline.
// Nothing is written unless everything is in order. Errors are
// *SerializationError.
func (c *Category) Serialize() (string, error) {
	s, err := c.serialize()
	if err != nil {
		return "", &SerializationError{Kind: "category", Name: c.name, Err: err}
	}
	return s, nil
}

func (c *Category) serialize() (string, error) {
	if c.name == "" {
		return "", ErrNoName
	}
	if len(c.keys) == 0 {
		return "", ErrNoColumns
	}
	c.nrow = -1
	nrow := c.RowCount()
	for _, k := range c.keys {
		if n := c.cols[k].Len(); n != nrow {
			return "", fmt.Errorf("%w: %s has %d rows, %s has %d",
				ErrRowCount, k, n, c.keys[0], nrow)
		}
	}
	switch nrow {
	case 0:
		return "", ErrNoRows
	case 1:
		return c.serializeSingle(), nil
	}
	return c.serializeLooped(), nil
}

func (c *Category) serializeSingle() string {
	names := make([]string, len(c.keys))
	width := 0
	for i, k := range c.keys {
		names[i] = "_" + c.name + "." + k
		if n := utf8.RuneCountInString(names[i]); n > width {
			width = n
		}
	}
	width += 3
	var b strings.Builder
	for i, k := range c.keys {
		v := multiline(quote(c.cols[k].itemText(0)))
		b.WriteString(names[i])
		if v[0] == '\n' { // text field starts on the next line
			b.WriteString(v)
			continue
		}
		b.WriteString(strings.Repeat(" ", width-utf8.RuneCountInString(names[i])))
		b.WriteString(v)
		b.WriteByte('\n')
	}
	return b.String()
}

func (c *Category) serializeLooped() string {
	var b strings.Builder
	b.WriteString(loopPrefix)
	b.WriteByte('\n')
	for _, k := range c.keys {
		b.WriteString("_" + c.name + "." + k + "\n")
	}

	// Quote first, since quotes change the width.
	cells := make([][]string, len(c.keys))
	widths := make([]int, len(c.keys))
	for j, k := range c.keys {
		strs := c.cols[k].AsStrings()
		cells[j] = make([]string, len(strs))
		for i, s := range strs {
			v := multiline(quote(s))
			cells[j][i] = v
			if v[0] == '\n' { // text fields do not count
				continue
			}
			if n := utf8.RuneCountInString(v); n > widths[j] {
				widths[j] = n
			}
		}
		widths[j]++
	}

	var line strings.Builder
	last := len(c.keys) - 1
	for i := 0; i < c.nrow; i++ {
		line.Reset()
		for j := range cells {
			v := cells[j][i]
			line.WriteString(v)
			if j == last || v[0] == '\n' {
				continue
			}
			line.WriteString(strings.Repeat(" ", widths[j]-utf8.RuneCountInString(v)))
		}
		b.WriteString(strings.TrimRight(line.String(), " \n"))
		b.WriteByte('\n')
	}
	return b.String()
}
