package cif

import (
	"fmt"
)

// MaskValue says whether a value is really there.
// In the text, a dot, ".", means not appropriate or deliberately left out
// and a question mark, "?", means a missing value.
type MaskValue uint8

const (
	Present      MaskValue = 0
	Inapplicable MaskValue = 1
	Missing      MaskValue = 2
)

const (
	dotMark = "."
	qMark   = "?"
)

// Column is a Data cell and an optional mask. No mask means every value
// is present, and we never store a mask which only says "present".
type Column struct {
	data *Data
	mask *Data // ByteKind, or nil
}

// NewColumn takes a *Data or anything NewData will take. For text, the
// mask is worked out by looking for "." and "?".
// Numeric input keeps its kind. Text is what you get from a file, numbers
// are what you get if you build a column yourself.
func NewColumn(v any) (*Column, error) {
	data, err := NewData(v)
	if err != nil {
		return nil, err
	}
	return &Column{data: data, mask: inferMask(data)}, nil
}

// NewMaskedColumn takes the data and an explicit mask. The mask is
// converted to bytes, must have the same length as the data and can only
// contain the three mask codes.
func NewMaskedColumn(v, mask any) (*Column, error) {
	data, err := NewData(v)
	if err != nil {
		return nil, err
	}
	if mask == nil {
		return &Column{data: data, mask: inferMask(data)}, nil
	}
	m, err := NewDataAs(mask, ByteKind)
	if err != nil {
		return nil, fmt.Errorf("mask: %w", err)
	}
	if m.Len() != data.Len() {
		return nil, fmt.Errorf("%w: data has length %d, but mask has length %d",
			ErrMaskLength, data.Len(), m.Len())
	}
	allPresent := true
	for i, b := range m.byts {
		if MaskValue(b) > Missing {
			return nil, fmt.Errorf("%w: %d at %d", ErrMaskCode, b, i)
		}
		if MaskValue(b) != Present {
			allPresent = false
		}
	}
	if allPresent {
		m = nil
	}
	return &Column{data: data, mask: m}, nil
}

// inferMask looks for the two special strings. If there are none, it
// returns nil. Only text can hold these markers.
func inferMask(data *Data) *Data {
	if data.kind != StringKind {
		return nil
	}
	var m []uint8
	for i, s := range data.strs {
		var mv MaskValue
		switch s {
		case dotMark:
			mv = Inapplicable
		case qMark:
			mv = Missing
		default:
			continue
		}
		if m == nil { // First special value. Now we need the space.
			m = make([]uint8, len(data.strs))
		}
		m[i] = uint8(mv)
	}
	if m == nil {
		return nil
	}
	return &Data{kind: ByteKind, byts: m}
}

// Data returns the values, including whatever sits at masked positions.
func (c *Column) Data() *Data { return c.data }

// Mask returns nil if every value is present.
func (c *Column) Mask() *Data { return c.mask }

// Len is the number of rows.
func (c *Column) Len() int { return c.data.Len() }

// MaskAt returns the mask code of element i.
func (c *Column) MaskAt(i int) MaskValue {
	if c.mask == nil {
		return Present
	}
	return MaskValue(c.mask.byts[i])
}

// itemText is element i as it would be written out. Masked values come
// back as "." or "?".
func (c *Column) itemText(i int) string {
	switch c.MaskAt(i) {
	case Inapplicable:
		return dotMark
	case Missing:
		return qMark
	}
	return c.data.text(i)
}

// AsItem is for columns with a single value. Floats get three decimals.
func (c *Column) AsItem() (string, error) {
	if c.Len() != 1 {
		return "", fmt.Errorf("%w: length is %d", ErrNotSingle, c.Len())
	}
	return c.itemText(0), nil
}

// AsArray converts every element to kind k.
// For text, masked positions get "." and "?", unless masked is non-nil,
// in which case it is used for both. For numbers, masked positions get
// masked or zero and are never converted themselves (an empty string
// cannot become an int).
func (c *Column) AsArray(k Kind, masked any) (*Data, error) {
	if c.mask == nil && masked == nil {
		return c.data.Convert(k)
	}
	n := c.Len()
	out := makeData(k, n)
	var fill *Data
	if masked != nil {
		var err error
		if fill, err = NewDataAs(masked, k); err != nil {
			return nil, fmt.Errorf("replacement for masked values: %w", err)
		}
		if fill.Len() != 1 {
			return nil, fmt.Errorf("%w: replacement for masked values", ErrNotSingle)
		}
	}
	for i := 0; i < n; i++ {
		mv := c.MaskAt(i)
		if mv == Present {
			if err := out.setFrom(i, c.data); err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			continue
		}
		switch {
		case fill != nil:
			out.copyElem(i, fill, 0)
		case k == StringKind && mv == Inapplicable:
			out.strs[i] = dotMark
		case k == StringKind:
			out.strs[i] = qMark
		} // numbers are left as zero
	}
	return out, nil
}

// copyElem puts element j of src (same kind) at position i.
func (d *Data) copyElem(i int, src *Data, j int) {
	switch d.kind {
	case StringKind:
		d.strs[i] = src.strs[j]
	case IntKind:
		d.ints[i] = src.ints[j]
	case FloatKind:
		d.flts[i] = src.flts[j]
	case ByteKind:
		d.byts[i] = src.byts[j]
	}
}

// AsStrings is the text form of the column, markers included.
// This is what gets written to a file.
func (c *Column) AsStrings() []string {
	if c.data.kind == StringKind && c.mask == nil {
		return c.data.strs
	}
	s := make([]string, c.Len())
	for i := range s {
		s[i] = c.itemText(i)
	}
	return s
}

// AsInts converts to integers. Masked positions get repl.
func (c *Column) AsInts(repl int64) ([]int64, error) {
	d, err := c.AsArray(IntKind, repl)
	if err != nil {
		return nil, err
	}
	return d.ints, nil
}

// AsFloats converts to floats. Masked positions get repl, which is often
// math.NaN().
func (c *Column) AsFloats(repl float64) ([]float64, error) {
	d, err := c.AsArray(FloatKind, repl)
	if err != nil {
		return nil, err
	}
	return d.flts, nil
}

// Equal compares data and mask.
func (c *Column) Equal(o *Column) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.data.Equal(o.data) && c.mask.Equal(o.mask)
}
