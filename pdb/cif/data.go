package cif

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the element type of a Data cell.
type Kind byte

const (
	StringKind Kind = iota
	IntKind         // int64
	FloatKind       // float64
	ByteKind        // uint8, used for masks
)

func (k Kind) String() string {
	switch k {
	case StringKind:
		return "string"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case ByteKind:
		return "byte"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Data is a one dimensional, homogeneous array of scalars. Only the slice
// that goes with kind is used. A Data is never empty and is not changed
// after it has been built. If you want something different, make a new one.
type Data struct {
	kind Kind
	strs []string
	ints []int64
	flts []float64
	byts []uint8
}

// NewData takes a scalar or a slice of scalars. A scalar is wrapped into
// a slice of length one. Slices are copied, so the caller can go on using
// theirs.
func NewData(v any) (*Data, error) {
	switch t := v.(type) {
	case *Data:
		if t == nil {
			return nil, fmt.Errorf("%w: nil data", ErrType)
		}
		return t, nil
	case string:
		return newStrings([]string{t}), nil
	case int:
		return &Data{kind: IntKind, ints: []int64{int64(t)}}, nil
	case int8:
		return &Data{kind: IntKind, ints: []int64{int64(t)}}, nil
	case int16:
		return &Data{kind: IntKind, ints: []int64{int64(t)}}, nil
	case int32:
		return &Data{kind: IntKind, ints: []int64{int64(t)}}, nil
	case int64:
		return &Data{kind: IntKind, ints: []int64{t}}, nil
	case uint16:
		return &Data{kind: IntKind, ints: []int64{int64(t)}}, nil
	case uint32:
		return &Data{kind: IntKind, ints: []int64{int64(t)}}, nil
	case uint8:
		return &Data{kind: ByteKind, byts: []uint8{t}}, nil
	case float32:
		return &Data{kind: FloatKind, flts: []float64{float64(t)}}, nil
	case float64:
		return &Data{kind: FloatKind, flts: []float64{t}}, nil
	case MaskValue:
		return &Data{kind: ByteKind, byts: []uint8{uint8(t)}}, nil
	}

	n, err := sliceLen(v)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrEmptyData
	}
	d := new(Data)
	switch t := v.(type) {
	case []string:
		d.kind = StringKind
		d.strs = append([]string(nil), t...)
	case []int:
		d.kind = IntKind
		d.ints = make([]int64, len(t))
		for i, x := range t {
			d.ints[i] = int64(x)
		}
	case []int32:
		d.kind = IntKind
		d.ints = make([]int64, len(t))
		for i, x := range t {
			d.ints[i] = int64(x)
		}
	case []int64:
		d.kind = IntKind
		d.ints = append([]int64(nil), t...)
	case []float32:
		d.kind = FloatKind
		d.flts = make([]float64, len(t))
		for i, x := range t {
			d.flts[i] = float64(x)
		}
	case []float64:
		d.kind = FloatKind
		d.flts = append([]float64(nil), t...)
	case []uint8:
		d.kind = ByteKind
		d.byts = append([]uint8(nil), t...)
	case []MaskValue:
		d.kind = ByteKind
		d.byts = make([]uint8, len(t))
		for i, x := range t {
			d.byts[i] = uint8(x)
		}
	}
	return d, nil
}

// sliceLen returns the length of the slice types we know about and
// an error for everything else. These are the "object" arrays which we
// refuse.
func sliceLen(v any) (int, error) {
	switch t := v.(type) {
	case []string:
		return len(t), nil
	case []int:
		return len(t), nil
	case []int32:
		return len(t), nil
	case []int64:
		return len(t), nil
	case []float32:
		return len(t), nil
	case []float64:
		return len(t), nil
	case []uint8:
		return len(t), nil
	case []MaskValue:
		return len(t), nil
	}
	return 0, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

// NewDataAs builds a Data and converts it to kind k.
func NewDataAs(v any, k Kind) (*Data, error) {
	d, err := NewData(v)
	if err != nil {
		return nil, err
	}
	return d.Convert(k)
}

// newStrings does not copy. It is for the parser which has just made
// the slice and will not touch it again.
func newStrings(s []string) *Data {
	return &Data{kind: StringKind, strs: s}
}

// Kind returns the element type.
func (d *Data) Kind() Kind { return d.kind }

// Len returns the number of elements.
func (d *Data) Len() int {
	switch d.kind {
	case StringKind:
		return len(d.strs)
	case IntKind:
		return len(d.ints)
	case FloatKind:
		return len(d.flts)
	case ByteKind:
		return len(d.byts)
	}
	return 0
}

// The accessors return the backing slice, not a copy. Do not write
// into them. They return nil if the kind is wrong.
func (d *Data) Strings() []string { return d.strs }
func (d *Data) Ints() []int64 { return d.ints }
func (d *Data) Floats() []float64 { return d.flts }
func (d *Data) Bytes() []uint8 { return d.byts }

// Equal is element-wise equality. Both the kind and the values must match.
func (d *Data) Equal(o *Data) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.kind != o.kind || d.Len() != o.Len() {
		return false
	}
	switch d.kind {
	case StringKind:
		for i, s := range d.strs {
			if s != o.strs[i] {
				return false
			}
		}
	case IntKind:
		for i, x := range d.ints {
			if x != o.ints[i] {
				return false
			}
		}
	case FloatKind:
		for i, x := range d.flts {
			if x != o.flts[i] {
				return false
			}
		}
	case ByteKind:
		for i, x := range d.byts {
			if x != o.byts[i] {
				return false
			}
		}
	}
	return true
}

// String is for debugging and test messages.
func (d *Data) String() string {
	var b strings.Builder
	b.WriteString(d.kind.String())
	b.WriteByte('[')
	for i := 0; i < d.Len(); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.text(i))
	}
	b.WriteByte(']')
	return b.String()
}

// formatFloat is the one place floats become text. Three decimals,
// always. People diff these files byte for byte.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

// text returns element i as a string.
func (d *Data) text(i int) string {
	switch d.kind {
	case StringKind:
		return d.strs[i]
	case IntKind:
		return strconv.FormatInt(d.ints[i], 10)
	case FloatKind:
		return formatFloat(d.flts[i])
	case ByteKind:
		return strconv.FormatUint(uint64(d.byts[i]), 10)
	}
	return ""
}

func (d *Data) int64At(i int) (int64, error) {
	switch d.kind {
	case StringKind:
		x, err := strconv.ParseInt(strings.TrimSpace(d.strs[i]), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrConvert, err)
		}
		return x, nil
	case IntKind:
		return d.ints[i], nil
	case FloatKind:
		f := d.flts[i]
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: %v to int", ErrConvert, f)
		}
		return int64(f), nil
	case ByteKind:
		return int64(d.byts[i]), nil
	}
	return 0, ErrUnsupportedType
}

func (d *Data) float64At(i int) (float64, error) {
	switch d.kind {
	case StringKind:
		x, err := strconv.ParseFloat(strings.TrimSpace(d.strs[i]), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrConvert, err)
		}
		return x, nil
	case IntKind:
		return float64(d.ints[i]), nil
	case FloatKind:
		return d.flts[i], nil
	case ByteKind:
		return float64(d.byts[i]), nil
	}
	return 0, ErrUnsupportedType
}

func (d *Data) uint8At(i int) (uint8, error) {
	x, err := d.int64At(i)
	if err != nil {
		return 0, err
	}
	if x < 0 || x > math.MaxUint8 {
		return 0, fmt.Errorf("%w: %d out of byte range", ErrConvert, x)
	}
	return uint8(x), nil
}

// makeData returns an empty Data of kind k with room for n elements.
func makeData(k Kind, n int) *Data {
	d := &Data{kind: k}
	switch k {
	case StringKind:
		d.strs = make([]string, n)
	case IntKind:
		d.ints = make([]int64, n)
	case FloatKind:
		d.flts = make([]float64, n)
	case ByteKind:
		d.byts = make([]uint8, n)
	}
	return d
}

// setFrom converts element i of src into element i of d.
func (d *Data) setFrom(i int, src *Data) (err error) {
	switch d.kind {
	case StringKind:
		d.strs[i] = src.text(i)
	case IntKind:
		d.ints[i], err = src.int64At(i)
	case FloatKind:
		d.flts[i], err = src.float64At(i)
	case ByteKind:
		d.byts[i], err = src.uint8At(i)
	}
	return err
}

// Convert returns the data as kind k. If nothing has to change, you get
// the same object back.
func (d *Data) Convert(k Kind) (*Data, error) {
	if k == d.kind {
		return d, nil
	}
	if k > ByteKind {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, k)
	}
	n := d.Len()
	out := makeData(k, n)
	for i := 0; i < n; i++ {
		if err := out.setFrom(i, d); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, nil
}
