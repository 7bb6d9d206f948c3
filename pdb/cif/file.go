package cif

import (
	"fmt"
	"strings"
)

// File is an ordered collection of blocks. Reading a file only finds the
// data_ lines. A block is cut into categories the first time it is
// asked for, and a category is only read when it is asked for.
type File struct {
	blocks lazyMap[*Block]
	fast   []string
}

// NewFile makes an empty file.
func NewFile() *File {
	return &File{blocks: newLazyMap[*Block]()}
}

// DeserializeFile finds the blocks in text. Anything before the first
// data_ line is ignored.
func DeserializeFile(text string) (*File, error) {
	f := NewFile()
	lines := splitLines(text)
	type start struct {
		i    int
		name string
	}
	var starts []start
	inText := false
	for i, l := range lines {
		s := strings.TrimSpace(l)
		if inText {
			if isTextClose(s) {
				inText = false
			}
			continue
		}
		if isEmpty(s) {
			continue
		}
		if s[0] == textChar {
			inText = true
			continue
		}
		name, ok := parseBlockName(s)
		if !ok {
			continue
		}
		if name == "" {
			err := &lineError{n: i + 1, inline: l, desc: "data_ without a name", err: ErrNoName}
			return nil, &DeserializationError{Kind: "file", Err: err}
		}
		starts = append(starts, start{i, name})
	}
	for n, st := range starts {
		end := len(lines)
		if n+1 < len(starts) {
			end = starts[n+1].i
		}
		first := nextContent(lines, st.i+1)
		if first > end {
			first = end
		}
		f.blocks.setRaw(st.name, span(lines, first, end))
	}
	return f, nil
}

// SetFastCategories is passed on to every block, those already read and
// those read later. See Block.SetFastCategories.
func (f *File) SetFastCategories(names ...string) {
	f.fast = append([]string(nil), names...)
	f.blocks.each(func(_ string, s *slot[*Block]) error {
		if s.state == slotParsed {
			s.val.SetFastCategories(f.fast...)
		}
		return nil
	})
}

// Get returns the block called key, cutting it into categories if this is
// the first time.
func (f *File) Get(key string) (*Block, error) {
	parse := func(raw string) (*Block, error) {
		b, err := parseBlock(raw)
		if err != nil {
			return nil, &DeserializationError{Kind: "block", Name: key, Err: err}
		}
		b.SetFastCategories(f.fast...)
		return b, nil
	}
	b, ok, err := f.blocks.get(key, parse)
	if !ok {
		return nil, fmt.Errorf("%w: block %s", ErrNoKey, key)
	}
	return b, err
}

// Block returns the only block. It is an error if there is not exactly
// one, which is the usual case for files from the PDB.
func (f *File) Block() (*Block, error) {
	if n := f.blocks.len(); n != 1 {
		return nil, fmt.Errorf("%w: found %d", ErrNotOneBlock, n)
	}
	return f.Get(f.blocks.keys[0])
}

// Set stores a block under key.
func (f *File) Set(key string, b *Block) error {
	if b == nil {
		return ErrNilBlock
	}
	if key == "" {
		return ErrNoName
	}
	f.blocks.set(key, b)
	return nil
}

// Delete removes a block.
func (f *File) Delete(key string) error {
	if !f.blocks.del(key) {
		return fmt.Errorf("%w: block %s", ErrNoKey, key)
	}
	return nil
}

// Keys returns block names in order.
func (f *File) Keys() []string { return f.blocks.ordered() }

// Len is the number of blocks.
func (f *File) Len() int { return f.blocks.len() }

// Parsed says whether a block has been cut into categories.
func (f *File) Parsed(key string) bool { return f.blocks.parsed(key) }

// Serialize writes every block after a data_ line and a "#" line.
// Blocks never read go out as they came in.
func (f *File) Serialize() (string, error) {
	var sb strings.Builder
	err := f.blocks.each(func(key string, s *slot[*Block]) error {
		sb.WriteString(dataPrefix + key + "\n#\n")
		if s.state == slotRaw {
			if s.raw != "" {
				sb.WriteString(s.raw)
				sb.WriteString("\n#\n")
			}
			return nil
		}
		text, err := s.val.Serialize()
		if err != nil {
			return &SerializationError{Kind: "block", Name: key, Err: err}
		}
		sb.WriteString(text)
		return nil
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Lines is Serialize cut into lines.
func (f *File) Lines() ([]string, error) {
	s, err := f.Serialize()
	if err != nil {
		return nil, err
	}
	return splitLines(s), nil
}

// Equal compares the blocks, parsing them on both sides. Order does not
// matter.
func (f *File) Equal(o *File) bool {
	if f == nil || o == nil {
		return f == o
	}
	if f.Len() != o.Len() {
		return false
	}
	for _, k := range f.Keys() {
		b, err := f.Get(k)
		if err != nil {
			return false
		}
		ob, err := o.Get(k)
		if err != nil || !b.Equal(ob) {
			return false
		}
	}
	return true
}
