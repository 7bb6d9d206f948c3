package cif

import (
	"fmt"
	"strings"
)

// Block is an ordered collection of categories. Categories read from text
// stay as text until somebody asks for them with Get.
type Block struct {
	cats lazyMap[*Category]
	fast map[string]bool // categories to be split at white space only
}

// NewBlock makes an empty block.
func NewBlock() *Block {
	return &Block{cats: newLazyMap[*Category]()}
}

// DeserializeBlock finds where each category starts and stops. Nothing
// inside a category is read yet. The text should not include the
// data_ line.
func DeserializeBlock(text string) (*Block, error) {
	b, err := parseBlock(text)
	if err != nil {
		return nil, &DeserializationError{Kind: "block", Err: err}
	}
	return b, nil
}

// parseBlock cuts text into categories. A category starts at a loop_ or
// at a line whose category name differs from the one before it.
// Lines inside text fields are skipped, whatever they look like.
func parseBlock(text string) (*Block, error) {
	b := NewBlock()
	lines := splitLines(text)
	type start struct {
		i    int
		name string
	}
	var starts []start
	current := ""
	inText := false
	for i := 0; i < len(lines); i++ {
		s := strings.TrimSpace(lines[i])
		if inText {
			if isTextClose(s) {
				inText = false
			}
			continue
		}
		if isEmpty(s) {
			continue
		}
		switch {
		case s[0] == textChar:
			inText = true
		case isLoopStart(s):
			j := nextContent(lines, i+1)
			if j == len(lines) {
				return nil, newLineError(i+1, lines[i], "loop_ with nothing after it")
			}
			name, ok := parseCategoryName(strings.TrimSpace(lines[j]))
			if !ok {
				return nil, newLineError(j+1, lines[j], "no category name after loop_")
			}
			starts = append(starts, start{i, name})
			current = name
			i = j
		default:
			if name, ok := parseCategoryName(s); ok && name != current {
				starts = append(starts, start{i, name})
				current = name
			}
		}
	}
	for n, st := range starts {
		end := len(lines)
		if n+1 < len(starts) {
			end = starts[n+1].i
		}
		b.cats.setRaw(st.name, span(lines, st.i, end))
	}
	return b, nil
}

// SetFastCategories says which categories never have white space inside
// quoted values, so their loops can be split the quick way. atom_site
// is the usual candidate. It affects categories parsed from now on.
func (b *Block) SetFastCategories(names ...string) {
	b.fast = make(map[string]bool, len(names))
	for _, n := range names {
		b.fast[n] = true
	}
}

// Get returns the category called key, parsing it if this is the first
// time. If parsing fails, the error is a *DeserializationError naming the
// category and the text is kept, so the block can still be written.
// Once parsed, the category is written in canonical layout, so Serialize
// only gives the same text before and after Get if the input was already
// canonical. Values are kept, spacing and line breaks are not.
func (b *Block) Get(key string) (*Category, error) {
	parse := func(raw string) (*Category, error) {
		c, _, err := parseCategory(raw, !b.fast[key])
		if err != nil {
			return nil, &DeserializationError{Kind: "category", Name: key, Err: err}
		}
		return c, nil
	}
	c, ok, err := b.cats.get(key, parse)
	if !ok {
		return nil, fmt.Errorf("%w: category %s", ErrNoKey, key)
	}
	if err != nil {
		return nil, err
	}
	c.SetName(key)
	return c, nil
}

// Set stores a category under key and renames it to key.
func (b *Block) Set(key string, c *Category) error {
	if c == nil {
		return ErrNilCategory
	}
	if key == "" {
		return ErrNoName
	}
	c.SetName(key)
	b.cats.set(key, c)
	return nil
}

// Delete removes a category.
func (b *Block) Delete(key string) error {
	if !b.cats.del(key) {
		return fmt.Errorf("%w: category %s", ErrNoKey, key)
	}
	return nil
}

// Keys returns category names in order. Nothing is parsed.
func (b *Block) Keys() []string { return b.cats.ordered() }

// Len is the number of categories.
func (b *Block) Len() int { return b.cats.len() }

// Parsed says whether the category has been turned from text into a
// *Category.
func (b *Block) Parsed(key string) bool { return b.cats.parsed(key) }

// Serialize writes every category followed by a "#" line. Categories
// that were never read go out as they came in. Categories that were read
// with Get are written from their columns in canonical layout.
func (b *Block) Serialize() (string, error) {
	var sb strings.Builder
	err := b.cats.each(func(key string, s *slot[*Category]) error {
		if s.state == slotRaw {
			if s.raw != "" {
				sb.WriteString(s.raw)
				sb.WriteString("\n#\n")
			}
			return nil
		}
		s.val.SetName(key)
		text, err := s.val.Serialize()
		if err != nil {
			return err
		}
		sb.WriteString(text)
		sb.WriteString("#\n")
		return nil
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Equal parses every category on both sides. Order does not matter.
// A category which cannot be parsed makes the blocks unequal.
func (b *Block) Equal(o *Block) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.Len() != o.Len() {
		return false
	}
	for _, k := range b.Keys() {
		c, err := b.Get(k)
		if err != nil {
			return false
		}
		oc, err := o.Get(k)
		if err != nil || !c.Equal(oc) {
			return false
		}
	}
	return true
}
