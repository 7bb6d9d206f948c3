package cif

// Export some internal functions for testing

var (
	Quote       = quote
	Multiline   = multiline
	SplitLine   = splitLine
	Fields      = fields
	StripQuotes = stripQuotes
	SplitLines  = splitLines
	CheckText   = checkText
)

func ParseCategoryName(s string) (string, bool) { return parseCategoryName(s) }

// Raw returns the unparsed text of a category, or "" if it has been parsed.
func (b *Block) Raw(key string) string {
	if s, ok := b.cats.slots[key]; ok && s.state == slotRaw {
		return s.raw
	}
	return ""
}

func (f *File) Raw(key string) string {
	if s, ok := f.blocks.slots[key]; ok && s.state == slotRaw {
		return s.raw
	}
	return ""
}

// ToLogical returns the words of each logical line of a single row
// category.
func ToLogical(text string) ([][]string, error) {
	ll, err := toLogical(splitLines(text), 0)
	if err != nil {
		return nil, err
	}
	ret := make([][]string, len(ll))
	for i, l := range ll {
		ret[i] = l.toks
	}
	return ret, nil
}
