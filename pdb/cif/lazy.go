package cif

// A slot starts life as raw text from a file. The first time someone
// asks for it, the text is parsed and the slot is overwritten with the
// result. Something built by hand goes straight into a parsed slot.
type slotState uint8

const (
	slotRaw slotState = iota
	slotParsed
)

type slot[T any] struct {
	state slotState
	raw   string
	val   T
}

// lazyMap is an ordered map from names to slots. Blocks keep categories
// in one, files keep blocks.
// It is not safe for concurrent use. get() writes into the map the first
// time a key is read, so two goroutines reading the same key at the same
// time is a data race. The parse is deterministic, so the only harm in
// practice is parsing twice, but the race detector will still complain.
// Put a mutex around it or give each goroutine its own file.
type lazyMap[T any] struct {
	keys  []string
	slots map[string]*slot[T]
}

func newLazyMap[T any]() lazyMap[T] {
	return lazyMap[T]{slots: make(map[string]*slot[T])}
}

// put stores s under key. A key we have already seen keeps its place.
func (m *lazyMap[T]) put(key string, s *slot[T]) {
	if _, ok := m.slots[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.slots[key] = s
}

func (m *lazyMap[T]) setRaw(key, raw string) {
	m.put(key, &slot[T]{state: slotRaw, raw: raw})
}

func (m *lazyMap[T]) set(key string, v T) {
	m.put(key, &slot[T]{state: slotParsed, val: v})
}

// get returns the value for key, parsing it first if it is still text.
// If parse fails, the slot stays as it was.
func (m *lazyMap[T]) get(key string, parse func(raw string) (T, error)) (T, bool, error) {
	var zero T
	s, ok := m.slots[key]
	if !ok {
		return zero, false, nil
	}
	if s.state == slotRaw {
		v, err := parse(s.raw)
		if err != nil {
			return zero, true, err
		}
		m.slots[key] = &slot[T]{state: slotParsed, val: v}
		return v, true, nil
	}
	return s.val, true, nil
}

// parsed says whether key exists and has been parsed.
func (m *lazyMap[T]) parsed(key string) bool {
	s, ok := m.slots[key]
	return ok && s.state == slotParsed
}

func (m *lazyMap[T]) del(key string) bool {
	if _, ok := m.slots[key]; !ok {
		return false
	}
	delete(m.slots, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// ordered returns the keys in the order they were first stored.
func (m *lazyMap[T]) ordered() []string {
	return append([]string(nil), m.keys...)
}

func (m *lazyMap[T]) len() int { return len(m.keys) }

// each walks the slots in order without parsing anything.
func (m *lazyMap[T]) each(fn func(key string, s *slot[T]) error) error {
	for _, k := range m.keys {
		if err := fn(k, m.slots[k]); err != nil {
			return err
		}
	}
	return nil
}
