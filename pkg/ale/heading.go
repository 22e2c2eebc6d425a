package ale

// Heading is the ordered key/value block at the top of an ALE file.
// Keys are unique; setting an existing key keeps its position.
type Heading struct {
	keys   []string
	values map[string]string
}

// Entry is a single heading key/value pair.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// NewHeading creates an empty heading.
func NewHeading() *Heading {
	return &Heading{values: make(map[string]string)}
}

// Set sets key to value, appending the key when it is new.
func (h *Heading) Set(key, value string) {
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = value
}

// Get returns the value for key.
func (h *Heading) Get(key string) (string, bool) {
	v, ok := h.values[key]
	return v, ok
}

// Delete removes key and reports whether it was present.
func (h *Heading) Delete(key string) bool {
	if _, ok := h.values[key]; !ok {
		return false
	}
	delete(h.values, key)
	for i, k := range h.keys {
		if k == key {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of entries.
func (h *Heading) Len() int {
	return len(h.keys)
}

// Keys returns the keys in insertion order.
func (h *Heading) Keys() []string {
	return append([]string(nil), h.keys...)
}

// Entries returns the entries in insertion order.
func (h *Heading) Entries() []Entry {
	entries := make([]Entry, 0, len(h.keys))
	for _, k := range h.keys {
		entries = append(entries, Entry{Key: k, Value: h.values[k]})
	}
	return entries
}

// Copy returns a deep copy of the heading.
func (h *Heading) Copy() *Heading {
	c := &Heading{
		keys:   append([]string(nil), h.keys...),
		values: make(map[string]string, len(h.values)),
	}
	for k, v := range h.values {
		c.values[k] = v
	}
	return c
}
