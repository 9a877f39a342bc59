package settings

// Entry is one position of a packed document. It holds either a literal
// compact identifier or an index into the shared identifier pool.
type Entry struct {
	Literal string
	Index   int
	IsIndex bool
}

// LiteralEntry returns an entry holding an identifier literal.
func LiteralEntry(id string) Entry { return Entry{Literal: id} }

// IndexEntry returns an entry pointing at position n of the identifier pool.
func IndexEntry(n int) Entry { return Entry{Index: n, IsIndex: true} }

// Table maps (document key, local position) pairs to the identifier of the
// asset stored at that position. It is read-only after construction and
// safe for concurrent use.
type Table struct {
	Packed map[string][]Entry
	UUIDs  []string
}

// Has reports whether key names a packed document.
func (t *Table) Has(key string) bool {
	if t == nil {
		return false
	}
	_, ok := t.Packed[key]
	return ok
}

// Resolve returns the identifier stored for position index of the packed
// document key. Integer entries are followed exactly once into the pool.
// The result is reported absent when the key is unknown or either the
// position or the pool index is out of range.
func (t *Table) Resolve(key string, index int) (string, bool) {
	if t == nil {
		return "", false
	}
	entries, ok := t.Packed[key]
	if !ok || index < 0 || index >= len(entries) {
		return "", false
	}
	e := entries[index]
	if !e.IsIndex {
		return e.Literal, e.Literal != ""
	}
	if e.Index < 0 || e.Index >= len(t.UUIDs) {
		return "", false
	}
	return t.UUIDs[e.Index], true
}

// Len returns the number of packed documents.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Packed)
}
