package source

import (
	"fmt"

	"fortio.org/safecast"
)

// StringID is a handle to an interned string.
type StringID uint32

const NoStringID StringID = 0

func (id StringID) IsValid() bool { return id != NoStringID }

// Interner maps identical strings to one id so names compare as integers.
// Slot 0 is the empty string.
type Interner struct {
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns the id of s, adding it if needed.
func (in *Interner) Intern(s string) StringID {
	if id, ok := in.index[s]; ok {
		return id
	}
	// своя копия: токены ссылаются на буфер файла
	cpy := string([]byte(s))
	n, err := safecast.Conv[uint32](len(in.byID))
	if err != nil {
		panic(fmt.Errorf("interner overflow: %w", err))
	}
	id := StringID(n)
	in.byID = append(in.byID, cpy)
	in.index[cpy] = id
	return id
}

// Find returns the id of s without interning it.
func (in *Interner) Find(s string) (StringID, bool) {
	id, ok := in.index[s]
	return id, ok
}

// Lookup returns the string stored under id.
func (in *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(in.byID) {
		return "", false
	}
	return in.byID[id], true
}

// MustLookup is Lookup that panics on unknown ids.
func (in *Interner) MustLookup(id StringID) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("interner: unknown string id %d", id))
	}
	return s
}

// Len counts stored strings including the empty one.
func (in *Interner) Len() int { return len(in.byID) }
