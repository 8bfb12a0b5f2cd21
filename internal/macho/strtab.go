package macho

import "fmt"

// StringTable is the Mach-O string table: a leading NUL so index 0 names
// the empty string, then each symbol name followed by its NUL terminator.
// Names are appended once per symbol, in symbol table order, so the table
// size is exactly 1 + Σ(len(name)+1).
type StringTable struct {
	data []byte
}

// NewStringTable returns a table holding only the leading NUL.
func NewStringTable() *StringTable {
	return &StringTable{data: []byte{0}}
}

// Add appends name (ASCII only) and returns the byte index of its first
// character.
func (t *StringTable) Add(name string) (uint32, error) {
	for i := 0; i < len(name); i++ {
		if name[i] == 0 || name[i] > 0x7F {
			return 0, fmt.Errorf("macho: symbol name %q is not ASCII", name)
		}
	}

	idx := uint32(len(t.data))
	t.data = append(t.data, name...)
	t.data = append(t.data, 0)
	return idx, nil
}

// Get returns the NUL-terminated string starting at byte index idx.
func (t *StringTable) Get(idx uint32) string {
	if int(idx) >= len(t.data) {
		return ""
	}
	end := int(idx)
	for end < len(t.data) && t.data[end] != 0 {
		end++
	}
	return string(t.data[idx:end])
}

// Len returns the table size in bytes.
func (t *StringTable) Len() uint32 {
	return uint32(len(t.data))
}

// Bytes returns the raw table.
func (t *StringTable) Bytes() []byte {
	return t.data
}
