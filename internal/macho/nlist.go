package macho

import "io"

// NList64Size is the byte size of one symbol table entry.
const NList64Size uint32 = 0x10 // 16

// Subfield masks of the n_type byte.
const (
	NStabMask uint8 = 0xE0 // symbolic debugging entry if any bit set
	NPExtMask uint8 = 0x10 // private external
	NTypeMask uint8 = 0x0E
	NExtMask  uint8 = 0x01 // external
)

// N_TYPE values.
const (
	NUndf uint8 = 0x0 // undefined, n_sect == NoSect
	NAbs  uint8 = 0x2 // absolute, n_sect == NoSect
	NSect uint8 = 0xE // defined in section number n_sect
	NPbud uint8 = 0xC // prebound undefined (defined in a dylib)
	NIndr uint8 = 0xA // indirect
)

// Section ordinal bounds for the NSect field.
const (
	NoSect  uint8 = 0
	MaxSect uint8 = 255
)

// NList64 is one symbol table entry. Sect holds the 1-based ordinal of
// the section the symbol is defined in, counted over the sections in load
// command order, or NoSect.
type NList64 struct {
	StrX  uint32 // byte index of the name in the string table
	Type  uint8  // N_STAB | N_PEXT | N_TYPE | N_EXT packed subfields
	Sect  uint8
	Desc  uint16
	Value uint64
}

// WriteTo serializes the entry.
func (n NList64) WriteTo(w io.Writer) error {
	lw := leWriter{w: w}
	lw.u32(n.StrX)
	lw.u8(n.Type)
	lw.u8(n.Sect)
	lw.u16(n.Desc)
	lw.u64(n.Value)
	return lw.err
}

// ReadNList64 deserializes an entry.
func ReadNList64(r io.Reader) (NList64, error) {
	lr := leReader{r: r}
	n := NList64{
		StrX:  lr.u32(),
		Type:  lr.u8(),
		Sect:  lr.u8(),
		Desc:  lr.u16(),
		Value: lr.u64(),
	}
	return n, lr.err
}

// IsStab reports whether the entry is a symbolic debugging entry.
func (n NList64) IsStab() bool {
	return n.Type&NStabMask != 0
}
