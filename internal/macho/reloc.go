package macho

import "io"

// RelocationInfoSize is the byte size of one relocation entry.
const RelocationInfoSize uint32 = 8

// Relocation lengths: the patch covers 2^len bytes.
const (
	RelocLenByte uint8 = 0 // 1 byte
	RelocLenWord uint8 = 1 // 2 bytes
	RelocLenLong uint8 = 2 // 4 bytes
	RelocLenQuad uint8 = 3 // 8 bytes
)

// x86-64 relocation types.
const (
	X8664RelocUnsigned   uint8 = 0 // absolute address
	X8664RelocSigned     uint8 = 1 // signed 32-bit displacement
	X8664RelocBranch     uint8 = 2 // CALL/JMP with 32-bit displacement
	X8664RelocGOTLoad    uint8 = 3 // MOVQ load of a GOT entry
	X8664RelocGOT        uint8 = 4 // other GOT references
	X8664RelocSubtractor uint8 = 5 // must be followed by an Unsigned entry
	X8664RelocSigned1    uint8 = 6 // signed 32-bit displacement, -1 addend
	X8664RelocSigned2    uint8 = 7 // signed 32-bit displacement, -2 addend
	X8664RelocSigned4    uint8 = 8 // signed 32-bit displacement, -4 addend
	X8664RelocTLV        uint8 = 9 // thread local variables
)

// RelocationInfo is one relocation entry. In MH_OBJECT files Addr is an
// offset from the start of the section to the item containing the address
// requiring relocation. SymbolNum is a symbol table index when Extern is
// set, a section ordinal otherwise.
type RelocationInfo struct {
	Addr      int32
	SymbolNum uint32 // 24 bits on the wire
	PCRel     bool
	Length    uint8 // the patch covers 2^Length bytes
	Extern    bool
	Type      uint8
}

// The loader header declares the second word as a C bitfield, whose wire
// layout the Mach-O specification leaves to the compiler. Prevailing
// compilers put r_symbolnum in the low 24 bits on little-endian targets,
// then pcrel, length, extern and type towards the high bits; that packing
// is hard-coded here rather than derived from any host layout.

// WriteTo serializes the entry.
func (ri RelocationInfo) WriteTo(w io.Writer) error {
	lw := leWriter{w: w}
	lw.i32(ri.Addr)

	var word uint32
	word |= ri.SymbolNum & 0x00FFFFFF
	if ri.PCRel {
		word |= 0x01000000
	}
	word |= uint32(ri.Length&0x3) << 25
	if ri.Extern {
		word |= 0x08000000
	}
	word |= uint32(ri.Type&0xF) << 28
	lw.u32(word)

	return lw.err
}

// ReadRelocationInfo deserializes an entry.
func ReadRelocationInfo(r io.Reader) (RelocationInfo, error) {
	lr := leReader{r: r}
	addr := lr.i32()
	word := lr.u32()
	if lr.err != nil {
		return RelocationInfo{}, lr.err
	}

	return RelocationInfo{
		Addr:      addr,
		SymbolNum: word & 0x00FFFFFF,
		PCRel:     word&0x01000000 != 0,
		Length:    uint8((word >> 25) & 0x3),
		Extern:    word&0x08000000 != 0,
		Type:      uint8(word >> 28),
	}, nil
}
