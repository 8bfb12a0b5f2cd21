// Package obj holds the in-memory object model the assembler builds up:
// three sections (text, data, bss) with their raw bytes, symbols and
// relocations. The model owns everything it references; relocations point
// at symbols by name and the Mach-O writer resolves names to table
// indices in its final pass.
package obj

import "math"

// Object is one translation unit under construction. Sections are created
// empty, extended while the source is parsed, and read-only afterwards
// during emission.
type Object struct {
	Text TextSection
	Data DataSection
	Bss  BssSection
}

// New returns an Object with three empty sections.
func New() *Object {
	return &Object{}
}

// Sections returns the non-empty sections in the fixed text, data, bss
// order. The position of a section in this slice determines its 1-based
// ordinal in the emitted symbol table.
func (o *Object) Sections() []Section {
	all := []Section{&o.Text, &o.Data, &o.Bss}
	sects := make([]Section, 0, len(all))
	for _, s := range all {
		if s.VMSize() > 0 {
			sects = append(sects, s)
		}
	}
	return sects
}

// MarkGlobal sets the external bit on every symbol named name, across all
// sections. Undefined symbols are external already and are left alone.
func (o *Object) MarkGlobal(name string) {
	for _, syms := range [][]Symbol{o.Text.Symbols, o.Data.Symbols, o.Bss.Symbols} {
		for i := range syms {
			if syms[i].Name == name && syms[i].Kind != SymbolUndef {
				syms[i].Ext = true
			}
		}
	}
}

// FindSymbol reports whether a symbol named name is defined in any
// section.
func (o *Object) FindSymbol(name string) bool {
	for _, syms := range [][]Symbol{o.Text.Symbols, o.Data.Symbols, o.Bss.Symbols} {
		for i := range syms {
			if syms[i].Name == name {
				return true
			}
		}
	}
	return false
}

// Section is the read side of a section, consumed by the Mach-O writer.
type Section interface {
	// VMSize is the size the section occupies in memory once loaded.
	VMSize() uint64
	// FileData is the raw content stored in the file; empty for bss.
	FileData() []byte
	// SectionSymbols returns the symbols defined in this section, in
	// definition order.
	SectionSymbols() []Symbol
	// SectionRelocs returns the relocations recorded against this
	// section's content.
	SectionRelocs() []Reloc
}

// FileSize returns the number of bytes a section contributes to the file.
func FileSize(s Section) uint32 {
	return uint32(len(s.FileData()))
}

// TextSection holds executable code.
type TextSection struct {
	Bytes   []byte
	Symbols []Symbol
	Relocs  []Reloc
}

// DataSection holds initialized data.
type DataSection struct {
	Bytes   []byte
	Symbols []Symbol
	Relocs  []Reloc
}

// BssSection holds only a declared size; it never carries raw bytes.
type BssSection struct {
	Size    uint64
	Symbols []Symbol
}

func (s *TextSection) VMSize() uint64           { return uint64(len(s.Bytes)) }
func (s *TextSection) FileData() []byte         { return s.Bytes }
func (s *TextSection) SectionSymbols() []Symbol { return s.Symbols }
func (s *TextSection) SectionRelocs() []Reloc   { return s.Relocs }

func (s *DataSection) VMSize() uint64           { return uint64(len(s.Bytes)) }
func (s *DataSection) FileData() []byte         { return s.Bytes }
func (s *DataSection) SectionSymbols() []Symbol { return s.Symbols }
func (s *DataSection) SectionRelocs() []Reloc   { return s.Relocs }

func (s *BssSection) VMSize() uint64           { return s.Size }
func (s *BssSection) FileData() []byte         { return nil }
func (s *BssSection) SectionSymbols() []Symbol { return s.Symbols }
func (s *BssSection) SectionRelocs() []Reloc   { return nil }

// Append adds bytes to the text section and returns the address they
// landed at.
func (s *TextSection) Append(b []byte) uint64 {
	addr := uint64(len(s.Bytes))
	s.Bytes = append(s.Bytes, b...)
	return addr
}

// Append adds bytes to the data section and returns the address they
// landed at.
func (s *DataSection) Append(b []byte) uint64 {
	addr := uint64(len(s.Bytes))
	s.Bytes = append(s.Bytes, b...)
	return addr
}

// MaxSectionSize bounds every section payload; all Mach-O file offsets
// are 32-bit.
const MaxSectionSize = math.MaxUint32

// SymbolKind discriminates the three symbol variants.
type SymbolKind int

const (
	// SymbolUndef - referenced in this unit, defined elsewhere.
	SymbolUndef SymbolKind = iota
	// SymbolAbs - carries an absolute value, not subject to relocation.
	SymbolAbs
	// SymbolRef - defined at an address within its owning section.
	SymbolRef
)

// Symbol is one symbol table entry. Value is the absolute value for Abs
// symbols and the section-relative address for Ref symbols; it is unused
// for Undef.
type Symbol struct {
	Kind  SymbolKind
	Name  string
	Value uint64
	Ext   bool
}

// Undef returns a symbol referencing an external definition.
func Undef(name string) Symbol {
	return Symbol{Kind: SymbolUndef, Name: name}
}

// Abs returns a symbol with an absolute value.
func Abs(name string, val uint64, ext bool) Symbol {
	return Symbol{Kind: SymbolAbs, Name: name, Value: val, Ext: ext}
}

// Ref returns a symbol defined at addr within its owning section.
func Ref(name string, addr uint64, ext bool) Symbol {
	return Symbol{Kind: SymbolRef, Name: name, Value: addr, Ext: ext}
}

// Reloc is one relocation request. Addr is the byte offset inside the
// owning section of the first byte to be patched; Len encodes the patch
// width as 2^Len bytes.
type Reloc struct {
	Addr   int32
	Symbol string
	PCRel  bool
	Len    uint8
}
