package macho

import (
	"fmt"
	"io"
)

// DysymtabCommandSize is the byte size of the dysymtab load command.
const DysymtabCommandSize uint32 = 0x50 // 80

// DysymtabCommand is the second set of symbolic information, used by the
// dynamic link editor. It groups the symbol table into local, externally
// defined and undefined symbols and locates the dynamic tables (table of
// contents, module table, reference and indirect symbol tables, and the
// split relocation pools).
//
// The object writer here never emits one; the record exists so a file
// containing it can still be decoded and so the wire layout is pinned by
// tests.
type DysymtabCommand struct {
	Cmd            uint32
	CmdSize        uint32
	ILocalSym      uint32
	NLocalSym      uint32
	IExtDefSym     uint32
	NExtDefSym     uint32
	IUndefSym      uint32
	NUndefSym      uint32
	TOCOff         uint32
	NTOC           uint32
	ModTabOff      uint32
	NModTab        uint32
	ExtRefSymOff   uint32
	NExtRefSyms    uint32
	IndirectSymOff uint32
	NIndirectSyms  uint32
	ExtRelOff      uint32
	NExtRel        uint32
	LocRelOff      uint32
	NLocRel        uint32
}

// WriteTo serializes the dysymtab command.
func (c DysymtabCommand) WriteTo(w io.Writer) error {
	lw := leWriter{w: w}
	lw.u32(c.Cmd)
	lw.u32(c.CmdSize)
	lw.u32(c.ILocalSym)
	lw.u32(c.NLocalSym)
	lw.u32(c.IExtDefSym)
	lw.u32(c.NExtDefSym)
	lw.u32(c.IUndefSym)
	lw.u32(c.NUndefSym)
	lw.u32(c.TOCOff)
	lw.u32(c.NTOC)
	lw.u32(c.ModTabOff)
	lw.u32(c.NModTab)
	lw.u32(c.ExtRefSymOff)
	lw.u32(c.NExtRefSyms)
	lw.u32(c.IndirectSymOff)
	lw.u32(c.NIndirectSyms)
	lw.u32(c.ExtRelOff)
	lw.u32(c.NExtRel)
	lw.u32(c.LocRelOff)
	lw.u32(c.NLocRel)
	return lw.err
}

// ReadDysymtabCommand deserializes a dysymtab command and validates its
// type and size.
func ReadDysymtabCommand(r io.Reader) (DysymtabCommand, error) {
	lr := leReader{r: r}
	c := DysymtabCommand{
		Cmd:            lr.u32(),
		CmdSize:        lr.u32(),
		ILocalSym:      lr.u32(),
		NLocalSym:      lr.u32(),
		IExtDefSym:     lr.u32(),
		NExtDefSym:     lr.u32(),
		IUndefSym:      lr.u32(),
		NUndefSym:      lr.u32(),
		TOCOff:         lr.u32(),
		NTOC:           lr.u32(),
		ModTabOff:      lr.u32(),
		NModTab:        lr.u32(),
		ExtRefSymOff:   lr.u32(),
		NExtRefSyms:    lr.u32(),
		IndirectSymOff: lr.u32(),
		NIndirectSyms:  lr.u32(),
		ExtRelOff:      lr.u32(),
		NExtRel:        lr.u32(),
		LocRelOff:      lr.u32(),
		NLocRel:        lr.u32(),
	}
	if lr.err != nil {
		return DysymtabCommand{}, lr.err
	}
	if c.Cmd != LCDysymtab {
		return DysymtabCommand{}, fmt.Errorf("macho: not a dysymtab command: %#x", c.Cmd)
	}
	if c.CmdSize != DysymtabCommandSize {
		return DysymtabCommand{}, fmt.Errorf("macho: dysymtab cmdsize %d, want %d", c.CmdSize, DysymtabCommandSize)
	}
	return c, nil
}
