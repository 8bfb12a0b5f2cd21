package macho

import (
	"fmt"
	"io"
)

// SymtabCommandSize is the byte size of the symtab load command.
const SymtabCommandSize uint32 = 0x18 // 24

// SymtabCommand locates the symbol table and the string table in the
// file.
type SymtabCommand struct {
	Cmd     uint32
	CmdSize uint32
	SymOff  uint32 // file offset of the nlist entries
	NSyms   uint32
	StrOff  uint32 // file offset of the string table
	StrSize uint32
}

// WriteTo serializes the symtab command.
func (c SymtabCommand) WriteTo(w io.Writer) error {
	lw := leWriter{w: w}
	lw.u32(c.Cmd)
	lw.u32(c.CmdSize)
	lw.u32(c.SymOff)
	lw.u32(c.NSyms)
	lw.u32(c.StrOff)
	lw.u32(c.StrSize)
	return lw.err
}

// ReadSymtabCommand deserializes a symtab command and validates its type
// and size.
func ReadSymtabCommand(r io.Reader) (SymtabCommand, error) {
	lr := leReader{r: r}
	c := SymtabCommand{
		Cmd:     lr.u32(),
		CmdSize: lr.u32(),
		SymOff:  lr.u32(),
		NSyms:   lr.u32(),
		StrOff:  lr.u32(),
		StrSize: lr.u32(),
	}
	if lr.err != nil {
		return SymtabCommand{}, lr.err
	}
	if c.Cmd != LCSymtab {
		return SymtabCommand{}, fmt.Errorf("macho: not a symtab command: %#x", c.Cmd)
	}
	if c.CmdSize != SymtabCommandSize {
		return SymtabCommand{}, fmt.Errorf("macho: symtab cmdsize %d, want %d", c.CmdSize, SymtabCommandSize)
	}
	return c, nil
}
