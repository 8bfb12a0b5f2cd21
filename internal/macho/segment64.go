package macho

import (
	"fmt"
	"io"
)

// Load command types.
const (
	LCSegment64    uint32 = 0x19
	LCSymtab       uint32 = 0x2
	LCDysymtab     uint32 = 0xB
	LCBuildVersion uint32 = 0x32
)

// Fixed record sizes in bytes.
const (
	SegmentCommand64Size uint32 = 0x48 // 72, excludes trailing Section64 records
	Section64Size        uint32 = 0x50 // 80
)

// SegmentCommand64 maps a run of the file into memory. In an object file
// there is a single unnamed segment covering every section.
type SegmentCommand64 struct {
	Cmd      uint32
	CmdSize  uint32 // includes the trailing Section64 records
	SegName  string // 16 bytes on the wire
	VMAddr   uint64
	VMSize   uint64
	FileOff  uint64
	FileSize uint64
	MaxProt  int32
	InitProt int32
	NSects   uint32
	Flags    uint32
}

// WriteTo serializes the segment command, not including its sections.
func (c SegmentCommand64) WriteTo(w io.Writer) error {
	lw := leWriter{w: w}
	lw.u32(c.Cmd)
	lw.u32(c.CmdSize)
	lw.str16(c.SegName)
	lw.u64(c.VMAddr)
	lw.u64(c.VMSize)
	lw.u64(c.FileOff)
	lw.u64(c.FileSize)
	lw.i32(c.MaxProt)
	lw.i32(c.InitProt)
	lw.u32(c.NSects)
	lw.u32(c.Flags)
	return lw.err
}

// ReadSegmentCommand64 deserializes a segment command and validates its
// type and size fields.
func ReadSegmentCommand64(r io.Reader) (SegmentCommand64, error) {
	lr := leReader{r: r}
	c := SegmentCommand64{
		Cmd:      lr.u32(),
		CmdSize:  lr.u32(),
		SegName:  lr.str16(),
		VMAddr:   lr.u64(),
		VMSize:   lr.u64(),
		FileOff:  lr.u64(),
		FileSize: lr.u64(),
		MaxProt:  lr.i32(),
		InitProt: lr.i32(),
		NSects:   lr.u32(),
		Flags:    lr.u32(),
	}
	if lr.err != nil {
		return SegmentCommand64{}, lr.err
	}
	if c.Cmd != LCSegment64 {
		return SegmentCommand64{}, fmt.Errorf("macho: not a segment command: %#x", c.Cmd)
	}
	if c.CmdSize != SegmentCommand64Size+c.NSects*Section64Size {
		return SegmentCommand64{}, fmt.Errorf("macho: segment cmdsize %d inconsistent with %d sections", c.CmdSize, c.NSects)
	}
	return c, nil
}

// Section types (low byte of the section flags word).
const (
	SectionTypeRegular         uint32 = 0x0
	SectionTypeZerofill        uint32 = 0x1
	SectionTypeCstringLiterals uint32 = 0x2
	SectionType4ByteLiterals   uint32 = 0x3
	SectionType8ByteLiterals   uint32 = 0x4
	SectionTypeLiteralPointers uint32 = 0x5
	SectionTypeCoalesced       uint32 = 0xB
)

// Section attributes (upper three bytes of the section flags word).
const (
	SectionAttrPureInstructions uint32 = 0x80000000
	SectionAttrNoTOC            uint32 = 0x40000000
	SectionAttrStripStaticSyms  uint32 = 0x20000000
	SectionAttrLiveSupport      uint32 = 0x08000000
	SectionAttrDebug            uint32 = 0x02000000
	SectionAttrSomeInstructions uint32 = 0x00000400
	SectionAttrExtReloc         uint32 = 0x00000200
	SectionAttrLocReloc         uint32 = 0x00000100
)

// Section64 describes one section inside a segment.
type Section64 struct {
	SectName  string // 16 bytes on the wire
	SegName   string // 16 bytes on the wire
	Addr      uint64
	Size      uint64
	Offset    uint32
	Align     uint32 // power of 2
	RelOff    uint32
	NReloc    uint32
	Flags     uint32 // section type in the low byte, attributes above
	Reserved1 uint32
	Reserved2 uint32
	Reserved3 uint32
}

// WriteTo serializes the section record.
func (s Section64) WriteTo(w io.Writer) error {
	lw := leWriter{w: w}
	lw.str16(s.SectName)
	lw.str16(s.SegName)
	lw.u64(s.Addr)
	lw.u64(s.Size)
	lw.u32(s.Offset)
	lw.u32(s.Align)
	lw.u32(s.RelOff)
	lw.u32(s.NReloc)
	lw.u32(s.Flags)
	lw.u32(s.Reserved1)
	lw.u32(s.Reserved2)
	lw.u32(s.Reserved3)
	return lw.err
}

// ReadSection64 deserializes a section record.
func ReadSection64(r io.Reader) (Section64, error) {
	lr := leReader{r: r}
	s := Section64{
		SectName:  lr.str16(),
		SegName:   lr.str16(),
		Addr:      lr.u64(),
		Size:      lr.u64(),
		Offset:    lr.u32(),
		Align:     lr.u32(),
		RelOff:    lr.u32(),
		NReloc:    lr.u32(),
		Flags:     lr.u32(),
		Reserved1: lr.u32(),
		Reserved2: lr.u32(),
		Reserved3: lr.u32(),
	}
	return s, lr.err
}
