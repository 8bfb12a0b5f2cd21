package macho

import (
	"fmt"
	"io"
)

// Magic number identifying a 64-bit Mach-O file of host endianness.
const MagicMachO64 uint32 = 0xFEEDFACF

// CPU type and subtype of the only supported target.
const (
	CPUTypeX8664       int32 = 0x01000007 // CPU_TYPE_X86 | CPU_ARCH_ABI64
	CPUSubtypeX8664All int32 = 0x3
)

// File types, declared in /usr/include/mach-o/loader.h.
const (
	FileTypeObject   uint32 = 0x1
	FileTypeExecute  uint32 = 0x2
	FileTypeFVMLib   uint32 = 0x3
	FileTypeCore     uint32 = 0x4
	FileTypePreload  uint32 = 0x5
	FileTypeDylib    uint32 = 0x6
	FileTypeDylinker uint32 = 0x7
	FileTypeBundle   uint32 = 0x8
	FileTypeDsym     uint32 = 0xA
)

// Header64Size is the byte size of the 64-bit Mach-O header.
const Header64Size uint32 = 0x20 // 32

// Header64 is the Mach-O file header.
type Header64 struct {
	Magic      uint32
	CPUType    int32
	CPUSubtype int32
	FileType   uint32
	NCmds      uint32
	SizeOfCmds uint32
	Flags      uint32
	Reserved   uint32
}

// WriteTo serializes the header.
func (h Header64) WriteTo(w io.Writer) error {
	lw := leWriter{w: w}
	lw.u32(h.Magic)
	lw.i32(h.CPUType)
	lw.i32(h.CPUSubtype)
	lw.u32(h.FileType)
	lw.u32(h.NCmds)
	lw.u32(h.SizeOfCmds)
	lw.u32(h.Flags)
	lw.u32(h.Reserved)
	return lw.err
}

// ReadHeader64 deserializes a header and validates the magic.
func ReadHeader64(r io.Reader) (Header64, error) {
	lr := leReader{r: r}
	h := Header64{
		Magic:      lr.u32(),
		CPUType:    lr.i32(),
		CPUSubtype: lr.i32(),
		FileType:   lr.u32(),
		NCmds:      lr.u32(),
		SizeOfCmds: lr.u32(),
		Flags:      lr.u32(),
		Reserved:   lr.u32(),
	}
	if lr.err != nil {
		return Header64{}, lr.err
	}
	if h.Magic != MagicMachO64 {
		return Header64{}, fmt.Errorf("macho: bad magic %#08x", h.Magic)
	}
	return h, nil
}
